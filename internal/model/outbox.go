package model

import "time"

// ModerationOutbox 事务性事件表：membership/community 变更与事件写入同一事务，
// 由 relayer 异步取出投递，保证通知失败不会回滚业务变更。
type ModerationOutbox struct {
	ID          uint64 `gorm:"primaryKey"`
	EventID     string `gorm:"size:36;not null;uniqueIndex"`
	EventType   string `gorm:"size:32;not null"` // user_expelled / community_deleted / report_posted
	CommunityID uint64 `gorm:"not null;index"`
	Payload     string `gorm:"type:json;not null"`
	Status      int8   `gorm:"not null;default:0;comment:'0=pending,1=sent,2=failed'"`
	Retry       int    `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (ModerationOutbox) TableName() string { return "moderation_outbox" }
