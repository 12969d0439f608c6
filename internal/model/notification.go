package model

import "time"

// NotificationRecord 投递结果
const (
	DispatchSent   int8 = 0
	DispatchFailed int8 = 1
)

// NotificationRecord 每个 (事件, 接收人) 一条，记录"该用户是否被通知到"。
// 同一用户多个设备时保留最后一次尝试的结果。
type NotificationRecord struct {
	ID          uint64 `gorm:"primaryKey"`
	EventID     string `gorm:"size:36;not null;uniqueIndex:uk_event_recipient"`
	RecipientID uint64 `gorm:"not null;index;uniqueIndex:uk_event_recipient"`
	Title       string `gorm:"size:200;not null"`
	Body        string `gorm:"size:500"`
	Payload     string `gorm:"type:json"`
	Status      int8   `gorm:"not null;default:0;comment:'0=sent,1=failed'"`
	CreatedAt   time.Time
}

func (NotificationRecord) TableName() string { return "notification_records" }

// NotificationBatchLog 每次扇出一条汇总，只做审计与指标，不参与投递逻辑。
type NotificationBatchLog struct {
	ID              uint64 `gorm:"primaryKey"`
	EventID         string `gorm:"size:36;not null;index"`
	EventType       string `gorm:"size:32;not null"`
	CommunityID     uint64 `gorm:"not null;index"`
	TotalRecipients int    `gorm:"not null"`
	SentCount       int    `gorm:"not null"`
	FailedCount     int    `gorm:"not null"`
	CreatedAt       time.Time
}

func (NotificationBatchLog) TableName() string { return "notification_batch_logs" }
