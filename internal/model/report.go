package model

import "time"

// Report 社区内的民情上报内容
type Report struct {
	ID          uint64    `gorm:"primaryKey"`
	CommunityID uint64    `gorm:"not null;index:idx_comm_time_id,priority:1"`
	AuthorID    uint64    `gorm:"not null;index:idx_author"`
	Title       string    `gorm:"size:200;not null"`
	Content     string    `gorm:"type:text"`
	Status      int8      `gorm:"not null;default:0;comment:'0=normal,1=deleted'"`
	CreatedAt   time.Time `gorm:"index:idx_comm_time_id,priority:2,sort:desc"`
	UpdatedAt   time.Time
}
