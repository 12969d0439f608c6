package model

import "time"

// DeviceToken 推送终端。失效后仅置 active=false，不做物理删除（留作审计）。
type DeviceToken struct {
	ID         uint64 `gorm:"primaryKey"`
	UserID     uint64 `gorm:"not null;index"`
	Token      string `gorm:"uniqueIndex;size:255;not null"`
	Platform   string `gorm:"size:20;default:'unknown'"` // android / ios / web
	DeviceInfo string `gorm:"size:255"`
	Active     bool   `gorm:"not null;default:true"`
	LastUsedAt time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (DeviceToken) TableName() string { return "device_tokens" }
