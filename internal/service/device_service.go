package service

import (
	"context"

	"CivicReport/internal/model"
	"CivicReport/internal/pkg"
	"CivicReport/internal/repository/mysql"

	"gorm.io/gorm"
)

// DeviceService 设备 token 注册表
type DeviceService struct {
	repo *mysql.DeviceTokenRepository
}

func NewDeviceService(db *gorm.DB) *DeviceService {
	return &DeviceService{repo: &mysql.DeviceTokenRepository{DB: db}}
}

// Register app 启动时调用，重复注册是常态（upsert + 重新激活）。
func (s *DeviceService) Register(ctx context.Context, userID uint64, token, platform, deviceInfo string) error {
	if userID == 0 {
		return pkg.Validation("invalid user id")
	}
	if token == "" {
		return pkg.Validation("device token required")
	}
	if platform == "" {
		platform = "unknown"
	}
	return s.repo.Upsert(ctx, &model.DeviceToken{
		UserID:     userID,
		Token:      token,
		Platform:   platform,
		DeviceInfo: deviceInfo,
	})
}

func (s *DeviceService) Deactivate(ctx context.Context, token string) error {
	if token == "" {
		return pkg.Validation("device token required")
	}
	return s.repo.Deactivate(ctx, token)
}

func (s *DeviceService) ListActive(ctx context.Context, userID uint64) ([]model.DeviceToken, error) {
	return s.repo.ListActive(ctx, userID)
}
