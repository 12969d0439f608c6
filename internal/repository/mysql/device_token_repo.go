package mysql

import (
	"context"
	"time"

	"CivicReport/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DeviceTokenRepository struct {
	DB *gorm.DB
}

// Upsert 设备重装/重启 app 后会带同一 token 再次注册：
// 原子 upsert，既有行被重新激活并刷新归属与设备信息。
func (r *DeviceTokenRepository) Upsert(ctx context.Context, t *model.DeviceToken) error {
	t.Active = true
	t.LastUsedAt = time.Now()
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"user_id", "platform", "device_info", "active", "last_used_at", "updated_at",
		}),
	}).Create(t).Error
}

// Deactivate 原地停用，不做物理删除。
func (r *DeviceTokenRepository) Deactivate(ctx context.Context, token string) error {
	return r.DB.WithContext(ctx).Model(&model.DeviceToken{}).
		Where("token = ?", token).
		Update("active", false).Error
}

func (r *DeviceTokenRepository) ListActive(ctx context.Context, userID uint64) ([]model.DeviceToken, error) {
	var list []model.DeviceToken
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND active = ?", userID, true).
		Find(&list).Error
	return list, err
}

// DeactivateByUser 账号注销后停止一切推送。
func (r *DeviceTokenRepository) DeactivateByUser(ctx context.Context, userID uint64) error {
	return r.DB.WithContext(ctx).Model(&model.DeviceToken{}).
		Where("user_id = ?", userID).
		Update("active", false).Error
}
