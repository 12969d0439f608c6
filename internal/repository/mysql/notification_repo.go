package mysql

import (
	"context"

	"CivicReport/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NotificationRepository struct {
	DB *gorm.DB
}

// SaveRecord 每个 (事件, 接收人) 保留一条；同一用户多设备时
// 后处理的尝试覆盖先前结果（记录的是"此人是否被通知到"）。
func (r *NotificationRepository) SaveRecord(ctx context.Context, rec *model.NotificationRecord) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}, {Name: "recipient_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "title", "body", "payload"}),
	}).Create(rec).Error
}

func (r *NotificationRepository) SaveBatchLog(ctx context.Context, logRow *model.NotificationBatchLog) error {
	return r.DB.WithContext(ctx).Create(logRow).Error
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, userID uint64, limit int) ([]model.NotificationRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var list []model.NotificationRecord
	err := r.DB.WithContext(ctx).
		Where("recipient_id = ?", userID).
		Order("id DESC").Limit(limit).
		Find(&list).Error
	return list, err
}
