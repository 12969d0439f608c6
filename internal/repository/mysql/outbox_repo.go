package mysql

import (
	"context"

	"CivicReport/internal/model"

	"gorm.io/gorm"
)

type OutboxRepository struct {
	DB *gorm.DB
}

// Insert 与业务变更同一事务写入，tx 由调用方传入。
func (r *OutboxRepository) Insert(tx *gorm.DB, ob *model.ModerationOutbox) error {
	return tx.Create(ob).Error
}

// ListPending relayer 批量取待投递事件
func (r *OutboxRepository) ListPending(ctx context.Context, batchSize int) ([]model.ModerationOutbox, error) {
	var list []model.ModerationOutbox
	if err := r.DB.WithContext(ctx).
		Where("status = 0").
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// MarkFailed 投递失败计数，仅做观测，不自动重投。
func (r *OutboxRepository) MarkFailed(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.ModerationOutbox{}).Where("id = ?", id).
		Updates(map[string]any{"status": 2, "retry": gorm.Expr("retry + 1")}).Error
}

func (r *OutboxRepository) MarkSent(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.ModerationOutbox{}).Where("id = ?", id).
		Update("status", 1).Error
}
