package mysql

import (
	"context"
	"errors"

	"CivicReport/internal/model"
	"CivicReport/internal/pkg"

	"gorm.io/gorm"
)

type ReportRepository struct {
	DB *gorm.DB
}

func (r *ReportRepository) Create(ctx context.Context, report *model.Report) error {
	return r.DB.WithContext(ctx).Create(report).Error
}

func (r *ReportRepository) FindByID(ctx context.Context, id uint64) (*model.Report, error) {
	var report model.Report
	err := r.DB.WithContext(ctx).First(&report, "id = ? AND status = 0", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.NotFound("report not found")
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// ListByCommunityCursor 时间游标分页：索引 (community_id, created_at DESC)
// lastCreatedAt=0 表示第一页；否则以 (created_at, id) 作为严格游标
func (r *ReportRepository) ListByCommunityCursor(ctx context.Context, communityID uint64, lastID uint64, lastCreatedAt int64, limit int) ([]model.Report, error) {
	var list []model.Report
	q := r.DB.WithContext(ctx).Where("community_id = ? AND status = 0", communityID)
	if lastCreatedAt > 0 {
		// 先比时间，同一时间点用 id 打破并列
		q = q.Where("(created_at < FROM_UNIXTIME(?) OR (created_at = FROM_UNIXTIME(?) AND id < ?))", lastCreatedAt, lastCreatedAt, lastID)
	}
	err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&list).Error
	return list, err
}

// DeleteWithPermission 一步带权限软删除：作者或活跃管理员方可删除；幂等。
func (r *ReportRepository) DeleteWithPermission(ctx context.Context, reportID, operatorID uint64) (affected int64, err error) {
	tx := r.DB.WithContext(ctx).Exec(`
		UPDATE reports p
		JOIN (SELECT id, community_id, author_id, status FROM reports WHERE id = ?) x ON x.id = p.id
		SET p.status = 1
		WHERE p.id = ? AND p.status = 0
		  AND (x.author_id = ? OR EXISTS (
		       SELECT 1 FROM memberships m
		       WHERE m.community_id = x.community_id AND m.user_id = ?
		         AND m.role >= 1 AND m.status = 0
		  ))`,
		reportID, reportID, operatorID, operatorID,
	)
	return tx.RowsAffected, tx.Error
}

// DeleteByCommunity 级联清理：社区删除时硬删其全部内容。
func (r *ReportRepository) DeleteByCommunity(tx *gorm.DB, communityID uint64) error {
	return tx.Where("community_id = ?", communityID).Delete(&model.Report{}).Error
}

func (r *ReportRepository) DeleteByAuthor(ctx context.Context, authorID uint64) error {
	return r.DB.WithContext(ctx).Where("author_id = ?", authorID).Delete(&model.Report{}).Error
}
