package mysql

import (
	"context"
	"errors"
	"time"

	"CivicReport/internal/model"
	"CivicReport/internal/pkg"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommunityRepository struct {
	DB *gorm.DB
}

// Create 社区与创建者成员关系在同一事务落库，creator 角色隐式持有。
func (r *CommunityRepository) Create(ctx context.Context, c *model.Community) (*model.Community, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return pkg.Conflict("community name already taken")
			}
			return err
		}
		m := &model.Membership{
			CommunityID: c.ID,
			UserID:      c.CreatorID,
			Role:        model.RoleCreator,
			Status:      model.MemberActive,
			JoinedAt:    time.Now(),
		}
		return tx.Create(m).Error
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CommunityRepository) FindByID(ctx context.Context, id uint64) (*model.Community, error) {
	var c model.Community
	err := r.DB.WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.NotFound("community not found")
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FindForUpdate 事务内行锁读，删除/级联路径用。
func (r *CommunityRepository) FindForUpdate(tx *gorm.DB, id uint64) (*model.Community, error) {
	var c model.Community
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.NotFound("community not found")
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List 被删除的社区对外不可见
func (r *CommunityRepository) List(ctx context.Context, offset, limit int) ([]model.Community, error) {
	var list []model.Community
	err := r.DB.WithContext(ctx).
		Where("state <> ?", model.CommunityDeleted).
		Order("id desc").Offset(offset).Limit(limit).
		Find(&list).Error
	return list, err
}

// UpdateState 乐观状态迁移：只有处于 from 状态才允许迁到 to。
// 返回受影响行数，0 表示非法迁移（由调用方报 Conflict）。
func (r *CommunityRepository) UpdateState(ctx context.Context, id uint64, from, to int8) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&model.Community{}).
		Where("id = ? AND state = ?", id, from).
		Update("state", to)
	return res.RowsAffected, res.Error
}

// MarkDeleted 事务内置为终态 deleted。
func (r *CommunityRepository) MarkDeleted(tx *gorm.DB, id uint64) error {
	return tx.Model(&model.Community{}).
		Where("id = ? AND state <> ?", id, model.CommunityDeleted).
		Update("state", model.CommunityDeleted).Error
}

// CreatedBy 该用户创建的全部未删除社区，账号注销时逐个级联。
func (r *CommunityRepository) CreatedBy(ctx context.Context, userID uint64) ([]model.Community, error) {
	var list []model.Community
	err := r.DB.WithContext(ctx).
		Where("creator_id = ? AND state <> ?", userID, model.CommunityDeleted).
		Order("id ASC").
		Find(&list).Error
	return list, err
}
