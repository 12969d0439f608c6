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

// MembershipRepository 持有 (user, community) 唯一性与驱逐不可逆两条核心不变量。
// 所有写入都走这里，handler/service 不允许直接碰 memberships 表。
type MembershipRepository struct {
	DB *gorm.DB
}

func (r *MembershipRepository) Get(ctx context.Context, communityID, userID uint64) (*model.Membership, error) {
	var m model.Membership
	err := r.DB.WithContext(ctx).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.NotFound("membership not found")
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create 加入社区。select for update 串行化同一对 (community, user) 的并发 join，
// 唯一索引 uk_community_user 做兜底：同一对并发请求恰好一个成功、一个 Conflict。
//   - 已是 active 成员 → Conflict
//   - 曾被驱逐       → Forbidden（终态，任何用户操作都不可解除）
//   - 曾主动退出     → 原行复活（保持一对一行）
func (r *MembershipRepository) Create(ctx context.Context, communityID, userID uint64, role int8) (*model.Membership, error) {
	var out model.Membership
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m model.Membership
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("community_id = ? AND user_id = ?", communityID, userID).
			First(&m).Error

		now := time.Now()
		if err == nil {
			switch m.Status {
			case model.MemberActive:
				return pkg.Conflict("already a member")
			case model.MemberExpelled:
				return pkg.Forbidden("permanently expelled from this community")
			}
			// status=left：复活原行，重置加入时间
			if err := tx.Model(&model.Membership{}).
				Where("id = ? AND status = ?", m.ID, model.MemberLeft).
				Updates(map[string]any{
					"status":    model.MemberActive,
					"role":      role,
					"joined_at": now,
				}).Error; err != nil {
				return err
			}
			m.Status = model.MemberActive
			m.Role = role
			m.JoinedAt = now
			out = m
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		m = model.Membership{
			CommunityID: communityID,
			UserID:      userID,
			Role:        role,
			Status:      model.MemberActive,
			JoinedAt:    now,
		}
		if err := tx.Create(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return pkg.Conflict("already a member")
			}
			return err
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// MarkLeft 主动退出，非终态。
func (r *MembershipRepository) MarkLeft(ctx context.Context, communityID, userID uint64) error {
	res := r.DB.WithContext(ctx).Model(&model.Membership{}).
		Where("community_id = ? AND user_id = ? AND status = ?", communityID, userID, model.MemberActive).
		Update("status", model.MemberLeft)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkg.NotFound("membership not found")
	}
	return nil
}

// MarkExpelled 驱逐，终态。此状态没有任何面向用户的解除路径。
func (r *MembershipRepository) MarkExpelled(ctx context.Context, communityID, userID uint64, reason string) error {
	res := r.DB.WithContext(ctx).Model(&model.Membership{}).
		Where("community_id = ? AND user_id = ? AND status = ?", communityID, userID, model.MemberActive).
		Updates(map[string]any{
			"status":       model.MemberExpelled,
			"expel_reason": reason,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkg.NotFound("membership not found")
	}
	return nil
}

// ListMembers 按加入时间排序，作为扇出受众的数据源。
func (r *MembershipRepository) ListMembers(ctx context.Context, communityID uint64, status int8) ([]model.Membership, error) {
	var list []model.Membership
	err := r.DB.WithContext(ctx).
		Where("community_id = ? AND status = ?", communityID, status).
		Order("joined_at ASC, id ASC").
		Find(&list).Error
	return list, err
}

func (r *MembershipRepository) ActiveUserIDs(ctx context.Context, communityID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.DB.WithContext(ctx).Model(&model.Membership{}).
		Where("community_id = ? AND status = ?", communityID, model.MemberActive).
		Order("joined_at ASC, id ASC").
		Pluck("user_id", &ids).Error
	return ids, err
}

// DeleteByCommunity 级联清理专用，普通 leave 永远不会删行。
func (r *MembershipRepository) DeleteByCommunity(tx *gorm.DB, communityID uint64) error {
	return tx.Where("community_id = ?", communityID).Delete(&model.Membership{}).Error
}

func (r *MembershipRepository) DeleteByUser(ctx context.Context, userID uint64) error {
	return r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.Membership{}).Error
}
