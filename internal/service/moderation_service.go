package service

import (
	"context"

	"CivicReport/internal/model"
	"CivicReport/internal/pkg"
	"CivicReport/internal/repository/mysql"

	"gorm.io/gorm"
)

// ModerationService 三个面向用户的审核动词：join / leave / expel。
// 每个动词是一次完整事务；事件通过 outbox 异步扇出，
// 通知失败永远不会让这里的变更回滚。
type ModerationService struct {
	db           *gorm.DB
	communitySvc *CommunityService
	memberRepo   *mysql.MembershipRepository
}

func NewModerationService(db *gorm.DB, communitySvc *CommunityService) *ModerationService {
	return &ModerationService{
		db:           db,
		communitySvc: communitySvc,
		memberRepo:   &mysql.MembershipRepository{DB: db},
	}
}

// Join 加入社区。被驱逐的 (user, community) 对返回 Forbidden，
// 前端据此展示不可重试的永久受限状态，而非一般校验错误。
func (s *ModerationService) Join(ctx context.Context, userID, communityID uint64) (*model.Membership, error) {
	if userID == 0 || communityID == 0 {
		return nil, pkg.Validation("invalid user or community id")
	}
	if err := s.communitySvc.AssertMutable(ctx, communityID); err != nil {
		return nil, err
	}
	return s.memberRepo.Create(ctx, communityID, userID, model.RoleMember)
}

// Leave 退出社区。创建者不能退出：没有所有权转移机制，
// 创建者只能通过删除社区来放手。
func (s *ModerationService) Leave(ctx context.Context, userID, communityID uint64) error {
	if userID == 0 || communityID == 0 {
		return pkg.Validation("invalid user or community id")
	}
	c, err := s.communitySvc.Get(ctx, communityID)
	if err != nil {
		return err
	}
	if c.CreatorID == userID {
		return pkg.Forbidden("creator cannot leave, delete the community instead")
	}
	return s.memberRepo.MarkLeft(ctx, communityID, userID)
}

// Expel 驱逐成员。操作者必须是创建者或管理员；不允许自我驱逐，
// 不允许驱逐创建者。成功后在同一事务写入 user_expelled 事件，
// 受众为除目标与操作者外的在册成员。
func (s *ModerationService) Expel(ctx context.Context, actorID, communityID, targetID uint64, reason string) error {
	if actorID == 0 || communityID == 0 || targetID == 0 {
		return pkg.Validation("invalid user or community id")
	}
	if actorID == targetID {
		return pkg.Forbidden("cannot expel yourself")
	}

	c, err := s.communitySvc.Get(ctx, communityID)
	if err != nil {
		return err
	}
	if c.CreatorID == targetID {
		return pkg.Forbidden("creator cannot be expelled")
	}

	// 授权：创建者直接放行，其余要求活跃的 admin 成员身份
	if c.CreatorID != actorID {
		actor, err := s.memberRepo.Get(ctx, communityID, actorID)
		if err != nil {
			return pkg.Forbidden("only the creator or an admin can expel members")
		}
		if actor.Status != model.MemberActive || actor.Role < model.RoleAdmin {
			return pkg.Forbidden("only the creator or an admin can expel members")
		}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		memberRepo := &mysql.MembershipRepository{DB: tx}
		if err := memberRepo.MarkExpelled(ctx, communityID, targetID, reason); err != nil {
			return err
		}

		audience, err := memberRepo.ActiveUserIDs(ctx, communityID)
		if err != nil {
			return err
		}

		ev := newEvent(EventUserExpelled, communityID)
		ev.CommunityName = c.Name
		ev.ActorID = actorID
		ev.TargetID = targetID
		ev.Reason = reason
		ev.Audience = excludeIDs(audience, targetID, actorID)
		return insertOutbox(tx, ev)
	})
}
