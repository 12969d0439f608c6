package service

import (
	"context"

	"CivicReport/internal/model"
	"CivicReport/internal/pkg"
	"CivicReport/internal/repository/mysql"

	"gorm.io/gorm"
)

// CommunityService 社区生命周期：active ⇄ suspended，active/suspended → deleted（终态）。
// Community 表只允许通过这里变更。
type CommunityService struct {
	db       *gorm.DB
	repo     *mysql.CommunityRepository
	userRepo *mysql.UserRepository
}

func NewCommunityService(db *gorm.DB) *CommunityService {
	return &CommunityService{
		db:       db,
		repo:     &mysql.CommunityRepository{DB: db},
		userRepo: &mysql.UserRepository{DB: db},
	}
}

// assertPlatformAdmin 挂起/恢复属于平台管理动作，普通用户不可触发。
func (s *CommunityService) assertPlatformAdmin(ctx context.Context, userID uint64) error {
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if u.Role < 1 {
		return pkg.Forbidden("platform admin required")
	}
	return nil
}

func (s *CommunityService) Create(ctx context.Context, userID uint64, name, desc string) (*model.Community, error) {
	if userID == 0 {
		return nil, pkg.Validation("invalid user id")
	}
	if name == "" {
		return nil, pkg.Validation("community name required")
	}

	community := &model.Community{
		Name:        name,
		Description: desc,
		CreatorID:   userID,
		State:       model.CommunityActive,
	}
	return s.repo.Create(ctx, community)
}

func (s *CommunityService) Get(ctx context.Context, id uint64) (*model.Community, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// 已删除社区对外等同不存在
	if c.State == model.CommunityDeleted {
		return nil, pkg.NotFound("community not found")
	}
	return c, nil
}

func (s *CommunityService) List(ctx context.Context, page, size int) ([]model.Community, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}
	return s.repo.List(ctx, (page-1)*size, size)
}

// Suspend 只允许从 active 迁入
func (s *CommunityService) Suspend(ctx context.Context, actorID, id uint64) error {
	if err := s.assertPlatformAdmin(ctx, actorID); err != nil {
		return err
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	affected, err := s.repo.UpdateState(ctx, id, model.CommunityActive, model.CommunitySuspended)
	if err != nil {
		return err
	}
	if affected == 0 {
		return pkg.Conflict("community is not active")
	}
	return nil
}

// Reactivate 只允许从 suspended 迁回
func (s *CommunityService) Reactivate(ctx context.Context, actorID, id uint64) error {
	if err := s.assertPlatformAdmin(ctx, actorID); err != nil {
		return err
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	affected, err := s.repo.UpdateState(ctx, id, model.CommunitySuspended, model.CommunityActive)
	if err != nil {
		return err
	}
	if affected == 0 {
		return pkg.Conflict("community is not suspended")
	}
	return nil
}

// AssertMutable 内容写入守卫：发帖等产出内容的动作前必须调用。
// suspended → Forbidden("community suspended")，调用方原样透出给终端用户；
// deleted/不存在 → NotFound。
func (s *CommunityService) AssertMutable(ctx context.Context, id uint64) error {
	c, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if c.State == model.CommunitySuspended {
		return pkg.Forbidden("community suspended")
	}
	return nil
}

// DeleteInTx 事务内置为 deleted，并在成员行还在时先取快照返回——
// 删除之后成员列表不再可查，级联方全靠这份快照计算通知受众。
func (s *CommunityService) DeleteInTx(tx *gorm.DB, id uint64) ([]model.Membership, error) {
	repo := &mysql.CommunityRepository{DB: tx}
	c, err := repo.FindForUpdate(tx, id)
	if err != nil {
		return nil, err
	}
	if c.State == model.CommunityDeleted {
		return nil, pkg.NotFound("community not found")
	}

	memberRepo := &mysql.MembershipRepository{DB: tx}
	snapshot, err := memberRepo.ListMembers(tx.Statement.Context, id, model.MemberActive)
	if err != nil {
		return nil, err
	}

	if err := repo.MarkDeleted(tx, id); err != nil {
		return nil, err
	}
	return snapshot, nil
}
