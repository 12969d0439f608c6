package service

import (
	"context"
	"log"

	"CivicReport/internal/pkg"
	"CivicReport/internal/repository/mysql"

	"gorm.io/gorm"
)

// CascadeService 账号删除的级联编排。每个社区一个独立事务，
// 单个社区清理失败只记日志，不阻塞其余社区——部分清理完成
// 好过整个注销被卡死；中途崩溃最多留下一个社区的残余。
type CascadeService struct {
	db            *gorm.DB
	communitySvc  *CommunityService
	communityRepo *mysql.CommunityRepository
	memberRepo    *mysql.MembershipRepository
	reportRepo    *mysql.ReportRepository
	deviceRepo    *mysql.DeviceTokenRepository
}

func NewCascadeService(db *gorm.DB, communitySvc *CommunityService) *CascadeService {
	return &CascadeService{
		db:            db,
		communitySvc:  communitySvc,
		communityRepo: &mysql.CommunityRepository{DB: db},
		memberRepo:    &mysql.MembershipRepository{DB: db},
		reportRepo:    &mysql.ReportRepository{DB: db},
		deviceRepo:    &mysql.DeviceTokenRepository{DB: db},
	}
}

// DeleteUserAccount 账号删除集成点：由账号子系统在删号时调用。
func (s *CascadeService) DeleteUserAccount(ctx context.Context, userID uint64) error {
	if userID == 0 {
		return pkg.Validation("invalid user id")
	}

	// 1. 其创建的每个社区独立级联
	communities, err := s.communityRepo.CreatedBy(ctx, userID)
	if err != nil {
		return err
	}
	for _, c := range communities {
		if err := s.CascadeCommunity(ctx, c.ID, userID); err != nil {
			log.Printf("cascade community %d failed: %v", c.ID, err)
			continue
		}
	}

	// 2. 与上面无关：清理其作为普通成员/作者的痕迹，停掉推送
	if err := s.memberRepo.DeleteByUser(ctx, userID); err != nil {
		log.Printf("cascade memberships of user %d failed: %v", userID, err)
	}
	if err := s.reportRepo.DeleteByAuthor(ctx, userID); err != nil {
		log.Printf("cascade reports of user %d failed: %v", userID, err)
	}
	if err := s.deviceRepo.DeactivateByUser(ctx, userID); err != nil {
		log.Printf("deactivate tokens of user %d failed: %v", userID, err)
	}
	return nil
}

// CascadeCommunity 单个社区的完整级联（一个事务）：
// 成员快照 → 置 deleted → 删成员行 → 删内容行 → 写 community_deleted 事件。
// 快照在删除前取好，事件受众排除被删账号本人。
func (s *CascadeService) CascadeCommunity(ctx context.Context, communityID, excludeUserID uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		snapshot, err := s.communitySvc.DeleteInTx(tx, communityID)
		if err != nil {
			return err
		}

		memberRepo := &mysql.MembershipRepository{DB: tx}
		if err := memberRepo.DeleteByCommunity(tx, communityID); err != nil {
			return err
		}
		reportRepo := &mysql.ReportRepository{DB: tx}
		if err := reportRepo.DeleteByCommunity(tx, communityID); err != nil {
			return err
		}

		audience := make([]uint64, 0, len(snapshot))
		for _, m := range snapshot {
			audience = append(audience, m.UserID)
		}

		ev := newEvent(EventCommunityDeleted, communityID)
		ev.ActorID = excludeUserID
		ev.Audience = excludeIDs(audience, excludeUserID)
		return insertOutbox(tx, ev)
	})
}

// DeleteCommunity 创建者主动删除社区，复用同一条级联路径。
func (s *CascadeService) DeleteCommunity(ctx context.Context, actorID, communityID uint64) error {
	if actorID == 0 || communityID == 0 {
		return pkg.Validation("invalid user or community id")
	}
	c, err := s.communitySvc.Get(ctx, communityID)
	if err != nil {
		return err
	}
	if c.CreatorID != actorID {
		return pkg.Forbidden("only the creator can delete the community")
	}
	return s.CascadeCommunity(ctx, communityID, actorID)
}
