package service

import (
	"context"

	"CivicReport/internal/model"
	"CivicReport/internal/pkg"
	"CivicReport/internal/repository/mysql"

	"gorm.io/gorm"
)

// ReportService 社区内容。写入前必须过 AssertMutable 守卫，
// 读取不受 suspended 影响。
type ReportService struct {
	db           *gorm.DB
	repo         *mysql.ReportRepository
	memberRepo   *mysql.MembershipRepository
	communitySvc *CommunityService
}

func NewReportService(db *gorm.DB, communitySvc *CommunityService) *ReportService {
	return &ReportService{
		db:           db,
		repo:         &mysql.ReportRepository{DB: db},
		memberRepo:   &mysql.MembershipRepository{DB: db},
		communitySvc: communitySvc,
	}
}

// Create 发布上报：守卫 + 活跃成员校验，成功后发 report_posted 事件，
// 受众为除作者外的在册成员。
func (s *ReportService) Create(ctx context.Context, userID, communityID uint64, title, content string) (*model.Report, error) {
	if userID == 0 || communityID == 0 {
		return nil, pkg.Validation("invalid user or community id")
	}
	if title == "" {
		return nil, pkg.Validation("title required")
	}

	// suspended → Forbidden("community suspended")，原样透出
	if err := s.communitySvc.AssertMutable(ctx, communityID); err != nil {
		return nil, err
	}

	m, err := s.memberRepo.Get(ctx, communityID, userID)
	if err != nil || m.Status != model.MemberActive {
		return nil, pkg.Forbidden("not a member")
	}

	report := &model.Report{
		CommunityID: communityID,
		AuthorID:    userID,
		Title:       title,
		Content:     content,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := &mysql.ReportRepository{DB: tx}
		if err := repo.Create(ctx, report); err != nil {
			return err
		}

		memberRepo := &mysql.MembershipRepository{DB: tx}
		audience, err := memberRepo.ActiveUserIDs(ctx, communityID)
		if err != nil {
			return err
		}

		ev := newEvent(EventReportPosted, communityID)
		ev.ActorID = userID
		ev.Audience = excludeIDs(audience, userID)
		return insertOutbox(tx, ev)
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// ListByCommunity 挂起状态下仍可读
func (s *ReportService) ListByCommunity(ctx context.Context, communityID uint64, lastID uint64, lastCreatedAt int64, size int) ([]model.Report, uint64, int64, error) {
	if size <= 0 || size > 50 {
		size = 20
	}
	if _, err := s.communitySvc.Get(ctx, communityID); err != nil {
		return nil, 0, 0, err
	}
	list, err := s.repo.ListByCommunityCursor(ctx, communityID, lastID, lastCreatedAt, size)
	if err != nil {
		return nil, 0, 0, err
	}
	var nextID uint64
	var nextTS int64
	if len(list) > 0 {
		last := list[len(list)-1]
		nextID = last.ID
		nextTS = last.CreatedAt.Unix()
	}
	return list, nextID, nextTS, nil
}

// Delete 幂等删除：作者或管理员可删；已删除视为成功。
func (s *ReportService) Delete(ctx context.Context, userID, reportID uint64) error {
	affected, err := s.repo.DeleteWithPermission(ctx, reportID, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		// 读不到则已删除，幂等成功；还能读到说明无权限
		if _, err := s.repo.FindByID(ctx, reportID); err != nil {
			return nil
		}
		return pkg.Forbidden("no permission")
	}
	return nil
}
