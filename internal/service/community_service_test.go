package service

import (
	"context"
	"testing"

	"CivicReport/internal/model"
	"CivicReport/internal/pkg"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestCommunityCreate(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer sqldb.Close()

	svc := NewCommunityService(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `communities`").
		WillReturnResult(sqlmock.NewResult(10, 1))
	mock.ExpectExec("INSERT INTO `memberships`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	c, err := svc.Create(context.Background(), 1, "Riverside", "flood watch")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.ID != 10 || c.State != model.CommunityActive || c.CreatorID != 1 {
		t.Fatalf("created community = %+v", c)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestCommunityCreateValidation(t *testing.T) {
	db, _, sqldb := newMockDB(t)
	defer sqldb.Close()

	svc := NewCommunityService(db)
	if _, err := svc.Create(context.Background(), 1, "", ""); pkg.KindOf(err) != pkg.KindValidation {
		t.Fatalf("expected Validation, got %v", err)
	}
}

// 已删除的社区对外等同不存在
func TestCommunityGetDeleted(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer sqldb.Close()

	svc := NewCommunityService(db)

	mock.ExpectQuery("SELECT (.+) FROM `communities`").
		WillReturnRows(communityRows(10, "Riverside", 1, model.CommunityDeleted))

	_, err := svc.Get(context.Background(), 10)
	if pkg.KindOf(err) != pkg.KindNotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestCommunityGetMissing(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer sqldb.Close()

	svc := NewCommunityService(db)

	mock.ExpectQuery("SELECT (.+) FROM `communities`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "creator_id", "state"}))

	_, err := svc.Get(context.Background(), 99)
	if pkg.KindOf(err) != pkg.KindNotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestSuspendRequiresPlatformAdmin(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer sqldb.Close()

	svc := NewCommunityService(db)

	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(userRows(2, "alice", 0))

	err := svc.Suspend(context.Background(), 2, 10)
	if pkg.KindOf(err) != pkg.KindForbidden {
		t.Fatalf("expected Forbidden, got %v", err)
	}
}

func TestSuspend(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer sqldb.Close()

	svc := NewCommunityService(db)

	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(userRows(2, "admin", 1))
	mock.ExpectQuery("SELECT (.+) FROM `communities`").
		WillReturnRows(communityRows(10, "Riverside", 1, model.CommunityActive))
	mock.ExpectExec("UPDATE `communities` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := svc.Suspend(context.Background(), 2, 10); err != nil {
		t.Fatalf("Suspend: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

// 乐观迁移没有命中行：状态不是 active → Conflict
func TestSuspendNotActiveConflict(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer sqldb.Close()

	svc := NewCommunityService(db)

	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(userRows(2, "admin", 1))
	mock.ExpectQuery("SELECT (.+) FROM `communities`").
		WillReturnRows(communityRows(10, "Riverside", 1, model.CommunitySuspended))
	mock.ExpectExec("UPDATE `communities` SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := svc.Suspend(context.Background(), 2, 10)
	if pkg.KindOf(err) != pkg.KindConflict {
		t.Fatalf("expected Conflict, got %v", err)
	}
}

func TestReactivate(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer sqldb.Close()

	svc := NewCommunityService(db)

	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(userRows(2, "admin", 1))
	mock.ExpectQuery("SELECT (.+) FROM `communities`").
		WillReturnRows(communityRows(10, "Riverside", 1, model.CommunitySuspended))
	mock.ExpectExec("UPDATE `communities` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := svc.Reactivate(context.Background(), 2, 10); err != nil {
		t.Fatalf("Reactivate: %v", err)
	}
}

func TestAssertMutable(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer sqldb.Close()

	svc := NewCommunityService(db)

	mock.ExpectQuery("SELECT (.+) FROM `communities`").
		WillReturnRows(communityRows(10, "Riverside", 1, model.CommunitySuspended))
	err := svc.AssertMutable(context.Background(), 10)
	if pkg.KindOf(err) != pkg.KindForbidden || err.Error() != "community suspended" {
		t.Fatalf("suspended guard = %v", err)
	}

	mock.ExpectQuery("SELECT (.+) FROM `communities`").
		WillReturnRows(communityRows(10, "Riverside", 1, model.CommunityDeleted))
	if err := svc.AssertMutable(context.Background(), 10); pkg.KindOf(err) != pkg.KindNotFound {
		t.Fatalf("deleted guard = %v", err)
	}

	mock.ExpectQuery("SELECT (.+) FROM `communities`").
		WillReturnRows(communityRows(10, "Riverside", 1, model.CommunityActive))
	if err := svc.AssertMutable(context.Background(), 10); err != nil {
		t.Fatalf("active guard = %v", err)
	}
}
