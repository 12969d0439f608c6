package mysql

import (
	"context"
	"testing"

	"CivicReport/internal/pkg"

	"github.com/DATA-DOG/go-sqlmock"
)

// 不是 active 成员的退出/驱逐都不命中行 → NotFound
func TestMarkLeftNotMember(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer sqldb.Close()

	repo := &MembershipRepository{DB: db}

	mock.ExpectExec("UPDATE `memberships` SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkLeft(context.Background(), 10, 2)
	if pkg.KindOf(err) != pkg.KindNotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestMarkExpelledNotMember(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer sqldb.Close()

	repo := &MembershipRepository{DB: db}

	mock.ExpectExec("UPDATE `memberships` SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkExpelled(context.Background(), 10, 2, "spam")
	if pkg.KindOf(err) != pkg.KindNotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestActiveUserIDsOrder(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer sqldb.Close()

	repo := &MembershipRepository{DB: db}

	mock.ExpectQuery("SELECT (.+) FROM `memberships`").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).
			AddRow(uint64(1)).AddRow(uint64(3)).AddRow(uint64(8)))

	ids, err := repo.ActiveUserIDs(context.Background(), 10)
	if err != nil {
		t.Fatalf("ActiveUserIDs: %v", err)
	}
	if len(ids) != 3 || ids[0] != 1 || ids[2] != 8 {
		t.Fatalf("ids = %v", ids)
	}
}
