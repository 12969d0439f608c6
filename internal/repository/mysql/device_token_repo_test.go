package mysql

import (
	"context"
	"testing"
	"time"

	"CivicReport/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
)

// 同一 token 重复注册走 ON DUPLICATE KEY UPDATE，归属与活跃状态被刷新
func TestDeviceTokenUpsert(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer sqldb.Close()

	repo := &DeviceTokenRepository{DB: db}

	mock.ExpectExec("INSERT INTO `device_tokens` (.+) ON DUPLICATE KEY UPDATE").
		WillReturnResult(sqlmock.NewResult(5, 1))

	tok := &model.DeviceToken{UserID: 2, Token: "tok-abc", Platform: "android"}
	if err := repo.Upsert(context.Background(), tok); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if !tok.Active || tok.LastUsedAt.IsZero() {
		t.Fatalf("upsert must refresh active/last_used_at, got %+v", tok)
	}
	if time.Since(tok.LastUsedAt) > time.Minute {
		t.Fatalf("last_used_at not refreshed: %v", tok.LastUsedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

// 停用是原地 update，不删行
func TestDeviceTokenDeactivate(t *testing.T) {
	db, mock, sqldb := newMockDB(t)
	defer sqldb.Close()

	repo := &DeviceTokenRepository{DB: db}

	mock.ExpectExec("UPDATE `device_tokens` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Deactivate(context.Background(), "tok-abc"); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}
