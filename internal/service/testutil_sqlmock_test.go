package service

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// newMockDB 用 go-sqlmock 创建一个可被 GORM 使用的 *gorm.DB。
// 用 mysql dialector 只是为了让 GORM 生成的 SQL/占位符风格稳定（? 占位符），
// 实际不会连接真实 MySQL。
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	sqldb, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}

	// SkipDefaultTransaction: 避免 GORM 默认在每次写操作开启事务，简化断言；
	// 业务里显式开启的事务（Transaction / Begin）仍会产生 BEGIN/COMMIT。
	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqldb, SkipInitializeWithVersion: true}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		_ = sqldb.Close()
		t.Fatalf("gorm.Open: %v", err)
	}

	return db, mock, sqldb
}

func communityRows(id uint64, name string, creatorID uint64, state int8) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "description", "creator_id", "state"}).
		AddRow(id, name, "", creatorID, state)
}

func membershipRows(id, communityID, userID uint64, role, status int8) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "community_id", "user_id", "role", "status"}).
		AddRow(id, communityID, userID, role, status)
}

func userRows(id uint64, username string, role int8) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "username", "password", "role", "email"}).
		AddRow(id, username, "x", role, username+"@example.com")
}
