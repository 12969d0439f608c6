package mysql

import (
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Open 建立连接并返回句柄，由调用方注入各仓储。
// TranslateError 让唯一键冲突统一表现为 gorm.ErrDuplicatedKey，
// 并发 join 的兜底判定依赖这一点。
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
}
