// Package testutil 提供测试用的内存 SQLite 数据库。
package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"aj-fitness/pkg/database"
)

// SetupSQLiteTestDB 创建独立的内存 SQLite 数据库并执行正式迁移
// 每个测试使用唯一库名，互不干扰；测试结束自动关闭
func SetupSQLiteTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("无法打开测试数据库: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("获取底层 sql.DB 失败: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.RunMigrations(sqlDB, "sqlite", zap.NewNop()); err != nil {
		t.Fatalf("迁移测试数据库失败: %v", err)
	}

	return db
}
