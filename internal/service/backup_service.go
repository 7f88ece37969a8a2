package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"aj-fitness/config"
	"aj-fitness/pkg/database"
)

// BackupService 数据库备份业务接口
type BackupService interface {
	// Snapshot 复制当前 SQLite 文件，返回备份文件路径
	Snapshot(ctx context.Context) (string, error)
}

type backupService struct {
	db     *config.DatabaseConfig
	dir    string
	logger *zap.Logger
}

// NewBackupService 创建 BackupService 实例
func NewBackupService(db *config.DatabaseConfig, dir string, logger *zap.Logger) BackupService {
	return &backupService{db: db, dir: dir, logger: logger}
}

func (s *backupService) Snapshot(_ context.Context) (string, error) {
	if !s.db.IsSQLite() {
		return "", database.ErrBackupUnsupported
	}

	path, err := database.SnapshotFile(s.db.Path, s.dir, time.Now())
	if err != nil {
		s.logger.Error("数据库备份失败", zap.String("source", s.db.Path), zap.Error(err))
		return "", err
	}

	s.logger.Info("数据库备份完成", zap.String("file", path))
	return path, nil
}
