package service

import (
	"time"

	"go.uber.org/zap"

	"aj-fitness/config"
	"aj-fitness/internal/model"
	"aj-fitness/internal/repository"
	"aj-fitness/pkg/jwt"
	"aj-fitness/pkg/metrics"
	"aj-fitness/pkg/redis"
)

// Clock 返回业务意义上的"今天"
type Clock func() model.Date

// SystemClock 以 loc 时区的当前日历日作为今天
func SystemClock(loc *time.Location) Clock {
	return func() model.Date {
		return model.DateOf(time.Now().In(loc))
	}
}

// Service 所有 Service 的聚合入口
type Service struct {
	Auth      AuthService
	Member    MemberService
	Dashboard DashboardService
	Export    ExportService
	Backup    BackupService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	m *metrics.Metrics,
	clock Clock,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:      NewAuthService(&cfg.Auth, jwtMgr, rdb, logger),
		Member:    NewMemberService(repo, clock, m, logger),
		Dashboard: NewDashboardService(repo, clock, m, logger),
		Export:    NewExportService(repo, logger),
		Backup:    NewBackupService(&cfg.Database, cfg.Storage.BackupDir, logger),
	}
}
