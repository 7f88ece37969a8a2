package service

import (
	"context"

	"go.uber.org/zap"

	"aj-fitness/internal/dto"
	"aj-fitness/internal/repository"
	"aj-fitness/internal/status"
	"aj-fitness/pkg/metrics"
)

// DashboardService 看板业务接口
// 每次请求都重新计算，不做缓存
type DashboardService interface {
	Get(ctx context.Context, req *dto.DashboardRequest) (*dto.DashboardResponse, error)
}

type dashboardService struct {
	repo    *repository.Repository
	clock   Clock
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewDashboardService 创建 DashboardService 实例
func NewDashboardService(repo *repository.Repository, clock Clock, m *metrics.Metrics, logger *zap.Logger) DashboardService {
	return &dashboardService{repo: repo, clock: clock, metrics: m, logger: logger}
}

func (s *dashboardService) Get(ctx context.Context, req *dto.DashboardRequest) (*dto.DashboardResponse, error) {
	today := s.clock()

	// 1. 会员列表 + 逐个计算派生状态
	members, err := s.repo.Member.List(ctx, req.Search)
	if err != nil {
		s.logger.Error("查询会员列表失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.DashboardResponse{
		Today:        today,
		Members:      make([]dto.MemberStatusResponse, 0, len(members)),
		ExpiryAlerts: []dto.MemberResponse{},
	}
	for i := range members {
		latest, err := s.repo.Fee.LatestDate(ctx, members[i].ID)
		if err != nil {
			s.logger.Error("查询最近缴费失败", zap.Int64("member_id", members[i].ID), zap.Error(err))
			return nil, err
		}
		resp.Members = append(resp.Members, buildMemberStatus(today, &members[i], latest))
	}

	// 2. 今日新增
	if resp.NewJoinsToday, err = s.repo.Member.CountStartingOn(ctx, today); err != nil {
		s.logger.Error("统计今日入会失败", zap.Error(err))
		return nil, err
	}
	if resp.NewPaymentsToday, err = s.repo.Fee.CountOnDate(ctx, today); err != nil {
		s.logger.Error("统计今日缴费失败", zap.Error(err))
		return nil, err
	}

	// 3. 即将到期计数：[today, today+3]
	soon := status.ExpiringSoonWindow(today)
	if resp.ExpiringSoonCount, err = s.repo.Member.CountExpiringBetween(ctx, soon.From, soon.To); err != nil {
		s.logger.Error("统计即将到期会员失败", zap.Error(err))
		return nil, err
	}

	// 4. 到期提醒列表：[today-3, today+2]
	alerts, err := s.repo.Member.ListExpiryAlertWindow(ctx, today)
	if err != nil {
		s.logger.Error("查询到期提醒失败", zap.Error(err))
		return nil, err
	}
	for i := range alerts {
		resp.ExpiryAlerts = append(resp.ExpiryAlerts, dto.NewMemberResponse(&alerts[i]))
	}

	s.metrics.DashboardViewed()
	return resp, nil
}
