package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"aj-fitness/internal/dto"
	"aj-fitness/internal/model"
	"aj-fitness/internal/repository"
	"aj-fitness/internal/testutil"
	"aj-fitness/pkg/metrics"
)

// ── 测试辅助 ──

var testToday = model.NewDate(2024, 6, 10)

func fixedClock(d model.Date) Clock {
	return func() model.Date { return d }
}

func setupRepo(t *testing.T) *repository.Repository {
	t.Helper()
	return repository.NewRepository(testutil.SetupSQLiteTestDB(t))
}

func setupMemberService(t *testing.T) (MemberService, *repository.Repository, *metrics.Metrics) {
	t.Helper()
	repo := setupRepo(t)
	m := metrics.New()
	return NewMemberService(repo, fixedClock(testToday), m, zap.NewNop()), repo, m
}

// seedMember 直接通过 Repository 写入会员与首笔缴费
func seedMember(t *testing.T, repo *repository.Repository, name, end, feeDate string) *model.Member {
	t.Helper()
	m := &model.Member{
		Name:      name,
		Phone:     "555-0100",
		StartDate: model.MustParseDate("2024-01-01"),
		EndDate:   model.MustParseDate(end),
	}
	f := &model.FeePayment{Amount: decimal.RequireFromString("50.00"), Date: model.MustParseDate(feeDate)}
	require.NoError(t, repo.Member.CreateWithInitialFee(context.Background(), m, f))
	return m
}

func createReq(name string) *dto.CreateMemberRequest {
	return &dto.CreateMemberRequest{
		Name:      name,
		Phone:     "555-0101",
		StartDate: "2024-06-10",
		EndDate:   "2024-07-10",
		FeeAmount: "120.50",
		FeeDate:   "2024-06-10",
	}
}

// counterValue 从指标 Registry 读取无标签计数器的当前值
func counterValue(t *testing.T, m *metrics.Metrics, name string) float64 {
	t.Helper()
	families, err := m.Registry.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name && len(mf.GetMetric()) > 0 {
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	return 0
}

// ── 存储故障桩 ──

var errStorage = errors.New("disk I/O error")

type failingMemberRepo struct{ repository.MemberRepository }

func (failingMemberRepo) List(context.Context, string) ([]model.Member, error) {
	return nil, errStorage
}

func (failingMemberRepo) GetByID(context.Context, int64) (*model.Member, error) {
	return nil, errStorage
}

func (failingMemberRepo) Delete(context.Context, int64) error { return errStorage }
