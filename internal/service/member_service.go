package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"aj-fitness/internal/dto"
	"aj-fitness/internal/model"
	"aj-fitness/internal/repository"
	"aj-fitness/internal/status"
	pkgerrors "aj-fitness/pkg/errors"
	"aj-fitness/pkg/metrics"
)

// ── 会员模块业务错误 ──

var (
	ErrMemberNotFound = fmt.Errorf("会员%w", pkgerrors.ErrNotFound)
	ErrFeeNotFound    = fmt.Errorf("缴费%w", pkgerrors.ErrNotFound)
)

// MemberService 会员与缴费业务接口
type MemberService interface {
	List(ctx context.Context, req *dto.MemberListRequest) ([]dto.MemberResponse, error)
	Get(ctx context.Context, id int64) (*dto.MemberDetailResponse, error)
	// Create 新增会员并原子写入首笔缴费
	Create(ctx context.Context, req *dto.CreateMemberRequest) (*dto.CreateMemberResponse, error)
	// Delete 删除会员及其全部缴费；会员不存在时静默成功
	Delete(ctx context.Context, id int64) error
	RecordFee(ctx context.Context, memberID int64, req *dto.RecordFeeRequest) (*dto.FeeResponse, error)
	FeeHistory(ctx context.Context, memberID int64) (*dto.FeeHistoryResponse, error)
	Receipt(ctx context.Context, feeID int64) (*dto.ReceiptResponse, error)
}

type memberService struct {
	repo    *repository.Repository
	clock   Clock
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewMemberService 创建 MemberService 实例
func NewMemberService(repo *repository.Repository, clock Clock, m *metrics.Metrics, logger *zap.Logger) MemberService {
	return &memberService{repo: repo, clock: clock, metrics: m, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *memberService) List(ctx context.Context, req *dto.MemberListRequest) ([]dto.MemberResponse, error) {
	members, err := s.repo.Member.List(ctx, req.Search)
	if err != nil {
		s.logger.Error("查询会员列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.MemberResponse, 0, len(members))
	for i := range members {
		result = append(result, dto.NewMemberResponse(&members[i]))
	}
	return result, nil
}

// ────────────────────── Get ──────────────────────

func (s *memberService) Get(ctx context.Context, id int64) (*dto.MemberDetailResponse, error) {
	member, err := s.getMember(ctx, id)
	if err != nil {
		return nil, err
	}

	latest, err := s.repo.Fee.LatestDate(ctx, id)
	if err != nil {
		s.logger.Error("查询最近缴费失败", zap.Int64("member_id", id), zap.Error(err))
		return nil, err
	}

	total, err := s.repo.Fee.TotalByMember(ctx, id)
	if err != nil {
		s.logger.Error("统计缴费总额失败", zap.Int64("member_id", id), zap.Error(err))
		return nil, err
	}

	return &dto.MemberDetailResponse{
		MemberStatusResponse: buildMemberStatus(s.clock(), member, latest),
		TotalPaid:            total,
	}, nil
}

// ────────────────────── Create ──────────────────────

func (s *memberService) Create(ctx context.Context, req *dto.CreateMemberRequest) (*dto.CreateMemberResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.NewValidation("name", "姓名不能为空")
	}
	start, err := parseDateField("start_date", req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDateField("end_date", req.EndDate)
	if err != nil {
		return nil, err
	}
	amount, err := parseAmount("fee_amount", req.FeeAmount)
	if err != nil {
		return nil, err
	}
	feeDate, err := s.parseDateOrToday("fee_date", req.FeeDate)
	if err != nil {
		return nil, err
	}

	member := &model.Member{
		Name:      name,
		Phone:     strings.TrimSpace(req.Phone),
		Photo:     req.Photo,
		StartDate: start,
		EndDate:   end,
	}
	fee := &model.FeePayment{Amount: amount, Date: feeDate}

	if err := s.repo.Member.CreateWithInitialFee(ctx, member, fee); err != nil {
		s.logger.Error("新增会员失败，事务已回滚", zap.String("name", name), zap.Error(err))
		return nil, err
	}

	s.metrics.MemberCreated()
	s.logger.Info("新增会员", zap.Int64("member_id", member.ID), zap.String("end_date", end.String()))

	return &dto.CreateMemberResponse{
		Member:     dto.NewMemberResponse(member),
		InitialFee: dto.NewFeeResponse(fee),
	}, nil
}

// ────────────────────── Delete ──────────────────────

func (s *memberService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Member.Delete(ctx, id); err != nil {
		s.logger.Error("删除会员失败", zap.Int64("member_id", id), zap.Error(err))
		return err
	}

	s.metrics.MemberDeleted()
	s.logger.Info("删除会员", zap.Int64("member_id", id))
	return nil
}

// ────────────────────── RecordFee ──────────────────────

func (s *memberService) RecordFee(ctx context.Context, memberID int64, req *dto.RecordFeeRequest) (*dto.FeeResponse, error) {
	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		return nil, err
	}
	date, err := s.parseDateOrToday("date", req.Date)
	if err != nil {
		return nil, err
	}

	if _, err := s.getMember(ctx, memberID); err != nil {
		return nil, err
	}

	fee := &model.FeePayment{MemberID: memberID, Amount: amount, Date: date}
	if err := s.repo.Fee.Create(ctx, fee); err != nil {
		s.logger.Error("记录缴费失败", zap.Int64("member_id", memberID), zap.Error(err))
		return nil, err
	}

	s.metrics.FeeRecorded()

	resp := dto.NewFeeResponse(fee)
	return &resp, nil
}

// ────────────────────── FeeHistory ──────────────────────

func (s *memberService) FeeHistory(ctx context.Context, memberID int64) (*dto.FeeHistoryResponse, error) {
	member, err := s.getMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	fees, err := s.repo.Fee.ListByMember(ctx, memberID)
	if err != nil {
		s.logger.Error("查询缴费历史失败", zap.Int64("member_id", memberID), zap.Error(err))
		return nil, err
	}

	resp := &dto.FeeHistoryResponse{
		Member:    dto.NewMemberResponse(member),
		Fees:      make([]dto.FeeResponse, 0, len(fees)),
		TotalPaid: decimal.Zero,
	}
	for i := range fees {
		resp.Fees = append(resp.Fees, dto.NewFeeResponse(&fees[i]))
		resp.TotalPaid = resp.TotalPaid.Add(fees[i].Amount)
	}
	return resp, nil
}

// ────────────────────── Receipt ──────────────────────

func (s *memberService) Receipt(ctx context.Context, feeID int64) (*dto.ReceiptResponse, error) {
	fee, err := s.repo.Fee.GetByID(ctx, feeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFeeNotFound
		}
		s.logger.Error("查询缴费记录失败", zap.Int64("fee_id", feeID), zap.Error(err))
		return nil, err
	}

	member, err := s.getMember(ctx, fee.MemberID)
	if err != nil {
		return nil, err
	}

	return &dto.ReceiptResponse{
		ReceiptNo: fmt.Sprintf("AJF-%s-%06d", fee.Date.Time().Format("20060102"), fee.ID),
		Fee:       dto.NewFeeResponse(fee),
		Member:    dto.NewMemberResponse(member),
	}, nil
}

// ── 内部辅助方法 ──

func (s *memberService) getMember(ctx context.Context, id int64) (*model.Member, error) {
	member, err := s.repo.Member.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		s.logger.Error("查询会员失败", zap.Int64("member_id", id), zap.Error(err))
		return nil, err
	}
	return member, nil
}

func (s *memberService) parseDateOrToday(field, value string) (model.Date, error) {
	if strings.TrimSpace(value) == "" {
		return s.clock(), nil
	}
	return parseDateField(field, value)
}

func parseDateField(field, value string) (model.Date, error) {
	d, err := model.ParseDate(strings.TrimSpace(value))
	if err != nil {
		return model.Date{}, pkgerrors.NewValidation(field, "日期格式应为 YYYY-MM-DD")
	}
	return d, nil
}

func parseAmount(field, value string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, pkgerrors.NewValidation(field, "金额格式无效")
	}
	if amount.IsNegative() {
		return decimal.Zero, pkgerrors.NewValidation(field, "金额不能为负数")
	}
	return amount.Round(2), nil
}

// buildMemberStatus 组装会员及其派生状态
func buildMemberStatus(today model.Date, m *model.Member, latest *model.Date) dto.MemberStatusResponse {
	return dto.MemberStatusResponse{
		MemberResponse: dto.NewMemberResponse(m),
		LastFeeDate:    latest,
		Flags:          status.Evaluate(today, m, latest),
	}
}
