package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"aj-fitness/internal/model"
)

// FeeRepository 缴费记录数据访问接口
type FeeRepository interface {
	Create(ctx context.Context, fee *model.FeePayment) error
	GetByID(ctx context.Context, id int64) (*model.FeePayment, error)
	// ListByMember 按缴费日期倒序
	ListByMember(ctx context.Context, memberID int64) ([]model.FeePayment, error)
	// ListAll 全部缴费记录（导出用），按 id 升序
	ListAll(ctx context.Context) ([]model.FeePayment, error)
	// LatestDate 最近一次缴费日期，无记录时返回 nil
	LatestDate(ctx context.Context, memberID int64) (*model.Date, error)
	// TotalByMember 缴费总额，无记录时为 0
	TotalByMember(ctx context.Context, memberID int64) (decimal.Decimal, error)
	CountOnDate(ctx context.Context, date model.Date) (int64, error)
}

type feeRepo struct {
	db *gorm.DB
}

// NewFeeRepo 创建 FeeRepository 实例
func NewFeeRepo(db *gorm.DB) FeeRepository {
	return &feeRepo{db: db}
}

func (r *feeRepo) Create(ctx context.Context, fee *model.FeePayment) error {
	return r.db.WithContext(ctx).Create(fee).Error
}

func (r *feeRepo) GetByID(ctx context.Context, id int64) (*model.FeePayment, error) {
	var fee model.FeePayment
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&fee).Error
	if err != nil {
		return nil, err
	}
	return &fee, nil
}

func (r *feeRepo) ListByMember(ctx context.Context, memberID int64) ([]model.FeePayment, error) {
	var fees []model.FeePayment
	err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order(`"date" DESC, id DESC`).
		Find(&fees).Error
	return fees, err
}

func (r *feeRepo) ListAll(ctx context.Context) ([]model.FeePayment, error) {
	var fees []model.FeePayment
	err := r.db.WithContext(ctx).Order("id ASC").Find(&fees).Error
	return fees, err
}

func (r *feeRepo) LatestDate(ctx context.Context, memberID int64) (*model.Date, error) {
	var latest model.Date
	err := r.db.WithContext(ctx).
		Model(&model.FeePayment{}).
		Select(`MAX("date")`).
		Where("member_id = ?", memberID).
		Row().Scan(&latest)
	if err != nil {
		return nil, err
	}
	if latest.IsZero() {
		return nil, nil
	}
	return &latest, nil
}

func (r *feeRepo) TotalByMember(ctx context.Context, memberID int64) (decimal.Decimal, error) {
	// 按分累加：SQLite 的 DECIMAL 列以浮点存储，直接 SUM 会引入误差
	var cents int64
	err := r.db.WithContext(ctx).
		Model(&model.FeePayment{}).
		Select("COALESCE(SUM(CAST(ROUND(amount * 100) AS BIGINT)), 0)").
		Where("member_id = ?", memberID).
		Row().Scan(&cents)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.New(cents, -2), nil
}

func (r *feeRepo) CountOnDate(ctx context.Context, date model.Date) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.FeePayment{}).
		Where(`"date" = ?`, date).
		Count(&n).Error
	return n, err
}
