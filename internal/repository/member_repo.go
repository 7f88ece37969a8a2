package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"aj-fitness/internal/model"
	"aj-fitness/internal/status"
)

// MemberRepository 会员数据访问接口
type MemberRepository interface {
	// List 按存储顺序返回会员；search 非空时按姓名不区分大小写子串过滤
	List(ctx context.Context, search string) ([]model.Member, error)
	GetByID(ctx context.Context, id int64) (*model.Member, error)
	// CreateWithInitialFee 在同一事务中写入会员及其首笔缴费
	CreateWithInitialFee(ctx context.Context, member *model.Member, fee *model.FeePayment) error
	// Delete 先删除缴费记录再删除会员；id 不存在时不报错
	Delete(ctx context.Context, id int64) error
	CountStartingOn(ctx context.Context, date model.Date) (int64, error)
	CountExpiringBetween(ctx context.Context, from, to model.Date) (int64, error)
	ListExpiryAlertWindow(ctx context.Context, today model.Date) ([]model.Member, error)
}

type memberRepo struct {
	db *gorm.DB
}

// NewMemberRepo 创建 MemberRepository 实例
func NewMemberRepo(db *gorm.DB) MemberRepository {
	return &memberRepo{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *memberRepo) List(ctx context.Context, search string) ([]model.Member, error) {
	var members []model.Member
	db := r.db.WithContext(ctx)

	if search = strings.TrimSpace(search); search != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
		db = db.Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern)
	}

	err := db.Order("id ASC").Find(&members).Error
	return members, err
}

func (r *memberRepo) GetByID(ctx context.Context, id int64) (*model.Member, error) {
	var member model.Member
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepo) CreateWithInitialFee(ctx context.Context, member *model.Member, fee *model.FeePayment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(member).Error; err != nil {
			return err
		}
		fee.MemberID = member.ID
		return tx.Create(fee).Error
	})
}

func (r *memberRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 显式两步删除，不依赖数据库级联
		if err := tx.Where("member_id = ?", id).Delete(&model.FeePayment{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Member{}).Error
	})
}

func (r *memberRepo) CountStartingOn(ctx context.Context, date model.Date) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Member{}).
		Where("start_date = ?", date).
		Count(&n).Error
	return n, err
}

func (r *memberRepo) CountExpiringBetween(ctx context.Context, from, to model.Date) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Member{}).
		Where("end_date >= ? AND end_date <= ?", from, to).
		Count(&n).Error
	return n, err
}

func (r *memberRepo) ListExpiryAlertWindow(ctx context.Context, today model.Date) ([]model.Member, error) {
	w := status.ExpiryAlertWindow(today)

	var members []model.Member
	err := r.db.WithContext(ctx).
		Where("end_date >= ? AND end_date <= ?", w.From, w.To).
		Order("end_date ASC, id ASC").
		Find(&members).Error
	return members, err
}
