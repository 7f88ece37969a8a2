package dto

import (
	"github.com/shopspring/decimal"

	"aj-fitness/internal/model"
)

// ── 缴费模块 DTO ──

// RecordFeeRequest 记录缴费请求
type RecordFeeRequest struct {
	Amount string `json:"amount" form:"amount" binding:"required"`
	Date   string `json:"date"   form:"date"` // 为空时取今天
}

// FeeResponse 缴费记录
type FeeResponse struct {
	ID       int64           `json:"id"`
	MemberID int64           `json:"member_id"`
	Amount   decimal.Decimal `json:"amount"`
	Date     model.Date      `json:"date"`
}

// FeeHistoryResponse 会员缴费历史（按日期倒序）
type FeeHistoryResponse struct {
	Member    MemberResponse  `json:"member"`
	Fees      []FeeResponse   `json:"fees"`
	TotalPaid decimal.Decimal `json:"total_paid"`
}

// ReceiptResponse 缴费收据
type ReceiptResponse struct {
	ReceiptNo string         `json:"receipt_no"`
	Fee       FeeResponse    `json:"fee"`
	Member    MemberResponse `json:"member"`
}

// NewFeeResponse 由模型构造响应
func NewFeeResponse(f *model.FeePayment) FeeResponse {
	return FeeResponse{
		ID:       f.ID,
		MemberID: f.MemberID,
		Amount:   f.Amount,
		Date:     f.Date,
	}
}
