package dto

import (
	"github.com/shopspring/decimal"

	"aj-fitness/internal/model"
	"aj-fitness/internal/status"
)

// ── 会员模块 DTO ──

// CreateMemberRequest 新增会员请求（JSON 或 multipart 表单）
// 日期与金额以字符串接收，由 Service 层统一校验
type CreateMemberRequest struct {
	Name      string `json:"name"       form:"name"       binding:"required,max=100"`
	Phone     string `json:"phone"      form:"phone"      binding:"omitempty,max=30"`
	StartDate string `json:"start_date" form:"start_date" binding:"required"`
	EndDate   string `json:"end_date"   form:"end_date"   binding:"required"`
	FeeAmount string `json:"fee_amount" form:"fee_amount" binding:"required"`
	FeeDate   string `json:"fee_date"   form:"fee_date"` // 为空时取今天

	// Photo 由 Handler 保存上传文件后填入，仅保存文件名
	Photo *string `json:"-" form:"-"`
}

// MemberListRequest 会员列表查询参数
type MemberListRequest struct {
	Search string `form:"search"`
}

// MemberResponse 会员基本信息
type MemberResponse struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Phone     string     `json:"phone"`
	Photo     *string    `json:"photo,omitempty"`
	StartDate model.Date `json:"start_date"`
	EndDate   model.Date `json:"end_date"`
}

// MemberStatusResponse 附带派生状态的会员信息
type MemberStatusResponse struct {
	MemberResponse
	LastFeeDate *model.Date `json:"last_fee_date,omitempty"`
	status.Flags
}

// MemberDetailResponse 会员详情
type MemberDetailResponse struct {
	MemberStatusResponse
	TotalPaid decimal.Decimal `json:"total_paid"`
}

// CreateMemberResponse 新增会员结果
type CreateMemberResponse struct {
	Member     MemberResponse `json:"member"`
	InitialFee FeeResponse    `json:"initial_fee"`
}

// NewMemberResponse 由模型构造响应
func NewMemberResponse(m *model.Member) MemberResponse {
	return MemberResponse{
		ID:        m.ID,
		Name:      m.Name,
		Phone:     m.Phone,
		Photo:     m.Photo,
		StartDate: m.StartDate,
		EndDate:   m.EndDate,
	}
}
