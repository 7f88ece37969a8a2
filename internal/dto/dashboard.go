package dto

import "aj-fitness/internal/model"

// DashboardRequest 看板查询参数
type DashboardRequest struct {
	Search string `form:"search"`
}

// DashboardResponse 看板数据
// 计数类指标始终基于全部会员，不受 search 过滤影响
type DashboardResponse struct {
	Today             model.Date             `json:"today"`
	Members           []MemberStatusResponse `json:"members"`
	NewJoinsToday     int64                  `json:"new_joins_today"`
	NewPaymentsToday  int64                  `json:"new_payments_today"`
	ExpiringSoonCount int64                  `json:"expiring_soon_count"`
	ExpiryAlerts      []MemberResponse       `json:"expiry_alerts"`
}
