package handler

import (
	"github.com/gin-gonic/gin"

	"aj-fitness/internal/dto"
	"aj-fitness/internal/service"
	"aj-fitness/pkg/response"
)

// DashboardHandler 看板 HTTP 处理器
type DashboardHandler struct {
	dashboardSvc service.DashboardService
}

// NewDashboardHandler 创建 DashboardHandler
func NewDashboardHandler(dashboardSvc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc}
}

// GetDashboard 会员列表（带状态标记）与今日统计
// GET /api/v1/dashboard?search=
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	var req dto.DashboardRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.dashboardSvc.Get(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}
