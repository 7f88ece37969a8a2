package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"aj-fitness/internal/service"
	pkgerrors "aj-fitness/pkg/errors"
	"aj-fitness/pkg/response"
)

// handleMemberError 将会员/缴费业务错误映射为 HTTP 响应
func handleMemberError(c *gin.Context, err error) {
	var ve *pkgerrors.ValidationError
	switch {
	case errors.As(err, &ve):
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "参数校验失败", ve.Error())
	case errors.Is(err, service.ErrMemberNotFound):
		response.NotFound(c, 20001, "会员不存在")
	case errors.Is(err, service.ErrFeeNotFound):
		response.NotFound(c, 20002, "缴费记录不存在")
	case errors.Is(err, pkgerrors.ErrNotFound):
		response.NotFound(c, 20000, "记录不存在")
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}
