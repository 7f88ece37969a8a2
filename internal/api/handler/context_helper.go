package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"aj-fitness/pkg/jwt"
	"aj-fitness/pkg/response"
)

// ClaimsKey JWT 中间件写入会话声明的上下文键
const ClaimsKey = "claims"

// MustGetClaims 从 Gin 上下文中安全提取会话声明。
// 如果 JWT 中间件未正确注入，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get(ClaimsKey)
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	if !ok || claims == nil {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	return claims, true
}

// MustParseID 解析路径参数中的正整数 ID，失败时写入 400 响应
func MustParseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, 10001, "无效的 ID")
		return 0, false
	}
	return id, true
}
