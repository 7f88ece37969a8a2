package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"aj-fitness/internal/api/handler"
	"aj-fitness/pkg/jwt"
	"aj-fitness/pkg/redis"
	"aj-fitness/pkg/response"
)

// JWTAuth 会话认证中间件
// 从 Authorization: Bearer <token> 中提取并验证会话 Token，
// 通过后将声明注入上下文；业务层不感知登录态
// rdb 为 nil 时跳过黑名单检查
func JWTAuth(jwtMgr *jwt.Manager, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "缺少认证头")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "认证头格式无效")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "Token 无效或已过期")
			c.Abort()
			return
		}

		// 已登出的 Token；Redis 故障时降级放行
		if rdb != nil {
			if revoked, err := rdb.IsBlacklisted(c.Request.Context(), claims.ID); err == nil && revoked {
				response.Unauthorized(c, 10002, "Token 已失效")
				c.Abort()
				return
			}
		}

		c.Set(handler.ClaimsKey, claims)
		c.Next()
	}
}
