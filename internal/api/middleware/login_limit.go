package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"aj-fitness/pkg/metrics"
	"aj-fitness/pkg/response"
)

const loginAttemptPrefix = "gym:login:attempts:"

// AttemptLimiter 登录尝试计数器，由 pkg/redis.Client 实现
type AttemptLimiter interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// loginAttemptKey 按客户端 IP 划分登录尝试计数
func loginAttemptKey(ip string) string {
	return loginAttemptPrefix + ip
}

// LoginLimit 前台登录防暴力破解
// 同一 IP 在 window 内最多尝试 limit 次，超限返回 429 并带 Retry-After；
// limiter 为 nil 或计数失败时放行
func LoginLimit(limiter AttemptLimiter, limit int, window time.Duration, m *metrics.Metrics, logger *zap.Logger) gin.HandlerFunc {
	retryAfter := strconv.Itoa(int(window.Seconds()))

	return func(c *gin.Context) {
		if limiter == nil || limit <= 0 {
			c.Next()
			return
		}

		ip := c.ClientIP()
		allowed, err := limiter.CheckRateLimit(c.Request.Context(), loginAttemptKey(ip), limit, window)
		if err != nil {
			logger.Warn("登录限流计数失败，降级放行", zap.String("ip", ip), zap.Error(err))
			c.Next()
			return
		}

		if !allowed {
			m.LoginThrottled()
			logger.Warn("登录尝试过于频繁", zap.String("ip", ip), zap.Int("limit", limit), zap.Duration("window", window))
			c.Header("Retry-After", retryAfter)
			response.Error(c, http.StatusTooManyRequests, 10004, "登录尝试过于频繁，请稍后再试")
			c.Abort()
			return
		}

		c.Next()
	}
}
