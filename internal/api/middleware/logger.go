package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"aj-fitness/internal/api/handler"
	"aj-fitness/pkg/jwt"
	"aj-fitness/pkg/metrics"
)

// quietPaths 健康检查与指标抓取只计数，不写访问日志
var quietPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// Logger 访问日志与请求计数中间件
// 日志带路由模板、请求 ID 与当前操作员；m 为 nil 时只记日志
func Logger(logger *zap.Logger, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		m.ObserveRequest(c.Request.Method, route, status)

		if quietPaths[c.Request.URL.Path] {
			return
		}

		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.String("path", c.Request.URL.Path),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString(requestIDKey)),
		}
		if v, ok := c.Get(handler.ClaimsKey); ok {
			if claims, ok := v.(*jwt.Claims); ok {
				fields = append(fields, zap.String("operator", claims.Operator))
			}
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate); len(errs) > 0 {
			fields = append(fields, zap.String("errors", errs.String()))
		}

		level := zapcore.InfoLevel
		switch {
		case status >= 500:
			level = zapcore.ErrorLevel
		case status >= 400:
			level = zapcore.WarnLevel
		}
		logger.Log(level, "HTTP 请求", fields...)
	}
}
