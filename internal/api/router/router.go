package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"aj-fitness/config"
	"aj-fitness/internal/api/handler"
	"aj-fitness/internal/api/middleware"
	"aj-fitness/pkg/jwt"
	"aj-fitness/pkg/metrics"
	"aj-fitness/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, m *metrics.Metrics, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger, m))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimitMB << 20))

	// ── 健康检查 / 指标 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	if m != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))
	}

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		var limiter middleware.AttemptLimiter
		if rdb != nil {
			limiter = rdb
		}
		loginLimit := middleware.LoginLimit(limiter, cfg.Server.LoginLimit, cfg.Server.LoginWindow, m, logger)
		v1.POST("/auth/login", loginLimit, h.Auth.Login)

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)

			// 看板
			authorized.GET("/dashboard", h.Dashboard.GetDashboard)

			// 会员模块
			members := authorized.Group("/members")
			{
				members.GET("", h.Member.ListMembers)
				members.POST("", h.Member.CreateMember)
				members.GET("/:id", h.Member.GetMember)
				members.DELETE("/:id", h.Member.DeleteMember)
				members.GET("/:id/fees", h.Member.ListFees)
				members.POST("/:id/fees", h.Member.RecordFee)
			}

			// 缴费收据
			authorized.GET("/fees/:id/receipt", h.Member.GetReceipt)

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/members.csv", h.Export.ExportMembersCSV)
				export.GET("/fees.csv", h.Export.ExportFeesCSV)
				export.GET("/members.xlsx", h.Export.ExportWorkbook)
			}

			// 备份与照片
			authorized.GET("/backup", h.Backup.Download)
			authorized.GET("/photos/:name", h.Photo.GetPhoto)
		}
	}

	return r
}
