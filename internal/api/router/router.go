package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AJ4200/whatiearn/config"
	"github.com/AJ4200/whatiearn/internal/api/handler"
	"github.com/AJ4200/whatiearn/internal/api/middleware"
	"github.com/AJ4200/whatiearn/pkg/jwt"
	"github.com/AJ4200/whatiearn/pkg/redis"
)

// maxBodyBytes 请求体上限（覆盖 ICS 上传的 multipart 开销）
const maxBodyBytes = 4 << 20

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", h.Health.Health)

		// 认证模块（无需认证）；登录与注册按 IP 限流
		auth := v1.Group("/auth")
		auth.Use(middleware.RateLimit(rdb, cfg.Auth.LoginRateLimit, time.Minute))
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb, cfg.Auth.Cookie.Name, logger))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// 打卡模块
			tm := authorized.Group("/time")
			{
				tm.POST("/clock", h.Time.Clock)
				tm.POST("/break", h.Time.Break)
				tm.GET("/current-status", h.Time.CurrentStatus)
				tm.GET("/today-stats", h.Time.TodayStats)
			}

			// 工作记录模块
			records := authorized.Group("/records")
			{
				records.GET("", h.Record.List)
				records.POST("/manual", h.Record.ManualEntry)
				records.GET("/:id", h.Record.Get)
				records.PUT("/:id", h.Record.Update)
				records.DELETE("/:id", h.Record.Delete)
			}

			// 自定义节假日模块
			holidays := authorized.Group("/holidays")
			{
				holidays.GET("", h.Holiday.List)
				holidays.POST("", h.Holiday.Create)
				holidays.POST("/import", h.Holiday.Import)
				holidays.DELETE("/:id", h.Holiday.Delete)
			}

			// 日历与发薪周期
			authorized.GET("/calendar/day", h.Calendar.Day)
			authorized.GET("/pay-periods", h.Calendar.PayPeriod)

			// 设置模块
			authorized.GET("/settings", h.Settings.Get)
			authorized.PUT("/settings", h.Settings.Update)

			// 报表与导出
			reports := authorized.Group("/reports")
			{
				reports.GET("", h.Report.Report)
				reports.GET("/export", h.Report.Export)
				reports.GET("/payslip", h.Report.Payslip)
				reports.GET("/payslip/pdf", h.Report.PayslipPDF)
				reports.POST("/estimate", h.Report.Estimate)
			}
		}
	}

	return r
}
