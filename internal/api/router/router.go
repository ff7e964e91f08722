package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mews-mentor/backend/config"
	"mews-mentor/backend/internal/api/handler"
	"mews-mentor/backend/internal/api/middleware"
	"mews-mentor/backend/pkg/jwt"
	"mews-mentor/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(2 << 20)) // 2MB，批量导入名册上限 500 条

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证；登录接口限流防爆破）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// 需要认证的路由（管理后台，全部为 admin）
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		authorized.Use(middleware.RoleAuth("admin"))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)

			// 辅导周期模块
			cohorts := authorized.Group("/cohorts")
			{
				cohorts.POST("", h.Cohort.Create)
				cohorts.GET("", h.Cohort.List)
				cohorts.GET("/:id", h.Cohort.Get)
				cohorts.POST("/:id/participants", h.Cohort.ImportParticipants)
				cohorts.GET("/:id/participants", h.Cohort.ListParticipants)

				// 匹配模块
				cohorts.GET("/:id/matches", h.Matching.GetMatches)
				cohorts.GET("/:id/matches/readiness", h.Matching.CheckReadiness)
				cohorts.POST("/:id/matches/generate", h.Matching.Generate)
				cohorts.POST("/:id/matches/selections", h.Matching.ApplySelections)
				cohorts.GET("/:id/matches/pending", h.Matching.ContinueSelection)
				cohorts.DELETE("/:id/matches/pending", h.Matching.ClearPending)
				cohorts.GET("/:id/capacity", h.Matching.CapacityOverview)
				cohorts.GET("/:id/matches/export", h.Export.ExportMatches)

				// 手动匹配看板
				cohorts.GET("/:id/manual-board", h.ManualBoard.Get)
				cohorts.PUT("/:id/manual-board", h.ManualBoard.SaveDraft)
				cohorts.POST("/:id/manual-board/commit", h.ManualBoard.Commit)
			}

			// 匹配模型模块
			models := authorized.Group("/matching-models")
			{
				models.POST("", h.MatchingModel.Create)
				models.GET("", h.MatchingModel.List)
				models.GET("/:id", h.MatchingModel.Get)
				models.PUT("/:id", h.MatchingModel.Update)
				models.POST("/:id/versions", h.MatchingModel.CreateNewVersion)
				models.POST("/:id/activate", h.MatchingModel.Activate)
				models.POST("/:id/default", h.MatchingModel.SetDefault)
				models.POST("/:id/archive", h.MatchingModel.Archive)
			}
		}
	}

	return r
}
