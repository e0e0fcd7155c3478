package app

import (
	"learnpath_backend/docs"
	"learnpath_backend/internal/config"
	"learnpath_backend/internal/middleware"
	"learnpath_backend/internal/model"
	"learnpath_backend/pkg/monitoring"
	"learnpath_backend/pkg/security"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		// 游客也可以提交评估
		public.POST("/assessment/submit",
			middleware.TryAuthMiddleware(cfg.JWT.Secret),
			middleware.ActivityMiddleware(repos.user),
			c.recommendation.SubmitAssessment)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg.JWT.Secret), middleware.ActivityMiddleware(repos.user))
	{
		registerRecommendationRoutes(authGroup, c, cfg)
		registerStudyPlanRoutes(authGroup, c)
	}

	// 3. 管理员接口
	admin := authGroup.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/recalibrate-all", c.admin.RecalibrateAll)
	}
}

func registerRecommendationRoutes(group *gin.RouterGroup, c *controllers, cfg *config.Config) {
	perHour := cfg.RateLimit.CollaborativePerHour
	if perHour <= 0 {
		perHour = 30
	}

	rec := group.Group("/recommendations")
	{
		rec.GET("/profile", c.recommendation.GetProfile)
		rec.GET("/paths", c.recommendation.GetRecommendedPaths)
		rec.GET("/next-lesson", c.recommendation.GetNextLesson)
		rec.POST("/recalibrate", c.recommendation.Recalibrate)
		rec.POST("/:id/dismiss", c.recommendation.Dismiss)
		rec.POST("/:id/accept", c.recommendation.Accept)
		// 全量扫描，按用户单独限流
		rec.GET("/collaborative",
			security.KeyedRateLimiter(perHour, time.Hour, security.ByUser),
			c.recommendation.GetCollaborative)
	}
}

func registerStudyPlanRoutes(group *gin.RouterGroup, c *controllers) {
	plans := group.Group("/study-plans")
	{
		plans.POST("", c.studyPlan.Generate)
		plans.GET("/active", c.studyPlan.GetActive)
		plans.GET("/today", c.studyPlan.GetToday)
		plans.POST("/items/:id/complete", c.studyPlan.CompleteItem)
		plans.PATCH("/:id", c.studyPlan.Update)
	}
}
