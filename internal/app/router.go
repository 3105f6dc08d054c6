package app

import (
	"time"

	"intern_hub_backend/docs"
	"intern_hub_backend/internal/config"
	"intern_hub_backend/internal/middleware"
	"intern_hub_backend/internal/model"
	"intern_hub_backend/pkg/monitoring"
	"intern_hub_backend/pkg/security"
	"intern_hub_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.RequestID())
	router.Use(middleware.RequestLogger())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) registerRoutes(router *gin.Engine, c *controllers, s *services) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))
	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.HealthCheck)

	api := router.Group("/api")

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(api, c)

	// 2. 需要登录的路由
	authGroup := api.Group("")
	authGroup.Use(
		middleware.AuthMiddleware(s.tokens, a.Config.JWT.CookieName),
		middleware.ActivityMiddleware(s.user, activityInterval),
	)
	{
		a.registerMemberRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(api *gin.RouterGroup, c *controllers) {
	auth := api.Group("/auth")
	{
		auth.POST("/register", c.auth.Register)
		auth.POST("/login", c.auth.Login)
		auth.POST("/logout", c.auth.Logout)
		auth.GET("/google", c.auth.GoogleLogin)
		auth.GET("/google/callback", c.auth.GoogleCallback)
		auth.POST("/google/token", c.auth.GoogleToken)
	}

	api.GET("/courses", c.course.List)
	api.GET("/courses/:id", c.course.Get)

	api.GET("/submissions", c.submission.List)
	api.GET("/submissions/:id", c.submission.Get)
}

// registerMemberRoutes 任意已登录角色；资源归属在控制器或服务层判断
func (a *App) registerMemberRoutes(group *gin.RouterGroup, c *controllers) {
	group.GET("/auth/me", c.auth.Me)

	// 学习进度只作用于调用者本人
	group.GET("/courses/:id/progress", withParam("courseId", "id"), c.progress.List)
	group.POST("/courses/:id/lessons/:lessonId/complete", withParam("courseId", "id"), c.progress.Complete)
	group.DELETE("/courses/:id/lessons/:lessonId/complete", withParam("courseId", "id"), c.progress.Uncomplete)

	group.POST("/submissions", c.submission.Create)
	group.PUT("/submissions/:id", c.submission.Update)
	group.DELETE("/submissions/:id", c.submission.Delete)

	group.POST("/uploads/images", c.upload.UploadImage)

	// 管理员或本人
	group.GET("/users/:id", c.user.Get)
	group.PUT("/users/:id", c.user.Update)
	group.PUT("/users/:id/profile", c.user.UpdateProfile)
	group.POST("/users/:id/avatar", c.user.UploadAvatar)
	group.GET("/evaluations/intern/:internId", c.evaluation.ListByIntern)
}

func (a *App) registerAdminRoutes(group *gin.RouterGroup, c *controllers) {
	admin := group.Group("")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/courses", c.course.Create)
		admin.PUT("/courses/:id", c.course.Update)
		admin.DELETE("/courses/:id", c.course.Delete)
		admin.PUT("/courses/:id/lessons/:lessonId", withParam("courseId", "id"), c.course.UpdateLesson)
		admin.DELETE("/courses/:id/lessons/:lessonId", withParam("courseId", "id"), c.course.DeleteLesson)

		admin.GET("/users", c.user.List)
		admin.DELETE("/users/:id", c.user.Delete)

		admin.GET("/evaluations", c.evaluation.List)
		admin.GET("/evaluations/export", c.evaluation.Export)
		admin.POST("/evaluations", c.evaluation.Create)
		admin.DELETE("/evaluations/:id", c.evaluation.Delete)
	}
}

// withParam gin 要求同一层级的通配段同名，课程子路由统一用 :id 注册，这里补一个别名供控制器读取
func withParam(alias, name string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Params = append(ctx.Params, gin.Param{Key: alias, Value: ctx.Param(name)})
		ctx.Next()
	}
}
