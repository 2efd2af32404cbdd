package app

import (
	"sapaa_backend/docs"
	"sapaa_backend/internal/config"
	"sapaa_backend/internal/middleware"
	"sapaa_backend/internal/model"
	"sapaa_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg.JWT.Secret, repos.token), middleware.ActivityMiddleware(repos.user))
	{
		a.registerAccountRoutes(authGroup, c)
		a.registerInspectionRoutes(authGroup, c)
	}

	// 3. 管理员相关接口
	a.registerAdminRoutes(authGroup, c)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerAccountRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)
	rg.POST("/logout", c.auth.Logout)
	rg.POST("/liability/verify", c.auth.VerifyLiability)
}

func (a *App) registerInspectionRoutes(rg *gin.RouterGroup, c *controllers) {
	// 站点
	rg.GET("/sites", c.site.ListSites)
	rg.GET("/sites/:id", c.site.GetSite)
	rg.GET("/sites/:id/inspections", c.site.ListInspections)

	// 巡查表单
	rg.GET("/inspection/questions", c.inspection.GetQuestions)
	form := rg.Group("/sites/:id/inspection")
	{
		form.GET("", c.inspection.GetForm)
		form.PUT("/answers/:questionId", c.inspection.UpdateAnswer)
		form.DELETE("/draft", c.inspection.ClearDraft)
		form.POST("/files/:questionId", c.inspection.UploadFile)
		form.POST("/submit", c.inspection.Submit)
	}

	rg.GET("/inspections/:id", c.inspection.GetReport)
}

func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	admin := rg.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/users", c.user.ListUsers)
		admin.GET("/users/:id", c.user.GetUser)
		admin.PUT("/users/:id", c.user.UpdateUser)
		admin.POST("/users/:id/disable", c.user.DisableUser)
		admin.DELETE("/users/:id", c.user.DeleteUser)

		admin.GET("/dashboard", c.dashboard.GetDashboard)
		admin.GET("/dashboard/questions/:id", c.dashboard.GetQuestionDistribution)
	}
}
