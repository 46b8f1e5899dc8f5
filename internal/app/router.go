package app

import (
	"lingo_backend/docs"
	"lingo_backend/internal/config"
	"lingo_backend/internal/middleware"
	"lingo_backend/internal/model"
	"lingo_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerLearnerRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.GET("/courses", c.course.ListCourses)
		public.GET("/courses/:id", c.course.GetCourse)

		// Authenticated by a shared secret, not a user token.
		public.POST("/webhooks/subscription", c.subscription.Webhook)
	}
}

func (a *App) registerLearnerRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/me", c.auth.Me)

	rg.GET("/courses/:id/units", c.course.GetCourseContent)
	rg.GET("/courses/:id/progress", c.course.GetCourseProgress)
	rg.GET("/lessons/:id", c.lesson.GetLesson)

	progress := rg.Group("/progress")
	{
		progress.GET("", c.progress.GetUserProgress)
		progress.PUT("/active-course", c.progress.SetActiveCourse)
		progress.POST("/challenges", c.progress.UpsertChallengeProgress)
		progress.POST("/hearts/reduce", c.progress.ReduceHearts)
		progress.POST("/hearts/refill", c.progress.RefillHearts)
		progress.POST("/assessment", c.progress.UpsertAssessmentProgress)
	}

	streak := rg.Group("/streak")
	{
		streak.GET("", c.streak.GetStreak)
		streak.POST("", c.streak.UpdateStreak)
		streak.POST("/freeze", c.streak.UseStreakFreeze)
		streak.GET("/stats", c.streak.GetStreakStats)
	}

	ai := rg.Group("/ai")
	{
		ai.POST("/chat", c.ai.Chat)
		ai.POST("/assessment", c.ai.CreateAssessment)
		ai.GET("/assessment", c.ai.CheckAssessment)
		ai.POST("/assessment/analyze", c.ai.AnalyzeAssessment)
		ai.POST("/units", c.ai.GenerateUnits)
	}

	rg.GET("/leaderboard", c.leaderboard.Top)
	rg.GET("/subscription", c.subscription.GetSubscription)
}

func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	admin := rg.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/courses", c.content.CreateCourse)
		admin.POST("/units", c.content.CreateUnit)
		admin.POST("/lessons", c.content.CreateLesson)
		admin.POST("/challenges", c.content.CreateChallenge)
		admin.POST("/ai/lessons", c.ai.GenerateAdminLessons)
		admin.POST("/media", c.media.UploadChallengeMedia)
	}
}
