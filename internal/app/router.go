package app

import (
	"time"

	"hr_recruit_backend/docs"
	"hr_recruit_backend/internal/config"
	"hr_recruit_backend/internal/middleware"
	"hr_recruit_backend/pkg/monitoring"
	"hr_recruit_backend/pkg/security"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api/v1"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api/v1")
	api.GET("/health", c.health.HealthCheck)

	authGroup := api.Group("")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerVacancyRoutes(authGroup, c)
		a.registerTestingRoutes(authGroup, c, attemptLimiter(cfg))
		a.registerPermissionRoutes(authGroup, c)
	}
}

func (a *App) registerVacancyRoutes(rg *gin.RouterGroup, c *controllers) {
	vacancy := rg.Group("/vacancy")
	{
		vacancy.GET("/list", c.vacancy.GetVacancies)
		vacancy.POST("/new", c.vacancy.CreateVacancy)
		vacancy.GET("/:id", c.vacancy.GetVacancy)
		vacancy.PUT("/:id", c.vacancy.UpdateVacancy)
		vacancy.DELETE("/:id", c.vacancy.DeleteVacancy)

		vacancy.GET("/:id/files", c.vacancy.GetVacancyFiles)
		vacancy.POST("/:id/files/new", c.vacancy.UploadVacancyFile)
		vacancy.GET("/:id/files/:fid", c.vacancy.GetVacancyFile)
		vacancy.DELETE("/:id/files/:fid", c.vacancy.DeleteVacancyFile)
		vacancy.POST("/:id/files/:fid/confirm", c.vacancy.ConfirmVacancyFileUpload)
		vacancy.POST("/:id/poster/:fid", c.vacancy.SetVacancyPoster)
	}
}

// attemptLimiter throttles starting and finishing tests per user, so one
// account cannot flood the attempt table from several addresses.
func attemptLimiter(cfg *config.Config) gin.HandlerFunc {
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	return security.RateLimiterBy(cfg.RateLimit.AttemptMaxRequests, window, middleware.UserRateKey)
}

func (a *App) registerTestingRoutes(rg *gin.RouterGroup, c *controllers, limit gin.HandlerFunc) {
	testing := rg.Group("/testing")
	{
		testing.GET("/list", c.testing.GetTestings)
		testing.POST("/new", c.testing.CreateTesting)
		testing.GET("/attempts", c.testing.GetTestAttempts)
		testing.GET("/users/attempts", c.testing.GetUserAttempts)
		testing.GET("/approved/users", c.testing.GetApprovedUsers)

		testing.GET("/:id", c.testing.GetTesting)
		testing.PUT("/:id", c.testing.UpdateTesting)
		testing.DELETE("/:id", c.testing.DeleteTesting)
		testing.GET("/:id/attempts", c.testing.GetTestingAttempts)
		testing.POST("/:id/practical/new", c.question.CreatePracticalQuestion)
		testing.POST("/:id/theoretical/new", c.question.CreateTheoreticalQuestion)

		practical := testing.Group("/practical")
		{
			practical.GET("/:id/start", limit, c.testing.StartPracticalTesting)
			practical.POST("/:id/finish", limit, c.testing.CompletePracticalTesting)
			practical.GET("/:id/list", c.question.GetPracticalQuestions)
			practical.GET("/question/:qid", c.question.GetPracticalQuestion)
			practical.PUT("/question/:qid", c.question.UpdatePracticalQuestion)
			practical.DELETE("/question/:qid", c.question.DeletePracticalQuestion)
		}

		theoretical := testing.Group("/theoretical")
		{
			theoretical.GET("/:id/start", limit, c.testing.StartTheoreticalTesting)
			theoretical.POST("/:id/finish", limit, c.testing.CompleteTheoreticalTesting)
			theoretical.GET("/:id/list", c.question.GetTheoreticalQuestions)
			theoretical.GET("/question/:qid", c.question.GetTheoreticalQuestion)
			theoretical.PUT("/question/:qid", c.question.UpdateTheoreticalQuestion)
			theoretical.DELETE("/question/:qid", c.question.DeleteTheoreticalQuestion)
			theoretical.POST("/question/:qid/option/new", c.question.CreateAnswerOption)
		}
	}
}

func (a *App) registerPermissionRoutes(rg *gin.RouterGroup, c *controllers) {
	permission := rg.Group("/permission")
	{
		permission.GET("/list", c.permission.List)
		permission.GET("/me", c.permission.Me)
	}
}
