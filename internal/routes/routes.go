package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"patient-triage-server/internal/config"
	"patient-triage-server/internal/handlers"
	"patient-triage-server/internal/middleware"
	"patient-triage-server/internal/store"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, s store.PatientStore, pipeline handlers.Pipeline, cfg *config.Config, logger *zap.Logger) {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(s, cfg, logger)
	profileHandler := handlers.NewProfileHandler(s, logger)
	pipelineHandler := handlers.NewPipelineHandler(s, pipeline, cfg, logger)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/signup", authHandler.Signup)
			authRoutes.POST("/login", authHandler.Login)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		profileRoutes := private.Group("/profile")
		{
			profileRoutes.GET("", profileHandler.GetProfile)
			profileRoutes.PUT("", profileHandler.UpdateProfile)
		}

		// Lists every profile; rejected outside development
		private.GET("/users", middleware.DevelopmentOnly(cfg), profileHandler.ListUsers)

		chartRoutes := private.Group("/charts")
		{
			chartRoutes.POST("/generate", pipelineHandler.GenerateChart)
			chartRoutes.POST("", pipelineHandler.SaveChart)
			chartRoutes.GET("", pipelineHandler.ListCharts)
		}

		private.POST("/cost-estimate", pipelineHandler.EstimateCost)
		private.POST("/hospitals/recommend", pipelineHandler.RecommendHospitals)
		private.POST("/medicines/search", pipelineHandler.SearchMedicine)
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
