package main

import (
	"fmt"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"patient-triage-server/internal/config"
	"patient-triage-server/internal/geo"
	"patient-triage-server/internal/imagesearch"
	"patient-triage-server/internal/inference"
	"patient-triage-server/internal/logger"
	"patient-triage-server/internal/middleware"
	"patient-triage-server/internal/routes"
	"patient-triage-server/internal/store"
	"patient-triage-server/internal/triage"
)

func main() {
	// Load environment variables; a missing .env is fine when the env is already set
	envErr := godotenv.Load()

	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	zl, err := logger.New(cfg.Log.Level, cfg.Log.Format, "patient-triage-server")
	if err != nil {
		log.Fatalf("Error building logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if envErr != nil {
		zl.Warn("No .env file loaded, using process environment", zap.Error(envErr))
	}
	if cfg.Inference.APIKey == "" {
		zl.Warn("OPENAI_API_KEY is not set; pipeline calls will return fallback text")
	}
	if cfg.Kakao.RESTAPIKey == "" {
		zl.Warn("KAKAO_REST_API_KEY is not set; hospital and image search are disabled")
	}

	// Profiles live for the lifetime of the process only
	patientStore := store.NewMemoryStore()

	inferenceClient := inference.NewOpenAIClient(cfg.Inference, inference.DefaultTemplates(), zl)
	hospitalFinder := geo.NewKakaoAdapter(cfg.Kakao, cfg.Triage.MaxHospitalResults, zl)
	imageSearcher := imagesearch.NewKakaoSearcher(cfg.Kakao, zl)
	pipeline := triage.NewService(inferenceClient, imageSearcher, hospitalFinder, cfg.Triage.FallbackDepartment, zl)

	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Gin router
	router := gin.New()
	router.Use(middleware.RequestLogger(zl), gin.Recovery())

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = cfg.Origin != "*"
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"}
	router.Use(cors.New(corsConfig))

	routes.SetupRoutes(router, patientStore, pipeline, cfg, zl)

	// Start server
	serverAddr := fmt.Sprintf(":%s", cfg.Port)
	zl.Info("Server starting", zap.String("addr", serverAddr), zap.String("env", cfg.Environment))
	if err := router.Run(serverAddr); err != nil {
		zl.Fatal("Failed to start server", zap.Error(err))
	}
}
