package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for our application
type Config struct {
	Port                 string
	Origin               string
	Environment          string
	JWTSecret            string
	JWTExpirationMinutes int
	Log                  LogConfig
	Inference            InferenceConfig
	Kakao                KakaoConfig
	Triage               TriageConfig
}

// LogConfig controls the zap logger built at startup
type LogConfig struct {
	Level  string
	Format string
}

// InferenceConfig holds the text-generation provider settings
type InferenceConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// KakaoConfig holds the place-search and image-search provider settings
type KakaoConfig struct {
	RESTAPIKey string
	BaseURL    string
	Timeout    time.Duration
}

// TriageConfig holds pipeline defaults
type TriageConfig struct {
	FallbackDepartment string
	DefaultRadius      int
	MaxHospitalResults int
	RequestTimeout     time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	jwtExpMinutes, err := strconv.Atoi(getEnv("JWT_EXPIRATION_MINUTES", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_MINUTES: %w", err)
	}

	inferenceTimeout, err := strconv.Atoi(getEnv("INFERENCE_TIMEOUT_SECONDS", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid INFERENCE_TIMEOUT_SECONDS: %w", err)
	}

	kakaoTimeout, err := strconv.Atoi(getEnv("KAKAO_TIMEOUT_SECONDS", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid KAKAO_TIMEOUT_SECONDS: %w", err)
	}

	radius, err := strconv.Atoi(getEnv("DEFAULT_SEARCH_RADIUS", "2000"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_SEARCH_RADIUS: %w", err)
	}

	maxResults, err := strconv.Atoi(getEnv("MAX_HOSPITAL_RESULTS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_HOSPITAL_RESULTS: %w", err)
	}

	// Wraps a whole pipeline request: inference plus the follow-up search.
	pipelineTimeout, err := strconv.Atoi(getEnv("PIPELINE_TIMEOUT_SECONDS", "45"))
	if err != nil {
		return nil, fmt.Errorf("invalid PIPELINE_TIMEOUT_SECONDS: %w", err)
	}

	inferenceConfig := InferenceConfig{
		APIKey:  getEnv("OPENAI_API_KEY", ""),
		BaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		Model:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		Timeout: time.Duration(inferenceTimeout) * time.Second,
	}

	kakaoConfig := KakaoConfig{
		RESTAPIKey: getEnv("KAKAO_REST_API_KEY", ""),
		BaseURL:    getEnv("KAKAO_BASE_URL", "https://dapi.kakao.com"),
		Timeout:    time.Duration(kakaoTimeout) * time.Second,
	}

	triageConfig := TriageConfig{
		FallbackDepartment: getEnv("FALLBACK_DEPARTMENT", "가정의학과"),
		DefaultRadius:      radius,
		MaxHospitalResults: maxResults,
		RequestTimeout:     time.Duration(pipelineTimeout) * time.Second,
	}

	return &Config{
		Port:                 getEnv("PORT", "3001"),
		Origin:               getEnv("ORIGIN", "*"),
		Environment:          getEnv("APP_ENV", "development"),
		JWTSecret:            getEnv("JWT_SECRET", "default_jwt_secret"),
		JWTExpirationMinutes: jwtExpMinutes,
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Inference: inferenceConfig,
		Kakao:     kakaoConfig,
		Triage:    triageConfig,
	}, nil
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
