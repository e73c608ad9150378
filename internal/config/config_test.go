package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("KAKAO_REST_API_KEY", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "3001", cfg.Port)
	require.Equal(t, "gpt-4o-mini", cfg.Inference.Model)
	require.Equal(t, 30*time.Second, cfg.Inference.Timeout)
	require.Equal(t, 2000, cfg.Triage.DefaultRadius)
	require.Equal(t, 5, cfg.Triage.MaxHospitalResults)
	require.Equal(t, 45*time.Second, cfg.Triage.RequestTimeout)
	require.Equal(t, "가정의학과", cfg.Triage.FallbackDepartment)
	require.Empty(t, cfg.Inference.APIKey)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("INFERENCE_TIMEOUT_SECONDS", "12")
	t.Setenv("FALLBACK_DEPARTMENT", "내과")
	t.Setenv("KAKAO_REST_API_KEY", "kakao-key")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, 12*time.Second, cfg.Inference.Timeout)
	require.Equal(t, "내과", cfg.Triage.FallbackDepartment)
	require.Equal(t, "kakao-key", cfg.Kakao.RESTAPIKey)
}

func TestLoadConfig_InvalidInteger(t *testing.T) {
	t.Setenv("DEFAULT_SEARCH_RADIUS", "two-km")

	_, err := LoadConfig()
	require.Error(t, err)
	require.Contains(t, err.Error(), "DEFAULT_SEARCH_RADIUS")
}
