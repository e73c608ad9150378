package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"patient-triage-server/internal/config"
	"patient-triage-server/internal/handlers"
	"patient-triage-server/internal/inference"
	"patient-triage-server/internal/models"
	"patient-triage-server/internal/store"
	"patient-triage-server/internal/triage"
)

var _ handlers.Pipeline = (*triage.Service)(nil)

func init() {
	gin.SetMode(gin.TestMode)
}

type scriptedInference struct {
	replies map[inference.TemplateID]string
}

func (s *scriptedInference) Infer(_ context.Context, id inference.TemplateID, _ inference.Fields) (string, error) {
	reply, ok := s.replies[id]
	if !ok {
		return "", &inference.Error{Kind: inference.KindTransport, Template: id, Cause: "connection refused", Err: errors.New("connection refused")}
	}
	return reply, nil
}

func newServer(t *testing.T, replies map[inference.TemplateID]string) *gin.Engine {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:            "route-secret",
		JWTExpirationMinutes: 5,
		Environment:          "development",
		Triage: config.TriageConfig{
			FallbackDepartment: "가정의학과",
			DefaultRadius:      2000,
			RequestTimeout:     5 * time.Second,
		},
	}
	svc := triage.NewService(&scriptedInference{replies: replies}, nil, nil, cfg.Triage.FallbackDepartment, zap.NewNop())

	r := gin.New()
	SetupRoutes(r, store.NewMemoryStore(), svc, cfg, zap.NewNop())
	return r
}

func call(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) (int, json.RawMessage) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env struct {
		Data json.RawMessage `json:"data"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w.Code, env.Data
}

func login(t *testing.T, r *gin.Engine) string {
	t.Helper()
	code, _ := call(t, r, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"user_id": "kim", "password": "pass1234", "name": "김환자", "birth_date": "1990-01-01",
		"phone_number": "010", "insurance_info": "NHIS",
	})
	require.Equal(t, http.StatusCreated, code)

	code, data := call(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{"user_id": "kim", "password": "pass1234"})
	require.Equal(t, http.StatusOK, code)
	var resp handlers.LoginResponse
	require.NoError(t, json.Unmarshal(data, &resp))
	return resp.AccessToken
}

func TestHealth(t *testing.T) {
	r := newServer(t, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"UP"}`, w.Body.String())
}

func TestPipelineRequiresAuth(t *testing.T) {
	r := newServer(t, nil)
	for _, path := range []string{"/api/v1/charts/generate", "/api/v1/cost-estimate", "/api/v1/hospitals/recommend", "/api/v1/medicines/search"} {
		code, _ := call(t, r, http.MethodPost, path, "", gin.H{})
		require.Equal(t, http.StatusUnauthorized, code, path)
	}
}

func TestEndToEnd_ProviderReplies(t *testing.T) {
	r := newServer(t, map[inference.TemplateID]string{
		inference.TemplateChartNote:        "  [주증상] 두통  ",
		inference.TemplateCostGuide:        "Covered by NHIS.",
		inference.TemplateDepartmentTriage: "Urgency: High\nDepartment: 신경과\nReason_kr: 두통이 심함\nReason_en: Severe headache",
		inference.TemplateMedicineLookup:   inference.MedicineMarkerKR + "\n한국어\n" + inference.MedicineMarkerEN + "\nEnglish",
	})
	token := login(t, r)

	code, data := call(t, r, http.MethodPost, "/api/v1/charts/generate", token, gin.H{"selected_symptoms": []string{"두통"}})
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `{"chart":"[주증상] 두통"}`, string(data))

	code, data = call(t, r, http.MethodPost, "/api/v1/cost-estimate", token, nil)
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `{"cost_guide":"Covered by NHIS."}`, string(data))

	code, data = call(t, r, http.MethodPost, "/api/v1/hospitals/recommend", token, gin.H{"symptoms": "두통", "latitude": 37.5, "longitude": 127.0})
	require.Equal(t, http.StatusOK, code)
	var rec models.RecommendationResponse
	require.NoError(t, json.Unmarshal(data, &rec))
	require.Equal(t, "신경과", rec.RecommendedDepartment)
	require.Equal(t, models.UrgencyHigh, rec.UrgencyLevel)
	require.Equal(t, "두통이 심함", rec.Reason)
	require.Equal(t, "Severe headache", rec.ReasonEN)
	require.Empty(t, rec.Hospitals)
	require.NotNil(t, rec.Hospitals)

	code, data = call(t, r, http.MethodPost, "/api/v1/medicines/search", token, gin.H{"keyword": "타이레놀"})
	require.Equal(t, http.StatusOK, code)
	var med models.MedicineResult
	require.NoError(t, json.Unmarshal(data, &med))
	require.Equal(t, "한국어", med.InfoKR)
	require.Equal(t, "English", med.InfoEN)
}

func TestEndToEnd_ProviderDown(t *testing.T) {
	r := newServer(t, nil)
	token := login(t, r)

	code, data := call(t, r, http.MethodPost, "/api/v1/charts/generate", token, gin.H{"detail_description": "기침"})
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, string(data), "AI 차트 생성 실패")

	code, data = call(t, r, http.MethodPost, "/api/v1/hospitals/recommend", token, gin.H{"symptoms": "기침", "latitude": 37.5, "longitude": 127.0})
	require.Equal(t, http.StatusOK, code)
	var rec models.RecommendationResponse
	require.NoError(t, json.Unmarshal(data, &rec))
	require.Equal(t, "가정의학과", rec.RecommendedDepartment)
	require.Equal(t, models.UrgencyLow, rec.UrgencyLevel)
}
