package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"patient-triage-server/internal/config"
	"patient-triage-server/internal/geo"
	"patient-triage-server/internal/models"
	"patient-triage-server/internal/store"
	"patient-triage-server/internal/utils"
)

// Pipeline is the triage service as seen by the HTTP layer.
type Pipeline interface {
	GenerateChartNote(ctx context.Context, profile *models.PatientProfile, input models.SymptomInput) string
	GenerateCostGuide(ctx context.Context, profile *models.PatientProfile) string
	Recommend(ctx context.Context, symptomText string, at models.Coordinate, radiusMeters int) models.RecommendationResponse
	LookupMedicine(ctx context.Context, profile *models.PatientProfile, keyword string) models.MedicineResult
}

// PipelineHandler serves chart, cost, hospital and medicine requests for the caller.
type PipelineHandler struct {
	Store    store.PatientStore
	Pipeline Pipeline
	Cfg      *config.Config
	Logger   *zap.Logger
}

// NewPipelineHandler creates a new PipelineHandler.
func NewPipelineHandler(s store.PatientStore, p Pipeline, cfg *config.Config, logger *zap.Logger) *PipelineHandler {
	return &PipelineHandler{Store: s, Pipeline: p, Cfg: cfg, Logger: logger}
}

// requestContext bounds a pipeline call by the configured request timeout.
func (h *PipelineHandler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.Cfg.Triage.RequestTimeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), h.Cfg.Triage.RequestTimeout)
}

// GenerateChartRequest represents the request body for chart drafting.
type GenerateChartRequest struct {
	SelectedSymptoms  []string `json:"selected_symptoms"`
	DetailDescription string   `json:"detail_description"`
}

// GenerateChart drafts a chart note for the caller. Nothing is stored.
func (h *PipelineHandler) GenerateChart(c *gin.Context) {
	var req GenerateChartRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	input := models.SymptomInput{
		SelectedSymptoms:  req.SelectedSymptoms,
		DetailDescription: req.DetailDescription,
	}.Normalized()
	if len(input.SelectedSymptoms) == 0 && input.DetailDescription == "" {
		utils.BadRequest(c, "At least one symptom or a detail description is required")
		return
	}

	profile, ok := currentProfile(c, h.Store)
	if !ok {
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	chart := h.Pipeline.GenerateChartNote(ctx, profile, input)
	utils.Success(c, "Chart generated", gin.H{"chart": chart})
}

// SaveChartRequest represents the request body for saving a reviewed chart.
type SaveChartRequest struct {
	Symptoms       []string `json:"symptoms"`
	Detail         string   `json:"detail"`
	FinalChartText string   `json:"final_chart_text" binding:"required"`
}

// SaveChart appends the reviewed chart to the caller's history.
func (h *PipelineHandler) SaveChart(c *gin.Context) {
	var req SaveChartRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	if strings.TrimSpace(req.FinalChartText) == "" {
		utils.BadRequest(c, "final_chart_text must not be blank")
		return
	}

	userID, ok := callerID(c)
	if !ok {
		return
	}

	entry := models.ChartEntry{
		Symptoms: models.SymptomInput{
			SelectedSymptoms:  req.Symptoms,
			DetailDescription: req.Detail,
		}.Normalized(),
		ChartText: req.FinalChartText,
	}

	saved, err := h.Store.AppendChartEntry(c.Request.Context(), userID, entry)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.NotFound(c, "Patient profile not found")
			return
		}
		utils.InternalServerError(c, "Failed to save chart: "+err.Error())
		return
	}

	h.Logger.Info("Chart saved",
		zap.String("user_id", userID),
		zap.String("chart_id", saved.ID),
	)
	utils.Created(c, "Chart saved", saved)
}

// ListCharts returns the caller's saved charts, oldest first.
func (h *PipelineHandler) ListCharts(c *gin.Context) {
	profile, ok := currentProfile(c, h.Store)
	if !ok {
		return
	}
	charts := profile.Charts
	if charts == nil {
		charts = []models.ChartEntry{}
	}
	utils.Success(c, "Charts fetched successfully", charts)
}

// EstimateCost explains expected costs for the caller's insurance.
func (h *PipelineHandler) EstimateCost(c *gin.Context) {
	profile, ok := currentProfile(c, h.Store)
	if !ok {
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	guide := h.Pipeline.GenerateCostGuide(ctx, profile)
	utils.Success(c, "Cost guide generated", gin.H{"cost_guide": guide})
}

// RecommendHospitalsRequest represents the request body for hospital recommendation.
type RecommendHospitalsRequest struct {
	Symptoms  string   `json:"symptoms" binding:"required"`
	Latitude  *float64 `json:"latitude" binding:"required,latitude"`
	Longitude *float64 `json:"longitude" binding:"required,longitude"`
	Radius    int      `json:"radius" validate:"gte=0,lte=20000"`
}

// RecommendHospitals triages the symptoms and lists nearby hospitals for the department.
func (h *PipelineHandler) RecommendHospitals(c *gin.Context) {
	var req RecommendHospitalsRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	if strings.TrimSpace(req.Symptoms) == "" {
		utils.BadRequest(c, "symptoms must not be blank")
		return
	}

	radius := req.Radius
	if radius == 0 {
		radius = h.Cfg.Triage.DefaultRadius
	}
	radius = geo.ClampRadius(radius)

	ctx, cancel := h.requestContext(c)
	defer cancel()

	at := models.Coordinate{Latitude: *req.Latitude, Longitude: *req.Longitude}
	resp := h.Pipeline.Recommend(ctx, req.Symptoms, at, radius)
	utils.Success(c, "Recommendation generated", resp)
}

// SearchMedicineRequest represents the request body for medicine lookup.
type SearchMedicineRequest struct {
	Keyword string `json:"keyword" binding:"required"`
}

// SearchMedicine looks up a medicine and checks it against the caller's allergies.
func (h *PipelineHandler) SearchMedicine(c *gin.Context) {
	var req SearchMedicineRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	if strings.TrimSpace(req.Keyword) == "" {
		utils.BadRequest(c, "keyword must not be blank")
		return
	}

	profile, ok := currentProfile(c, h.Store)
	if !ok {
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	result := h.Pipeline.LookupMedicine(ctx, profile, req.Keyword)
	utils.Success(c, "Medicine information fetched", result)
}
