package triage

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"patient-triage-server/internal/extract"
	"patient-triage-server/internal/geo"
	"patient-triage-server/internal/imagesearch"
	"patient-triage-server/internal/inference"
	"patient-triage-server/internal/models"
)

// medicineFailurePrefix precedes the cause when medicine lookup fails.
const medicineFailurePrefix = "의약품 정보 조회 실패 (Medicine lookup failed): "

// Service composes the inference client and the extractors, one call per use case.
// It holds no per-request state and never returns provider errors to callers.
type Service struct {
	inference inference.Client
	images    imagesearch.Searcher
	hospitals geo.HospitalFinder
	parser    *extract.TriageParser
	logger    *zap.Logger
}

// NewService wires the pipeline. images and hospitals may be nil.
func NewService(client inference.Client, images imagesearch.Searcher, hospitals geo.HospitalFinder, fallbackDepartment string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		inference: client,
		images:    images,
		hospitals: hospitals,
		parser:    extract.NewTriageParser(fallbackDepartment, logger),
		logger:    logger,
	}
}

// GenerateChartNote drafts a pre-clinical note. Nothing is persisted here.
func (s *Service) GenerateChartNote(ctx context.Context, profile *models.PatientProfile, input models.SymptomInput) string {
	input = input.Normalized()
	fields := inference.Fields{
		inference.FieldName:        models.ValueOr(profile.Name, "환자"),
		inference.FieldBirthDate:   models.ValueOr(profile.BirthDate, "미상"),
		inference.FieldHistory:     models.ValueOr(profile.MedicalHistory, "특이사항 없음"),
		inference.FieldMedications: models.ValueOr(profile.Medications, "없음"),
		inference.FieldAllergies:   models.ValueOr(profile.Allergies, "없음"),
		inference.FieldSymptoms:    input.TagList(),
		inference.FieldDetail:      input.DetailDescription,
	}

	s.logger.Info("Generating chart note",
		zap.String("user_id", profile.UserID),
		zap.Int("symptom_count", len(input.SelectedSymptoms)),
	)

	raw, err := s.inference.Infer(ctx, inference.TemplateChartNote, fields)
	if err != nil {
		ie := inference.AsError(err)
		s.logFailure("chart note", profile.UserID, ie)
		return extract.ChartFailure(ie.Cause)
	}
	return extract.ParseChart(raw)
}

// GenerateCostGuide explains expected costs for the profile's insurance.
// The billing branch itself is decided by the instruction template.
func (s *Service) GenerateCostGuide(ctx context.Context, profile *models.PatientProfile) string {
	insurance := strings.TrimSpace(profile.InsuranceInfo)
	fields := inference.Fields{
		inference.FieldName:              models.ValueOr(profile.Name, "Unknown"),
		inference.FieldInsurance:         models.ValueOr(insurance, "None"),
		inference.FieldInsuranceCategory: string(models.NormalizeInsurance(insurance)),
	}

	s.logger.Info("Generating cost guide",
		zap.String("user_id", profile.UserID),
		zap.String("insurance_category", fields[inference.FieldInsuranceCategory]),
	)

	raw, err := s.inference.Infer(ctx, inference.TemplateCostGuide, fields)
	if err != nil {
		ie := inference.AsError(err)
		s.logFailure("cost guide", profile.UserID, ie)
		return extract.CostGuideFailure(ie.Cause)
	}
	return extract.ParseCostGuide(raw)
}

// RecommendDepartment always returns a non-empty department and a valid urgency.
func (s *Service) RecommendDepartment(ctx context.Context, symptomText string) models.TriageResult {
	fields := inference.Fields{
		inference.FieldSymptomText: strings.TrimSpace(symptomText),
		inference.FieldFallback:    s.parser.Defaults().Department,
	}

	raw, err := s.inference.Infer(ctx, inference.TemplateDepartmentTriage, fields)
	if err != nil {
		s.logFailure("department triage", "", inference.AsError(err))
		return s.parser.Defaults()
	}
	return s.parser.Parse(raw)
}

// Recommend triages the symptoms and looks up matching hospitals near at.
func (s *Service) Recommend(ctx context.Context, symptomText string, at models.Coordinate, radiusMeters int) models.RecommendationResponse {
	result := s.RecommendDepartment(ctx, symptomText)

	hospitals := []models.HospitalRecord{}
	if s.hospitals != nil {
		if found := s.hospitals.FindNearby(ctx, at, result.Department, radiusMeters); found != nil {
			hospitals = found
		}
	}

	return models.RecommendationResponse{
		RecommendedDepartment: result.Department,
		UrgencyLevel:          result.Urgency,
		Reason:                result.Reason,
		ReasonEN:              result.ReasonEN,
		Hospitals:             hospitals,
	}
}

// LookupMedicine fetches bilingual medicine information checked against the
// profile's allergies, plus a best-effort illustration. The two calls run concurrently.
func (s *Service) LookupMedicine(ctx context.Context, profile *models.PatientProfile, keyword string) models.MedicineResult {
	keyword = strings.TrimSpace(keyword)
	fields := inference.Fields{
		inference.FieldAllergies: models.ValueOr(strings.TrimSpace(profile.Allergies), "None"),
		inference.FieldKeyword:   keyword,
	}

	var (
		result   models.MedicineResult
		imageURL string
		g        errgroup.Group
	)

	g.Go(func() error {
		raw, err := s.inference.Infer(ctx, inference.TemplateMedicineLookup, fields)
		if err != nil {
			ie := inference.AsError(err)
			s.logFailure("medicine lookup", profile.UserID, ie)
			result = extract.MedicineFailure(medicineFailurePrefix + ie.Cause)
			return nil
		}
		result = extract.ParseMedicine(raw)
		return nil
	})

	if s.images != nil {
		g.Go(func() error {
			url, err := s.images.FirstImage(ctx, keyword)
			if err != nil {
				s.logger.Warn("Medicine image lookup failed",
					zap.String("keyword", keyword),
					zap.Error(err),
				)
				return nil
			}
			imageURL = url
			return nil
		})
	}

	_ = g.Wait()
	result.ImageURL = imageURL
	return result
}

func (s *Service) logFailure(useCase, userID string, ie *inference.Error) {
	s.logger.Error("Inference failed, returning fallback",
		zap.String("use_case", useCase),
		zap.String("user_id", userID),
		zap.String("kind", string(ie.Kind)),
		zap.Int("status_code", ie.Status),
		zap.String("cause", ie.Cause),
	)
}
