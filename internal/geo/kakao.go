package geo

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"patient-triage-server/internal/config"
	"patient-triage-server/internal/models"
)

const (
	// DefaultRadius is used when the caller does not give a radius (meters)
	DefaultRadius = 2000
	// MaxRadius is the provider's upper bound (meters)
	MaxRadius = 20000
	// DefaultMaxResults caps how many hospitals are returned
	DefaultMaxResults = 5

	hospitalCategory = "HP8"
	keywordPath      = "/v2/local/search/keyword.json"
)

// HospitalFinder finds hospitals near a coordinate for a department keyword.
// It never fails: errors degrade to an empty slice.
type HospitalFinder interface {
	FindNearby(ctx context.Context, at models.Coordinate, department string, radiusMeters int) []models.HospitalRecord
}

// PlaceDocument is one place returned by the keyword search API
type PlaceDocument struct {
	ID                string `json:"id"`
	PlaceName         string `json:"place_name"`
	CategoryName      string `json:"category_name"`
	CategoryGroupCode string `json:"category_group_code"`
	Phone             string `json:"phone"`
	AddressName       string `json:"address_name"`
	RoadAddressName   string `json:"road_address_name"`
	X                 string `json:"x"`
	Y                 string `json:"y"`
	PlaceURL          string `json:"place_url"`
	Distance          string `json:"distance"`
}

// PlaceSearchResponse is the keyword search API response
type PlaceSearchResponse struct {
	Documents []PlaceDocument `json:"documents"`
	Meta      struct {
		TotalCount    int  `json:"total_count"`
		PageableCount int  `json:"pageable_count"`
		IsEnd         bool `json:"is_end"`
	} `json:"meta"`
}

// KakaoAdapter searches hospitals through the Kakao Local keyword API
type KakaoAdapter struct {
	httpClient *resty.Client
	apiKey     string
	maxResults int
	logger     *zap.Logger
}

// NewKakaoAdapter builds the adapter. An empty key makes every search return no results.
func NewKakaoAdapter(cfg config.KakaoConfig, maxResults int, logger *zap.Logger) *KakaoAdapter {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	if cfg.RESTAPIKey != "" {
		client.SetHeader("Authorization", "KakaoAK "+cfg.RESTAPIKey)
	}

	return &KakaoAdapter{
		httpClient: client,
		apiKey:     cfg.RESTAPIKey,
		maxResults: maxResults,
		logger:     logger,
	}
}

// FindNearby returns at most maxResults hospitals in the provider's distance order.
func (a *KakaoAdapter) FindNearby(ctx context.Context, at models.Coordinate, department string, radiusMeters int) []models.HospitalRecord {
	hospitals := []models.HospitalRecord{}

	if a.apiKey == "" {
		a.logger.Warn("Kakao REST API key not configured, skipping hospital search")
		return hospitals
	}
	department = strings.TrimSpace(department)
	if department == "" {
		return hospitals
	}

	var response PlaceSearchResponse
	resp, err := a.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query":               department,
			"category_group_code": hospitalCategory,
			"x":                   formatDegrees(at.Longitude),
			"y":                   formatDegrees(at.Latitude),
			"radius":              strconv.Itoa(ClampRadius(radiusMeters)),
			"sort":                "distance",
			"size":                "15",
		}).
		SetResult(&response).
		Get(keywordPath)

	if err != nil {
		a.logger.Error("Kakao place search failed",
			zap.String("department", department),
			zap.Error(err),
		)
		return hospitals
	}
	if resp.IsError() {
		a.logger.Error("Kakao place search returned error",
			zap.String("department", department),
			zap.Int("status_code", resp.StatusCode()),
			zap.String("body", truncate(resp.String(), 200)),
		)
		return hospitals
	}

	for _, doc := range response.Documents {
		if len(hospitals) >= a.maxResults {
			break
		}
		hospitals = append(hospitals, ToHospitalRecord(doc, department))
	}

	a.logger.Info("Kakao place search completed",
		zap.String("department", department),
		zap.Int("total_count", response.Meta.TotalCount),
		zap.Int("returned", len(hospitals)),
	)
	return hospitals
}

// ToHospitalRecord maps a place document, preferring the road address.
func ToHospitalRecord(doc PlaceDocument, department string) models.HospitalRecord {
	address := doc.RoadAddressName
	if strings.TrimSpace(address) == "" {
		address = doc.AddressName
	}

	record := models.HospitalRecord{
		Name:       doc.PlaceName,
		Department: department,
		Distance:   FormatDistance(doc.Distance),
		Address:    address,
		Phone:      doc.Phone,
		URL:        doc.PlaceURL,
	}

	lng, errX := strconv.ParseFloat(strings.TrimSpace(doc.X), 64)
	lat, errY := strconv.ParseFloat(strings.TrimSpace(doc.Y), 64)
	if errX == nil && errY == nil {
		record.Location = &models.Coordinate{Latitude: lat, Longitude: lng}
	}
	return record
}

// FormatDistance renders meters as "350m" or "1.2km". Unparseable input is returned as is.
func FormatDistance(meters string) string {
	meters = strings.TrimSpace(meters)
	if meters == "" {
		return ""
	}
	m, err := strconv.ParseFloat(meters, 64)
	if err != nil {
		return meters
	}
	if m < 1000 {
		return fmt.Sprintf("%dm", int(m))
	}
	return fmt.Sprintf("%.1fkm", m/1000)
}

// ClampRadius applies the default and the provider's bounds.
func ClampRadius(radius int) int {
	switch {
	case radius <= 0:
		return DefaultRadius
	case radius > MaxRadius:
		return MaxRadius
	}
	return radius
}

func formatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
