package imagesearch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"patient-triage-server/internal/config"
)

var (
	// ErrMissingCredential is returned when no API key is configured
	ErrMissingCredential = errors.New("image search credential not configured")

	// ErrNoImage is returned when the provider found nothing for the query
	ErrNoImage = errors.New("no image found")
)

// Searcher returns the first image URL for a free-text query
type Searcher interface {
	FirstImage(ctx context.Context, query string) (string, error)
}

// ImageDocument is one hit of the image search API
type ImageDocument struct {
	ImageURL        string `json:"image_url"`
	ThumbnailURL    string `json:"thumbnail_url"`
	DisplaySitename string `json:"display_sitename"`
	DocURL          string `json:"doc_url"`
}

// ImageSearchResponse is the image search API response
type ImageSearchResponse struct {
	Documents []ImageDocument `json:"documents"`
}

// KakaoSearcher uses the Kakao image search API
type KakaoSearcher struct {
	httpClient *resty.Client
	apiKey     string
	logger     *zap.Logger
}

// NewKakaoSearcher builds the searcher. An empty key makes every lookup fail with ErrMissingCredential.
func NewKakaoSearcher(cfg config.KakaoConfig, logger *zap.Logger) *KakaoSearcher {
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
	return &KakaoSearcher{httpClient: client, apiKey: cfg.RESTAPIKey, logger: logger}
}

// FirstImage asks for the single most relevant image.
func (s *KakaoSearcher) FirstImage(ctx context.Context, query string) (string, error) {
	if s.apiKey == "" {
		return "", ErrMissingCredential
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return "", ErrNoImage
	}

	var response ImageSearchResponse
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query": query,
			"sort":  "accuracy",
			"size":  "1",
		}).
		SetResult(&response).
		Get("/v2/search/image")
	if err != nil {
		return "", fmt.Errorf("failed to call image search: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("image search returned status %d", resp.StatusCode())
	}

	for _, doc := range response.Documents {
		if doc.ImageURL != "" {
			return doc.ImageURL, nil
		}
		if doc.ThumbnailURL != "" {
			return doc.ThumbnailURL, nil
		}
	}
	return "", ErrNoImage
}
