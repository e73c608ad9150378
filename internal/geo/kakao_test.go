package geo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"patient-triage-server/internal/config"
	"patient-triage-server/internal/models"
)

var _ HospitalFinder = (*KakaoAdapter)(nil)

var seoulCityHall = models.Coordinate{Latitude: 37.5665, Longitude: 126.978}

func newAdapter(baseURL, key string) *KakaoAdapter {
	return NewKakaoAdapter(config.KakaoConfig{
		RESTAPIKey: key,
		BaseURL:    baseURL,
		Timeout:    2 * time.Second,
	}, 5, zap.NewNop())
}

func placeJSON(i int) string {
	return fmt.Sprintf(`{"id":"%d","place_name":"병원%d","category_group_code":"HP8","phone":"02-000-000%d",
"address_name":"서울 중구 지번 %d","road_address_name":"서울 중구 도로 %d","x":"126.97%d","y":"37.56%d",
"place_url":"http://place.map.kakao.com/%d","distance":"%d"}`, i, i, i, i, i, i, i, i, i*150)
}

func TestKakaoAdapter_FindNearby_MapsAndTruncates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, keywordPath, r.URL.Path)
		assert.Equal(t, "KakaoAK test-key", r.Header.Get("Authorization"))
		q := r.URL.Query()
		assert.Equal(t, "내과", q.Get("query"))
		assert.Equal(t, "distance", q.Get("sort"))
		assert.Equal(t, "2000", q.Get("radius"))
		assert.Equal(t, "126.978", q.Get("x"))
		assert.Equal(t, "37.5665", q.Get("y"))

		docs := ""
		for i := 1; i <= 8; i++ {
			if i > 1 {
				docs += ","
			}
			docs += placeJSON(i)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"documents":[` + docs + `],"meta":{"total_count":8,"is_end":true}}`))
	}))
	defer srv.Close()

	got := newAdapter(srv.URL, "test-key").FindNearby(context.Background(), seoulCityHall, "내과", 0)
	require.Len(t, got, 5)
	for i, h := range got {
		require.Equal(t, fmt.Sprintf("병원%d", i+1), h.Name, "provider order preserved")
		require.Equal(t, "내과", h.Department)
	}
	require.Equal(t, "서울 중구 도로 1", got[0].Address)
	require.Equal(t, "150m", got[0].Distance)
	require.NotNil(t, got[0].Location)
	require.InDelta(t, 37.561, got[0].Location.Latitude, 1e-9)
	require.InDelta(t, 126.971, got[0].Location.Longitude, 1e-9)
}

func TestKakaoAdapter_FindNearby_ZeroDocuments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"documents":[],"meta":{"total_count":0}}`))
	}))
	defer srv.Close()

	got := newAdapter(srv.URL, "k").FindNearby(context.Background(), seoulCityHall, "피부과", 1000)
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestKakaoAdapter_FindNearby_DegradesToEmpty(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errorType":"AccessDeniedError","message":"cannot find appkey"}`))
	}))
	defer failing.Close()

	closed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	closedURL := closed.URL
	closed.Close()

	cases := map[string]*KakaoAdapter{
		"status":     newAdapter(failing.URL, "k"),
		"transport":  newAdapter(closedURL, "k"),
		"credential": newAdapter(failing.URL, ""),
	}
	for name, a := range cases {
		got := a.FindNearby(context.Background(), seoulCityHall, "내과", 2000)
		require.NotNil(t, got, name)
		require.Empty(t, got, name)
	}
}

func TestToHospitalRecord_FallsBackToLegacyAddress(t *testing.T) {
	rec := ToHospitalRecord(PlaceDocument{
		PlaceName:   "동네의원",
		AddressName: "서울 종로구 1-1",
		X:           "not-a-number",
		Y:           "37.5",
		Distance:    "2500",
	}, "내과")
	require.Equal(t, "서울 종로구 1-1", rec.Address)
	require.Equal(t, "2.5km", rec.Distance)
	require.Nil(t, rec.Location)
}

func TestFormatDistance(t *testing.T) {
	require.Equal(t, "0m", FormatDistance("0"))
	require.Equal(t, "999m", FormatDistance("999"))
	require.Equal(t, "1.0km", FormatDistance("1000"))
	require.Equal(t, "", FormatDistance(""))
	require.Equal(t, "far", FormatDistance("far"))
}

func TestClampRadius(t *testing.T) {
	require.Equal(t, DefaultRadius, ClampRadius(0))
	require.Equal(t, DefaultRadius, ClampRadius(-5))
	require.Equal(t, 500, ClampRadius(500))
	require.Equal(t, MaxRadius, ClampRadius(50000))
}
