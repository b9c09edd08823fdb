package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mondosurf/tide-api/internal/adapter/store/spots"
	"github.com/mondosurf/tide-api/internal/domain"
	"github.com/mondosurf/tide-api/internal/usecase"
)

type fakeSource struct{}

func (fakeSource) Constituent(name domain.Name, lat, lon float64) domain.Sample {
	switch name {
	case domain.M2:
		return domain.Sample{Name: name, AmplitudeM: 0.8, PhaseDeg: 100.0}
	case domain.K1:
		return domain.Sample{Name: name, AmplitudeM: 0.3, PhaseDeg: 45.0}
	default:
		return domain.Sample{Name: name}
	}
}

type landSource struct{}

func (landSource) Constituent(name domain.Name, lat, lon float64) domain.Sample {
	return domain.Sample{Name: name}
}

func newTestRouter(src usecase.ConstituentSource) *gin.Engine {
	gin.SetMode(gin.TestMode)
	catalog := spots.NewCatalog([]spots.Spot{
		{Name: "Malibu", Lat: 34.0330, Lon: -118.6790},
	})
	h := NewHandler(usecase.NewService(src, nil), catalog, nil)
	return NewRouter(h, nil)
}

func postTides(t *testing.T, router *gin.Engine, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tides", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	router := newTestRouter(fakeSource{})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, ModelName, body["model"])
}

func TestPredictTidesEvents(t *testing.T) {
	router := newTestRouter(fakeSource{})
	w := postTides(t, router, map[string]any{
		"lat": 34.03, "lon": -118.68, "days": 1, "date": "2024-06-10",
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body struct {
		Model string      `json:"model"`
		Tides []tidePoint `json:"tides"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, ModelName, body.Model)
	require.NotEmpty(t, body.Tides)
	for _, p := range body.Tides {
		assert.Contains(t, []string{"high", "low"}, p.Type)
		assert.Equal(t, "msl", p.Datum)
		assert.Regexp(t, `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}[+-]\d{2}:\d{2}$`, p.Datetime)
	}
}

func TestPredictTidesCombined(t *testing.T) {
	router := newTestRouter(fakeSource{})
	w := postTides(t, router, map[string]any{
		"lat": 34.03, "lon": -118.68, "days": 1, "date": "2024-06-10", "interval": 60,
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body struct {
		Tides []tidePoint `json:"tides"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	var events, samples int
	for i, p := range body.Tides {
		if p.Type != "" {
			events++
		} else {
			samples++
		}
		if i > 0 {
			assert.LessOrEqual(t, body.Tides[i-1].Datetime, p.Datetime, "merged output is chronological")
		}
	}
	assert.NotZero(t, events)
	assert.NotZero(t, samples)
}

func TestPredictTidesValidation(t *testing.T) {
	router := newTestRouter(fakeSource{})
	tests := []struct {
		name string
		body map[string]any
		want string
	}{
		{"missing coords", map[string]any{"days": 1}, "lat and lon are required"},
		{"bad lat", map[string]any{"lat": 95.0, "lon": 0.0}, "lat must be"},
		{"bad lon", map[string]any{"lat": 0.0, "lon": 200.0}, "lon must be"},
		{"bad days", map[string]any{"lat": 0.0, "lon": 0.0, "days": 45}, "days must be"},
		{"bad interval", map[string]any{"lat": 34.0, "lon": -118.0, "interval": 45}, "15, 30, 60"},
		{"bad datum", map[string]any{"lat": 34.0, "lon": -118.0, "datum": "ngvd29"}, "invalid datum"},
		{"bad date", map[string]any{"lat": 34.0, "lon": -118.0, "date": "June 10"}, "date must be"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := postTides(t, router, tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tc.want)
		})
	}
}

func TestPredictTidesDataUnavailable(t *testing.T) {
	router := newTestRouter(landSource{})
	w := postTides(t, router, map[string]any{"lat": 46.8, "lon": 8.2, "days": 1})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "no tidal data available")
}

func TestConstituentsEndpoint(t *testing.T) {
	router := newTestRouter(fakeSource{})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/constituents", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Count        int `json:"count"`
		Constituents []struct {
			Name         string  `json:"name"`
			SpeedDegHour float64 `json:"speed_deg_per_hour"`
		} `json:"constituents"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, len(domain.Speeds), body.Count)
	for i := 1; i < len(body.Constituents); i++ {
		assert.GreaterOrEqual(t, body.Constituents[i-1].SpeedDegHour, body.Constituents[i].SpeedDegHour)
	}
}

func TestSpotsEndpoint(t *testing.T) {
	router := newTestRouter(fakeSource{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/spots", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Malibu")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/spots?lat=34.0&lon=-118.5", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "distance_km")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/spots?lat=999&lon=0", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
