// Package http exposes the tide prediction service over a JSON API.
package http

import (
	"errors"
	"log"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mondosurf/tide-api/internal/adapter/store/spots"
	"github.com/mondosurf/tide-api/internal/adapter/tz"
	"github.com/mondosurf/tide-api/internal/astronomy"
	"github.com/mondosurf/tide-api/internal/domain"
	"github.com/mondosurf/tide-api/internal/usecase"
)

// ModelName identifies the underlying tidal atlas in API responses.
const ModelName = "FES2022b"

// Handler carries the API's collaborators.
type Handler struct {
	service *usecase.Service
	catalog *spots.Catalog
	tzres   *tz.Resolver
}

// NewHandler builds a handler. catalog may be nil (the spots endpoints then
// report an empty catalog).
func NewHandler(service *usecase.Service, catalog *spots.Catalog, tzres *tz.Resolver) *Handler {
	if catalog == nil {
		catalog = spots.NewCatalog(nil)
	}
	return &Handler{service: service, catalog: catalog, tzres: tzres}
}

// tideRequest is the POST /api/v1/tides body. Lat and Lon are pointers so a
// missing field is distinguishable from a zero coordinate.
type tideRequest struct {
	Lat      *float64 `json:"lat"`
	Lon      *float64 `json:"lon"`
	Days     int      `json:"days"`
	Date     string   `json:"date"`
	Interval int      `json:"interval"`
	Datum    string   `json:"datum"`

	// DatumOffset is the deprecated manual offset in meters; it overrides
	// datum and tags output "custom".
	DatumOffset *float64 `json:"datum_offset"`
}

// tidePoint is one row of the tides response. Events carry a type; curve
// samples leave it empty and omit it.
type tidePoint struct {
	Type     string  `json:"type,omitempty"`
	Datetime string  `json:"datetime"`
	HeightM  float64 `json:"height_m"`
	HeightFt float64 `json:"height_ft"`
	Datum    string  `json:"datum"`
}

// PredictTides handles POST /api/v1/tides. Without an interval it returns
// the high/low events over the window; with one it returns the events merged
// with the regular-interval curve, sorted chronologically.
func (h *Handler) PredictTides(c *gin.Context) {
	var body tideRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if body.Lat == nil || body.Lon == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lon are required"})
		return
	}
	if *body.Lat < -90 || *body.Lat > 90 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat must be between -90 and 90"})
		return
	}
	if *body.Lon < -180 || *body.Lon > 180 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lon must be between -180 and 180"})
		return
	}
	if body.Days == 0 {
		body.Days = 14
	}
	if body.Days < 1 || body.Days > 30 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be between 1 and 30"})
		return
	}

	datum, err := usecase.ParseDatum(body.Datum)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req := usecase.Request{
		Lat:           *body.Lat,
		Lon:           *body.Lon,
		Days:          body.Days,
		Interval:      body.Interval,
		Datum:         datum,
		ManualOffsetM: body.DatumOffset,
	}
	if body.Date != "" {
		day, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		req.StartDate = &day
	}

	if req.Interval == 0 {
		events, err := h.service.PredictEvents(req)
		if err != nil {
			h.writePredictError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"model": ModelName,
			"tides": eventsToPoints(events),
		})
		return
	}

	combined, err := h.service.PredictCombined(req)
	if err != nil {
		h.writePredictError(c, err)
		return
	}

	merged := eventsToPoints(combined.Events)
	for _, sample := range combined.Curve {
		merged = append(merged, tidePoint{
			Datetime: formatTime(sample.Datetime),
			HeightM:  sample.HeightM,
			HeightFt: sample.HeightFt,
			Datum:    sample.Datum,
		})
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Datetime < merged[j].Datetime
	})
	c.JSON(http.StatusOK, gin.H{
		"model": ModelName,
		"tides": merged,
	})
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"model":  ModelName,
	})
}

// Constituents handles GET /api/v1/constituents: the known constituent names
// with their angular speeds, sorted by decreasing speed.
func (h *Handler) Constituents(c *gin.Context) {
	type constituentInfo struct {
		Name         string  `json:"name"`
		SpeedDegHour float64 `json:"speed_deg_per_hour"`
	}
	out := make([]constituentInfo, 0, len(domain.Speeds))
	for name, speed := range domain.Speeds {
		out = append(out, constituentInfo{Name: string(name), SpeedDegHour: speed})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SpeedDegHour != out[j].SpeedDegHour {
			return out[i].SpeedDegHour > out[j].SpeedDegHour
		}
		return out[i].Name < out[j].Name
	})
	c.JSON(http.StatusOK, gin.H{"constituents": out, "count": len(out)})
}

// Spots handles GET /api/v1/spots. With lat/lon query parameters it returns
// the nearest catalog spot; without them, the whole catalog.
func (h *Handler) Spots(c *gin.Context) {
	latStr, lonStr := c.Query("lat"), c.Query("lon")
	if latStr == "" && lonStr == "" {
		c.JSON(http.StatusOK, gin.H{"spots": h.catalog.All(), "count": h.catalog.Len()})
		return
	}

	lat, lon, ok := parseCoords(c, latStr, lonStr)
	if !ok {
		return
	}
	spot, distKm, found := h.catalog.Nearest(lat, lon)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "spot catalog is empty"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"spot": spot, "distance_km": distKm})
}

// Sun handles GET /api/v1/astronomy/sun: sunrise/sunset times per day,
// anchored to the coordinate's local timezone.
func (h *Handler) Sun(c *gin.Context) {
	lat, lon, ok := parseCoords(c, c.Query("lat"), c.Query("lon"))
	if !ok {
		return
	}
	days := 1
	if d := c.Query("days"); d != "" {
		parsed, err := strconv.Atoi(d)
		if err != nil || parsed < 1 || parsed > 30 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be an integer between 1 and 30"})
			return
		}
		days = parsed
	}

	loc := time.UTC
	tzName := "UTC"
	if h.tzres != nil {
		loc = h.tzres.Location(lat, lon)
		tzName = h.tzres.Name(lat, lon)
	}
	now := time.Now().In(loc)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	events := astronomy.SunEvents(lat, lon, start, days)
	type sunRow struct {
		Sunrise string `json:"sunrise"`
		Sunset  string `json:"sunset"`
	}
	rows := make([]sunRow, len(events))
	for i, e := range events {
		rows[i] = sunRow{
			Sunrise: formatTime(e.Sunrise),
			Sunset:  formatTime(e.Sunset),
		}
	}
	c.JSON(http.StatusOK, gin.H{"timezone": tzName, "days": rows})
}

// writePredictError maps prediction errors to HTTP statuses. The typed
// errors are all client-correctable; anything else is a server fault.
func (h *Handler) writePredictError(c *gin.Context, err error) {
	var dataErr *usecase.DataUnavailableError
	var intervalErr *usecase.InvalidIntervalError
	var datumErr *usecase.InvalidDatumError
	switch {
	case errors.As(err, &dataErr), errors.As(err, &intervalErr), errors.As(err, &datumErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("http: prediction failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseCoords(c *gin.Context, latStr, lonStr string) (lat, lon float64, ok bool) {
	if latStr == "" || lonStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lon query parameters are required"})
		return 0, 0, false
	}
	lat, errLat := strconv.ParseFloat(latStr, 64)
	if errLat != nil || lat < -90 || lat > 90 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat must be a number between -90 and 90"})
		return 0, 0, false
	}
	lon, errLon := strconv.ParseFloat(lonStr, 64)
	if errLon != nil || lon < -180 || lon > 180 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lon must be a number between -180 and 180"})
		return 0, 0, false
	}
	return lat, lon, true
}

func eventsToPoints(events []usecase.TideEvent) []tidePoint {
	points := make([]tidePoint, len(events))
	for i, e := range events {
		points[i] = tidePoint{
			Type:     e.Type,
			Datetime: formatTime(e.Datetime),
			HeightM:  e.HeightM,
			HeightFt: e.HeightFt,
			Datum:    e.Datum,
		}
	}
	return points
}

// formatTime renders ISO-8601 with an explicit UTC offset and no sub-second
// precision.
func formatTime(t time.Time) string {
	return t.Format("2006-01-02T15:04:05-07:00")
}
