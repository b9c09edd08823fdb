// Package usecase orchestrates the tide prediction pipeline: constituent
// lookup, harmonic synthesis, datum conversion, and extrema extraction.
package usecase

import (
	"math"
	"strings"
	"time"

	"github.com/mondosurf/tide-api/internal/domain"
)

// MetersToFeet converts the model's native meters to feet for the dual-unit
// output shape.
const MetersToFeet = 3.28084

// densePerHour is the sample density of the event-detection series: 20
// samples per hour, a 3-minute grid. Parabolic refinement recovers
// sub-sample timing from it.
const densePerHour = 20

// datumReferenceDays is the synthesis window used to derive MLLW/LAT
// offsets statistically.
const datumReferenceDays = 30

// Datum names a vertical reference level.
type Datum string

const (
	// DatumMSL is mean sea level, the model's native reference. Offset zero.
	DatumMSL Datum = "msl"
	// DatumMLLW is mean lower low water: the average of each day's lowest
	// low tide over a reference window.
	DatumMLLW Datum = "mllw"
	// DatumLAT is lowest astronomical tide: the lowest low over the
	// reference window.
	DatumLAT Datum = "lat"

	// datumCustom tags output produced via the deprecated manual-offset
	// path. Not accepted as an input datum.
	datumCustom = "custom"
)

// ParseDatum validates and normalizes a datum name.
func ParseDatum(s string) (Datum, error) {
	switch Datum(strings.ToLower(strings.TrimSpace(s))) {
	case DatumMSL, "":
		return DatumMSL, nil
	case DatumMLLW:
		return DatumMLLW, nil
	case DatumLAT:
		return DatumLAT, nil
	default:
		return "", &InvalidDatumError{Datum: s}
	}
}

// Request describes one prediction.
type Request struct {
	Lat  float64
	Lon  float64
	Days int

	// StartDate, when set, selects the calendar day to start from; the
	// prediction is anchored at that day's local midnight and any
	// time-of-day on the value is ignored. When nil the prediction starts
	// now, in the coordinate's local timezone.
	StartDate *time.Time

	// Interval is the curve spacing in minutes (15, 30 or 60). Zero means
	// no curve: events only.
	Interval int

	Datum Datum

	// ManualOffsetM is the deprecated raw-offset path: the value is
	// subtracted from MSL heights (note the sign: opposite to the additive
	// datum offsets) and output is tagged "custom". It overrides Datum.
	ManualOffsetM *float64
}

// TideEvent is one predicted high or low tide.
type TideEvent struct {
	Type     string    `json:"type"`
	Datetime time.Time `json:"datetime"`
	HeightM  float64   `json:"height_m"`
	HeightFt float64   `json:"height_ft"`
	Datum    string    `json:"datum"`
}

// TideSample is one point of a regular-interval height curve.
type TideSample struct {
	Datetime time.Time `json:"datetime"`
	HeightM  float64   `json:"height_m"`
	HeightFt float64   `json:"height_ft"`
	Datum    string    `json:"datum"`
}

// Combined is the single-pass events-plus-curve result. Both views derive
// from the same dense synthesis, so they are internally consistent.
type Combined struct {
	Events []TideEvent
	Curve  []TideSample
}

// ConstituentSource resolves a constituent's (amplitude, phase) at a
// coordinate. A zero-amplitude sample means "no data here".
type ConstituentSource interface {
	Constituent(name domain.Name, lat, lon float64) domain.Sample
}

// TimezoneResolver maps a coordinate to its local timezone, used only to
// anchor the day boundary of the default start time.
type TimezoneResolver interface {
	Location(lat, lon float64) *time.Location
}

// Service is the tide prediction facade. It holds no per-request state; the
// only shared state is the source's internal read-only cache, so a single
// Service serves concurrent requests.
type Service struct {
	source ConstituentSource
	tz     TimezoneResolver

	// now is the clock, replaceable in tests.
	now func() time.Time
}

// NewService wires a prediction service. tz may be nil, in which case the
// default start anchors to UTC.
func NewService(source ConstituentSource, tz TimezoneResolver) *Service {
	return &Service{
		source: source,
		tz:     tz,
		now:    time.Now,
	}
}

// PredictEvents returns the high/low tide events over the request window.
func (s *Service) PredictEvents(req Request) ([]TideEvent, error) {
	start, samples, err := s.prepare(&req)
	if err != nil {
		return nil, err
	}

	times, offsets := denseSeries(start, req.Days)
	heights := domain.Synthesize(times, samples)

	_, tag := s.applyDatum(req, samples, heights)

	extrema := domain.FindExtrema(heights, offsets)
	return s.eventsFromExtrema(start, extrema, tag), nil
}

// PredictCurve returns the height curve at the requested interval. The
// interval must be one of 15, 30 or 60 minutes.
func (s *Service) PredictCurve(req Request) ([]TideSample, error) {
	if err := validateInterval(req.Interval); err != nil {
		return nil, err
	}
	start, samples, err := s.prepare(&req)
	if err != nil {
		return nil, err
	}

	totalHours := float64(req.Days * 24)
	n := req.Days*24*(60/req.Interval) + 1
	times, _ := linspaceTimes(start, totalHours, n)
	heights := domain.Synthesize(times, samples)

	_, tag := s.applyDatum(req, samples, heights)

	curve := make([]TideSample, len(times))
	for i, t := range times {
		curve[i] = TideSample{
			Datetime: t.Truncate(time.Second),
			HeightM:  round3(heights[i]),
			HeightFt: round3(heights[i] * MetersToFeet),
			Datum:    tag,
		}
	}
	return curve, nil
}

// PredictCombined computes events and a curve from one dense synthesis pass:
// extrema come from the dense series and the curve is a strided downsample
// of it. The two views therefore describe the same underlying signal, which
// two independent predictions at different resolutions would not guarantee.
func (s *Service) PredictCombined(req Request) (*Combined, error) {
	if err := validateInterval(req.Interval); err != nil {
		return nil, err
	}
	start, samples, err := s.prepare(&req)
	if err != nil {
		return nil, err
	}

	times, offsets := denseSeries(start, req.Days)
	heights := domain.Synthesize(times, samples)

	_, tag := s.applyDatum(req, samples, heights)

	extrema := domain.FindExtrema(heights, offsets)
	events := s.eventsFromExtrema(start, extrema, tag)

	// The dense grid is 3 minutes, so a stride of interval/3 lands the
	// curve on the requested spacing.
	stride := req.Interval / 3
	curve := make([]TideSample, 0, len(times)/stride+1)
	for i := 0; i < len(times); i += stride {
		curve = append(curve, TideSample{
			Datetime: times[i].Truncate(time.Second),
			HeightM:  round3(heights[i]),
			HeightFt: round3(heights[i] * MetersToFeet),
			Datum:    tag,
		})
	}
	return &Combined{Events: events, Curve: curve}, nil
}

// prepare normalizes the request, resolves the start instant and gathers the
// significant constituent samples, failing with DataUnavailableError when
// nothing usable remains.
func (s *Service) prepare(req *Request) (time.Time, []domain.Sample, error) {
	if req.Datum == "" {
		req.Datum = DatumMSL
	}

	loc := time.UTC
	if s.tz != nil {
		loc = s.tz.Location(req.Lat, req.Lon)
	}

	var start time.Time
	if req.StartDate != nil {
		y, m, d := req.StartDate.Date()
		start = time.Date(y, m, d, 0, 0, 0, 0, loc)
	} else {
		start = s.now().In(loc)
	}

	samples := s.gatherSamples(req.Lat, req.Lon)
	if len(samples) == 0 {
		return time.Time{}, nil, &DataUnavailableError{Lat: req.Lat, Lon: req.Lon}
	}
	return start, samples, nil
}

// gatherSamples looks up the prediction constituent set at a coordinate and
// keeps the significant ones.
func (s *Service) gatherSamples(lat, lon float64) []domain.Sample {
	samples := make([]domain.Sample, 0, len(domain.PredictionSet))
	for _, name := range domain.PredictionSet {
		sample := s.source.Constituent(name, lat, lon)
		if sample.Significant() {
			samples = append(samples, sample)
		}
	}
	return samples
}

// applyDatum shifts heights in place to the request's datum and returns the
// applied offset and the output datum tag. The derived offsets (MLLW, LAT)
// are added; the deprecated manual offset is subtracted and tagged "custom".
func (s *Service) applyDatum(req Request, samples []domain.Sample, heights []float64) (float64, string) {
	if req.ManualOffsetM != nil {
		offset := -*req.ManualOffsetM
		addInPlace(heights, offset)
		return offset, datumCustom
	}

	offset := s.datumOffset(req, samples)
	addInPlace(heights, offset)
	return offset, string(req.Datum)
}

// datumOffset derives the additive MSL→datum offset. MLLW and LAT are
// statistical levels: a fresh reference synthesis (30 days, UTC, no offset)
// is run directly against the domain layer, its low tides are extracted, and
// the offset is the negated mean daily minimum (MLLW) or negated global
// minimum (LAT). A window with no low tides yields offset 0; that degenerate
// case (near-zero tidal range) is not an error.
func (s *Service) datumOffset(req Request, samples []domain.Sample) float64 {
	if req.Datum == DatumMSL {
		return 0.0
	}

	refStart := s.now().UTC()
	if req.StartDate != nil {
		y, m, d := req.StartDate.Date()
		refStart = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	times, offsets := denseSeries(refStart, datumReferenceDays)
	heights := domain.Synthesize(times, samples)
	extrema := domain.FindExtrema(heights, offsets)

	switch req.Datum {
	case DatumMLLW:
		// Lowest low per calendar day, averaged.
		dailyMin := make(map[string]float64)
		for _, e := range extrema {
			if e.Type != domain.LowTide {
				continue
			}
			day := refStart.Add(hoursDuration(e.OffsetHours)).Format("2006-01-02")
			if current, ok := dailyMin[day]; !ok || e.HeightM < current {
				dailyMin[day] = e.HeightM
			}
		}
		if len(dailyMin) == 0 {
			return 0.0
		}
		sum := 0.0
		for _, h := range dailyMin {
			sum += h
		}
		return -(sum / float64(len(dailyMin)))

	case DatumLAT:
		lowest := math.Inf(1)
		for _, e := range extrema {
			if e.Type == domain.LowTide && e.HeightM < lowest {
				lowest = e.HeightM
			}
		}
		if math.IsInf(lowest, 1) {
			return 0.0
		}
		return -lowest

	default:
		return 0.0
	}
}

func (s *Service) eventsFromExtrema(start time.Time, extrema []domain.Extremum, tag string) []TideEvent {
	events := make([]TideEvent, len(extrema))
	for i, e := range extrema {
		events[i] = TideEvent{
			Type:     string(e.Type),
			Datetime: start.Add(hoursDuration(e.OffsetHours)).Truncate(time.Second),
			HeightM:  round3(e.HeightM),
			HeightFt: round3(e.HeightM * MetersToFeet),
			Datum:    tag,
		}
	}
	return events
}

// denseSeries builds the 3-minute event-detection series: days·24·20 samples
// spanning [0, days·24] hours inclusive. The inclusive span makes the actual
// step marginally longer than 3 minutes; the parabolic refinement downstream
// works from the real offsets, so the drift is harmless.
func denseSeries(start time.Time, days int) ([]time.Time, []float64) {
	totalHours := float64(days * 24)
	n := days * 24 * densePerHour
	return linspaceTimes(start, totalHours, n)
}

// linspaceTimes returns n instants evenly spaced over [start, start+totalHours]
// inclusive, plus their offsets in fractional hours.
func linspaceTimes(start time.Time, totalHours float64, n int) ([]time.Time, []float64) {
	times := make([]time.Time, n)
	offsets := make([]float64, n)
	if n == 1 {
		times[0] = start
		return times, offsets
	}
	step := totalHours / float64(n-1)
	for i := 0; i < n; i++ {
		offsets[i] = float64(i) * step
		times[i] = start.Add(hoursDuration(offsets[i]))
	}
	return times, offsets
}

func validateInterval(interval int) error {
	switch interval {
	case 15, 30, 60:
		return nil
	default:
		return &InvalidIntervalError{Interval: interval}
	}
}

func hoursDuration(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}

func addInPlace(heights []float64, offset float64) {
	if offset == 0 {
		return
	}
	for i := range heights {
		heights[i] += offset
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
