package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mondosurf/tide-api/internal/domain"
)

// fakeSource serves fixed constituent samples regardless of coordinate.
type fakeSource struct {
	samples map[domain.Name]domain.Sample
}

func (f *fakeSource) Constituent(name domain.Name, lat, lon float64) domain.Sample {
	if s, ok := f.samples[name]; ok {
		return s
	}
	return domain.Sample{Name: name}
}

func coastalSource() *fakeSource {
	return &fakeSource{samples: map[domain.Name]domain.Sample{
		domain.M2: {Name: domain.M2, AmplitudeM: 0.9, PhaseDeg: 120.0},
		domain.S2: {Name: domain.S2, AmplitudeM: 0.3, PhaseDeg: 150.0},
		domain.K1: {Name: domain.K1, AmplitudeM: 0.25, PhaseDeg: 80.0},
		domain.O1: {Name: domain.O1, AmplitudeM: 0.15, PhaseDeg: 60.0},
	}}
}

func fixedDate(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 17, 42, 9, 0, time.FixedZone("whatever", -7*3600))
	return &t
}

func newTestService(src ConstituentSource) *Service {
	s := NewService(src, nil)
	s.now = func() time.Time { return time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC) }
	return s
}

func baseRequest() Request {
	return Request{Lat: 34.03, Lon: -118.68, Days: 1, Datum: DatumMSL, StartDate: fixedDate(2024, 6, 10)}
}

func TestPredictEventsBasicShape(t *testing.T) {
	svc := newTestService(coastalSource())

	events, err := svc.PredictEvents(baseRequest())
	require.NoError(t, err)

	// A mixed semidiurnal signal over one day yields 3-5 interior extrema.
	require.GreaterOrEqual(t, len(events), 3)
	require.LessOrEqual(t, len(events), 5)

	for _, e := range events {
		assert.Contains(t, []string{"high", "low"}, e.Type)
		assert.Equal(t, "msl", e.Datum)
		assert.Greater(t, e.HeightM, -5.0)
		assert.Less(t, e.HeightM, 5.0)
		assert.Zero(t, e.Datetime.Nanosecond())
	}
	for i := 1; i < len(events); i++ {
		assert.True(t, events[i].Datetime.After(events[i-1].Datetime), "events must be chronological")
		assert.NotEqual(t, events[i].Type, events[i-1].Type, "well-formed signal alternates")
	}
}

func TestPredictEventsStartsAtLocalMidnight(t *testing.T) {
	svc := newTestService(coastalSource())

	events, err := svc.PredictEvents(baseRequest())
	require.NoError(t, err)
	require.NotEmpty(t, events)

	// The supplied date's 17:42 time-of-day is ignored; the window is the
	// calendar day from midnight.
	dayStart := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	for _, e := range events {
		assert.False(t, e.Datetime.Before(dayStart))
		assert.False(t, e.Datetime.After(dayStart.Add(25*time.Hour)))
	}
}

func TestPredictEventsFeetConversion(t *testing.T) {
	svc := newTestService(coastalSource())

	events, err := svc.PredictEvents(baseRequest())
	require.NoError(t, err)
	for _, e := range events {
		assert.InDelta(t, e.HeightM*MetersToFeet, e.HeightFt, 0.01)
	}
}

func TestPredictEventsDataUnavailable(t *testing.T) {
	svc := newTestService(&fakeSource{samples: map[domain.Name]domain.Sample{}})

	_, err := svc.PredictEvents(baseRequest())
	var dataErr *DataUnavailableError
	require.ErrorAs(t, err, &dataErr)
	assert.InDelta(t, 34.03, dataErr.Lat, 1e-9)
	assert.Contains(t, err.Error(), "34.03")
}

func TestPredictCurveSampleCounts(t *testing.T) {
	tests := []struct {
		days     int
		interval int
		want     int
	}{
		{1, 15, 97},
		{1, 30, 49},
		{1, 60, 25},
		{2, 15, 193},
		{14, 60, 337},
	}
	svc := newTestService(coastalSource())
	for _, tc := range tests {
		req := baseRequest()
		req.Days = tc.days
		req.Interval = tc.interval

		curve, err := svc.PredictCurve(req)
		require.NoError(t, err)
		assert.Len(t, curve, tc.want, "days=%d interval=%d", tc.days, tc.interval)

		for i := 1; i < len(curve); i++ {
			gap := curve[i].Datetime.Sub(curve[i-1].Datetime)
			assert.InDelta(t, float64(tc.interval*60), gap.Seconds(), 6.0)
		}
	}
}

func TestPredictCurveInvalidInterval(t *testing.T) {
	svc := newTestService(coastalSource())
	req := baseRequest()
	req.Interval = 45

	_, err := svc.PredictCurve(req)
	var intervalErr *InvalidIntervalError
	require.ErrorAs(t, err, &intervalErr)
	assert.Equal(t, 45, intervalErr.Interval)
	assert.Contains(t, err.Error(), "15, 30, 60")
}

func TestPredictCombinedConsistentWithEvents(t *testing.T) {
	svc := newTestService(coastalSource())
	req := baseRequest()
	req.Interval = 15

	combined, err := svc.PredictCombined(req)
	require.NoError(t, err)

	events, err := svc.PredictEvents(baseRequest())
	require.NoError(t, err)
	assert.Equal(t, events, combined.Events, "combined events come from the same dense series")

	// The curve is a stride-5 downsample of the 480-point dense day.
	assert.Len(t, combined.Curve, 96)
	for _, s := range combined.Curve {
		assert.Equal(t, "msl", s.Datum)
		assert.InDelta(t, s.HeightM*MetersToFeet, s.HeightFt, 0.01)
	}
}

func TestPredictCombinedInvalidInterval(t *testing.T) {
	svc := newTestService(coastalSource())
	req := baseRequest()
	req.Interval = 7

	_, err := svc.PredictCombined(req)
	var intervalErr *InvalidIntervalError
	require.ErrorAs(t, err, &intervalErr)
}

func TestManualOffsetRoundTrip(t *testing.T) {
	svc := newTestService(coastalSource())

	msl := baseRequest()
	msl.Interval = 60
	mslCurve, err := svc.PredictCurve(msl)
	require.NoError(t, err)

	offset := 1.234
	custom := baseRequest()
	custom.Interval = 60
	custom.ManualOffsetM = &offset
	customCurve, err := svc.PredictCurve(custom)
	require.NoError(t, err)

	require.Len(t, customCurve, len(mslCurve))
	for i := range mslCurve {
		assert.InDelta(t, mslCurve[i].HeightM-offset, customCurve[i].HeightM, 0.01)
		assert.Equal(t, "custom", customCurve[i].Datum)
	}
}

func TestDatumRangeInvariance(t *testing.T) {
	svc := newTestService(coastalSource())

	eventsByDatum := map[Datum][]TideEvent{}
	for _, d := range []Datum{DatumMSL, DatumMLLW, DatumLAT} {
		req := baseRequest()
		req.Datum = d
		events, err := svc.PredictEvents(req)
		require.NoError(t, err)
		require.NotEmpty(t, events)
		eventsByDatum[d] = events
	}

	msl := eventsByDatum[DatumMSL]
	for _, d := range []Datum{DatumMLLW, DatumLAT} {
		events := eventsByDatum[d]
		require.Len(t, events, len(msl))
		for i := 1; i < len(events); i++ {
			mslRange := msl[i].HeightM - msl[i-1].HeightM
			datumRange := events[i].HeightM - events[i-1].HeightM
			assert.InDelta(t, mslRange, datumRange, 0.003, "tidal range is datum-invariant")
		}
	}
}

func TestDatumOffsetsOrdered(t *testing.T) {
	svc := newTestService(coastalSource())
	samples := svc.gatherSamples(34.03, -118.68)
	require.NotEmpty(t, samples)

	req := baseRequest()

	req.Datum = DatumMLLW
	mllw := svc.datumOffset(req, samples)
	req.Datum = DatumLAT
	lat := svc.datumOffset(req, samples)

	// Lower reference levels mean larger additive offsets.
	assert.Greater(t, mllw, 0.0)
	assert.GreaterOrEqual(t, lat, mllw)
}

func TestParseDatum(t *testing.T) {
	for input, want := range map[string]Datum{
		"":     DatumMSL,
		"msl":  DatumMSL,
		"MLLW": DatumMLLW,
		" lat": DatumLAT,
	} {
		got, err := ParseDatum(input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, want, got)
	}

	_, err := ParseDatum("ngvd29")
	var datumErr *InvalidDatumError
	require.ErrorAs(t, err, &datumErr)
	assert.Equal(t, "ngvd29", datumErr.Datum)
}
