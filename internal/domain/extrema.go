package domain

import (
	"math"
	"sort"
)

// EventType classifies an extremum.
type EventType string

const (
	// HighTide is a local maximum of the height signal.
	HighTide EventType = "high"
	// LowTide is a local minimum.
	LowTide EventType = "low"
)

// Extremum is one high or low tide located on a height series. The time is
// expressed as fractional hours from the start of the series so callers can
// anchor it to whatever start instant and zone they used to build the
// series.
type Extremum struct {
	Type        EventType
	OffsetHours float64
	HeightM     float64
}

// FindExtrema locates high/low tides on a sampled height signal. offsets
// holds the sample times in hours from the series start and must be the same
// length as heights.
//
// Detection runs on the discrete gradient: an extremum sits where the
// gradient changes sign. A positive-to-nonpositive crossing is a high tide,
// negative-to-nonnegative a low tide; any other pattern at a crossing (flat
// or ambiguous) is skipped, as are the boundary samples.
//
// Each raw extremum is then refined by fitting a parabola through the three
// surrounding samples, recovering sub-sample timing from the 3-minute grid:
// for a parabola through equally spaced points (h1, h2, h3) the vertex sits
// at
//
//	t = t2 + 0.5·(h1−h3)/(h1−2h2+h3)·Δt
//	h = h2 − 0.25·(h1−h3)²/(h1−2h2+h3)
//
// falling back to the raw sample when the curvature denominator vanishes.
// The result is sorted ascending by time.
func FindExtrema(heights, offsets []float64) []Extremum {
	if len(heights) < 3 || len(heights) != len(offsets) {
		return nil
	}

	gradient := discreteGradient(heights)

	events := make([]Extremum, 0, 8)
	for idx := 0; idx < len(gradient)-1; idx++ {
		if sign(gradient[idx]) == sign(gradient[idx+1]) {
			continue
		}
		if idx < 1 || idx >= len(heights)-1 {
			continue
		}

		var eventType EventType
		switch {
		case gradient[idx] > 0 && gradient[idx+1] <= 0:
			eventType = HighTide
		case gradient[idx] < 0 && gradient[idx+1] >= 0:
			eventType = LowTide
		default:
			continue
		}

		h1, h2, h3 := heights[idx-1], heights[idx], heights[idx+1]
		t2 := offsets[idx]
		dt := offsets[idx+1] - t2

		tExtremum := t2
		heightM := h2
		denom := h1 - 2*h2 + h3
		if math.Abs(denom) > 1e-10 {
			tExtremum = t2 + 0.5*(h1-h3)/denom*dt
			heightM = h2 - 0.25*(h1-h3)*(h1-h3)/denom
		}

		events = append(events, Extremum{
			Type:        eventType,
			OffsetHours: tExtremum,
			HeightM:     heightM,
		})
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].OffsetHours < events[j].OffsetHours
	})

	return events
}

// discreteGradient is the numpy-style gradient over unit index spacing:
// central differences inside, one-sided differences at the ends. Only the
// sign pattern matters to the caller, so the index spacing needs no scaling.
func discreteGradient(x []float64) []float64 {
	n := len(x)
	g := make([]float64, n)
	if n < 2 {
		return g
	}
	g[0] = x[1] - x[0]
	g[n-1] = x[n-1] - x[n-2]
	for i := 1; i < n-1; i++ {
		g[i] = (x[i+1] - x[i-1]) / 2.0
	}
	return g
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
