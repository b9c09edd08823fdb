package domain

import (
	"math"
	"time"
)

// Synthesize computes the superposed tide height in meters, relative to MSL,
// at every timestamp:
//
//	h(t) = Σ f · A · cos(V(t) + u − κ′)
//
// where A and κ are the FES amplitude and Greenwich phase lag, (f, u) the
// nodal corrections, V(t) the equilibrium argument from the Doodson table,
// and κ′ the phase lag after the diurnal-family 180° convention correction.
//
// Execution is batch-oriented: the per-sample arrays (Julian centuries,
// s, h, τ) are built once per call, not once per constituent, and the
// slowly-varying angles p, N, p′ and the nodal corrections are sampled at
// the window's temporal midpoint. Over a 1–30 day window the midpoint
// approximation stays well under the model's intrinsic accuracy.
//
// Pure function of its inputs; no state is retained.
func Synthesize(times []time.Time, samples []Sample) []float64 {
	heights := make([]float64, len(times))
	if len(times) == 0 || len(samples) == 0 {
		return heights
	}

	n := len(times)
	start := times[0].UTC()

	// Hours elapsed since the first sample, and hour-of-day for the hour
	// angle. Both derive from the start instant so the arrays stay exact
	// for irregular spacing too.
	hoursFromStart := make([]float64, n)
	for i, t := range times {
		hoursFromStart[i] = t.Sub(times[0]).Hours()
	}
	baseHour := float64(start.Hour()) + float64(start.Minute())/60.0 + float64(start.Second())/3600.0

	// Midpoint values for the slow angles and the nodal corrections.
	mid := ArgumentsAt(times[n/2])
	nodal := NodalCorrections(mid.N, mid.P)

	// Per-sample Julian centuries by linear offset from the start; T drifts
	// by ~1e-6 per month, so the linearization is exact to double precision
	// over any practical window.
	tStart := JulianCenturies(start)
	sArr := make([]float64, n)
	hArr := make([]float64, n)
	tauArr := make([]float64, n)
	for i := range times {
		T := tStart + (hoursFromStart[i]/24.0)/36525.0
		sArr[i] = lunarLongitude(T)
		hArr[i] = solarLongitude(T)

		hourOfDay := math.Mod(baseHour+hoursFromStart[i], 24.0)
		hourAngle := hourOfDay * 15.0

		// Mean lunar time τ = hour angle + h − s.
		tauArr[i] = hourAngle + hArr[i] - sArr[i]
	}

	for _, sample := range samples {
		coef, ok := DoodsonTable[sample.Name]
		if !ok {
			continue
		}
		if _, known := Speeds[sample.Name]; !known {
			continue
		}

		corr, ok := nodal[sample.Name]
		if !ok {
			corr = identity
		}

		kappa := sample.PhaseDeg
		if diurnalFamily[sample.Name] {
			// FES2022 stores diurnal Greenwich lags 180° off the Schureman
			// convention used by the Doodson table.
			kappa += 180.0
		}

		cTau := float64(coef.Tau)
		cS := float64(coef.S)
		cH := float64(coef.H)
		slow := float64(coef.P)*mid.P + float64(coef.N)*mid.N + float64(coef.Pp)*mid.Pp + coef.Phase

		for i := range heights {
			v := norm360(cTau*tauArr[i] + cS*sArr[i] + cH*hArr[i] + slow)
			phaseArg := v + corr.U - kappa
			heights[i] += corr.F * sample.AmplitudeM * math.Cos(Deg2Rad(phaseArg))
		}
	}

	return heights
}
