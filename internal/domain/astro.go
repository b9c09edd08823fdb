package domain

import (
	"math"
	"time"
)

// Arguments holds the fundamental astronomical angles at one instant, in
// degrees, each normalized to [0, 360).
type Arguments struct {
	S  float64 // Mean longitude of the Moon
	H  float64 // Mean longitude of the Sun
	P  float64 // Mean longitude of lunar perigee
	N  float64 // Mean longitude of lunar ascending node
	Pp float64 // Mean longitude of solar perigee (perihelion)
}

// JulianCenturies returns Julian centuries from the J2000.0 epoch
// (JD 2451545.0) for a civil timestamp. Meeus formula 11.1, with the
// January/February shift into the previous year.
func JulianCenturies(t time.Time) float64 {
	t = t.UTC()

	y := t.Year()
	m := int(t.Month())
	d := float64(t.Day()) +
		(float64(t.Hour())+float64(t.Minute())/60.0+float64(t.Second())/3600.0)/24.0

	if m <= 2 {
		y--
		m += 12
	}

	a := y / 100
	b := 2 - a + a/4

	jd := math.Floor(365.25*float64(y+4716)) + math.Floor(30.6001*float64(m+1)) +
		d + float64(b) - 1524.5

	return (jd - 2451545.0) / 36525.0
}

// ArgumentsAt computes the astronomical arguments for an instant using the
// Meeus polynomial expansions (s: formula 45.1, h: 24.2, N: 45.7) in Julian
// centuries T.
func ArgumentsAt(t time.Time) Arguments {
	return ArgumentsAtCenturies(JulianCenturies(t))
}

// ArgumentsAtCenturies is ArgumentsAt with the Julian centuries precomputed.
func ArgumentsAtCenturies(T float64) Arguments {
	s := 218.3164591 + 481267.88134236*T -
		0.0013268*T*T + T*T*T/538841.0 - T*T*T*T/65194000.0

	h := 280.46645 + 36000.76983*T + 0.0003032*T*T

	p := 83.3532430 + 4069.0137111*T -
		0.0103238*T*T - T*T*T/80053.0 + T*T*T*T/18999000.0

	N := 125.0445550 - 1934.1361849*T +
		0.0020762*T*T + T*T*T/467410.0 - T*T*T*T/60616000.0

	pp := 282.94 + 1.7192*T

	return Arguments{
		S:  norm360(s),
		H:  norm360(h),
		P:  norm360(p),
		N:  norm360(N),
		Pp: norm360(pp),
	}
}

// lunarLongitude and solarLongitude are the truncated batch forms used by the
// synthesizer: only s and h change appreciably within a prediction window, so
// they are evaluated per sample while the slower angles are held at the
// window midpoint. The truncation (no cubic or quartic terms) matches the
// per-sample accuracy actually needed over a sub-year span.
func lunarLongitude(T float64) float64 {
	return norm360(218.3164591 + 481267.88134236*T - 0.0013268*T*T)
}

func solarLongitude(T float64) float64 {
	return norm360(280.46645 + 36000.76983*T + 0.0003032*T*T)
}

// norm360 maps an angle in degrees into [0, 360).
func norm360(deg float64) float64 {
	deg = math.Mod(deg, 360.0)
	if deg < 0 {
		deg += 360.0
	}
	return deg
}
