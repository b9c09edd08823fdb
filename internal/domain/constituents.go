package domain

import "math"

// Name identifies a tidal constituent. Constituent names follow the FES2022
// file naming (lowercase, e.g. "m2", "2n2").
type Name string

// The full constituent set carried by the FES2022 atlas.
const (
	M2      Name = "m2"
	S2      Name = "s2"
	N2      Name = "n2"
	K2      Name = "k2"
	TwoN2   Name = "2n2"
	Mu2     Name = "mu2"
	Nu2     Name = "nu2"
	L2      Name = "l2"
	T2      Name = "t2"
	Lambda2 Name = "lambda2"
	Eps2    Name = "eps2"
	MKS2    Name = "mks2"
	R2      Name = "r2"
	K1      Name = "k1"
	O1      Name = "o1"
	P1      Name = "p1"
	Q1      Name = "q1"
	J1      Name = "j1"
	M1      Name = "m1"
	OO1     Name = "oo1"
	Rho1    Name = "rho1"
	S1      Name = "s1"
	M4      Name = "m4"
	MS4     Name = "ms4"
	MN4     Name = "mn4"
	M6      Name = "m6"
	M8      Name = "m8"
	S4      Name = "s4"
	M3      Name = "m3"
	Mf      Name = "mf"
	Mm      Name = "mm"
	Ssa     Name = "ssa"
	Sa      Name = "sa"
	MSf     Name = "msf"
	MSqm    Name = "msqm"
	Mtm     Name = "mtm"
)

// Speeds lists the angular speed of each constituent in degrees per hour.
// The speeds are informational (the phase progression used for synthesis
// comes from the Doodson multipliers); they are served on the constituents
// endpoint and used for sanity checks.
var Speeds = map[Name]float64{
	M2:      28.9841042,  // Principal lunar semidiurnal
	S2:      30.0,        // Principal solar semidiurnal
	N2:      28.4397295,  // Larger lunar elliptic semidiurnal
	K1:      15.0410686,  // Lunisolar diurnal
	O1:      13.9430356,  // Principal lunar diurnal
	P1:      14.9589314,  // Principal solar diurnal
	K2:      30.0821373,  // Lunisolar semidiurnal
	Q1:      13.3986609,  // Larger lunar elliptic diurnal
	M4:      57.9682084,  // Shallow water overtide of M2
	MS4:     58.9841042,  // Shallow water compound
	MN4:     57.4238337,  // Shallow water compound
	TwoN2:   27.8953548,  // Variational
	Mu2:     27.9682084,  // Variational
	Nu2:     28.5125831,  // Larger lunar evectional
	L2:      29.5284789,  // Smaller lunar elliptic semidiurnal
	T2:      29.9589333,  // Larger solar elliptic
	J1:      15.5854433,  // Smaller lunar elliptic diurnal
	M1:      14.4966939,  // Smaller lunar elliptic diurnal
	OO1:     16.1391017,  // Lunar diurnal second order
	Rho1:    13.4715145,  // Larger lunar evectional diurnal
	Mf:      1.0980331,   // Lunisolar fortnightly
	Mm:      0.5443747,   // Lunar monthly
	Ssa:     0.0821373,   // Solar semiannual
	Sa:      0.0410686,   // Solar annual
	MSf:     1.0158958,   // Lunisolar synodic fortnightly
	M3:      43.4761563,  // Lunar terdiurnal
	M6:      86.9523126,  // Shallow water overtide
	M8:      115.9364168, // Shallow water overtide
	S4:      60.0,        // Shallow water overtide of S2
	S1:      15.0,        // Solar diurnal
	Eps2:    27.4238337,  // Variational
	Lambda2: 29.4556253,  // Smaller lunar evectional
	MKS2:    30.6265120,  // Shallow water compound
	R2:      30.0410667,  // Smaller solar elliptic
	MSqm:    1.0158958,   // Lunisolar synodic fortnightly
	Mtm:     1.0980331,   // Lunisolar fortnightly
}

// PredictionSet is the subset of constituents used for synthesis, ordered by
// importance. The remaining entries in Speeds are recognized but carry too
// little signal to be worth a grid lookup per request.
var PredictionSet = []Name{
	// Primary constituents (largest amplitudes)
	M2, S2, N2, K1, O1,
	// Secondary semidiurnal
	K2, L2, T2, TwoN2, Mu2, Nu2,
	// Secondary diurnal
	P1, Q1, J1, OO1,
	// Shallow water overtides (important near the coast)
	M4, MS4, MN4, M6, M3,
	// Long period (seasonal/monthly)
	Mf, Mm, Ssa, Sa,
}

// Doodson holds a constituent's integer multipliers over the fundamental
// astronomical angles plus a constant phase offset in degrees. The
// equilibrium argument is
//
//	V = Tau·τ + S·s + H·h + P·p + N·N + Pp·p′ + Phase
//
// where τ = hour angle + h − s (mean lunar time). This table is the
// semantic definition of each constituent's forcing frequency; the entries
// are fixed and must not be adjusted.
type Doodson struct {
	Tau, S, H, P, N, Pp int
	Phase               float64
}

// DoodsonTable maps each constituent to its multipliers (Schureman
// conventions).
var DoodsonTable = map[Name]Doodson{
	// Semidiurnal
	M2:      {2, 0, 0, 0, 0, 0, 0},    // 2τ
	S2:      {2, 2, -2, 0, 0, 0, 0},   // 2τ + 2s − 2h = 2T
	N2:      {2, -1, 0, 1, 0, 0, 0},   // 2τ − s + p
	K2:      {2, 2, 0, 0, 0, 0, 0},    // 2τ + 2s = 2T + 2h
	TwoN2:   {2, -2, 0, 2, 0, 0, 0},   // 2τ − 2s + 2p
	Mu2:     {2, -2, 2, 0, 0, 0, 0},   // 2τ − 2s + 2h
	Nu2:     {2, -1, 2, -1, 0, 0, 0},  // 2τ − s + 2h − p
	L2:      {2, 1, 0, -1, 0, 0, 180}, // 2τ + s − p + 180°
	T2:      {2, 2, -3, 0, 0, 1, 0},   // 2T − h + p′
	Lambda2: {2, 1, -2, 1, 0, 0, 180}, // 2τ + s − 2h + p + 180°
	Eps2:    {2, -2, 0, 2, 0, 0, 0},   // same as 2N2
	MKS2:    {2, 2, 0, 0, 0, 0, 0},    // same as K2
	R2:      {2, 2, -1, 0, 0, -1, 0},  // 2T + h − p′

	// Diurnal
	K1:   {1, 1, 0, 0, 0, 0, -90},  // τ + s − 90° = T + h − 90°
	O1:   {1, -1, 0, 0, 0, 0, 90},  // τ − s + 90°
	P1:   {1, 1, -2, 0, 0, 0, 90},  // τ + s − 2h + 90° = T − h + 90°
	Q1:   {1, -2, 0, 1, 0, 0, 90},  // τ − 2s + p + 90°
	J1:   {1, 2, 0, -1, 0, 0, -90}, // τ + 2s − p − 90°
	M1:   {1, 0, 0, 0, 0, 0, -90},  // τ − 90°
	OO1:  {1, 2, 0, 0, 0, 0, -90},  // τ + 2s − 90°
	Rho1: {1, -2, 2, -1, 0, 0, 90}, // τ − 2s + 2h − p + 90°
	S1:   {1, 1, -1, 0, 0, 0, 0},   // T

	// Shallow water
	M4:  {4, 0, 0, 0, 0, 0, 0},  // 4τ
	MS4: {4, 2, -2, 0, 0, 0, 0}, // 4τ + 2s − 2h
	MN4: {4, -1, 0, 1, 0, 0, 0}, // 4τ − s + p
	M6:  {6, 0, 0, 0, 0, 0, 0},  // 6τ
	M8:  {8, 0, 0, 0, 0, 0, 0},  // 8τ
	S4:  {4, 4, -4, 0, 0, 0, 0}, // 4T
	M3:  {3, 0, 0, 0, 0, 0, 0},  // 3τ

	// Long period
	Mf:   {0, 2, 0, 0, 0, 0, 0},  // 2s
	Mm:   {0, 1, 0, -1, 0, 0, 0}, // s − p
	Ssa:  {0, 0, 2, 0, 0, 0, 0},  // 2h
	Sa:   {0, 0, 1, 0, 0, 0, 0},  // h
	MSf:  {0, 2, -2, 0, 0, 0, 0}, // 2s − 2h
	MSqm: {0, 2, -2, 0, 0, 0, 0}, // 2s − 2h
	Mtm:  {0, 3, 0, -1, 0, 0, 0}, // 3s − p
}

// diurnalFamily lists the constituents whose FES2022 Greenwich phase lags
// require an additional 180° before subtraction. This is a phase-convention
// correction specific to the FES atlas, not an optional tweak.
var diurnalFamily = map[Name]bool{
	K1: true, O1: true, P1: true, Q1: true, J1: true,
	M1: true, OO1: true, Rho1: true, S1: true,
}

// Sample is a resolved (amplitude, phase) pair for one constituent at one
// coordinate. Amplitude is in meters, phase is the Greenwich phase lag in
// degrees.
type Sample struct {
	Name       Name
	AmplitudeM float64
	PhaseDeg   float64
}

// MinAmplitudeM is the significance floor: constituents at or below this
// amplitude are excluded from synthesis.
const MinAmplitudeM = 0.001

// Significant reports whether the sample carries enough amplitude to be
// worth including in synthesis.
func (s Sample) Significant() bool {
	return s.AmplitudeM > MinAmplitudeM
}

// Speed returns the angular speed for a constituent name.
func Speed(name Name) (float64, bool) {
	speed, ok := Speeds[name]
	return speed, ok
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// Rad2Deg converts radians to degrees.
func Rad2Deg(rad float64) float64 {
	return rad * 180.0 / math.Pi
}
