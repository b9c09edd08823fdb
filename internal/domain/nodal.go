package domain

import "math"

// Correction is a constituent's nodal correction pair: F scales the
// amplitude (typically 0.7–1.3), U shifts the phase in degrees (typically
// within ±180).
type Correction struct {
	F float64
	U float64
}

// identity is the correction applied to purely solar and long-period solar
// terms, which have no meaningful nodal dependence.
var identity = Correction{F: 1.0, U: 0.0}

// NodalCorrections derives the per-constituent (f, u) pairs from the mean
// longitudes of the lunar ascending node N and lunar perigee p, both in
// degrees. Schureman (1958) conventions throughout.
//
// The corrections ride the 18.6-year precession of the lunar orbital plane,
// so callers compute them once per prediction window (at its temporal
// midpoint) and hold them constant across the window's samples.
//
// Several minor constituents reuse the correction of their family's
// principal term (L2 and the variational semidiurnals reuse M2's, M1 reuses
// K1's, J1 and RHO1 reuse O1's) rather than their full constituent-specific
// Schureman formulas. Keep these stand-ins as they are.
func NodalCorrections(nDeg, pDeg float64) map[Name]Correction {
	_ = pDeg // Perigee enters only via the stand-ins above; kept for the contract.

	nRad := Deg2Rad(nDeg)

	cosN := math.Cos(nRad)
	sinN := math.Sin(nRad)
	cos2N := math.Cos(2 * nRad)
	sin2N := math.Sin(2 * nRad)

	// Inclination of the lunar orbit to the equator (Schureman Eq 191).
	// I varies between about 18.3° and 28.6° over the 18.61-year cycle.
	cosI := 0.9136 - 0.0356*cosN
	I := math.Acos(clamp(cosI, -1, 1))
	sinI := math.Sin(I)
	sin2I := math.Sin(2 * I)
	cosIHalf := math.Cos(I / 2)
	sinIHalf := math.Sin(I / 2)
	tanIHalf := math.Tan(I / 2)

	// ν: longitude in the lunar orbit of the lunar intersection
	// (Schureman Eq 215, small-I approximation).
	nu := math.Atan(sinN * tanIHalf)
	cosNu := math.Cos(nu)

	// ξ: longitude of the lunar intersection (Schureman Eq 207, mean
	// inclination).
	xi := nRad - 2*math.Atan(0.64412*math.Tan(nRad/2))

	// ν′ for K1.
	nup := math.Atan2(sin2N*0.1689, 0.2523+cos2N*0.1689)

	c := make(map[Name]Correction, len(Speeds))

	// M2 (Schureman Eq 227, Eq 210).
	fM2 := math.Pow(cosIHalf, 4) / 0.9154
	uM2 := wrap180(Rad2Deg(2*xi - 2*nu))
	c[M2] = Correction{fM2, uM2}

	c[S2] = identity
	c[N2] = Correction{fM2, uM2}

	// K1 (Schureman Eq 227).
	fK1 := math.Sqrt(0.8965*sin2I*sin2I + 0.6001*sin2I*cosNu + 0.1006)
	uK1 := -Rad2Deg(nup)
	c[K1] = Correction{fK1, uK1}

	// O1 (Schureman Eq 227, Eq 210).
	fO1 := sinI * cosIHalf * cosIHalf / 0.3800
	uO1 := wrap180(Rad2Deg(2*xi - nu))
	c[O1] = Correction{fO1, uO1}

	c[P1] = identity

	// K2: semidiurnal analogue of K1, with ν″.
	sinISq := sinI * sinI
	cos2Nu := math.Cos(2 * nu)
	fK2 := math.Sqrt(0.8965*sinISq*sinISq + 0.6001*sinISq*cos2Nu + 0.1006)
	nupp := math.Atan2(sin2N, 0.5023+cos2N*0.1689)
	c[K2] = Correction{fK2, -Rad2Deg(2 * nupp)}

	c[Q1] = Correction{fO1, uO1}

	// Shallow-water and compound terms derive algebraically from M2.
	c[M4] = Correction{fM2 * fM2, 2 * uM2}
	c[MS4] = Correction{fM2, uM2}
	c[MN4] = Correction{fM2 * fM2, 2 * uM2}

	// Variational semidiurnals ride the lunar semidiurnal family.
	c[TwoN2] = Correction{fM2, uM2}
	c[Mu2] = Correction{fM2, uM2}
	c[Nu2] = Correction{fM2, uM2}

	// L2's full Schureman term depends on 2p − 2ξ; the M2 correction is the
	// accepted stand-in here.
	c[L2] = Correction{fM2, uM2}

	c[T2] = identity

	c[J1] = Correction{fO1, uO1}

	// OO1 (Schureman).
	fOO1 := sinI * sinIHalf * sinIHalf / 0.0164
	uOO1 := wrap180(Rad2Deg(-2*xi - nu))
	c[OO1] = Correction{fOO1, uOO1}

	c[M1] = Correction{fK1, uK1}
	c[Rho1] = Correction{fO1, uO1}

	// M3 scales as the 3/2 power of M2.
	c[M3] = Correction{math.Pow(fM2, 1.5), 1.5 * uM2}

	c[M6] = Correction{fM2 * fM2 * fM2, 3 * uM2}

	// Mf (Schureman).
	fMf := sinI * sinI / 0.1578
	c[Mf] = Correction{fMf, wrap180(Rad2Deg(-2 * xi))}

	// Mm (Schureman).
	fMm := (2.0/3.0 - sinI*sinI) / 0.5021
	c[Mm] = Correction{math.Abs(fMm), 0.0}

	// Solar and long-period terms with negligible nodal dependence.
	for _, name := range []Name{Ssa, Sa, MSf, M8, S4, S1, Eps2, Lambda2, MKS2, R2, MSqm, Mtm} {
		if _, ok := c[name]; !ok {
			c[name] = identity
		}
	}

	return c
}

// wrap180 maps degrees into (-180, 180].
func wrap180(deg float64) float64 {
	deg = math.Mod(deg, 360.0)
	if deg < 0 {
		deg += 360.0
	}
	if deg > 180 {
		deg -= 360.0
	}
	return deg
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
