// Package grid provides a regular 2-D geophysical grid with nearest-neighbor
// lookup.
package grid

import (
	"fmt"
	"math"
)

// Grid2D is a regular 2-D grid. Values[i][j] corresponds to (X[j], Y[i]).
// Cells with no data hold NaN; callers decide what a missing cell means.
type Grid2D struct {
	X      []float64   // X coordinates (e.g., longitudes).
	Y      []float64   // Y coordinates (e.g., latitudes).
	Values [][]float64 // Values[i][j] corresponds to (X[j], Y[i]).
}

// Validate checks grid shape and coordinate ordering.
func (g *Grid2D) Validate() error {
	if len(g.X) < 2 {
		return fmt.Errorf("grid must have at least 2 X coordinates")
	}
	if len(g.Y) < 2 {
		return fmt.Errorf("grid must have at least 2 Y coordinates")
	}
	if len(g.Values) != len(g.Y) {
		return fmt.Errorf("number of value rows (%d) must match Y coordinates (%d)", len(g.Values), len(g.Y))
	}

	for i, row := range g.Values {
		if len(row) != len(g.X) {
			return fmt.Errorf("row %d has %d values, expected %d", i, len(row), len(g.X))
		}
	}

	for i := 1; i < len(g.X); i++ {
		if g.X[i] <= g.X[i-1] {
			return fmt.Errorf("X coordinates must be strictly increasing")
		}
	}
	for i := 1; i < len(g.Y); i++ {
		if g.Y[i] <= g.Y[i-1] {
			return fmt.Errorf("Y coordinates must be strictly increasing")
		}
	}

	return nil
}

// NearestIndex returns the index of the coordinate closest to v (argmin of
// absolute difference). Queries outside the coordinate range snap to the
// nearest edge; the caller owns any range policy.
func NearestIndex(coords []float64, v float64) int {
	best := 0
	bestDist := math.Abs(coords[0] - v)
	for i := 1; i < len(coords); i++ {
		if d := math.Abs(coords[i] - v); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// NearestAt returns the grid value at the grid point closest to (x, y) on
// each axis independently. The query is quantized to the grid resolution
// rather than interpolated; on a 1/30-degree grid the spatial error is at
// most about 2 km.
func (g *Grid2D) NearestAt(x, y float64) float64 {
	i := NearestIndex(g.Y, y)
	j := NearestIndex(g.X, x)
	return g.Values[i][j]
}
