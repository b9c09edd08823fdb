// Package spots loads a named-location catalog from CSV and resolves the
// nearest catalog entry to a coordinate.
package spots

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Spot is one named coastal location.
type Spot struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Catalog is an in-memory spot catalog. It is immutable after Load, so it is
// safe for concurrent readers.
type Catalog struct {
	spots []Spot
}

// Load reads a catalog from a CSV file with columns name,lat,lon and an
// optional header row. Blank lines are skipped; a malformed row is an error.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open spot catalog: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read spot catalog %s: %w", path, err)
	}

	spots := make([]Spot, 0, len(records))
	for i, rec := range records {
		if len(rec) == 0 || (len(rec) == 1 && strings.TrimSpace(rec[0]) == "") {
			continue
		}
		if len(rec) < 3 {
			return nil, fmt.Errorf("%s row %d: expected name,lat,lon, got %d fields", path, i+1, len(rec))
		}
		// Header row.
		if i == 0 && !isNumeric(rec[1]) {
			continue
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad latitude %q", path, i+1, rec[1])
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad longitude %q", path, i+1, rec[2])
		}
		if lat < -90 || lat > 90 {
			return nil, fmt.Errorf("%s row %d: latitude %v out of range", path, i+1, lat)
		}
		spots = append(spots, Spot{
			Name: strings.TrimSpace(rec[0]),
			Lat:  lat,
			Lon:  lon,
		})
	}

	sort.Slice(spots, func(i, j int) bool { return spots[i].Name < spots[j].Name })
	return &Catalog{spots: spots}, nil
}

// NewCatalog builds a catalog directly from spots, used in tests and when no
// catalog file is configured.
func NewCatalog(spots []Spot) *Catalog {
	sorted := make([]Spot, len(spots))
	copy(sorted, spots)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return &Catalog{spots: sorted}
}

// All returns every spot, sorted by name. The returned slice is shared; do
// not mutate it.
func (c *Catalog) All() []Spot {
	return c.spots
}

// Len returns the catalog size.
func (c *Catalog) Len() int {
	return len(c.spots)
}

// Nearest returns the spot closest to (lat, lon) by great-circle distance and
// that distance in kilometers. ok is false for an empty catalog.
func (c *Catalog) Nearest(lat, lon float64) (spot Spot, distKm float64, ok bool) {
	if len(c.spots) == 0 {
		return Spot{}, 0, false
	}
	best := 0
	bestDist := haversineKm(lat, lon, c.spots[0].Lat, c.spots[0].Lon)
	for i := 1; i < len(c.spots); i++ {
		if d := haversineKm(lat, lon, c.spots[i].Lat, c.spots[i].Lon); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return c.spots[best], bestDist, true
}

// haversineKm is the great-circle distance between two coordinates in
// kilometers, on a spherical Earth of radius 6371 km.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371.0

	dLat := (lat2 - lat1) * math.Pi / 180.0
	dLon := (lon2 - lon1) * math.Pi / 180.0
	rLat1 := lat1 * math.Pi / 180.0
	rLat2 := lat2 * math.Pi / 180.0

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil
}
