// Package tz resolves IANA timezones from coordinates using an embedded
// timezone boundary index.
package tz

import (
	"time"

	"github.com/ringsaturn/tzf"
)

// Resolver maps a coordinate to its IANA timezone. The underlying finder is
// safe for concurrent use.
type Resolver struct {
	finder tzf.F
}

// NewResolver builds a resolver from the embedded compressed timezone data.
func NewResolver() (*Resolver, error) {
	finder, err := tzf.NewDefaultFinder()
	if err != nil {
		return nil, err
	}
	return &Resolver{finder: finder}, nil
}

// Location returns the timezone at (lat, lon). Coordinates in open ocean or
// with no known zone fall back to UTC; predictions are anchored to local
// midnight, so some zone must always resolve.
func (r *Resolver) Location(lat, lon float64) *time.Location {
	name := r.finder.GetTimezoneName(lon, lat)
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Name returns the IANA zone name at (lat, lon), or "UTC" when unknown.
func (r *Resolver) Name(lat, lon float64) string {
	name := r.finder.GetTimezoneName(lon, lat)
	if name == "" {
		return "UTC"
	}
	return name
}
