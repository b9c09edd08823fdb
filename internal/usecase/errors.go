package usecase

import "fmt"

// DataUnavailableError reports that no tidal constituent carries usable
// amplitude at the query coordinate, typically a land-locked point. It is a
// client-correctable condition, not a server fault.
type DataUnavailableError struct {
	Lat float64
	Lon float64
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("no tidal data available at (%.4f, %.4f); the location may be inland or outside model coverage", e.Lat, e.Lon)
}

// InvalidIntervalError reports a curve interval outside the supported set.
type InvalidIntervalError struct {
	Interval int
}

func (e *InvalidIntervalError) Error() string {
	return fmt.Sprintf("invalid interval %d: must be one of 15, 30, 60 minutes", e.Interval)
}

// InvalidDatumError reports an unrecognized datum name.
type InvalidDatumError struct {
	Datum string
}

func (e *InvalidDatumError) Error() string {
	return fmt.Sprintf("invalid datum %q: must be one of msl, mllw, lat", e.Datum)
}
