// Package astronomy computes sunrise/sunset times for a coordinate.
package astronomy

import (
	"time"

	"github.com/keep94/sunrise"
)

// SunEvent is the sunrise/sunset pair for one day, in the timestamps' zone.
type SunEvent struct {
	Sunrise time.Time `json:"sunrise"`
	Sunset  time.Time `json:"sunset"`
}

// SunEvents returns one sunrise/sunset pair per day for days consecutive
// days starting at the day containing start. Results carry start's location.
func SunEvents(lat, lon float64, start time.Time, days int) []SunEvent {
	var s sunrise.Sunrise
	s.Around(lat, lon, start)

	events := make([]SunEvent, 0, days)
	loc := start.Location()
	for i := 0; i < days; i++ {
		events = append(events, SunEvent{
			Sunrise: s.Sunrise().In(loc),
			Sunset:  s.Sunset().In(loc),
		})
		s.AddDays(1)
	}
	return events
}
