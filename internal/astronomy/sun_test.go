package astronomy

import (
	"testing"
	"time"
)

func TestSunEventsMidLatitude(t *testing.T) {
	loc := time.FixedZone("PDT", -7*3600)
	start := time.Date(2024, 6, 10, 0, 0, 0, 0, loc)

	events := SunEvents(34.03, -118.68, start, 3)
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}

	for i, e := range events {
		if !e.Sunrise.Before(e.Sunset) {
			t.Errorf("day %d: sunrise %v not before sunset %v", i, e.Sunrise, e.Sunset)
		}
		dayLen := e.Sunset.Sub(e.Sunrise)
		// Los Angeles in June: roughly 14 hours of daylight.
		if dayLen < 13*time.Hour || dayLen > 15*time.Hour {
			t.Errorf("day %d: daylight %v, want ~14h", i, dayLen)
		}
		if i > 0 && !e.Sunrise.After(events[i-1].Sunrise) {
			t.Errorf("day %d sunrise %v not after previous %v", i, e.Sunrise, events[i-1].Sunrise)
		}
	}
}

func TestSunEventsCarryRequestZone(t *testing.T) {
	loc := time.FixedZone("JST", 9*3600)
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, loc)

	events := SunEvents(35.68, 139.69, start, 1)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Sunrise.Location() != loc {
		t.Errorf("sunrise zone = %v, want request zone", events[0].Sunrise.Location())
	}
}
