// Package slot generates bookable start times inside a room's operating window and filters
// them by how many reservations already hold each start.
//
// Offsets are measured from midnight of the reservation date, so a slot at 09:30 is
// 9*time.Hour + 30*time.Minute. Generation is pure and deterministic.
package slot

import (
	"fmt"
	"salon/shared/model"
	"salon/shared/timezone"
	"time"
)

// Window is a room's operating hours as offsets from midnight.
type Window struct {
	Start time.Duration
	End   time.Duration
}

// Valid reports whether the window is non-empty and lies within a single day.
func (w Window) Valid() bool {
	return w.Start >= 0 && w.Start < w.End && w.End <= 24*time.Hour
}

// Generate returns the start times from w.Start, spaced by duration, whose end still fits
// inside the window. It is empty when the duration exceeds the window or the input is invalid.
func Generate(window Window, duration time.Duration) []time.Duration {
	if !window.Valid() || duration <= 0 {
		return nil
	}

	slots := make([]time.Duration, 0, (window.End-window.Start)/duration)

	for start := window.Start; start+duration <= window.End; start += duration {
		slots = append(slots, start)
	}

	return slots
}

// Contains reports whether start is one of the slots Generate would produce.
func Contains(window Window, duration time.Duration, start time.Duration) bool {
	if !window.Valid() || duration <= 0 {
		return false
	}

	if start < window.Start || start+duration > window.End {
		return false
	}

	return (start-window.Start)%duration == 0
}

// Available keeps, in order, the candidates whose reservation count is below capacity.
func Available(candidates []time.Duration, taken map[time.Duration]int, capacity int) []time.Duration {
	free := make([]time.Duration, 0, len(candidates))

	for _, candidate := range candidates {
		if taken[candidate] < capacity {
			free = append(free, candidate)
		}
	}

	return free
}

// Tally counts reservations per start time.
func Tally(starts []time.Duration) map[time.Duration]int {
	taken := make(map[time.Duration]int, len(starts))

	for _, start := range starts {
		taken[start]++
	}

	return taken
}

// Parse reads "HH:MM" (seconds are accepted and kept).
func Parse(value string) (time.Duration, error) {
	tod, err := model.ParseTimeOfDay(value)
	if err != nil {
		return 0, fmt.Errorf("parse slot: %w", err)
	}

	return tod.Duration(), nil
}

// Format renders an offset as "HH:MM".
func Format(offset time.Duration) string {
	return model.TimeOfDay(offset).String()
}

// FormatAll renders every offset as "HH:MM".
func FormatAll(offsets []time.Duration) []string {
	out := make([]string, len(offsets))

	for i, offset := range offsets {
		out[i] = Format(offset)
	}

	return out
}

// FromTime returns the wall clock offset of t.
func FromTime(t time.Time) time.Duration {
	return model.TimeOfDayFromTime(t).Duration()
}

// ToTime anchors an offset on date in the application timezone.
func ToTime(date time.Time, offset time.Duration) time.Time {
	return timezone.At(date, offset)
}
