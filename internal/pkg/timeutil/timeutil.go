package timeutil

import (
	"fmt"
	"time"
)

// Interval is a half-open [Start, End) time range.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Duration returns the interval length, zero when the interval is inverted.
func (iv Interval) Duration() time.Duration {
	if !iv.End.After(iv.Start) {
		return 0
	}
	return iv.End.Sub(iv.Start)
}

// Minutes returns the interval length in whole minutes.
func (iv Interval) Minutes() int {
	return int(iv.Duration() / time.Minute)
}

// LoadLocation resolves an IANA timezone name, falling back to UTC when the
// name is unknown. Window math must follow local wall-clock time.
func LoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// WindowBounds combines a calendar date with start/end times-of-day into
// timezone-aware instants. An end at or before the start means the window
// crosses midnight and ends on the next day.
func WindowBounds(date, startOfDay, endOfDay time.Time, loc *time.Location) Interval {
	start := time.Date(
		date.Year(), date.Month(), date.Day(),
		startOfDay.Hour(), startOfDay.Minute(), 0, 0,
		loc,
	)
	end := time.Date(
		date.Year(), date.Month(), date.Day(),
		endOfDay.Hour(), endOfDay.Minute(), 0, 0,
		loc,
	)
	if !end.After(start) {
		end = end.Add(24 * time.Hour)
	}
	return Interval{Start: start, End: end}
}

// Clip intersects iv with bounds. ok is false when the overlap is zero or
// negative.
func Clip(iv, bounds Interval) (Interval, bool) {
	start := iv.Start
	if bounds.Start.After(start) {
		start = bounds.Start
	}
	end := iv.End
	if bounds.End.Before(end) {
		end = bounds.End
	}
	if !end.After(start) {
		return Interval{}, false
	}
	return Interval{Start: start, End: end}, true
}

// OverlapMinutes returns the whole minutes both intervals share.
func OverlapMinutes(a, b Interval) int {
	clipped, ok := Clip(a, b)
	if !ok {
		return 0
	}
	return clipped.Minutes()
}

// FormatLateBy renders a lateness duration as "late by Xh Ym". Sub-minute
// lateness rounds down to "late by 0h 0m".
func FormatLateBy(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d / time.Hour)
	minutes := int(d/time.Minute) % 60
	return fmt.Sprintf("late by %dh %dm", hours, minutes)
}
