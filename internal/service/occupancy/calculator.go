// Package occupancy derives how full a bookable window is from the planned and
// actual shifts that touch it. All math runs in the location's local timezone:
// day boundaries and "is this window in the past" follow local wall-clock time.
package occupancy

import (
	"sort"
	"time"

	"github.com/staffhub/shiftcore-backend-go/internal/domain/shift"
	"github.com/staffhub/shiftcore-backend-go/internal/domain/window"
	"github.com/staffhub/shiftcore-backend-go/internal/pkg/timeutil"
)

type Status string

const (
	StatusAvailable       Status = "available"
	StatusPartiallyFilled Status = "partially_filled"
	StatusFullyFilled     Status = "fully_filled"
)

// A window counts as fully filled once less than half an hour of worker
// capacity remains.
const fullyFilledSlackMinutes = 29

const LabelNotOccurred = "not_occurred"

// ShiftLabel annotates one candidate shift with a display hint.
type ShiftLabel struct {
	ShiftID string `json:"shift_id"`
	Kind    string `json:"kind"` // "planned" or "actual"
	Label   string `json:"label"`
}

// Result holds the occupancy facts for one window.
type Result struct {
	WindowID        string       `json:"window_id"`
	CapacityMinutes int          `json:"capacity_minutes"`
	OccupiedMinutes int          `json:"occupied_minutes"`
	FreeMinutes     int          `json:"free_minutes"`
	OccupancyRatio  float64      `json:"occupancy_ratio"`
	PeakConcurrency int          `json:"peak_concurrency"`
	Status          Status       `json:"status"`
	Hidden          bool         `json:"hidden"`
	Labels          []ShiftLabel `json:"labels,omitempty"`
}

type candidate struct {
	id       string
	kind     string
	interval timeutil.Interval
	started  time.Time
}

// Compute derives occupancy for one window from the candidate shifts. A
// planned shift already backed by an actual shift is superseded by it; an
// open-ended actual shift extends to the window's end for overlap purposes.
// Cancelled shifts never occupy capacity.
func Compute(w window.BookableWindow, planned []shift.PlannedShift, actuals []shift.ActualShift, now time.Time, loc *time.Location) Result {
	bounds := timeutil.WindowBounds(w.Date, w.StartTime, w.EndTime, loc)

	windowMinutes := bounds.Minutes()
	capacity := windowMinutes * w.MaxEmployees
	result := Result{
		WindowID:        w.ID,
		CapacityMinutes: capacity,
	}

	covered := make(map[string]bool)
	for _, a := range actuals {
		if a.ScheduleID != nil && a.Status != shift.ActualStatusCancelled {
			covered[*a.ScheduleID] = true
		}
	}

	var clipped []candidate
	for _, a := range actuals {
		if a.Status == shift.ActualStatusCancelled {
			continue
		}
		end := bounds.End
		if a.EndTime != nil {
			end = *a.EndTime
		}
		iv, ok := timeutil.Clip(timeutil.Interval{Start: a.StartTime, End: end}, bounds)
		if !ok {
			continue
		}
		clipped = append(clipped, candidate{id: a.ID, kind: "actual", interval: iv, started: a.StartTime})
	}
	for _, p := range planned {
		if p.Status == shift.PlannedStatusCancelled || covered[p.ID] {
			continue
		}
		iv, ok := timeutil.Clip(timeutil.Interval{Start: p.PlannedStart, End: p.PlannedEnd}, bounds)
		if !ok {
			continue
		}
		clipped = append(clipped, candidate{id: p.ID, kind: "planned", interval: iv, started: p.PlannedStart})
	}

	occupied := 0
	for _, c := range clipped {
		occupied += c.interval.Minutes()
	}
	if occupied > capacity {
		occupied = capacity
	}
	result.OccupiedMinutes = occupied
	result.FreeMinutes = capacity - occupied
	if result.FreeMinutes < 0 {
		result.FreeMinutes = 0
	}
	if capacity > 0 {
		result.OccupancyRatio = float64(occupied) / float64(capacity)
	}

	result.PeakConcurrency = peakConcurrency(clipped, w.MaxEmployees)

	switch {
	case capacity > 0 && result.FreeMinutes <= fullyFilledSlackMinutes:
		result.Status = StatusFullyFilled
	case occupied > 0:
		result.Status = StatusPartiallyFilled
	default:
		result.Status = StatusAvailable
	}

	// Past windows that never filled up are suppressed in calendars but still
	// returned; future windows are never hidden.
	windowPast := bounds.End.Before(now)
	if windowPast && result.OccupancyRatio < 0.999 {
		result.Hidden = true
	}

	result.Labels = deriveLabels(clipped, result.FreeMinutes, bounds, now, windowPast)

	return result
}

// peakConcurrency runs a sweep over interval endpoints. At equal timestamps a
// departing worker frees a slot before an arriving one consumes it, so
// back-to-back shifts never count as concurrent.
func peakConcurrency(cands []candidate, maxEmployees int) int {
	type event struct {
		at    time.Time
		delta int
	}
	events := make([]event, 0, len(cands)*2)
	for _, c := range cands {
		events = append(events, event{at: c.interval.Start, delta: +1})
		events = append(events, event{at: c.interval.End, delta: -1})
	}
	sort.Slice(events, func(i, j int) bool {
		if !events[i].at.Equal(events[j].at) {
			return events[i].at.Before(events[j].at)
		}
		return events[i].delta < events[j].delta
	})

	current, peak := 0, 0
	for _, e := range events {
		current += e.delta
		if current > peak {
			peak = current
		}
	}
	if peak > maxEmployees {
		peak = maxEmployees
	}
	return peak
}

func deriveLabels(cands []candidate, freeMinutes int, bounds timeutil.Interval, now time.Time, windowPast bool) []ShiftLabel {
	var labels []ShiftLabel
	for _, c := range cands {
		switch c.kind {
		case "planned":
			if !c.interval.End.Before(now) {
				continue
			}
			overlapped := false
			for _, other := range cands {
				if other.kind == "actual" && timeutil.OverlapMinutes(c.interval, other.interval) > 0 {
					overlapped = true
					break
				}
			}
			if !overlapped {
				labels = append(labels, ShiftLabel{ShiftID: c.id, Kind: c.kind, Label: LabelNotOccurred})
			}
		case "actual":
			if windowPast && freeMinutes > 0 && c.started.After(bounds.Start) {
				labels = append(labels, ShiftLabel{
					ShiftID: c.id,
					Kind:    c.kind,
					Label:   timeutil.FormatLateBy(c.started.Sub(bounds.Start)),
				})
			}
		}
	}
	return labels
}
