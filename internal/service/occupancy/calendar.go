package occupancy

import (
	"context"
	"fmt"
	"time"

	"github.com/staffhub/shiftcore-backend-go/internal/domain/location"
	"github.com/staffhub/shiftcore-backend-go/internal/domain/shift"
	"github.com/staffhub/shiftcore-backend-go/internal/domain/window"
	"github.com/staffhub/shiftcore-backend-go/internal/pkg/timeutil"
)

// WindowOccupancy pairs one window with its computed occupancy.
type WindowOccupancy struct {
	Window window.BookableWindow `json:"window"`
	Result Result                `json:"result"`
}

// CalendarService answers read-side calendar queries: every active window of a
// location on a date, with occupancy derived from the current shift set.
type CalendarService struct {
	windowRepo   window.BookableWindowRepository
	plannedRepo  shift.PlannedShiftRepository
	actualRepo   shift.ActualShiftRepository
	locationRepo location.LocationRepository
}

func NewCalendarService(
	windowRepo window.BookableWindowRepository,
	plannedRepo shift.PlannedShiftRepository,
	actualRepo shift.ActualShiftRepository,
	locationRepo location.LocationRepository,
) *CalendarService {
	return &CalendarService{
		windowRepo:   windowRepo,
		plannedRepo:  plannedRepo,
		actualRepo:   actualRepo,
		locationRepo: locationRepo,
	}
}

// ComputeForWindow loads the candidate shifts of one window and computes its
// occupancy.
func (s *CalendarService) ComputeForWindow(ctx context.Context, windowID string) (Result, error) {
	w, err := s.windowRepo.GetByID(ctx, windowID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to get bookable window: %w", err)
	}

	tz, err := s.locationRepo.GetTimezone(ctx, w.LocationID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to get location timezone: %w", err)
	}
	loc := timeutil.LoadLocation(tz)

	bounds := timeutil.WindowBounds(w.Date, w.StartTime, w.EndTime, loc)
	planned, err := s.plannedRepo.ListByWindow(ctx, w.ID, w.LocationID, bounds.Start, bounds.End)
	if err != nil {
		return Result{}, fmt.Errorf("failed to list planned shifts: %w", err)
	}
	actuals, err := s.actualRepo.ListByWindow(ctx, w.ID, w.LocationID, bounds.Start, bounds.End)
	if err != nil {
		return Result{}, fmt.Errorf("failed to list actual shifts: %w", err)
	}

	return Compute(w, planned, actuals, time.Now(), loc), nil
}

// ListForDate computes occupancy for every active window of a location on one
// calendar date. Hidden windows are included; suppression is the caller's call.
func (s *CalendarService) ListForDate(ctx context.Context, locationID string, date time.Time) ([]WindowOccupancy, error) {
	tz, err := s.locationRepo.GetTimezone(ctx, locationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get location timezone: %w", err)
	}
	loc := timeutil.LoadLocation(tz)

	windows, err := s.windowRepo.ListByLocationAndDate(ctx, locationID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookable windows: %w", err)
	}

	now := time.Now()
	result := make([]WindowOccupancy, 0, len(windows))
	for _, w := range windows {
		bounds := timeutil.WindowBounds(w.Date, w.StartTime, w.EndTime, loc)
		planned, err := s.plannedRepo.ListByWindow(ctx, w.ID, w.LocationID, bounds.Start, bounds.End)
		if err != nil {
			return nil, fmt.Errorf("failed to list planned shifts: %w", err)
		}
		actuals, err := s.actualRepo.ListByWindow(ctx, w.ID, w.LocationID, bounds.Start, bounds.End)
		if err != nil {
			return nil, fmt.Errorf("failed to list actual shifts: %w", err)
		}

		result = append(result, WindowOccupancy{
			Window: w,
			Result: Compute(w, planned, actuals, now, loc),
		})
	}

	return result, nil
}
