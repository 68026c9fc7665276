package occupancy

import (
	"testing"
	"time"

	"github.com/staffhub/shiftcore-backend-go/internal/domain/shift"
	"github.com/staffhub/shiftcore-backend-go/internal/domain/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tod(hour, minute int) time.Time {
	return time.Date(0, 1, 1, hour, minute, 0, 0, time.UTC)
}

func at(loc *time.Location, hour, minute int) time.Time {
	return time.Date(2026, 3, 10, hour, minute, 0, 0, loc)
}

func testWindow(maxEmployees int) window.BookableWindow {
	return window.BookableWindow{
		ID:           "win-1",
		LocationID:   "loc-1",
		Date:         time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		StartTime:    tod(9, 0),
		EndTime:      tod(17, 0),
		MaxEmployees: maxEmployees,
		IsActive:     true,
	}
}

func plannedAt(id string, start, end time.Time) shift.PlannedShift {
	return shift.PlannedShift{
		ID:           id,
		LocationID:   "loc-1",
		PlannedStart: start,
		PlannedEnd:   end,
		Status:       shift.PlannedStatusConfirmed,
	}
}

func actualAt(id string, start time.Time, end *time.Time) shift.ActualShift {
	return shift.ActualShift{
		ID:         id,
		LocationID: "loc-1",
		StartTime:  start,
		EndTime:    end,
		Status:     shift.ActualStatusCompleted,
	}
}

func TestCompute_MixedPlannedAndActual(t *testing.T) {
	loc := time.UTC
	w := testWindow(2)

	end := at(loc, 13, 0)
	actuals := []shift.ActualShift{actualAt("a-1", at(loc, 9, 0), &end)}
	planned := []shift.PlannedShift{plannedAt("p-1", at(loc, 12, 0), at(loc, 17, 0))}

	now := at(loc, 14, 0)
	result := Compute(w, planned, actuals, now, loc)

	assert.Equal(t, 960, result.CapacityMinutes)
	assert.Equal(t, 540, result.OccupiedMinutes)
	assert.Equal(t, 420, result.FreeMinutes)
	assert.InDelta(t, 0.5625, result.OccupancyRatio, 1e-9)
	assert.Equal(t, 2, result.PeakConcurrency)
	assert.Equal(t, StatusPartiallyFilled, result.Status)
	assert.False(t, result.Hidden)
}

func TestCompute_EmptyWindowIsAvailable(t *testing.T) {
	loc := time.UTC
	w := testWindow(2)

	result := Compute(w, nil, nil, at(loc, 10, 0), loc)

	assert.Equal(t, 960, result.CapacityMinutes)
	assert.Equal(t, 0, result.OccupiedMinutes)
	assert.Equal(t, StatusAvailable, result.Status)
	assert.Equal(t, 0, result.PeakConcurrency)
}

func TestCompute_ZeroCapacity(t *testing.T) {
	loc := time.UTC
	w := testWindow(0)

	planned := []shift.PlannedShift{plannedAt("p-1", at(loc, 9, 0), at(loc, 17, 0))}
	result := Compute(w, planned, nil, at(loc, 10, 0), loc)

	assert.Equal(t, 0, result.CapacityMinutes)
	assert.Equal(t, 0, result.OccupiedMinutes)
	assert.Equal(t, 0.0, result.OccupancyRatio)
	assert.Equal(t, 0, result.PeakConcurrency)
	assert.Equal(t, StatusAvailable, result.Status)
}

func TestCompute_CancelledShiftsDoNotCount(t *testing.T) {
	loc := time.UTC
	w := testWindow(1)

	p := plannedAt("p-1", at(loc, 9, 0), at(loc, 17, 0))
	p.Status = shift.PlannedStatusCancelled

	end := at(loc, 12, 0)
	a := actualAt("a-1", at(loc, 9, 0), &end)
	a.Status = shift.ActualStatusCancelled

	result := Compute(w, []shift.PlannedShift{p}, []shift.ActualShift{a}, at(loc, 10, 0), loc)

	assert.Equal(t, 0, result.OccupiedMinutes)
	assert.Equal(t, StatusAvailable, result.Status)
}

func TestCompute_ActualSupersedesItsSchedule(t *testing.T) {
	loc := time.UTC
	w := testWindow(1)

	p := plannedAt("p-1", at(loc, 9, 0), at(loc, 17, 0))
	end := at(loc, 13, 0)
	a := actualAt("a-1", at(loc, 9, 0), &end)
	a.ScheduleID = &p.ID

	result := Compute(w, []shift.PlannedShift{p}, []shift.ActualShift{a}, at(loc, 14, 0), loc)

	// Only the actual's 4 hours count; the plan it realizes is not re-added.
	assert.Equal(t, 240, result.OccupiedMinutes)
	assert.Equal(t, 1, result.PeakConcurrency)
}

func TestCompute_OpenEndedActualExtendsToWindowEnd(t *testing.T) {
	loc := time.UTC
	w := testWindow(1)

	a := actualAt("a-1", at(loc, 9, 0), nil)
	a.Status = shift.ActualStatusActive

	result := Compute(w, nil, []shift.ActualShift{a}, at(loc, 10, 0), loc)

	assert.Equal(t, 480, result.OccupiedMinutes)
	assert.Equal(t, StatusFullyFilled, result.Status)
}

func TestCompute_ClippingToWindowBounds(t *testing.T) {
	loc := time.UTC
	w := testWindow(1)

	// Spills over both edges; only the in-window part counts.
	planned := []shift.PlannedShift{plannedAt("p-1", at(loc, 7, 0), at(loc, 19, 0))}
	result := Compute(w, planned, nil, at(loc, 8, 0), loc)

	assert.Equal(t, 480, result.OccupiedMinutes)
}

func TestCompute_FullyFilledWithSlack(t *testing.T) {
	loc := time.UTC
	w := testWindow(1)

	// 29 free minutes still counts as fully filled; 30 does not.
	planned := []shift.PlannedShift{plannedAt("p-1", at(loc, 9, 0), at(loc, 16, 31))}
	result := Compute(w, planned, nil, at(loc, 8, 0), loc)
	assert.Equal(t, StatusFullyFilled, result.Status)

	planned = []shift.PlannedShift{plannedAt("p-1", at(loc, 9, 0), at(loc, 16, 30))}
	result = Compute(w, planned, nil, at(loc, 8, 0), loc)
	assert.Equal(t, StatusPartiallyFilled, result.Status)
}

func TestPeakConcurrency_BackToBackShiftsAreNotConcurrent(t *testing.T) {
	loc := time.UTC
	w := testWindow(2)

	planned := []shift.PlannedShift{
		plannedAt("p-1", at(loc, 9, 0), at(loc, 13, 0)),
		plannedAt("p-2", at(loc, 13, 0), at(loc, 17, 0)),
	}
	result := Compute(w, planned, nil, at(loc, 8, 0), loc)

	assert.Equal(t, 1, result.PeakConcurrency)
}

func TestPeakConcurrency_CappedAtMaxEmployees(t *testing.T) {
	loc := time.UTC
	w := testWindow(2)

	planned := []shift.PlannedShift{
		plannedAt("p-1", at(loc, 9, 0), at(loc, 12, 0)),
		plannedAt("p-2", at(loc, 9, 0), at(loc, 12, 0)),
		plannedAt("p-3", at(loc, 9, 0), at(loc, 12, 0)),
	}
	result := Compute(w, planned, nil, at(loc, 8, 0), loc)

	assert.Equal(t, 2, result.PeakConcurrency)
}

func TestCompute_PastUnderfilledWindowIsHidden(t *testing.T) {
	loc := time.UTC
	w := testWindow(2)

	end := at(loc, 13, 0)
	actuals := []shift.ActualShift{actualAt("a-1", at(loc, 9, 0), &end)}

	now := at(loc, 23, 0)
	result := Compute(w, nil, actuals, now, loc)

	assert.True(t, result.Hidden)
}

func TestCompute_PastFilledWindowStaysVisible(t *testing.T) {
	loc := time.UTC
	w := testWindow(1)

	end := at(loc, 17, 0)
	actuals := []shift.ActualShift{actualAt("a-1", at(loc, 9, 0), &end)}

	now := at(loc, 23, 0)
	result := Compute(w, nil, actuals, now, loc)

	assert.False(t, result.Hidden)
	assert.Equal(t, StatusFullyFilled, result.Status)
}

func TestDeriveLabels_PlannedNotOccurred(t *testing.T) {
	loc := time.UTC
	w := testWindow(2)

	planned := []shift.PlannedShift{plannedAt("p-1", at(loc, 9, 0), at(loc, 12, 0))}

	now := at(loc, 13, 0)
	result := Compute(w, planned, nil, now, loc)

	require.Len(t, result.Labels, 1)
	assert.Equal(t, "p-1", result.Labels[0].ShiftID)
	assert.Equal(t, LabelNotOccurred, result.Labels[0].Label)
}

func TestDeriveLabels_LateArrivalInUnderfilledPastWindow(t *testing.T) {
	loc := time.UTC
	w := testWindow(1)

	end := at(loc, 17, 0)
	actuals := []shift.ActualShift{actualAt("a-1", at(loc, 10, 15), &end)}

	now := at(loc, 23, 0)
	result := Compute(w, nil, actuals, now, loc)

	require.Len(t, result.Labels, 1)
	assert.Equal(t, "late by 1h 15m", result.Labels[0].Label)
}

func TestCompute_NextDayCheckout(t *testing.T) {
	loc := time.UTC
	w := testWindow(1)
	w.StartTime = tod(22, 0)
	w.EndTime = tod(6, 0)

	end := time.Date(2026, 3, 11, 6, 0, 0, 0, loc)
	actuals := []shift.ActualShift{actualAt("a-1", at(loc, 22, 0), &end)}

	result := Compute(w, nil, actuals, at(loc, 23, 0), loc)

	assert.Equal(t, 480, result.CapacityMinutes)
	assert.Equal(t, 480, result.OccupiedMinutes)
	assert.Equal(t, StatusFullyFilled, result.Status)
}
