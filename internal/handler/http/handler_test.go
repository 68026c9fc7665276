package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/staffhub/shiftcore-backend-go/internal/domain/location"
	"github.com/staffhub/shiftcore-backend-go/internal/domain/shift"
	"github.com/staffhub/shiftcore-backend-go/internal/domain/window"
	"github.com/staffhub/shiftcore-backend-go/internal/repository/memory"
	"github.com/staffhub/shiftcore-backend-go/internal/service/occupancy"
	"github.com/staffhub/shiftcore-backend-go/internal/service/statussync"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSyncService(store *memory.Store) *statussync.SyncServiceImpl {
	return statussync.NewSyncService(
		store,
		memory.PlannedShiftRepo{S: store},
		memory.ActualShiftRepo{S: store},
		memory.HistoryRepo{S: store},
	)
}

func TestRunSweep_ScopedByLocationID(t *testing.T) {
	store := memory.NewStore()
	handler := NewShiftHandler(newSyncService(store))
	ctx := context.Background()

	// Cancelled schedule with a stuck-active shift at loc-1.
	p, err := memory.PlannedShiftRepo{S: store}.Create(ctx, shift.PlannedShift{
		EmployeeID:   "emp-1",
		LocationID:   "loc-1",
		PlannedStart: time.Now().Add(-2 * time.Hour),
		PlannedEnd:   time.Now().Add(2 * time.Hour),
		Status:       shift.PlannedStatusCancelled,
	})
	require.NoError(t, err)
	_, err = memory.ActualShiftRepo{S: store}.Create(ctx, shift.ActualShift{
		EmployeeID: "emp-1",
		LocationID: "loc-1",
		ScheduleID: &p.ID,
		StartTime:  time.Now().Add(-2 * time.Hour),
		Status:     shift.ActualStatusActive,
	})
	require.NoError(t, err)

	type sweepEnvelope struct {
		Success bool `json:"success"`
		Data    struct {
			ScheduleFixCount int
			ShiftFixCount    int
		} `json:"data"`
	}

	// A scope naming another location repairs nothing.
	rr := httptest.NewRecorder()
	handler.RunSweep(rr, httptest.NewRequest(http.MethodPost, "/api/v1/shifts/sweep?location_id=loc-9", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var miss sweepEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &miss))
	assert.Equal(t, 0, miss.Data.ShiftFixCount)

	// Scoped to loc-1 the stuck shift is repaired.
	rr = httptest.NewRecorder()
	handler.RunSweep(rr, httptest.NewRequest(http.MethodPost, "/api/v1/shifts/sweep?location_id=loc-1", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var hit sweepEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &hit))
	assert.Equal(t, 1, hit.Data.ShiftFixCount)
}

func TestListDayOccupancy_IncludesHiddenWindows(t *testing.T) {
	store := memory.NewStore()
	store.Locations["loc-1"] = location.Location{
		ID:       "loc-1",
		OwnerID:  "own-1",
		Name:     "Downtown",
		Timezone: "UTC",
	}
	// A past window with no shifts: hidden, but still part of the payload.
	store.Windows["win-1"] = window.BookableWindow{
		ID:           "win-1",
		LocationID:   "loc-1",
		Date:         time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC),
		StartTime:    time.Date(0, 1, 1, 9, 0, 0, 0, time.UTC),
		EndTime:      time.Date(0, 1, 1, 17, 0, 0, 0, time.UTC),
		MaxEmployees: 1,
		IsActive:     true,
	}

	calendarService := occupancy.NewCalendarService(
		memory.WindowRepo{S: store},
		memory.PlannedShiftRepo{S: store},
		memory.ActualShiftRepo{S: store},
		memory.LocationRepo{S: store},
	)
	handler := NewCalendarHandler(calendarService)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/calendar/locations/loc-1?date=2020-01-02", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("locationID", "loc-1")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rr := httptest.NewRecorder()
	handler.ListDayOccupancy(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var envelope struct {
		Success bool `json:"success"`
		Data    []struct {
			Result struct {
				Hidden bool `json:"hidden"`
			} `json:"result"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1, "hidden windows must stay in the payload")
	assert.True(t, envelope.Data[0].Result.Hidden)
}
