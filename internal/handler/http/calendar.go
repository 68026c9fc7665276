package http

import (
	"net/http"

	"github.com/staffhub/shiftcore-backend-go/internal/handler/http/response"
	"github.com/staffhub/shiftcore-backend-go/internal/pkg/validator"
	"github.com/staffhub/shiftcore-backend-go/internal/service/occupancy"
	"github.com/go-chi/chi/v5"
)

type CalendarHandler interface {
	GetWindowOccupancy(w http.ResponseWriter, r *http.Request)
	ListDayOccupancy(w http.ResponseWriter, r *http.Request)
}

type CalendarHandlerImpl struct {
	calendarService *occupancy.CalendarService
}

// GetWindowOccupancy implements CalendarHandler.
func (h *CalendarHandlerImpl) GetWindowOccupancy(w http.ResponseWriter, r *http.Request) {
	windowID := chi.URLParam(r, "id")
	if windowID == "" {
		response.BadRequest(w, "Window ID is required", nil)
		return
	}

	result, err := h.calendarService.ComputeForWindow(r.Context(), windowID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListDayOccupancy implements CalendarHandler.
func (h *CalendarHandlerImpl) ListDayOccupancy(w http.ResponseWriter, r *http.Request) {
	locationID := chi.URLParam(r, "locationID")
	if locationID == "" {
		response.BadRequest(w, "Location ID is required", nil)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		response.BadRequest(w, "Query parameter 'date' is required", nil)
		return
	}
	date, ok := validator.IsValidDate(dateStr)
	if !ok {
		response.BadRequest(w, "Invalid date format, expected YYYY-MM-DD", nil)
		return
	}

	// Hidden windows stay in the payload; the hidden flag tells the consumer
	// what to suppress.
	results, err := h.calendarService.ListForDate(r.Context(), locationID, date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

func NewCalendarHandler(calendarService *occupancy.CalendarService) CalendarHandler {
	return &CalendarHandlerImpl{
		calendarService: calendarService,
	}
}
