package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/staffhub/shiftcore-backend-go/internal/domain/shift"
	"github.com/staffhub/shiftcore-backend-go/internal/handler/http/response"
)

type ShiftHandler interface {
	OpenActual(w http.ResponseWriter, r *http.Request)
	CloseActual(w http.ResponseWriter, r *http.Request)
	CancelActual(w http.ResponseWriter, r *http.Request)
	CancelPlanned(w http.ResponseWriter, r *http.Request)
	RunSweep(w http.ResponseWriter, r *http.Request)
}

type ShiftHandlerImpl struct {
	syncService shift.SyncService
}

// OpenActual implements ShiftHandler.
func (h *ShiftHandlerImpl) OpenActual(w http.ResponseWriter, r *http.Request) {
	var req shift.OpenActualShiftRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("OpenActual decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.syncService.OpenActualShift(r.Context(), req.ActualShiftID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if !result.Succeeded {
		response.SuccessWithMessage(w, "Shift could not be opened; the schedule is no longer active", result)
		return
	}
	response.Success(w, result)
}

// CloseActual implements ShiftHandler.
func (h *ShiftHandlerImpl) CloseActual(w http.ResponseWriter, r *http.Request) {
	var req shift.CloseActualShiftRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CloseActual decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.syncService.CloseActualShift(r.Context(), req.ActualShiftID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if !result.Succeeded {
		response.SuccessWithMessage(w, "Shift could not be closed; the schedule was cancelled", result)
		return
	}
	response.SuccessWithMessage(w, "Shift closed successfully", result)
}

// CancelActual implements ShiftHandler.
func (h *ShiftHandlerImpl) CancelActual(w http.ResponseWriter, r *http.Request) {
	var req shift.CancelActualShiftRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CancelActual decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	actor := shift.Actor{ID: req.ActorID, Role: req.ActorRole}
	result, err := h.syncService.CancelActualShift(r.Context(), req.ActualShiftID, actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if !result.Succeeded {
		response.Conflict(w, "Completed shifts cannot be cancelled")
		return
	}
	response.SuccessWithMessage(w, "Shift cancelled successfully", result)
}

// CancelPlanned implements ShiftHandler.
func (h *ShiftHandlerImpl) CancelPlanned(w http.ResponseWriter, r *http.Request) {
	var req shift.CancelPlannedShiftRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CancelPlanned decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	actor := shift.Actor{ID: req.ActorID, Role: req.ActorRole}
	result, err := h.syncService.CancelPlannedShift(r.Context(), req.PlannedShiftID, actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Schedule cancelled successfully", result)
}

// RunSweep implements ShiftHandler. The optional location_id query parameter
// narrows the sweep to one location's schedules.
func (h *ShiftHandlerImpl) RunSweep(w http.ResponseWriter, r *http.Request) {
	scope := r.URL.Query().Get("location_id")

	result, err := h.syncService.RunReconciliationSweep(r.Context(), scope)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func NewShiftHandler(syncService shift.SyncService) ShiftHandler {
	return &ShiftHandlerImpl{
		syncService: syncService,
	}
}
