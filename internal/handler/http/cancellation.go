package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/staffhub/shiftcore-backend-go/internal/domain/cancellation"
	"github.com/staffhub/shiftcore-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type CancellationHandler interface {
	CancelShift(w http.ResponseWriter, r *http.Request)
	ResolveModeration(w http.ResponseWriter, r *http.Request)
}

type CancellationHandlerImpl struct {
	policyService cancellation.PolicyService
}

// CancelShift implements CancellationHandler.
func (h *CancellationHandlerImpl) CancelShift(w http.ResponseWriter, r *http.Request) {
	var req cancellation.CancelShiftRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CancelShift decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.policyService.CancelShift(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	// Soft failures carry a user-facing message with a 200; the shift simply
	// was not in a cancellable state.
	response.SuccessWithMessage(w, result.Message, result)
}

// ResolveModeration implements CancellationHandler.
func (h *CancellationHandlerImpl) ResolveModeration(w http.ResponseWriter, r *http.Request) {
	var req cancellation.ResolveModerationRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("ResolveModeration decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if id := chi.URLParam(r, "id"); id != "" {
		req.CancellationID = id
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.policyService.ResolveModeration(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Moderation decision applied", nil)
}

func NewCancellationHandler(policyService cancellation.PolicyService) CancellationHandler {
	return &CancellationHandlerImpl{
		policyService: policyService,
	}
}
