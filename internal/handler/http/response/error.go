package response

import (
	"errors"
	"net/http"

	"github.com/staffhub/shiftcore-backend-go/internal/domain/cancellation"
	"github.com/staffhub/shiftcore-backend-go/internal/domain/location"
	"github.com/staffhub/shiftcore-backend-go/internal/domain/shift"
	"github.com/staffhub/shiftcore-backend-go/internal/domain/window"
	"github.com/staffhub/shiftcore-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Shift domain errors
	case errors.Is(err, shift.ErrPlannedShiftNotFound):
		NotFound(w, "Planned shift not found")
	case errors.Is(err, shift.ErrActualShiftNotFound):
		NotFound(w, "Shift not found")
	case errors.Is(err, shift.ErrInvalidPlannedRange):
		BadRequest(w, "Shift end must be after start", nil)
	case errors.Is(err, shift.ErrInvalidRequestData):
		BadRequest(w, "Invalid request data", nil)

	// Window and location errors
	case errors.Is(err, window.ErrWindowNotFound):
		NotFound(w, "Bookable window not found")
	case errors.Is(err, location.ErrLocationNotFound):
		NotFound(w, "Location not found")

	// Cancellation domain errors
	case errors.Is(err, cancellation.ErrRecordNotFound):
		NotFound(w, "Cancellation record not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
