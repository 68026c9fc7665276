package cancellation

import (
	"github.com/shopspring/decimal"
	"github.com/staffhub/shiftcore-backend-go/internal/pkg/validator"
)

type CancelShiftRequest struct {
	PlannedShiftID      string  `json:"planned_shift_id"`
	ActorID             string  `json:"actor_id"`
	ActorKind           string  `json:"actor_kind"`
	ReasonCode          string  `json:"reason_code"`
	Notes               *string `json:"notes,omitempty"`
	DocumentDescription *string `json:"document_description,omitempty"`
}

func (r *CancelShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.PlannedShiftID) {
		errs = append(errs, validator.ValidationError{
			Field:   "planned_shift_id",
			Message: "planned_shift_id is required",
		})
	}
	if validator.IsEmpty(r.ActorID) {
		errs = append(errs, validator.ValidationError{
			Field:   "actor_id",
			Message: "actor_id is required",
		})
	}
	if !validator.IsInSlice(r.ActorKind, ActorKindValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "actor_kind",
			Message: "actor_kind must be one of worker, owner, manager, system",
		})
	}
	if validator.IsEmpty(r.ReasonCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason_code",
			Message: "reason_code is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// CancelShiftResult is what the interactive caller shows the user. Message is
// always set, including on the soft failure paths.
type CancelShiftResult struct {
	Success           bool             `json:"success"`
	CancellationID    string           `json:"cancellation_id,omitempty"`
	PendingModeration bool             `json:"pending_moderation"`
	FineAmount        *decimal.Decimal `json:"fine_amount,omitempty"`
	Message           string           `json:"message"`
}

type ResolveModerationRequest struct {
	CancellationID string `json:"cancellation_id"`
	Approved       bool   `json:"approved"`
	ReviewerID     string `json:"reviewer_id"`
}

func (r *ResolveModerationRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.CancellationID) {
		errs = append(errs, validator.ValidationError{
			Field:   "cancellation_id",
			Message: "cancellation_id is required",
		})
	}
	if validator.IsEmpty(r.ReviewerID) {
		errs = append(errs, validator.ValidationError{
			Field:   "reviewer_id",
			Message: "reviewer_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
