package shift

import "github.com/staffhub/shiftcore-backend-go/internal/pkg/validator"

var actorRoles = []string{"worker", "owner", "manager", "system"}

type OpenActualShiftRequest struct {
	ActualShiftID string `json:"actual_shift_id"`
}

func (r *OpenActualShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ActualShiftID) {
		errs = append(errs, validator.ValidationError{
			Field:   "actual_shift_id",
			Message: "actual_shift_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CloseActualShiftRequest struct {
	ActualShiftID string `json:"actual_shift_id"`
}

func (r *CloseActualShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ActualShiftID) {
		errs = append(errs, validator.ValidationError{
			Field:   "actual_shift_id",
			Message: "actual_shift_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CancelActualShiftRequest struct {
	ActualShiftID string `json:"actual_shift_id"`
	ActorID       string `json:"actor_id"`
	ActorRole     string `json:"actor_role"`
}

func (r *CancelActualShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ActualShiftID) {
		errs = append(errs, validator.ValidationError{
			Field:   "actual_shift_id",
			Message: "actual_shift_id is required",
		})
	}
	if validator.IsEmpty(r.ActorID) {
		errs = append(errs, validator.ValidationError{
			Field:   "actor_id",
			Message: "actor_id is required",
		})
	}
	if !validator.IsInSlice(r.ActorRole, actorRoles) {
		errs = append(errs, validator.ValidationError{
			Field:   "actor_role",
			Message: "actor_role must be one of worker, owner, manager, system",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CancelPlannedShiftRequest struct {
	PlannedShiftID string `json:"planned_shift_id"`
	ActorID        string `json:"actor_id"`
	ActorRole      string `json:"actor_role"`
}

func (r *CancelPlannedShiftRequest) Validate() error {
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
	if !validator.IsInSlice(r.ActorRole, actorRoles) {
		errs = append(errs, validator.ValidationError{
			Field:   "actor_role",
			Message: "actor_role must be one of worker, owner, manager, system",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
