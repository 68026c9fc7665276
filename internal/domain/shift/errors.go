package shift

import "errors"

var (
	// Planned Shift Errors
	ErrPlannedShiftNotFound = errors.New("planned shift not found")
	ErrInvalidPlannedRange  = errors.New("planned end must be after planned start")

	// Actual Shift Errors
	ErrActualShiftNotFound = errors.New("actual shift not found")

	// Validation Errors
	ErrInvalidRequestData = errors.New("invalid request data")
)
