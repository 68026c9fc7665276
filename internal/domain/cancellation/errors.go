package cancellation

import "errors"

var (
	ErrRecordNotFound   = errors.New("cancellation record not found")
	ErrSettingsNotFound = errors.New("owner cancellation settings not found")

	// Validation Errors
	ErrInvalidRequestData = errors.New("invalid request data")
)
