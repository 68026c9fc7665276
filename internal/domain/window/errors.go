package window

import "errors"

var (
	ErrWindowNotFound = errors.New("bookable window not found")
)
