package window

import (
	"context"
	"time"
)

type BookableWindowRepository interface {
	GetByID(ctx context.Context, id string) (BookableWindow, error)

	// ListByLocationAndDate returns active windows for one location on one
	// calendar date (local date of the location).
	ListByLocationAndDate(ctx context.Context, locationID string, date time.Time) ([]BookableWindow, error)
}
