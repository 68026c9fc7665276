package location

import (
	"context"
	"errors"
)

var ErrLocationNotFound = errors.New("location not found")

type LocationRepository interface {
	GetByID(ctx context.Context, id string) (Location, error)

	GetTimezone(ctx context.Context, locationID string) (string, error)
}
