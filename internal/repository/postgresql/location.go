package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/staffhub/shiftcore-backend-go/internal/domain/location"
	"github.com/staffhub/shiftcore-backend-go/internal/pkg/database"
)

type locationRepository struct {
	db *database.DB
}

func NewLocationRepository(db *database.DB) location.LocationRepository {
	return &locationRepository{db: db}
}

// GetByID implements location.LocationRepository.
func (r *locationRepository) GetByID(ctx context.Context, id string) (location.Location, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, owner_id, name, timezone, created_at, updated_at
		FROM locations
		WHERE id = $1
	`

	var loc location.Location
	err := q.QueryRow(ctx, query, id).Scan(
		&loc.ID, &loc.OwnerID, &loc.Name, &loc.Timezone, &loc.CreatedAt, &loc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return location.Location{}, location.ErrLocationNotFound
		}
		return location.Location{}, fmt.Errorf("failed to get location: %w", err)
	}

	return loc, nil
}

// GetTimezone implements location.LocationRepository.
func (r *locationRepository) GetTimezone(ctx context.Context, locationID string) (string, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT timezone FROM locations WHERE id = $1`

	var tz string
	err := q.QueryRow(ctx, query, locationID).Scan(&tz)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", location.ErrLocationNotFound
		}
		return "", fmt.Errorf("failed to get location timezone: %w", err)
	}

	return tz, nil
}
