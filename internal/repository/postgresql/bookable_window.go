package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/staffhub/shiftcore-backend-go/internal/domain/window"
	"github.com/staffhub/shiftcore-backend-go/internal/pkg/database"
)

type bookableWindowRepository struct {
	db *database.DB
}

func NewBookableWindowRepository(db *database.DB) window.BookableWindowRepository {
	return &bookableWindowRepository{db: db}
}

const bookableWindowColumns = `
	id, location_id, date, start_time, end_time, hourly_rate, max_employees,
	is_active, created_at, updated_at
`

func scanBookableWindow(row pgx.Row) (window.BookableWindow, error) {
	var w window.BookableWindow
	err := row.Scan(
		&w.ID, &w.LocationID, &w.Date, &w.StartTime, &w.EndTime, &w.HourlyRate, &w.MaxEmployees,
		&w.IsActive, &w.CreatedAt, &w.UpdatedAt,
	)
	return w, err
}

// GetByID implements window.BookableWindowRepository.
func (r *bookableWindowRepository) GetByID(ctx context.Context, id string) (window.BookableWindow, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + bookableWindowColumns + ` FROM bookable_windows WHERE id = $1`

	w, err := scanBookableWindow(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return window.BookableWindow{}, window.ErrWindowNotFound
		}
		return window.BookableWindow{}, fmt.Errorf("failed to get bookable window: %w", err)
	}

	return w, nil
}

// ListByLocationAndDate implements window.BookableWindowRepository.
func (r *bookableWindowRepository) ListByLocationAndDate(ctx context.Context, locationID string, date time.Time) ([]window.BookableWindow, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + bookableWindowColumns + `
		FROM bookable_windows
		WHERE location_id = $1 AND date = $2 AND is_active = true
		ORDER BY start_time
	`

	rows, err := q.Query(ctx, query, locationID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookable windows: %w", err)
	}
	defer rows.Close()

	var result []window.BookableWindow
	for rows.Next() {
		w, err := scanBookableWindow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bookable window: %w", err)
		}
		result = append(result, w)
	}

	return result, rows.Err()
}
