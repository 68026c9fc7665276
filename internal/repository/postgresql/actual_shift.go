package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/staffhub/shiftcore-backend-go/internal/domain/shift"
	"github.com/staffhub/shiftcore-backend-go/internal/pkg/database"
)

type actualShiftRepository struct {
	db *database.DB
}

func NewActualShiftRepository(db *database.DB) shift.ActualShiftRepository {
	return &actualShiftRepository{db: db}
}

const actualShiftColumns = `
	id, employee_id, location_id, window_id, schedule_id, start_time, end_time,
	status, worked_minutes, payment, created_at, updated_at
`

func scanActualShift(row pgx.Row) (shift.ActualShift, error) {
	var a shift.ActualShift
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.LocationID, &a.WindowID, &a.ScheduleID, &a.StartTime, &a.EndTime,
		&a.Status, &a.WorkedMinutes, &a.Payment, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

// Create implements shift.ActualShiftRepository.
func (r *actualShiftRepository) Create(ctx context.Context, actual shift.ActualShift) (shift.ActualShift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO actual_shifts (
			employee_id, location_id, window_id, schedule_id, start_time, end_time,
			status, worked_minutes, payment
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		actual.EmployeeID,
		actual.LocationID,
		actual.WindowID,
		actual.ScheduleID,
		actual.StartTime,
		actual.EndTime,
		actual.Status,
		actual.WorkedMinutes,
		actual.Payment,
	).Scan(&actual.ID, &actual.CreatedAt, &actual.UpdatedAt)

	if err != nil {
		return shift.ActualShift{}, fmt.Errorf("failed to create actual shift: %w", err)
	}

	return actual, nil
}

// GetByID implements shift.ActualShiftRepository.
func (r *actualShiftRepository) GetByID(ctx context.Context, id string) (shift.ActualShift, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + actualShiftColumns + ` FROM actual_shifts WHERE id = $1`

	a, err := scanActualShift(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.ActualShift{}, shift.ErrActualShiftNotFound
		}
		return shift.ActualShift{}, fmt.Errorf("failed to get actual shift: %w", err)
	}

	return a, nil
}

// ListBySchedule implements shift.ActualShiftRepository.
func (r *actualShiftRepository) ListBySchedule(ctx context.Context, scheduleID string) ([]shift.ActualShift, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + actualShiftColumns + ` FROM actual_shifts WHERE schedule_id = $1 ORDER BY start_time`

	rows, err := q.Query(ctx, query, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list actual shifts by schedule: %w", err)
	}
	defer rows.Close()

	var result []shift.ActualShift
	for rows.Next() {
		a, err := scanActualShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan actual shift: %w", err)
		}
		result = append(result, a)
	}

	return result, rows.Err()
}

// Close implements shift.ActualShiftRepository.
func (r *actualShiftRepository) Close(ctx context.Context, id string, status shift.ActualStatus, endTime time.Time, workedMinutes *int, payment *decimal.Decimal) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE actual_shifts
		SET status = $1,
			end_time = COALESCE(end_time, $2),
			worked_minutes = COALESCE($3, worked_minutes),
			payment = COALESCE($4, payment),
			updated_at = NOW()
		WHERE id = $5
	`

	tag, err := q.Exec(ctx, query, status, endTime, workedMinutes, payment, id)
	if err != nil {
		return fmt.Errorf("failed to close actual shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrActualShiftNotFound
	}

	return nil
}

// ListByWindow implements shift.ActualShiftRepository.
func (r *actualShiftRepository) ListByWindow(ctx context.Context, windowID string, locationID string, from, to time.Time) ([]shift.ActualShift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + actualShiftColumns + `
		FROM actual_shifts
		WHERE window_id = $1
		   OR (location_id = $2 AND start_time < $4 AND (end_time IS NULL OR end_time > $3))
		ORDER BY start_time
	`

	rows, err := q.Query(ctx, query, windowID, locationID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list actual shifts by window: %w", err)
	}
	defer rows.Close()

	var result []shift.ActualShift
	for rows.Next() {
		a, err := scanActualShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan actual shift: %w", err)
		}
		result = append(result, a)
	}

	return result, rows.Err()
}
