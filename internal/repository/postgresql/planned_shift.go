package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/staffhub/shiftcore-backend-go/internal/domain/shift"
	"github.com/staffhub/shiftcore-backend-go/internal/pkg/database"
)

type plannedShiftRepository struct {
	db *database.DB
}

func NewPlannedShiftRepository(db *database.DB) shift.PlannedShiftRepository {
	return &plannedShiftRepository{db: db}
}

const plannedShiftColumns = `
	id, employee_id, location_id, window_id, planned_start, planned_end,
	status, hourly_rate, notes, notified, auto_closed, actual_shift_id,
	created_at, updated_at
`

func scanPlannedShift(row pgx.Row) (shift.PlannedShift, error) {
	var p shift.PlannedShift
	err := row.Scan(
		&p.ID, &p.EmployeeID, &p.LocationID, &p.WindowID, &p.PlannedStart, &p.PlannedEnd,
		&p.Status, &p.HourlyRate, &p.Notes, &p.Notified, &p.AutoClosed, &p.ActualShiftID,
		&p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// Create implements shift.PlannedShiftRepository.
func (r *plannedShiftRepository) Create(ctx context.Context, planned shift.PlannedShift) (shift.PlannedShift, error) {
	if !planned.PlannedEnd.After(planned.PlannedStart) {
		return shift.PlannedShift{}, shift.ErrInvalidPlannedRange
	}

	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO planned_shifts (
			employee_id, location_id, window_id, planned_start, planned_end,
			status, hourly_rate, notes, notified, auto_closed, actual_shift_id
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		planned.EmployeeID,
		planned.LocationID,
		planned.WindowID,
		planned.PlannedStart,
		planned.PlannedEnd,
		planned.Status,
		planned.HourlyRate,
		planned.Notes,
		planned.Notified,
		planned.AutoClosed,
		planned.ActualShiftID,
	).Scan(&planned.ID, &planned.CreatedAt, &planned.UpdatedAt)

	if err != nil {
		return shift.PlannedShift{}, fmt.Errorf("failed to create planned shift: %w", err)
	}

	return planned, nil
}

// GetByID implements shift.PlannedShiftRepository.
func (r *plannedShiftRepository) GetByID(ctx context.Context, id string) (shift.PlannedShift, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + plannedShiftColumns + ` FROM planned_shifts WHERE id = $1`

	p, err := scanPlannedShift(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.PlannedShift{}, shift.ErrPlannedShiftNotFound
		}
		return shift.PlannedShift{}, fmt.Errorf("failed to get planned shift: %w", err)
	}

	return p, nil
}

// UpdateStatus implements shift.PlannedShiftRepository.
func (r *plannedShiftRepository) UpdateStatus(ctx context.Context, id string, status shift.PlannedStatus) error {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE planned_shifts SET status = $1, updated_at = NOW() WHERE id = $2`

	tag, err := q.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update planned shift status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrPlannedShiftNotFound
	}

	return nil
}

// ListWithActuals implements shift.PlannedShiftRepository.
func (r *plannedShiftRepository) ListWithActuals(ctx context.Context, scope string) ([]shift.PlannedShift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT DISTINCT p.id, p.employee_id, p.location_id, p.window_id, p.planned_start, p.planned_end,
			   p.status, p.hourly_rate, p.notes, p.notified, p.auto_closed, p.actual_shift_id,
			   p.created_at, p.updated_at
		FROM planned_shifts p
		JOIN actual_shifts a ON a.schedule_id = p.id
	`
	args := []interface{}{}
	if scope != "" {
		query += ` WHERE p.location_id = $1`
		args = append(args, scope)
	}
	query += ` ORDER BY p.id`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list planned shifts with actuals: %w", err)
	}
	defer rows.Close()

	var result []shift.PlannedShift
	for rows.Next() {
		p, err := scanPlannedShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan planned shift: %w", err)
		}
		result = append(result, p)
	}

	return result, rows.Err()
}

// ListByWindow implements shift.PlannedShiftRepository.
func (r *plannedShiftRepository) ListByWindow(ctx context.Context, windowID string, locationID string, from, to time.Time) ([]shift.PlannedShift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + plannedShiftColumns + `
		FROM planned_shifts
		WHERE window_id = $1
		   OR (location_id = $2 AND planned_start < $4 AND planned_end > $3)
		ORDER BY planned_start
	`

	rows, err := q.Query(ctx, query, windowID, locationID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list planned shifts by window: %w", err)
	}
	defer rows.Close()

	var result []shift.PlannedShift
	for rows.Next() {
		p, err := scanPlannedShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan planned shift: %w", err)
		}
		result = append(result, p)
	}

	return result, rows.Err()
}
