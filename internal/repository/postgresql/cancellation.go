package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/staffhub/shiftcore-backend-go/internal/domain/cancellation"
	"github.com/staffhub/shiftcore-backend-go/internal/pkg/database"
)

type cancellationRecordRepository struct {
	db *database.DB
}

func NewCancellationRecordRepository(db *database.DB) cancellation.RecordRepository {
	return &cancellationRecordRepository{db: db}
}

const cancellationRecordColumns = `
	id, schedule_id, employee_id, location_id, cancelled_by, cancelled_by_kind,
	reason_code, notes, hours_before_start, document_description, document_state,
	fine_amount, fine_reason, fine_applied, resolved_at, resolved_by,
	created_at, updated_at
`

func scanCancellationRecord(row pgx.Row) (cancellation.Record, error) {
	var rec cancellation.Record
	err := row.Scan(
		&rec.ID, &rec.ScheduleID, &rec.EmployeeID, &rec.LocationID, &rec.CancelledBy, &rec.CancelledByKind,
		&rec.ReasonCode, &rec.Notes, &rec.HoursBeforeStart, &rec.DocumentDescription, &rec.DocumentState,
		&rec.FineAmount, &rec.FineReason, &rec.FineApplied, &rec.ResolvedAt, &rec.ResolvedBy,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}

// Create implements cancellation.RecordRepository.
func (r *cancellationRecordRepository) Create(ctx context.Context, rec cancellation.Record) (cancellation.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO cancellation_records (
			schedule_id, employee_id, location_id, cancelled_by, cancelled_by_kind,
			reason_code, notes, hours_before_start, document_description, document_state,
			fine_amount, fine_reason, fine_applied
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		rec.ScheduleID,
		rec.EmployeeID,
		rec.LocationID,
		rec.CancelledBy,
		rec.CancelledByKind,
		rec.ReasonCode,
		rec.Notes,
		rec.HoursBeforeStart,
		rec.DocumentDescription,
		rec.DocumentState,
		rec.FineAmount,
		rec.FineReason,
		rec.FineApplied,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		return cancellation.Record{}, fmt.Errorf("failed to create cancellation record: %w", err)
	}

	return rec, nil
}

// GetByID implements cancellation.RecordRepository.
func (r *cancellationRecordRepository) GetByID(ctx context.Context, id string) (cancellation.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + cancellationRecordColumns + ` FROM cancellation_records WHERE id = $1`

	rec, err := scanCancellationRecord(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return cancellation.Record{}, cancellation.ErrRecordNotFound
		}
		return cancellation.Record{}, fmt.Errorf("failed to get cancellation record: %w", err)
	}

	return rec, nil
}

// Resolve implements cancellation.RecordRepository.
func (r *cancellationRecordRepository) Resolve(ctx context.Context, rec cancellation.Record) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE cancellation_records
		SET document_state = $1,
			fine_amount = $2,
			fine_reason = $3,
			fine_applied = $4,
			resolved_at = $5,
			resolved_by = $6,
			updated_at = NOW()
		WHERE id = $7
	`

	tag, err := q.Exec(ctx, query,
		rec.DocumentState,
		rec.FineAmount,
		rec.FineReason,
		rec.FineApplied,
		rec.ResolvedAt,
		rec.ResolvedBy,
		rec.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to resolve cancellation record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return cancellation.ErrRecordNotFound
	}

	return nil
}
