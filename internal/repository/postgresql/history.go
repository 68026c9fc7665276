package postgresql

import (
	"context"
	"fmt"

	"github.com/staffhub/shiftcore-backend-go/internal/domain/history"
	"github.com/staffhub/shiftcore-backend-go/internal/pkg/database"
)

type historyRepository struct {
	db *database.DB
}

func NewHistoryRepository(db *database.DB) history.Repository {
	return &historyRepository{db: db}
}

// Append implements history.Repository.
func (r *historyRepository) Append(ctx context.Context, entry history.Entry) (history.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO history_entries (
			operation, source, actor_id, actor_role, shift_id, schedule_id,
			old_status, new_status, payload
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		) RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		entry.Operation,
		entry.Source,
		entry.ActorID,
		entry.ActorRole,
		entry.ShiftID,
		entry.ScheduleID,
		entry.OldStatus,
		entry.NewStatus,
		entry.Payload,
	).Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		return history.Entry{}, fmt.Errorf("failed to append history entry: %w", err)
	}

	return entry, nil
}

// ListBySchedule implements history.Repository.
func (r *historyRepository) ListBySchedule(ctx context.Context, scheduleID string) ([]history.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, operation, source, actor_id, actor_role, shift_id, schedule_id,
			   old_status, new_status, payload, created_at
		FROM history_entries
		WHERE schedule_id = $1
		ORDER BY created_at
	`

	rows, err := q.Query(ctx, query, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list history entries: %w", err)
	}
	defer rows.Close()

	var result []history.Entry
	for rows.Next() {
		var e history.Entry
		if err := rows.Scan(&e.ID, &e.Operation, &e.Source, &e.ActorID, &e.ActorRole,
			&e.ShiftID, &e.ScheduleID, &e.OldStatus, &e.NewStatus, &e.Payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		result = append(result, e)
	}

	return result, rows.Err()
}
