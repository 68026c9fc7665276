package postgresql

import (
	"context"
	"fmt"

	"github.com/staffhub/shiftcore-backend-go/internal/domain/payroll"
	"github.com/staffhub/shiftcore-backend-go/internal/pkg/database"
)

type penaltyAdjustmentRepository struct {
	db *database.DB
}

func NewPenaltyAdjustmentRepository(db *database.DB) payroll.PenaltyAdjustmentRepository {
	return &penaltyAdjustmentRepository{db: db}
}

// Create implements payroll.PenaltyAdjustmentRepository. The table carries a
// unique constraint on (cancellation_id, type); the engine checks
// ExistsForCancellation first, the constraint is the backstop.
func (r *penaltyAdjustmentRepository) Create(ctx context.Context, adj payroll.PenaltyAdjustment) (payroll.PenaltyAdjustment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO penalty_adjustments (
			employee_id, location_id, cancellation_id, amount, type, description, applied
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		adj.EmployeeID,
		adj.LocationID,
		adj.CancellationID,
		adj.Amount,
		adj.Type,
		adj.Description,
		adj.Applied,
	).Scan(&adj.ID, &adj.CreatedAt, &adj.UpdatedAt)

	if err != nil {
		return payroll.PenaltyAdjustment{}, fmt.Errorf("failed to create penalty adjustment: %w", err)
	}

	return adj, nil
}

// ExistsForCancellation implements payroll.PenaltyAdjustmentRepository.
func (r *penaltyAdjustmentRepository) ExistsForCancellation(ctx context.Context, cancellationID string, adjustmentType string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM penalty_adjustments
			WHERE cancellation_id = $1 AND type = $2
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, cancellationID, adjustmentType).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check penalty adjustment existence: %w", err)
	}

	return exists, nil
}

// ListByCancellation implements payroll.PenaltyAdjustmentRepository.
func (r *penaltyAdjustmentRepository) ListByCancellation(ctx context.Context, cancellationID string) ([]payroll.PenaltyAdjustment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, location_id, cancellation_id, amount, type, description, applied,
			   created_at, updated_at
		FROM penalty_adjustments
		WHERE cancellation_id = $1
		ORDER BY created_at
	`

	rows, err := q.Query(ctx, query, cancellationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list penalty adjustments: %w", err)
	}
	defer rows.Close()

	var result []payroll.PenaltyAdjustment
	for rows.Next() {
		var adj payroll.PenaltyAdjustment
		if err := rows.Scan(&adj.ID, &adj.EmployeeID, &adj.LocationID, &adj.CancellationID,
			&adj.Amount, &adj.Type, &adj.Description, &adj.Applied,
			&adj.CreatedAt, &adj.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan penalty adjustment: %w", err)
		}
		result = append(result, adj)
	}

	return result, rows.Err()
}
