package payroll

import "context"

// PenaltyAdjustmentRepository persists cancellation fines. ExistsForCancellation
// backs the idempotency contract: the engine must check it before every insert,
// and the table should carry a matching unique constraint.
type PenaltyAdjustmentRepository interface {
	Create(ctx context.Context, adj PenaltyAdjustment) (PenaltyAdjustment, error)

	ExistsForCancellation(ctx context.Context, cancellationID string, adjustmentType string) (bool, error)

	ListByCancellation(ctx context.Context, cancellationID string) ([]PenaltyAdjustment, error)
}
