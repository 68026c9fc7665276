package shift

import (
	"context"
)

// SyncResult is the outcome of one lifecycle transition. Illegal combinations are
// not errors: the engine repairs them and reports what it did so the caller can
// still react (show a message, refuse a clock-in).
type SyncResult struct {
	Succeeded        bool
	CorrectiveAction string // e.g. "actual_shift_cancelled", empty when none
}

// CancelPlannedResult reports the cascade size of a planned-shift cancellation.
type CancelPlannedResult struct {
	CancelledActualCount int
}

// SweepResult counts repairs applied by one reconciliation pass.
type SweepResult struct {
	ScheduleFixCount int
	ShiftFixCount    int
}

// Actor identifies who triggered a transition, for the history log.
type Actor struct {
	ID   string
	Role string // worker/owner/manager/system
}

// SyncService keeps PlannedShift and ActualShift statuses mutually consistent
// and logs one history entry per mutation.
type SyncService interface {
	// OpenActualShift verifies a newly created actual shift against its linked
	// schedule. A terminal schedule forces the new shift to cancelled.
	OpenActualShift(ctx context.Context, actualShiftID string) (SyncResult, error)

	// CloseActualShift completes an actual shift and advances the linked
	// schedule to completed, unless the schedule was already cancelled.
	CloseActualShift(ctx context.Context, actualShiftID string) (SyncResult, error)

	// CancelActualShift cancels an actual shift and cascades the cancellation to
	// the linked schedule. Completed shifts cannot be cancelled retroactively.
	CancelActualShift(ctx context.Context, actualShiftID string, actor Actor) (SyncResult, error)

	// CancelPlannedShift cancels a schedule and every linked non-terminal actual
	// shift.
	CancelPlannedShift(ctx context.Context, plannedShiftID string, actor Actor) (CancelPlannedResult, error)

	// RunReconciliationSweep repairs inconsistent planned/actual status pairs.
	// A non-empty scope limits the sweep to one location's schedules.
	// Idempotent and monotonic: safe to re-run and to abort mid-way.
	RunReconciliationSweep(ctx context.Context, scope string) (SweepResult, error)
}
