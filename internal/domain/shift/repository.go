package shift

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PlannedShiftRepository defines data access for planned shifts. Status writes go
// through UpdateStatus so the caller can re-read the current status immediately
// before mutating (optimistic re-read, see the status sync engine).
type PlannedShiftRepository interface {
	Create(ctx context.Context, planned PlannedShift) (PlannedShift, error)

	GetByID(ctx context.Context, id string) (PlannedShift, error)

	// UpdateStatus sets the status of one planned shift.
	UpdateStatus(ctx context.Context, id string, status PlannedStatus) error

	// ListWithActuals returns every planned shift that has at least one linked
	// actual shift, for the reconciliation sweep. scope limits by location when
	// non-empty.
	ListWithActuals(ctx context.Context, scope string) ([]PlannedShift, error)

	// ListByWindow returns planned shifts referencing a bookable window, plus
	// those overlapping the given range at the same location.
	ListByWindow(ctx context.Context, windowID string, locationID string, from, to time.Time) ([]PlannedShift, error)
}

// ActualShiftRepository defines data access for actual (clocked) shifts.
type ActualShiftRepository interface {
	Create(ctx context.Context, actual ActualShift) (ActualShift, error)

	GetByID(ctx context.Context, id string) (ActualShift, error)

	// ListBySchedule returns every actual shift produced by one planned shift.
	ListBySchedule(ctx context.Context, scheduleID string) ([]ActualShift, error)

	// Close marks the shift terminal: status, end time and computed totals in one
	// statement.
	Close(ctx context.Context, id string, status ActualStatus, endTime time.Time, workedMinutes *int, payment *decimal.Decimal) error

	ListByWindow(ctx context.Context, windowID string, locationID string, from, to time.Time) ([]ActualShift, error)
}
