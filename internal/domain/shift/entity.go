package shift

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlannedStatus enum for PlannedShift lifecycle.
type PlannedStatus string

const (
	PlannedStatusPlanned   PlannedStatus = "planned"
	PlannedStatusConfirmed PlannedStatus = "confirmed"
	PlannedStatusCancelled PlannedStatus = "cancelled"
	PlannedStatusCompleted PlannedStatus = "completed"
)

var PlannedStatusValues = []string{
	string(PlannedStatusPlanned),
	string(PlannedStatusConfirmed),
	string(PlannedStatusCancelled),
	string(PlannedStatusCompleted),
}

// IsTerminal reports whether the status can never be left again.
func (s PlannedStatus) IsTerminal() bool {
	return s == PlannedStatusCancelled || s == PlannedStatusCompleted
}

// ActualStatus enum for ActualShift lifecycle.
type ActualStatus string

const (
	ActualStatusActive    ActualStatus = "active"
	ActualStatusCompleted ActualStatus = "completed"
	ActualStatusCancelled ActualStatus = "cancelled"
)

func (s ActualStatus) IsTerminal() bool {
	return s == ActualStatusCompleted || s == ActualStatusCancelled
}

// PlannedShift is a booked future work commitment for one worker at one location.
// It is never physically deleted; cancelled/completed are soft-terminal states.
type PlannedShift struct {
	ID            string
	EmployeeID    string
	LocationID    string
	WindowID      *string
	PlannedStart  time.Time
	PlannedEnd    time.Time
	Status        PlannedStatus
	HourlyRate    decimal.Decimal
	Notes         *string
	Notified      bool
	AutoClosed    bool
	ActualShiftID *string // legacy primary link; grouping truth is ActualShift.ScheduleID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ActualShift is a real clocked-in work session, optionally produced by a
// PlannedShift. EndTime is set if and only if the status is terminal.
type ActualShift struct {
	ID            string
	EmployeeID    string
	LocationID    string
	WindowID      *string
	ScheduleID    *string
	StartTime     time.Time
	EndTime       *time.Time
	Status        ActualStatus
	WorkedMinutes *int
	Payment       *decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
