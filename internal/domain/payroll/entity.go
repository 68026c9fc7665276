package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Adjustment type codes for cancellation fines. Stable strings; one adjustment
// per (cancellation, type) is a hard contract.
const (
	AdjustmentTypeShortNotice   = "short_notice"
	AdjustmentTypeInvalidReason = "invalid_reason"
)

// PenaltyAdjustment is a signed payroll correction (negative = deduction).
// An external payroll collaborator applies it and sets Applied.
type PenaltyAdjustment struct {
	ID             string
	EmployeeID     string
	LocationID     *string
	CancellationID *string
	Amount         decimal.Decimal
	Type           string
	Description    string
	Applied        bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
