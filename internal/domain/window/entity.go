package window

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookableWindow is a capacity-limited time range that workers book shifts
// against. The occupancy calculator consumes it; this core never mutates it.
type BookableWindow struct {
	ID           string
	LocationID   string
	Date         time.Time // calendar date, time part ignored
	StartTime    time.Time // time-of-day, date part ignored
	EndTime      time.Time // time-of-day; at or before StartTime means next-day checkout
	HourlyRate   *decimal.Decimal
	MaxEmployees int
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
