package cancellation

import (
	"time"

	"github.com/shopspring/decimal"
)

// ActorKind identifies who cancelled a shift.
type ActorKind string

const (
	ActorWorker  ActorKind = "worker"
	ActorOwner   ActorKind = "owner"
	ActorManager ActorKind = "manager"
	ActorSystem  ActorKind = "system"
)

var ActorKindValues = []string{
	string(ActorWorker),
	string(ActorOwner),
	string(ActorManager),
	string(ActorSystem),
}

// DocumentState tracks moderation of a supporting document.
type DocumentState string

const (
	DocumentStateNone     DocumentState = "none"
	DocumentStatePending  DocumentState = "pending"
	DocumentStateApproved DocumentState = "approved"
	DocumentStateRejected DocumentState = "rejected"
)

// Fine reason codes recorded on the cancellation. Stable strings.
const (
	FineReasonShortNotice   = "short_notice"
	FineReasonInvalidReason = "invalid_reason"
	FineReasonBoth          = "both"
)

// Record is created once per cancellation attempt and mutated exactly once by a
// moderation decision.
type Record struct {
	ID                  string
	ScheduleID          string
	EmployeeID          string
	LocationID          string
	CancelledBy         string
	CancelledByKind     ActorKind
	ReasonCode          string
	Notes               *string
	HoursBeforeStart    float64
	DocumentDescription *string
	DocumentState       DocumentState
	FineAmount          *decimal.Decimal
	FineReason          *string
	FineApplied         bool
	ResolvedAt          *time.Time
	ResolvedBy          *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// ReasonConfig maps a reason code to its excused flag for one owner. Owner
// configuration falls back to a global default set when absent.
type ReasonConfig struct {
	ID        string
	OwnerID   string // empty for the global default set
	Code      string
	Title     string
	IsExcused bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Rule predicate kinds for owner-defined fine rules.
const (
	PredicateHoursBeforeLT = "hours_before_lt"
	PredicateReasonInvalid = "reason_invalid"
)

// FineRule is one (predicate, fine) pair of an owner's ordered rule list.
// HoursThreshold only applies to the hours_before_lt predicate.
type FineRule struct {
	ID             string
	OwnerID        string
	Position       int
	Predicate      string
	HoursThreshold *float64
	FineAmount     decimal.Decimal
	FineReason     string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OwnerSettings are the static fallback used when an owner has no rule list.
// A zero fine disables the corresponding penalty.
type OwnerSettings struct {
	OwnerID           string
	ShortNoticeHours  float64
	ShortNoticeFine   decimal.Decimal
	InvalidReasonFine decimal.Decimal
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
