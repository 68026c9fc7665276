package history

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Operation codes are stable strings: external reporting keys off them.
const (
	OpScheduleCancel   = "schedule_cancel"
	OpScheduleComplete = "schedule_complete"
	OpShiftCancel      = "shift_cancel"
	OpShiftOpen        = "shift_open"
	OpShiftClose       = "shift_close"
	OpFineApplied      = "fine_applied"
	OpModeration       = "moderation_decision"
)

// Sources identify which caller triggered the mutation.
const (
	SourceInteractive = "interactive"
	SourceBackfill    = "backfill"
	SourceModeration  = "moderation"
)

// Known payload keys. Anything else is an escape-hatch string field; business
// logic must not depend on undocumented keys.
const (
	PayloadReason     = "reason"
	PayloadFineAmount = "fine_amount"
	PayloadFineReason = "fine_reason"
)

// Payload is the structured free-form part of an entry, stored as JSONB.
type Payload map[string]string

func (p Payload) Value() (driver.Value, error) {
	if len(p) == 0 {
		return nil, nil
	}
	return json.Marshal(p)
}

func (p *Payload) Scan(value interface{}) error {
	if value == nil {
		*p = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return errors.New("unsupported payload type")
		}
		b = []byte(s)
	}
	return json.Unmarshal(b, p)
}

// Entry is one append-only audit record. Entries are never mutated or deleted.
type Entry struct {
	ID         string
	Operation  string
	Source     string
	ActorID    string
	ActorRole  string
	ShiftID    *string
	ScheduleID *string
	OldStatus  *string
	NewStatus  *string
	Payload    Payload
	CreatedAt  time.Time
}
