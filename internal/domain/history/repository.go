package history

import "context"

// Repository is append-only by contract: no update or delete methods exist.
type Repository interface {
	Append(ctx context.Context, entry Entry) (Entry, error)

	ListBySchedule(ctx context.Context, scheduleID string) ([]Entry, error)
}
