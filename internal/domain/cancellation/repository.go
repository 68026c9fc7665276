package cancellation

import "context"

type RecordRepository interface {
	Create(ctx context.Context, rec Record) (Record, error)

	GetByID(ctx context.Context, id string) (Record, error)

	// Resolve stores the one-time moderation outcome plus any retroactive fine.
	Resolve(ctx context.Context, rec Record) error
}

// ReasonConfigRepository resolves reason codes per owner. The global default
// set is stored under an empty owner id.
type ReasonConfigRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]ReasonConfig, error)
}

type FineRuleRepository interface {
	// ListByOwner returns the owner's rules ordered by position. Empty means the
	// owner relies on static settings.
	ListByOwner(ctx context.Context, ownerID string) ([]FineRule, error)
}

type OwnerSettingsRepository interface {
	// GetByOwner returns ErrSettingsNotFound when the owner never configured
	// fines; the engine treats that as "no fines", never as a hard failure.
	GetByOwner(ctx context.Context, ownerID string) (OwnerSettings, error)
}
