package cancellation

import "context"

// PolicyService processes cancellation requests against planned shifts and
// applies the owner's penalty policy.
type PolicyService interface {
	// CancelShift cancels a planned shift. Excused reasons defer penalties to
	// moderation; unexcused reasons evaluate fines immediately.
	CancelShift(ctx context.Context, req CancelShiftRequest) (CancelShiftResult, error)

	// ResolveModeration applies a reviewer's approve/reject decision to a
	// pending excused cancellation. Idempotent on re-run.
	ResolveModeration(ctx context.Context, req ResolveModerationRequest) error
}
