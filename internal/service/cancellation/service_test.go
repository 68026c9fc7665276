package cancellation

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/staffhub/shiftcore-backend-go/internal/domain/cancellation"
	"github.com/staffhub/shiftcore-backend-go/internal/domain/location"
	"github.com/staffhub/shiftcore-backend-go/internal/domain/shift"
	"github.com/staffhub/shiftcore-backend-go/internal/repository/memory"
	"github.com/staffhub/shiftcore-backend-go/internal/service/statussync"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type policyFixture struct {
	store *memory.Store
	svc   *PolicyServiceImpl
}

func newPolicyFixture() *policyFixture {
	store := memory.NewStore()

	store.Locations["loc-1"] = location.Location{
		ID:       "loc-1",
		OwnerID:  "own-1",
		Name:     "Downtown",
		Timezone: "UTC",
	}
	store.Reasons = []cancellation.ReasonConfig{
		{ID: "r-1", OwnerID: "", Code: "medical_cert", Title: "Medical certificate", IsExcused: true},
		{ID: "r-2", OwnerID: "", Code: "overslept", Title: "Overslept", IsExcused: false},
	}
	store.Settings["own-1"] = cancellation.OwnerSettings{
		OwnerID:           "own-1",
		ShortNoticeHours:  4,
		ShortNoticeFine:   decimal.NewFromInt(500),
		InvalidReasonFine: decimal.NewFromInt(300),
	}

	syncSvc := statussync.NewSyncService(
		store,
		memory.PlannedShiftRepo{S: store},
		memory.ActualShiftRepo{S: store},
		memory.HistoryRepo{S: store},
	)
	svc := NewPolicyService(
		store,
		memory.PlannedShiftRepo{S: store},
		memory.LocationRepo{S: store},
		memory.RecordRepo{S: store},
		memory.FineRuleRepo{S: store},
		memory.OwnerSettingsRepo{S: store},
		memory.PenaltyRepo{S: store},
		memory.HistoryRepo{S: store},
		NewReasonCache(memory.ReasonConfigRepo{S: store}),
		syncSvc,
	)
	return &policyFixture{store: store, svc: svc}
}

func (f *policyFixture) seedPlanned(t *testing.T, startsIn time.Duration) shift.PlannedShift {
	t.Helper()
	p, err := memory.PlannedShiftRepo{S: f.store}.Create(context.Background(), shift.PlannedShift{
		EmployeeID:   "emp-1",
		LocationID:   "loc-1",
		PlannedStart: time.Now().Add(startsIn),
		PlannedEnd:   time.Now().Add(startsIn + 8*time.Hour),
		Status:       shift.PlannedStatusPlanned,
		HourlyRate:   decimal.NewFromInt(50),
	})
	require.NoError(t, err)
	return p
}

func cancelReq(plannedID, reason string) cancellation.CancelShiftRequest {
	return cancellation.CancelShiftRequest{
		PlannedShiftID: plannedID,
		ActorID:        "emp-1",
		ActorKind:      string(cancellation.ActorWorker),
		ReasonCode:     reason,
	}
}

func TestCancelShift_UnexcusedShortNoticeAppliesBothFines(t *testing.T) {
	f := newPolicyFixture()
	p := f.seedPlanned(t, 30*time.Minute)

	result, err := f.svc.CancelShift(context.Background(), cancelReq(p.ID, "overslept"))
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.False(t, result.PendingModeration)
	require.NotNil(t, result.FineAmount)
	assert.True(t, result.FineAmount.Equal(decimal.NewFromInt(800)))
	assert.Contains(t, result.Message, "short notice")
	assert.Contains(t, result.Message, "invalid reason")

	rec, err := memory.RecordRepo{S: f.store}.GetByID(context.Background(), result.CancellationID)
	require.NoError(t, err)
	assert.True(t, rec.FineApplied)
	require.NotNil(t, rec.FineReason)
	assert.Equal(t, cancellation.FineReasonBoth, *rec.FineReason)

	adjustments, err := memory.PenaltyRepo{S: f.store}.ListByCancellation(context.Background(), result.CancellationID)
	require.NoError(t, err)
	require.Len(t, adjustments, 2)
	total := decimal.Zero
	for _, adj := range adjustments {
		assert.True(t, adj.Amount.IsNegative(), "penalties are stored as deductions")
		total = total.Add(adj.Amount)
	}
	assert.True(t, total.Equal(decimal.NewFromInt(-800)))

	planned, err := memory.PlannedShiftRepo{S: f.store}.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, shift.PlannedStatusCancelled, planned.Status)
}

func TestCancelShift_UnexcusedWithAmpleNotice(t *testing.T) {
	f := newPolicyFixture()
	p := f.seedPlanned(t, 72*time.Hour)

	result, err := f.svc.CancelShift(context.Background(), cancelReq(p.ID, "overslept"))
	require.NoError(t, err)

	assert.True(t, result.Success)
	require.NotNil(t, result.FineAmount)
	assert.True(t, result.FineAmount.Equal(decimal.NewFromInt(300)), "only the invalid-reason fine applies")
}

func TestCancelShift_ExcusedGoesToModeration(t *testing.T) {
	f := newPolicyFixture()
	p := f.seedPlanned(t, 30*time.Minute)

	result, err := f.svc.CancelShift(context.Background(), cancelReq(p.ID, "medical_cert"))
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.True(t, result.PendingModeration)
	assert.Nil(t, result.FineAmount)

	rec, err := memory.RecordRepo{S: f.store}.GetByID(context.Background(), result.CancellationID)
	require.NoError(t, err)
	assert.Equal(t, cancellation.DocumentStatePending, rec.DocumentState)
	assert.Nil(t, rec.FineAmount)
	assert.False(t, rec.FineApplied)

	adjustments, err := memory.PenaltyRepo{S: f.store}.ListByCancellation(context.Background(), result.CancellationID)
	require.NoError(t, err)
	assert.Empty(t, adjustments, "excused cancellations carry no fines before moderation")
}

func TestCancelShift_NonPlannedStatusIsSoftFailure(t *testing.T) {
	f := newPolicyFixture()
	p := f.seedPlanned(t, 30*time.Minute)
	require.NoError(t, memory.PlannedShiftRepo{S: f.store}.UpdateStatus(context.Background(), p.ID, shift.PlannedStatusCancelled))

	result, err := f.svc.CancelShift(context.Background(), cancelReq(p.ID, "overslept"))
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, "Shift not found or already cancelled.", result.Message)
	assert.Empty(t, f.store.Penalties)
}

func TestCancelShift_UnknownShiftIsError(t *testing.T) {
	f := newPolicyFixture()

	_, err := f.svc.CancelShift(context.Background(), cancelReq("missing", "overslept"))
	assert.ErrorIs(t, err, shift.ErrPlannedShiftNotFound)
}

func TestCancelShift_OwnerRuleListOverridesSettings(t *testing.T) {
	f := newPolicyFixture()
	threshold := 12.0
	f.store.Rules = []cancellation.FineRule{{
		ID:             "rule-1",
		OwnerID:        "own-1",
		Position:       0,
		Predicate:      cancellation.PredicateHoursBeforeLT,
		HoursThreshold: &threshold,
		FineAmount:     decimal.NewFromInt(1000),
		FineReason:     cancellation.FineReasonShortNotice,
	}}
	p := f.seedPlanned(t, 30*time.Minute)

	result, err := f.svc.CancelShift(context.Background(), cancelReq(p.ID, "overslept"))
	require.NoError(t, err)

	require.NotNil(t, result.FineAmount)
	assert.True(t, result.FineAmount.Equal(decimal.NewFromInt(1000)))

	adjustments, err := memory.PenaltyRepo{S: f.store}.ListByCancellation(context.Background(), result.CancellationID)
	require.NoError(t, err)
	require.Len(t, adjustments, 1)
}

func TestResolveModeration_ApproveExcusedWaivesFines(t *testing.T) {
	f := newPolicyFixture()
	p := f.seedPlanned(t, 30*time.Minute)

	result, err := f.svc.CancelShift(context.Background(), cancelReq(p.ID, "medical_cert"))
	require.NoError(t, err)

	err = f.svc.ResolveModeration(context.Background(), cancellation.ResolveModerationRequest{
		CancellationID: result.CancellationID,
		Approved:       true,
		ReviewerID:     "mgr-1",
	})
	require.NoError(t, err)

	rec, err := memory.RecordRepo{S: f.store}.GetByID(context.Background(), result.CancellationID)
	require.NoError(t, err)
	assert.Equal(t, cancellation.DocumentStateApproved, rec.DocumentState)
	assert.Nil(t, rec.FineAmount)
	require.NotNil(t, rec.ResolvedBy)
	assert.Equal(t, "mgr-1", *rec.ResolvedBy)
	assert.Empty(t, f.store.Penalties)
}

func TestResolveModeration_RejectAppliesFines(t *testing.T) {
	f := newPolicyFixture()
	p := f.seedPlanned(t, 30*time.Minute)

	result, err := f.svc.CancelShift(context.Background(), cancelReq(p.ID, "medical_cert"))
	require.NoError(t, err)

	err = f.svc.ResolveModeration(context.Background(), cancellation.ResolveModerationRequest{
		CancellationID: result.CancellationID,
		Approved:       false,
		ReviewerID:     "mgr-1",
	})
	require.NoError(t, err)

	rec, err := memory.RecordRepo{S: f.store}.GetByID(context.Background(), result.CancellationID)
	require.NoError(t, err)
	assert.Equal(t, cancellation.DocumentStateRejected, rec.DocumentState)
	assert.True(t, rec.FineApplied)
	require.NotNil(t, rec.FineAmount)
	assert.True(t, rec.FineAmount.Equal(decimal.NewFromInt(800)))

	adjustments, err := memory.PenaltyRepo{S: f.store}.ListByCancellation(context.Background(), result.CancellationID)
	require.NoError(t, err)
	assert.Len(t, adjustments, 2)
}

func TestResolveModeration_RerunIsNoOp(t *testing.T) {
	f := newPolicyFixture()
	p := f.seedPlanned(t, 30*time.Minute)

	result, err := f.svc.CancelShift(context.Background(), cancelReq(p.ID, "medical_cert"))
	require.NoError(t, err)

	req := cancellation.ResolveModerationRequest{
		CancellationID: result.CancellationID,
		Approved:       false,
		ReviewerID:     "mgr-1",
	}
	require.NoError(t, f.svc.ResolveModeration(context.Background(), req))
	require.NoError(t, f.svc.ResolveModeration(context.Background(), req))

	// The second run must not duplicate penalties.
	adjustments, err := memory.PenaltyRepo{S: f.store}.ListByCancellation(context.Background(), result.CancellationID)
	require.NoError(t, err)
	assert.Len(t, adjustments, 2)
}

// resolveRaceRunner resolves the record right before running the transaction
// body, simulating a reviewer who wins the race.
type resolveRaceRunner struct {
	store    *memory.Store
	recordID string
}

func (r *resolveRaceRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	rec, err := memory.RecordRepo{S: r.store}.GetByID(ctx, r.recordID)
	if err == nil && rec.DocumentState == cancellation.DocumentStatePending {
		now := time.Now()
		reviewer := "mgr-2"
		rec.DocumentState = cancellation.DocumentStateApproved
		rec.ResolvedAt = &now
		rec.ResolvedBy = &reviewer
		if err := (memory.RecordRepo{S: r.store}).Resolve(ctx, rec); err != nil {
			return err
		}
	}
	return fn(ctx)
}

func TestResolveModeration_ConcurrentResolutionWins(t *testing.T) {
	f := newPolicyFixture()
	p := f.seedPlanned(t, 30*time.Minute)

	result, err := f.svc.CancelShift(context.Background(), cancelReq(p.ID, "medical_cert"))
	require.NoError(t, err)

	racer := &resolveRaceRunner{store: f.store, recordID: result.CancellationID}
	syncSvc := statussync.NewSyncService(
		f.store,
		memory.PlannedShiftRepo{S: f.store},
		memory.ActualShiftRepo{S: f.store},
		memory.HistoryRepo{S: f.store},
	)
	svc := NewPolicyService(
		racer,
		memory.PlannedShiftRepo{S: f.store},
		memory.LocationRepo{S: f.store},
		memory.RecordRepo{S: f.store},
		memory.FineRuleRepo{S: f.store},
		memory.OwnerSettingsRepo{S: f.store},
		memory.PenaltyRepo{S: f.store},
		memory.HistoryRepo{S: f.store},
		NewReasonCache(memory.ReasonConfigRepo{S: f.store}),
		syncSvc,
	)

	// The rejection loses the race: the re-read inside the transaction sees the
	// record already approved and backs off.
	err = svc.ResolveModeration(context.Background(), cancellation.ResolveModerationRequest{
		CancellationID: result.CancellationID,
		Approved:       false,
		ReviewerID:     "mgr-1",
	})
	require.NoError(t, err)

	rec, err := memory.RecordRepo{S: f.store}.GetByID(context.Background(), result.CancellationID)
	require.NoError(t, err)
	assert.Equal(t, cancellation.DocumentStateApproved, rec.DocumentState)
	require.NotNil(t, rec.ResolvedBy)
	assert.Equal(t, "mgr-2", *rec.ResolvedBy)
	assert.Empty(t, f.store.Penalties)
}

func TestCancelShift_MissingOwnerSettingsYieldsNoFines(t *testing.T) {
	f := newPolicyFixture()
	f.store.Locations["loc-2"] = location.Location{
		ID:       "loc-2",
		OwnerID:  "own-2",
		Name:     "Uptown",
		Timezone: "UTC",
	}
	p, err := memory.PlannedShiftRepo{S: f.store}.Create(context.Background(), shift.PlannedShift{
		EmployeeID:   "emp-1",
		LocationID:   "loc-2",
		PlannedStart: time.Now().Add(30 * time.Minute),
		PlannedEnd:   time.Now().Add(8 * time.Hour),
		Status:       shift.PlannedStatusPlanned,
	})
	require.NoError(t, err)

	// own-2 has neither fine rules nor static settings: a configuration gap,
	// not an error.
	result, err := f.svc.CancelShift(context.Background(), cancelReq(p.ID, "overslept"))
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Nil(t, result.FineAmount)
	assert.Equal(t, "Shift cancelled. No fines apply.", result.Message)
	assert.Empty(t, f.store.Penalties)
}

func TestResolveModeration_UnknownRecordIsError(t *testing.T) {
	f := newPolicyFixture()

	err := f.svc.ResolveModeration(context.Background(), cancellation.ResolveModerationRequest{
		CancellationID: "missing",
		Approved:       true,
		ReviewerID:     "mgr-1",
	})
	assert.ErrorIs(t, err, cancellation.ErrRecordNotFound)
}

func TestReasonCache_OwnerSetShadowsGlobal(t *testing.T) {
	f := newPolicyFixture()
	// Owner overrides: medical_cert is not excused for this owner.
	f.store.Reasons = append(f.store.Reasons, cancellation.ReasonConfig{
		ID: "r-3", OwnerID: "own-1", Code: "medical_cert", Title: "Medical certificate", IsExcused: false,
	})

	cache := NewReasonCache(memory.ReasonConfigRepo{S: f.store})

	excused, known, err := cache.Resolve(context.Background(), "own-1", "medical_cert")
	require.NoError(t, err)
	assert.True(t, known)
	assert.False(t, excused)

	// An owner without its own set falls back to the global defaults.
	excused, known, err = cache.Resolve(context.Background(), "own-2", "medical_cert")
	require.NoError(t, err)
	assert.True(t, known)
	assert.True(t, excused)
}

func TestReasonCache_Invalidate(t *testing.T) {
	f := newPolicyFixture()
	cache := NewReasonCache(memory.ReasonConfigRepo{S: f.store})

	excused, _, err := cache.Resolve(context.Background(), "own-1", "medical_cert")
	require.NoError(t, err)
	assert.True(t, excused)

	f.store.Reasons = append(f.store.Reasons, cancellation.ReasonConfig{
		ID: "r-3", OwnerID: "own-1", Code: "medical_cert", IsExcused: false,
	})

	// Stale until invalidated.
	excused, _, err = cache.Resolve(context.Background(), "own-1", "medical_cert")
	require.NoError(t, err)
	assert.True(t, excused)

	cache.Invalidate("own-1")
	excused, _, err = cache.Resolve(context.Background(), "own-1", "medical_cert")
	require.NoError(t, err)
	assert.False(t, excused)
}
