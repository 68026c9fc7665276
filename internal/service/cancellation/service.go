package cancellation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/staffhub/shiftcore-backend-go/internal/domain/cancellation"
	"github.com/staffhub/shiftcore-backend-go/internal/domain/history"
	"github.com/staffhub/shiftcore-backend-go/internal/domain/location"
	"github.com/staffhub/shiftcore-backend-go/internal/domain/payroll"
	"github.com/staffhub/shiftcore-backend-go/internal/domain/shift"
	"github.com/staffhub/shiftcore-backend-go/internal/pkg/database"
)

type PolicyServiceImpl struct {
	tx           database.TxRunner
	plannedRepo  shift.PlannedShiftRepository
	locationRepo location.LocationRepository
	recordRepo   cancellation.RecordRepository
	ruleRepo     cancellation.FineRuleRepository
	settingsRepo cancellation.OwnerSettingsRepository
	penaltyRepo  payroll.PenaltyAdjustmentRepository
	historyRepo  history.Repository
	reasons      *ReasonCache
	syncService  shift.SyncService
}

func NewPolicyService(
	tx database.TxRunner,
	plannedRepo shift.PlannedShiftRepository,
	locationRepo location.LocationRepository,
	recordRepo cancellation.RecordRepository,
	ruleRepo cancellation.FineRuleRepository,
	settingsRepo cancellation.OwnerSettingsRepository,
	penaltyRepo payroll.PenaltyAdjustmentRepository,
	historyRepo history.Repository,
	reasons *ReasonCache,
	syncService shift.SyncService,
) *PolicyServiceImpl {
	return &PolicyServiceImpl{
		tx:           tx,
		plannedRepo:  plannedRepo,
		locationRepo: locationRepo,
		recordRepo:   recordRepo,
		ruleRepo:     ruleRepo,
		settingsRepo: settingsRepo,
		penaltyRepo:  penaltyRepo,
		historyRepo:  historyRepo,
		reasons:      reasons,
		syncService:  syncService,
	}
}

var _ cancellation.PolicyService = (*PolicyServiceImpl)(nil)

// CancelShift implements cancellation.PolicyService.
func (s *PolicyServiceImpl) CancelShift(ctx context.Context, req cancellation.CancelShiftRequest) (cancellation.CancelShiftResult, error) {
	if err := req.Validate(); err != nil {
		return cancellation.CancelShiftResult{}, err
	}

	planned, err := s.plannedRepo.GetByID(ctx, req.PlannedShiftID)
	if err != nil {
		return cancellation.CancelShiftResult{}, fmt.Errorf("failed to get planned shift: %w", err)
	}

	if planned.Status != shift.PlannedStatusPlanned {
		return cancellation.CancelShiftResult{
			Success: false,
			Message: "Shift not found or already cancelled.",
		}, nil
	}

	loc, err := s.locationRepo.GetByID(ctx, planned.LocationID)
	if err != nil {
		return cancellation.CancelShiftResult{}, fmt.Errorf("failed to get location: %w", err)
	}

	hoursBefore := time.Until(planned.PlannedStart).Hours()

	excused, _, err := s.reasons.Resolve(ctx, loc.OwnerID, req.ReasonCode)
	if err != nil {
		return cancellation.CancelShiftResult{}, err
	}

	var result cancellation.CancelShiftResult
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		// Optimistic re-read: the status may have moved since the caller looked.
		current, err := s.plannedRepo.GetByID(txCtx, planned.ID)
		if err != nil {
			return fmt.Errorf("failed to re-read planned shift: %w", err)
		}
		if current.Status != shift.PlannedStatusPlanned {
			result = cancellation.CancelShiftResult{
				Success: false,
				Message: "Shift not found or already cancelled.",
			}
			return nil
		}

		if _, err := s.syncService.CancelPlannedShift(txCtx, planned.ID, shift.Actor{ID: req.ActorID, Role: req.ActorKind}); err != nil {
			return fmt.Errorf("failed to cancel planned shift: %w", err)
		}

		rec := cancellation.Record{
			ScheduleID:          planned.ID,
			EmployeeID:          planned.EmployeeID,
			LocationID:          planned.LocationID,
			CancelledBy:         req.ActorID,
			CancelledByKind:     cancellation.ActorKind(req.ActorKind),
			ReasonCode:          req.ReasonCode,
			Notes:               req.Notes,
			HoursBeforeStart:    hoursBefore,
			DocumentDescription: req.DocumentDescription,
			DocumentState:       cancellation.DocumentStateNone,
		}

		if excused {
			rec.DocumentState = cancellation.DocumentStatePending
			created, err := s.recordRepo.Create(txCtx, rec)
			if err != nil {
				return fmt.Errorf("failed to create cancellation record: %w", err)
			}
			result = cancellation.CancelShiftResult{
				Success:           true,
				CancellationID:    created.ID,
				PendingModeration: true,
				Message:           "Shift cancelled. Supporting document pending review; no fines for now.",
			}
			return nil
		}

		fines, err := s.evaluate(txCtx, loc.OwnerID, hoursBefore, false)
		if err != nil {
			return err
		}

		if len(fines) > 0 {
			total := totalFine(fines)
			code := fineReasonCode(fines)
			rec.FineAmount = &total
			rec.FineReason = &code
			rec.FineApplied = true
		}

		created, err := s.recordRepo.Create(txCtx, rec)
		if err != nil {
			return fmt.Errorf("failed to create cancellation record: %w", err)
		}

		if err := s.applyFines(txCtx, created, fines, req.ActorID, req.ActorKind); err != nil {
			return err
		}

		total := totalFine(fines)
		result = cancellation.CancelShiftResult{
			Success:        true,
			CancellationID: created.ID,
			Message:        fineMessage(fines),
		}
		if len(fines) > 0 {
			result.FineAmount = &total
		}
		return nil
	})
	if err != nil {
		return cancellation.CancelShiftResult{}, err
	}

	return result, nil
}

// ResolveModeration implements cancellation.PolicyService. A record is
// moderated once; re-running the same decision is a no-op and can never
// produce duplicate penalties.
func (s *PolicyServiceImpl) ResolveModeration(ctx context.Context, req cancellation.ResolveModerationRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	rec, err := s.recordRepo.GetByID(ctx, req.CancellationID)
	if err != nil {
		return fmt.Errorf("failed to get cancellation record: %w", err)
	}

	if rec.DocumentState != cancellation.DocumentStatePending {
		slog.Debug("cancellation already moderated; skipping",
			"cancellation_id", rec.ID, "document_state", rec.DocumentState)
		return nil
	}

	loc, err := s.locationRepo.GetByID(ctx, rec.LocationID)
	if err != nil {
		return fmt.Errorf("failed to get location: %w", err)
	}

	excused, _, err := s.reasons.Resolve(ctx, loc.OwnerID, rec.ReasonCode)
	if err != nil {
		return err
	}

	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		// Optimistic re-read: another reviewer may have resolved the record
		// since the check above.
		current, err := s.recordRepo.GetByID(txCtx, rec.ID)
		if err != nil {
			return fmt.Errorf("failed to re-read cancellation record: %w", err)
		}
		if current.DocumentState != cancellation.DocumentStatePending {
			slog.Debug("cancellation already moderated; skipping",
				"cancellation_id", current.ID, "document_state", current.DocumentState)
			return nil
		}
		rec = current

		now := time.Now()
		rec.ResolvedAt = &now
		rec.ResolvedBy = &req.ReviewerID

		if req.Approved && excused {
			rec.DocumentState = cancellation.DocumentStateApproved
			if err := s.recordRepo.Resolve(txCtx, rec); err != nil {
				return err
			}
			return s.logModeration(txCtx, rec, req.ReviewerID, "document approved; no fines")
		}

		if req.Approved {
			rec.DocumentState = cancellation.DocumentStateApproved
		} else {
			rec.DocumentState = cancellation.DocumentStateRejected
		}

		fines, err := s.evaluate(txCtx, loc.OwnerID, rec.HoursBeforeStart, false)
		if err != nil {
			return err
		}
		if len(fines) > 0 {
			total := totalFine(fines)
			code := fineReasonCode(fines)
			rec.FineAmount = &total
			rec.FineReason = &code
			rec.FineApplied = true
		}
		if err := s.recordRepo.Resolve(txCtx, rec); err != nil {
			return err
		}
		if err := s.applyFines(txCtx, rec, fines, req.ReviewerID, string(cancellation.ActorManager)); err != nil {
			return err
		}
		return s.logModeration(txCtx, rec, req.ReviewerID, fineMessage(fines))
	})
}

// evaluate loads the owner's rule list and static settings and runs the shared
// fine evaluation. Missing settings are a configuration gap, not a failure.
func (s *PolicyServiceImpl) evaluate(ctx context.Context, ownerID string, hoursBefore float64, reasonExcused bool) ([]Fine, error) {
	rules, err := s.ruleRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list fine rules: %w", err)
	}

	var settings *cancellation.OwnerSettings
	st, err := s.settingsRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		if !errors.Is(err, cancellation.ErrSettingsNotFound) {
			return nil, fmt.Errorf("failed to get owner settings: %w", err)
		}
	} else {
		settings = &st
	}

	return evaluateFines(rules, settings, hoursBefore, reasonExcused), nil
}

// applyFines creates one penalty adjustment per fine, skipping any that
// already exist for this cancellation and type. The duplicate check is a hard
// contract: the engine may be invoked by both an interactive request and a
// reconciliation sweep.
func (s *PolicyServiceImpl) applyFines(ctx context.Context, rec cancellation.Record, fines []Fine, actorID, actorRole string) error {
	for _, fine := range fines {
		exists, err := s.penaltyRepo.ExistsForCancellation(ctx, rec.ID, fine.Reason)
		if err != nil {
			return fmt.Errorf("failed to check for existing penalty: %w", err)
		}
		if exists {
			slog.Debug("penalty already exists; skipping",
				"cancellation_id", rec.ID, "type", fine.Reason)
			continue
		}

		locID := rec.LocationID
		cancellationID := rec.ID
		_, err = s.penaltyRepo.Create(ctx, payroll.PenaltyAdjustment{
			EmployeeID:     rec.EmployeeID,
			LocationID:     &locID,
			CancellationID: &cancellationID,
			Amount:         fine.Amount.Neg(),
			Type:           fine.Reason,
			Description:    fineDescription(fine),
		})
		if err != nil {
			return fmt.Errorf("failed to create penalty adjustment: %w", err)
		}

		entry := history.Entry{
			Operation:  history.OpFineApplied,
			Source:     history.SourceInteractive,
			ActorID:    actorID,
			ActorRole:  actorRole,
			ScheduleID: &rec.ScheduleID,
			Payload: history.Payload{
				history.PayloadFineAmount: fine.Amount.String(),
				history.PayloadFineReason: fine.Reason,
			},
		}
		if _, err := s.historyRepo.Append(ctx, entry); err != nil {
			return fmt.Errorf("failed to append history entry: %w", err)
		}
	}
	return nil
}

func (s *PolicyServiceImpl) logModeration(ctx context.Context, rec cancellation.Record, reviewerID, reason string) error {
	entry := history.Entry{
		Operation:  history.OpModeration,
		Source:     history.SourceModeration,
		ActorID:    reviewerID,
		ActorRole:  string(cancellation.ActorManager),
		ScheduleID: &rec.ScheduleID,
		NewStatus:  strPtr(string(rec.DocumentState)),
		Payload:    history.Payload{history.PayloadReason: reason},
	}
	if _, err := s.historyRepo.Append(ctx, entry); err != nil {
		return fmt.Errorf("failed to append history entry: %w", err)
	}
	return nil
}

func strPtr(s string) *string { return &s }

func fineDescription(fine Fine) string {
	switch fine.Reason {
	case cancellation.FineReasonShortNotice:
		return fmt.Sprintf("Cancellation fine: short notice (%s)", fine.Amount)
	case cancellation.FineReasonInvalidReason:
		return fmt.Sprintf("Cancellation fine: invalid reason (%s)", fine.Amount)
	default:
		return fmt.Sprintf("Cancellation fine: %s (%s)", fine.Reason, fine.Amount)
	}
}

func fineMessage(fines []Fine) string {
	if len(fines) == 0 {
		return "Shift cancelled. No fines apply."
	}

	parts := make([]string, 0, len(fines))
	for _, fine := range fines {
		switch fine.Reason {
		case cancellation.FineReasonShortNotice:
			parts = append(parts, fmt.Sprintf("%s for short notice", fine.Amount))
		case cancellation.FineReasonInvalidReason:
			parts = append(parts, fmt.Sprintf("%s for invalid reason", fine.Amount))
		default:
			parts = append(parts, fmt.Sprintf("%s (%s)", fine.Amount, fine.Reason))
		}
	}
	return fmt.Sprintf("Shift cancelled. Fines applied: %s; total %s.",
		strings.Join(parts, ", "), totalFine(fines))
}
