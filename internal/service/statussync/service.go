package statussync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/staffhub/shiftcore-backend-go/internal/domain/history"
	"github.com/staffhub/shiftcore-backend-go/internal/domain/shift"
	"github.com/staffhub/shiftcore-backend-go/internal/pkg/database"
)

const correctiveActualCancelled = "actual_shift_cancelled"

type SyncServiceImpl struct {
	tx          database.TxRunner
	plannedRepo shift.PlannedShiftRepository
	actualRepo  shift.ActualShiftRepository
	historyRepo history.Repository
}

func NewSyncService(
	tx database.TxRunner,
	plannedRepo shift.PlannedShiftRepository,
	actualRepo shift.ActualShiftRepository,
	historyRepo history.Repository,
) *SyncServiceImpl {
	return &SyncServiceImpl{
		tx:          tx,
		plannedRepo: plannedRepo,
		actualRepo:  actualRepo,
		historyRepo: historyRepo,
	}
}

var _ shift.SyncService = (*SyncServiceImpl)(nil)

func strPtr(s string) *string { return &s }

// logTransition appends one history entry for one mutation. Must run inside
// the same transaction as the mutation itself.
func (s *SyncServiceImpl) logTransition(ctx context.Context, op, source string, actor shift.Actor, a *shift.ActualShift, scheduleID *string, oldStatus, newStatus, reason string) error {
	entry := history.Entry{
		Operation:  op,
		Source:     source,
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		ScheduleID: scheduleID,
		OldStatus:  strPtr(oldStatus),
		NewStatus:  strPtr(newStatus),
	}
	if a != nil {
		entry.ShiftID = strPtr(a.ID)
	}
	if reason != "" {
		entry.Payload = history.Payload{history.PayloadReason: reason}
	}
	if _, err := s.historyRepo.Append(ctx, entry); err != nil {
		return fmt.Errorf("failed to append history entry: %w", err)
	}
	return nil
}

// forceCancelActual moves an actual shift to cancelled, setting the end time
// when missing, and logs the repair.
func (s *SyncServiceImpl) forceCancelActual(ctx context.Context, a shift.ActualShift, actor shift.Actor, source, reason string) error {
	if err := s.actualRepo.Close(ctx, a.ID, shift.ActualStatusCancelled, time.Now(), nil, nil); err != nil {
		return fmt.Errorf("failed to cancel actual shift: %w", err)
	}
	return s.logTransition(ctx, history.OpShiftCancel, source, actor, &a, a.ScheduleID,
		string(a.Status), string(shift.ActualStatusCancelled), reason)
}

// OpenActualShift implements shift.SyncService. A newly opened shift linked to
// a terminal schedule is immediately forced to cancelled; the schedule stays in
// planned/confirmed otherwise so the same window can be reopened later.
func (s *SyncServiceImpl) OpenActualShift(ctx context.Context, actualShiftID string) (shift.SyncResult, error) {
	actual, err := s.actualRepo.GetByID(ctx, actualShiftID)
	if err != nil {
		return shift.SyncResult{}, fmt.Errorf("failed to get actual shift: %w", err)
	}

	if actual.ScheduleID == nil {
		return shift.SyncResult{Succeeded: true}, nil
	}

	var result shift.SyncResult
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		// Re-read the schedule status right before deciding; a caller may hold
		// a stale copy from earlier in its flow.
		planned, err := s.plannedRepo.GetByID(txCtx, *actual.ScheduleID)
		if err != nil {
			return fmt.Errorf("failed to get planned shift: %w", err)
		}

		if planned.Status.IsTerminal() {
			reason := fmt.Sprintf("schedule %s is %s; clock-in refused", planned.ID, planned.Status)
			if err := s.forceCancelActual(txCtx, actual, shift.Actor{ID: actual.EmployeeID, Role: "system"}, history.SourceInteractive, reason); err != nil {
				return err
			}
			result = shift.SyncResult{Succeeded: false, CorrectiveAction: correctiveActualCancelled}
			return nil
		}

		result = shift.SyncResult{Succeeded: true}
		return nil
	})
	if err != nil {
		return shift.SyncResult{}, err
	}

	if !result.Succeeded {
		slog.Info("actual shift opened against terminal schedule; forced to cancelled",
			"actual_shift_id", actualShiftID, "schedule_id", *actual.ScheduleID)
	}
	return result, nil
}

// CloseActualShift implements shift.SyncService.
func (s *SyncServiceImpl) CloseActualShift(ctx context.Context, actualShiftID string) (shift.SyncResult, error) {
	actual, err := s.actualRepo.GetByID(ctx, actualShiftID)
	if err != nil {
		return shift.SyncResult{}, fmt.Errorf("failed to get actual shift: %w", err)
	}

	var result shift.SyncResult
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		actor := shift.Actor{ID: actual.EmployeeID, Role: "worker"}
		now := time.Now()

		var planned *shift.PlannedShift
		if actual.ScheduleID != nil {
			p, err := s.plannedRepo.GetByID(txCtx, *actual.ScheduleID)
			if err != nil {
				return fmt.Errorf("failed to get planned shift: %w", err)
			}
			planned = &p
		}

		if planned != nil && planned.Status == shift.PlannedStatusCancelled {
			reason := fmt.Sprintf("schedule %s already cancelled; shift closed as cancelled", planned.ID)
			if err := s.forceCancelActual(txCtx, actual, actor, history.SourceInteractive, reason); err != nil {
				return err
			}
			result = shift.SyncResult{Succeeded: false, CorrectiveAction: correctiveActualCancelled}
			return nil
		}

		end := now
		if actual.EndTime != nil {
			end = *actual.EndTime
		}
		worked := int(end.Sub(actual.StartTime) / time.Minute)
		if worked < 0 {
			worked = 0
		}
		var payment *decimal.Decimal
		if planned != nil && planned.HourlyRate.IsPositive() {
			p := planned.HourlyRate.Mul(decimal.NewFromInt(int64(worked))).Div(decimal.NewFromInt(60))
			payment = &p
		}

		if err := s.actualRepo.Close(txCtx, actual.ID, shift.ActualStatusCompleted, end, &worked, payment); err != nil {
			return fmt.Errorf("failed to complete actual shift: %w", err)
		}
		if err := s.logTransition(txCtx, history.OpShiftClose, history.SourceInteractive, actor, &actual, actual.ScheduleID,
			string(actual.Status), string(shift.ActualStatusCompleted), ""); err != nil {
			return err
		}

		if planned != nil && planned.Status != shift.PlannedStatusCompleted {
			if err := s.plannedRepo.UpdateStatus(txCtx, planned.ID, shift.PlannedStatusCompleted); err != nil {
				return fmt.Errorf("failed to complete planned shift: %w", err)
			}
			if err := s.logTransition(txCtx, history.OpScheduleComplete, history.SourceInteractive, actor, &actual, &planned.ID,
				string(planned.Status), string(shift.PlannedStatusCompleted), ""); err != nil {
				return err
			}
		}

		result = shift.SyncResult{Succeeded: true}
		return nil
	})
	if err != nil {
		return shift.SyncResult{}, err
	}

	return result, nil
}

// CancelActualShift implements shift.SyncService. A completed shift cannot be
// cancelled retroactively: the call is a no-op failure.
func (s *SyncServiceImpl) CancelActualShift(ctx context.Context, actualShiftID string, actor shift.Actor) (shift.SyncResult, error) {
	actual, err := s.actualRepo.GetByID(ctx, actualShiftID)
	if err != nil {
		return shift.SyncResult{}, fmt.Errorf("failed to get actual shift: %w", err)
	}

	if actual.Status == shift.ActualStatusCompleted {
		return shift.SyncResult{Succeeded: false}, nil
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if actual.Status != shift.ActualStatusCancelled {
			if err := s.forceCancelActual(txCtx, actual, actor, history.SourceInteractive, ""); err != nil {
				return err
			}
		}

		if actual.ScheduleID == nil {
			return nil
		}

		planned, err := s.plannedRepo.GetByID(txCtx, *actual.ScheduleID)
		if err != nil {
			return fmt.Errorf("failed to get planned shift: %w", err)
		}
		if planned.Status != shift.PlannedStatusCancelled {
			if err := s.plannedRepo.UpdateStatus(txCtx, planned.ID, shift.PlannedStatusCancelled); err != nil {
				return fmt.Errorf("failed to cancel planned shift: %w", err)
			}
			if err := s.logTransition(txCtx, history.OpScheduleCancel, history.SourceInteractive, actor, &actual, &planned.ID,
				string(planned.Status), string(shift.PlannedStatusCancelled), ""); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return shift.SyncResult{}, err
	}

	return shift.SyncResult{Succeeded: true}, nil
}

// CancelPlannedShift implements shift.SyncService. Cascades to every linked
// non-terminal actual shift and reports how many were cancelled.
func (s *SyncServiceImpl) CancelPlannedShift(ctx context.Context, plannedShiftID string, actor shift.Actor) (shift.CancelPlannedResult, error) {
	var result shift.CancelPlannedResult
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		planned, err := s.plannedRepo.GetByID(txCtx, plannedShiftID)
		if err != nil {
			return fmt.Errorf("failed to get planned shift: %w", err)
		}

		if planned.Status != shift.PlannedStatusCancelled {
			if err := s.plannedRepo.UpdateStatus(txCtx, planned.ID, shift.PlannedStatusCancelled); err != nil {
				return fmt.Errorf("failed to cancel planned shift: %w", err)
			}
			if err := s.logTransition(txCtx, history.OpScheduleCancel, history.SourceInteractive, actor, nil, &planned.ID,
				string(planned.Status), string(shift.PlannedStatusCancelled), ""); err != nil {
				return err
			}
		}

		actuals, err := s.actualRepo.ListBySchedule(txCtx, planned.ID)
		if err != nil {
			return fmt.Errorf("failed to list actual shifts: %w", err)
		}
		for _, a := range actuals {
			if a.Status.IsTerminal() {
				continue
			}
			reason := fmt.Sprintf("schedule %s cancelled; cascading", planned.ID)
			if err := s.forceCancelActual(txCtx, a, actor, history.SourceInteractive, reason); err != nil {
				return err
			}
			result.CancelledActualCount++
		}
		return nil
	})
	if err != nil {
		return shift.CancelPlannedResult{}, err
	}

	return result, nil
}

// RunReconciliationSweep implements shift.SyncService. Each schedule repairs in
// its own transaction so an aborted run leaves no partial unit behind; every
// repair is monotonic (toward terminal states), so re-running converges.
func (s *SyncServiceImpl) RunReconciliationSweep(ctx context.Context, scope string) (shift.SweepResult, error) {
	planneds, err := s.plannedRepo.ListWithActuals(ctx, scope)
	if err != nil {
		return shift.SweepResult{}, fmt.Errorf("failed to list schedules for sweep: %w", err)
	}

	var result shift.SweepResult
	for _, p := range planneds {
		scheduleFixes, shiftFixes, err := s.reconcileSchedule(ctx, p.ID)
		if err != nil {
			return result, fmt.Errorf("failed to reconcile schedule %s: %w", p.ID, err)
		}
		result.ScheduleFixCount += scheduleFixes
		result.ShiftFixCount += shiftFixes
	}

	if result.ScheduleFixCount > 0 || result.ShiftFixCount > 0 {
		slog.Info("reconciliation sweep applied repairs",
			"schedule_fixes", result.ScheduleFixCount, "shift_fixes", result.ShiftFixCount)
	}
	return result, nil
}

func (s *SyncServiceImpl) reconcileSchedule(ctx context.Context, plannedID string) (int, int, error) {
	var scheduleFixes, shiftFixes int
	actor := shift.Actor{ID: "reconciler", Role: "system"}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		planned, err := s.plannedRepo.GetByID(txCtx, plannedID)
		if err != nil {
			return err
		}
		actuals, err := s.actualRepo.ListBySchedule(txCtx, plannedID)
		if err != nil {
			return err
		}

		for {
			changed := false

			// Rule 1: cancelled schedule cascades to non-terminal actuals.
			// Rule 2: a completed schedule cannot still be in progress.
			for i, a := range actuals {
				var reason string
				switch {
				case planned.Status == shift.PlannedStatusCancelled && !a.Status.IsTerminal():
					reason = "schedule cancelled; shift cannot remain " + string(a.Status)
				case planned.Status == shift.PlannedStatusCompleted && a.Status == shift.ActualStatusActive:
					reason = "schedule completed; shift cannot remain active"
				default:
					continue
				}
				if err := s.forceCancelActual(txCtx, a, actor, history.SourceBackfill, reason); err != nil {
					return err
				}
				actuals[i].Status = shift.ActualStatusCancelled
				shiftFixes++
				changed = true
			}

			anyCompleted := false
			allCancelled := len(actuals) > 0
			for _, a := range actuals {
				if a.Status == shift.ActualStatusCompleted {
					anyCompleted = true
				}
				if a.Status != shift.ActualStatusCancelled {
					allCancelled = false
				}
			}

			// Rule 3: a completed actual shift completes its schedule.
			if anyCompleted && !planned.Status.IsTerminal() {
				if err := s.plannedRepo.UpdateStatus(txCtx, planned.ID, shift.PlannedStatusCompleted); err != nil {
					return err
				}
				if err := s.logTransition(txCtx, history.OpScheduleComplete, history.SourceBackfill, actor, nil, &planned.ID,
					string(planned.Status), string(shift.PlannedStatusCompleted),
					"linked shift completed; schedule marked completed"); err != nil {
					return err
				}
				planned.Status = shift.PlannedStatusCompleted
				scheduleFixes++
				changed = true
			}

			// Rule 4: all actuals cancelled and none completed cancels the schedule.
			if allCancelled && !anyCompleted && !planned.Status.IsTerminal() {
				if err := s.plannedRepo.UpdateStatus(txCtx, planned.ID, shift.PlannedStatusCancelled); err != nil {
					return err
				}
				if err := s.logTransition(txCtx, history.OpScheduleCancel, history.SourceBackfill, actor, nil, &planned.ID,
					string(planned.Status), string(shift.PlannedStatusCancelled),
					"all linked shifts cancelled; schedule marked cancelled"); err != nil {
					return err
				}
				planned.Status = shift.PlannedStatusCancelled
				scheduleFixes++
				changed = true
			}

			if !changed {
				return nil
			}
		}
	})
	if err != nil {
		return 0, 0, err
	}
	return scheduleFixes, shiftFixes, nil
}
