package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/staffhub/shiftcore-backend-go/internal/domain/shift"
)

// SyncJobs wires the reconciliation sweep into the scheduler. The sweep is
// idempotent so overlapping or aborted runs are harmless.
type SyncJobs struct {
	syncService shift.SyncService
}

func NewSyncJobs(syncService shift.SyncService) *SyncJobs {
	return &SyncJobs{syncService: syncService}
}

func (j *SyncJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("reconciliation_sweep", 1*time.Hour, j.RunReconciliationSweep)
}

func (j *SyncJobs) RunReconciliationSweep(ctx context.Context) error {
	result, err := j.syncService.RunReconciliationSweep(ctx, "")
	if err != nil {
		return fmt.Errorf("reconciliation sweep failed: %w", err)
	}

	if result.ScheduleFixCount == 0 && result.ShiftFixCount == 0 {
		slog.Debug("Cron: reconciliation sweep found nothing to repair")
		return nil
	}

	slog.Info("Cron: reconciliation sweep repaired records",
		"schedule_fixes", result.ScheduleFixCount,
		"shift_fixes", result.ShiftFixCount)
	return nil
}
