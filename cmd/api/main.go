package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/staffhub/shiftcore-backend-go/internal/config"
	appHTTP "github.com/staffhub/shiftcore-backend-go/internal/handler/http"
	"github.com/staffhub/shiftcore-backend-go/internal/pkg/cron"
	"github.com/staffhub/shiftcore-backend-go/internal/pkg/database"
	"github.com/staffhub/shiftcore-backend-go/internal/repository/postgresql"
	cancellationService "github.com/staffhub/shiftcore-backend-go/internal/service/cancellation"
	"github.com/staffhub/shiftcore-backend-go/internal/service/occupancy"
	"github.com/staffhub/shiftcore-backend-go/internal/service/statussync"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	txRunner := postgresql.NewTxRunner(db)
	plannedShiftRepo := postgresql.NewPlannedShiftRepository(db)
	actualShiftRepo := postgresql.NewActualShiftRepository(db)
	windowRepo := postgresql.NewBookableWindowRepository(db)
	locationRepo := postgresql.NewLocationRepository(db)
	recordRepo := postgresql.NewCancellationRecordRepository(db)
	reasonConfigRepo := postgresql.NewReasonConfigRepository(db)
	fineRuleRepo := postgresql.NewFineRuleRepository(db)
	ownerSettingsRepo := postgresql.NewOwnerSettingsRepository(db)
	penaltyRepo := postgresql.NewPenaltyAdjustmentRepository(db)
	historyRepo := postgresql.NewHistoryRepository(db)

	syncService := statussync.NewSyncService(txRunner, plannedShiftRepo, actualShiftRepo, historyRepo)
	calendarService := occupancy.NewCalendarService(windowRepo, plannedShiftRepo, actualShiftRepo, locationRepo)
	reasonCache := cancellationService.NewReasonCache(reasonConfigRepo)
	policyService := cancellationService.NewPolicyService(
		txRunner,
		plannedShiftRepo,
		locationRepo,
		recordRepo,
		fineRuleRepo,
		ownerSettingsRepo,
		penaltyRepo,
		historyRepo,
		reasonCache,
		syncService,
	)

	shiftHandler := appHTTP.NewShiftHandler(syncService)
	calendarHandler := appHTTP.NewCalendarHandler(calendarService)
	cancellationHandler := appHTTP.NewCancellationHandler(policyService)

	scheduler := cron.NewScheduler()
	syncJobs := cron.NewSyncJobs(syncService)
	syncJobs.RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(shiftHandler, calendarHandler, cancellationHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	server := &http.Server{Addr: port, Handler: router}

	go func() {
		fmt.Printf("Server running at http://localhost%s\n", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Println("Server error:", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	if err := server.Close(); err != nil {
		fmt.Println("Server shutdown error:", err)
	}
}
