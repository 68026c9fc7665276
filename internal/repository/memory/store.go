// Package memory provides in-memory repository implementations backed by one
// mutex-guarded store. Used by the engine tests and as a dev-mode store.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/staffhub/shiftcore-backend-go/internal/domain/cancellation"
	"github.com/staffhub/shiftcore-backend-go/internal/domain/history"
	"github.com/staffhub/shiftcore-backend-go/internal/domain/location"
	"github.com/staffhub/shiftcore-backend-go/internal/domain/payroll"
	"github.com/staffhub/shiftcore-backend-go/internal/domain/shift"
	"github.com/staffhub/shiftcore-backend-go/internal/domain/window"
)

type Store struct {
	mu sync.RWMutex

	PlannedShifts map[string]shift.PlannedShift
	ActualShifts  map[string]shift.ActualShift
	Windows       map[string]window.BookableWindow
	Locations     map[string]location.Location
	Records       map[string]cancellation.Record
	Reasons       []cancellation.ReasonConfig
	Rules         []cancellation.FineRule
	Settings      map[string]cancellation.OwnerSettings
	Penalties     []payroll.PenaltyAdjustment
	History       []history.Entry
}

func NewStore() *Store {
	return &Store{
		PlannedShifts: make(map[string]shift.PlannedShift),
		ActualShifts:  make(map[string]shift.ActualShift),
		Windows:       make(map[string]window.BookableWindow),
		Locations:     make(map[string]location.Location),
		Records:       make(map[string]cancellation.Record),
		Settings:      make(map[string]cancellation.OwnerSettings),
	}
}

// RunInTx implements database.TxRunner. The store mutates in place, so the
// pass-through keeps engine code paths identical to the pgx-backed runner.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// ---- shift.PlannedShiftRepository

type PlannedShiftRepo struct{ S *Store }

func (r PlannedShiftRepo) Create(_ context.Context, p shift.PlannedShift) (shift.PlannedShift, error) {
	if !p.PlannedEnd.After(p.PlannedStart) {
		return shift.PlannedShift{}, shift.ErrInvalidPlannedRange
	}
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.S.PlannedShifts[p.ID] = p
	return p, nil
}

func (r PlannedShiftRepo) GetByID(_ context.Context, id string) (shift.PlannedShift, error) {
	r.S.mu.RLock()
	defer r.S.mu.RUnlock()
	p, ok := r.S.PlannedShifts[id]
	if !ok {
		return shift.PlannedShift{}, shift.ErrPlannedShiftNotFound
	}
	return p, nil
}

func (r PlannedShiftRepo) UpdateStatus(_ context.Context, id string, status shift.PlannedStatus) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	p, ok := r.S.PlannedShifts[id]
	if !ok {
		return shift.ErrPlannedShiftNotFound
	}
	p.Status = status
	p.UpdatedAt = time.Now()
	r.S.PlannedShifts[id] = p
	return nil
}

func (r PlannedShiftRepo) ListWithActuals(_ context.Context, scope string) ([]shift.PlannedShift, error) {
	r.S.mu.RLock()
	defer r.S.mu.RUnlock()
	linked := make(map[string]bool)
	for _, a := range r.S.ActualShifts {
		if a.ScheduleID != nil {
			linked[*a.ScheduleID] = true
		}
	}
	var result []shift.PlannedShift
	for id, p := range r.S.PlannedShifts {
		if !linked[id] {
			continue
		}
		if scope != "" && p.LocationID != scope {
			continue
		}
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r PlannedShiftRepo) ListByWindow(_ context.Context, windowID string, locationID string, from, to time.Time) ([]shift.PlannedShift, error) {
	r.S.mu.RLock()
	defer r.S.mu.RUnlock()
	var result []shift.PlannedShift
	for _, p := range r.S.PlannedShifts {
		byRef := p.WindowID != nil && *p.WindowID == windowID
		byOverlap := p.LocationID == locationID && p.PlannedStart.Before(to) && p.PlannedEnd.After(from)
		if byRef || byOverlap {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].PlannedStart.Before(result[j].PlannedStart) })
	return result, nil
}

// ---- shift.ActualShiftRepository

type ActualShiftRepo struct{ S *Store }

func (r ActualShiftRepo) Create(_ context.Context, a shift.ActualShift) (shift.ActualShift, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	r.S.ActualShifts[a.ID] = a
	return a, nil
}

func (r ActualShiftRepo) GetByID(_ context.Context, id string) (shift.ActualShift, error) {
	r.S.mu.RLock()
	defer r.S.mu.RUnlock()
	a, ok := r.S.ActualShifts[id]
	if !ok {
		return shift.ActualShift{}, shift.ErrActualShiftNotFound
	}
	return a, nil
}

func (r ActualShiftRepo) ListBySchedule(_ context.Context, scheduleID string) ([]shift.ActualShift, error) {
	r.S.mu.RLock()
	defer r.S.mu.RUnlock()
	var result []shift.ActualShift
	for _, a := range r.S.ActualShifts {
		if a.ScheduleID != nil && *a.ScheduleID == scheduleID {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime.Before(result[j].StartTime) })
	return result, nil
}

func (r ActualShiftRepo) Close(_ context.Context, id string, status shift.ActualStatus, endTime time.Time, workedMinutes *int, payment *decimal.Decimal) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	a, ok := r.S.ActualShifts[id]
	if !ok {
		return shift.ErrActualShiftNotFound
	}
	a.Status = status
	if a.EndTime == nil {
		a.EndTime = &endTime
	}
	if workedMinutes != nil {
		a.WorkedMinutes = workedMinutes
	}
	if payment != nil {
		a.Payment = payment
	}
	a.UpdatedAt = time.Now()
	r.S.ActualShifts[id] = a
	return nil
}

func (r ActualShiftRepo) ListByWindow(_ context.Context, windowID string, locationID string, from, to time.Time) ([]shift.ActualShift, error) {
	r.S.mu.RLock()
	defer r.S.mu.RUnlock()
	var result []shift.ActualShift
	for _, a := range r.S.ActualShifts {
		byRef := a.WindowID != nil && *a.WindowID == windowID
		open := a.EndTime == nil
		byOverlap := a.LocationID == locationID && a.StartTime.Before(to) && (open || a.EndTime.After(from))
		if byRef || byOverlap {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime.Before(result[j].StartTime) })
	return result, nil
}

// ---- window.BookableWindowRepository

type WindowRepo struct{ S *Store }

func (r WindowRepo) GetByID(_ context.Context, id string) (window.BookableWindow, error) {
	r.S.mu.RLock()
	defer r.S.mu.RUnlock()
	w, ok := r.S.Windows[id]
	if !ok {
		return window.BookableWindow{}, window.ErrWindowNotFound
	}
	return w, nil
}

func (r WindowRepo) ListByLocationAndDate(_ context.Context, locationID string, date time.Time) ([]window.BookableWindow, error) {
	r.S.mu.RLock()
	defer r.S.mu.RUnlock()
	y, m, d := date.Date()
	var result []window.BookableWindow
	for _, w := range r.S.Windows {
		wy, wm, wd := w.Date.Date()
		if w.LocationID == locationID && w.IsActive && y == wy && m == wm && d == wd {
			result = append(result, w)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime.Before(result[j].StartTime) })
	return result, nil
}

// ---- location.LocationRepository

type LocationRepo struct{ S *Store }

func (r LocationRepo) GetByID(_ context.Context, id string) (location.Location, error) {
	r.S.mu.RLock()
	defer r.S.mu.RUnlock()
	loc, ok := r.S.Locations[id]
	if !ok {
		return location.Location{}, location.ErrLocationNotFound
	}
	return loc, nil
}

func (r LocationRepo) GetTimezone(ctx context.Context, locationID string) (string, error) {
	loc, err := r.GetByID(ctx, locationID)
	if err != nil {
		return "", err
	}
	return loc.Timezone, nil
}

// ---- cancellation repositories

type RecordRepo struct{ S *Store }

func (r RecordRepo) Create(_ context.Context, rec cancellation.Record) (cancellation.Record, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = rec.CreatedAt
	r.S.Records[rec.ID] = rec
	return rec, nil
}

func (r RecordRepo) GetByID(_ context.Context, id string) (cancellation.Record, error) {
	r.S.mu.RLock()
	defer r.S.mu.RUnlock()
	rec, ok := r.S.Records[id]
	if !ok {
		return cancellation.Record{}, cancellation.ErrRecordNotFound
	}
	return rec, nil
}

func (r RecordRepo) Resolve(_ context.Context, rec cancellation.Record) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	stored, ok := r.S.Records[rec.ID]
	if !ok {
		return cancellation.ErrRecordNotFound
	}
	stored.DocumentState = rec.DocumentState
	stored.FineAmount = rec.FineAmount
	stored.FineReason = rec.FineReason
	stored.FineApplied = rec.FineApplied
	stored.ResolvedAt = rec.ResolvedAt
	stored.ResolvedBy = rec.ResolvedBy
	stored.UpdatedAt = time.Now()
	r.S.Records[rec.ID] = stored
	return nil
}

type ReasonConfigRepo struct{ S *Store }

func (r ReasonConfigRepo) ListByOwner(_ context.Context, ownerID string) ([]cancellation.ReasonConfig, error) {
	r.S.mu.RLock()
	defer r.S.mu.RUnlock()
	var result []cancellation.ReasonConfig
	for _, rc := range r.S.Reasons {
		if rc.OwnerID == ownerID {
			result = append(result, rc)
		}
	}
	return result, nil
}

type FineRuleRepo struct{ S *Store }

func (r FineRuleRepo) ListByOwner(_ context.Context, ownerID string) ([]cancellation.FineRule, error) {
	r.S.mu.RLock()
	defer r.S.mu.RUnlock()
	var result []cancellation.FineRule
	for _, fr := range r.S.Rules {
		if fr.OwnerID == ownerID {
			result = append(result, fr)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Position < result[j].Position })
	return result, nil
}

type OwnerSettingsRepo struct{ S *Store }

func (r OwnerSettingsRepo) GetByOwner(_ context.Context, ownerID string) (cancellation.OwnerSettings, error) {
	r.S.mu.RLock()
	defer r.S.mu.RUnlock()
	s, ok := r.S.Settings[ownerID]
	if !ok {
		return cancellation.OwnerSettings{}, cancellation.ErrSettingsNotFound
	}
	return s, nil
}

// ---- payroll.PenaltyAdjustmentRepository

type PenaltyRepo struct{ S *Store }

func (r PenaltyRepo) Create(_ context.Context, adj payroll.PenaltyAdjustment) (payroll.PenaltyAdjustment, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if adj.ID == "" {
		adj.ID = uuid.NewString()
	}
	adj.CreatedAt = time.Now()
	adj.UpdatedAt = adj.CreatedAt
	r.S.Penalties = append(r.S.Penalties, adj)
	return adj, nil
}

func (r PenaltyRepo) ExistsForCancellation(_ context.Context, cancellationID string, adjustmentType string) (bool, error) {
	r.S.mu.RLock()
	defer r.S.mu.RUnlock()
	for _, adj := range r.S.Penalties {
		if adj.CancellationID != nil && *adj.CancellationID == cancellationID && adj.Type == adjustmentType {
			return true, nil
		}
	}
	return false, nil
}

func (r PenaltyRepo) ListByCancellation(_ context.Context, cancellationID string) ([]payroll.PenaltyAdjustment, error) {
	r.S.mu.RLock()
	defer r.S.mu.RUnlock()
	var result []payroll.PenaltyAdjustment
	for _, adj := range r.S.Penalties {
		if adj.CancellationID != nil && *adj.CancellationID == cancellationID {
			result = append(result, adj)
		}
	}
	return result, nil
}

// ---- history.Repository

type HistoryRepo struct{ S *Store }

func (r HistoryRepo) Append(_ context.Context, entry history.Entry) (history.Entry, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	entry.CreatedAt = time.Now()
	r.S.History = append(r.S.History, entry)
	return entry, nil
}

func (r HistoryRepo) ListBySchedule(_ context.Context, scheduleID string) ([]history.Entry, error) {
	r.S.mu.RLock()
	defer r.S.mu.RUnlock()
	var result []history.Entry
	for _, e := range r.S.History {
		if e.ScheduleID != nil && *e.ScheduleID == scheduleID {
			result = append(result, e)
		}
	}
	return result, nil
}
