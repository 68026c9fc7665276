package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/staffhub/shiftcore-backend-go/internal/domain/cancellation"
	"github.com/staffhub/shiftcore-backend-go/internal/pkg/database"
)

type reasonConfigRepository struct {
	db *database.DB
}

func NewReasonConfigRepository(db *database.DB) cancellation.ReasonConfigRepository {
	return &reasonConfigRepository{db: db}
}

// ListByOwner implements cancellation.ReasonConfigRepository. The global
// default set lives under an empty owner id.
func (r *reasonConfigRepository) ListByOwner(ctx context.Context, ownerID string) ([]cancellation.ReasonConfig, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, owner_id, code, title, is_excused, created_at, updated_at
		FROM cancellation_reasons
		WHERE owner_id = $1
		ORDER BY code
	`

	rows, err := q.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cancellation reasons: %w", err)
	}
	defer rows.Close()

	var result []cancellation.ReasonConfig
	for rows.Next() {
		var rc cancellation.ReasonConfig
		if err := rows.Scan(&rc.ID, &rc.OwnerID, &rc.Code, &rc.Title, &rc.IsExcused, &rc.CreatedAt, &rc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cancellation reason: %w", err)
		}
		result = append(result, rc)
	}

	return result, rows.Err()
}

type fineRuleRepository struct {
	db *database.DB
}

func NewFineRuleRepository(db *database.DB) cancellation.FineRuleRepository {
	return &fineRuleRepository{db: db}
}

// ListByOwner implements cancellation.FineRuleRepository.
func (r *fineRuleRepository) ListByOwner(ctx context.Context, ownerID string) ([]cancellation.FineRule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, owner_id, position, predicate, hours_threshold, fine_amount, fine_reason,
			   created_at, updated_at
		FROM cancellation_fine_rules
		WHERE owner_id = $1
		ORDER BY position
	`

	rows, err := q.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list fine rules: %w", err)
	}
	defer rows.Close()

	var result []cancellation.FineRule
	for rows.Next() {
		var fr cancellation.FineRule
		if err := rows.Scan(&fr.ID, &fr.OwnerID, &fr.Position, &fr.Predicate, &fr.HoursThreshold,
			&fr.FineAmount, &fr.FineReason, &fr.CreatedAt, &fr.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan fine rule: %w", err)
		}
		result = append(result, fr)
	}

	return result, rows.Err()
}

type ownerSettingsRepository struct {
	db *database.DB
}

func NewOwnerSettingsRepository(db *database.DB) cancellation.OwnerSettingsRepository {
	return &ownerSettingsRepository{db: db}
}

// GetByOwner implements cancellation.OwnerSettingsRepository.
func (r *ownerSettingsRepository) GetByOwner(ctx context.Context, ownerID string) (cancellation.OwnerSettings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT owner_id, short_notice_hours, short_notice_fine, invalid_reason_fine,
			   created_at, updated_at
		FROM cancellation_settings
		WHERE owner_id = $1
	`

	var s cancellation.OwnerSettings
	err := q.QueryRow(ctx, query, ownerID).Scan(
		&s.OwnerID, &s.ShortNoticeHours, &s.ShortNoticeFine, &s.InvalidReasonFine,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return cancellation.OwnerSettings{}, cancellation.ErrSettingsNotFound
		}
		return cancellation.OwnerSettings{}, fmt.Errorf("failed to get cancellation settings: %w", err)
	}

	return s, nil
}
