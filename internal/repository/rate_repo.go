package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andy/hourglass/internal/db"
	"github.com/andy/hourglass/internal/domain"
)

// RateHistoryRepo is a SQLite implementation of RateHistoryRepository.
// Rows are append-only: rate changes insert, never update.
type RateHistoryRepo struct {
	db *db.DB
}

// NewRateHistoryRepo creates a new RateHistoryRepo
func NewRateHistoryRepo(database *db.DB) *RateHistoryRepo {
	return &RateHistoryRepo{db: database}
}

// Append inserts a new rate period
func (r *RateHistoryRepo) Append(ctx context.Context, period *domain.RatePeriod) error {
	if err := period.Validate(); err != nil {
		return fmt.Errorf("invalid rate period: %w", err)
	}

	query := `
		INSERT INTO client_rate_history (client_id, hourly_rate, currency, effective_from, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		period.ClientID,
		period.HourlyRate,
		period.Currency,
		formatStoredDate(period.EffectiveFrom),
		formatStored(period.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to append rate period: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get rate period ID: %w", err)
	}

	period.ID = id
	return nil
}

// ListByClient returns a client's full rate history, ascending by
// effective_from; resolvers rely on this ordering
func (r *RateHistoryRepo) ListByClient(ctx context.Context, clientID int64) ([]*domain.RatePeriod, error) {
	query := `
		SELECT id, client_id, hourly_rate, currency, effective_from, created_at
		FROM client_rate_history
		WHERE client_id = ?
		ORDER BY effective_from ASC
	`

	rows, err := r.db.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rate history: %w", err)
	}
	defer rows.Close()

	var periods []*domain.RatePeriod
	for rows.Next() {
		period, err := scanRatePeriod(rows)
		if err != nil {
			return nil, err
		}
		periods = append(periods, period)
	}

	return periods, rows.Err()
}

// Latest returns the most recent rate period, or nil if none exists
func (r *RateHistoryRepo) Latest(ctx context.Context, clientID int64) (*domain.RatePeriod, error) {
	query := `
		SELECT id, client_id, hourly_rate, currency, effective_from, created_at
		FROM client_rate_history
		WHERE client_id = ?
		ORDER BY effective_from DESC
		LIMIT 1
	`

	period, err := scanRatePeriod(r.db.QueryRowContext(ctx, query, clientID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return period, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRatePeriod(row rowScanner) (*domain.RatePeriod, error) {
	period := &domain.RatePeriod{}
	var effectiveFrom, createdAt string

	err := row.Scan(
		&period.ID,
		&period.ClientID,
		&period.HourlyRate,
		&period.Currency,
		&effectiveFrom,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan rate period: %w", err)
	}

	if period.EffectiveFrom, err = parseStoredDate(effectiveFrom); err != nil {
		return nil, fmt.Errorf("failed to parse effective_from: %w", err)
	}
	if period.CreatedAt, err = parseStored(createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}

	return period, nil
}
