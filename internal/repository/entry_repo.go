package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/andy/hourglass/internal/db"
	"github.com/andy/hourglass/internal/domain"
)

// ErrNotOpen is returned when closing an entry that is no longer open
var ErrNotOpen = errors.New("entry is not open")

// EntryRepo is a SQLite implementation of TimeEntryRepository
type EntryRepo struct {
	db *db.DB
}

// NewEntryRepo creates a new EntryRepo
func NewEntryRepo(database *db.DB) *EntryRepo {
	return &EntryRepo{db: database}
}

const entryColumns = `id, task_id, start_time, end_time, created_at`

// Create inserts a new time entry. Inserting a second open entry fails
// on the partial unique index, which backstops the ledger invariant.
func (r *EntryRepo) Create(ctx context.Context, entry *domain.TimeEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("invalid time entry: %w", err)
	}

	query := `
		INSERT INTO time_entries (task_id, start_time, end_time, created_at)
		VALUES (?, ?, ?, ?)
	`

	var endTime any
	if entry.End != nil {
		endTime = formatStored(*entry.End)
	}

	result, err := r.db.ExecContext(ctx, query,
		entry.TaskID,
		formatStored(entry.Start),
		endTime,
		formatStored(entry.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create time entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get time entry ID: %w", err)
	}

	entry.ID = id
	return nil
}

// GetByID retrieves a time entry by ID, or nil if it does not exist
func (r *EntryRepo) GetByID(ctx context.Context, id int64) (*domain.TimeEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM time_entries WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// GetOpen returns the single entry with no end time, or nil when idle
func (r *EntryRepo) GetOpen(ctx context.Context) (*domain.TimeEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM time_entries WHERE end_time IS NULL`
	return r.scanOne(r.db.QueryRowContext(ctx, query))
}

// Close sets the end time of an entry that is still open. The
// end_time IS NULL guard makes the close idempotent-safe: a concurrent
// or repeated close affects zero rows and reports ErrNotOpen.
func (r *EntryRepo) Close(ctx context.Context, id int64, end time.Time) error {
	query := `
		UPDATE time_entries
		SET end_time = ?
		WHERE id = ? AND end_time IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, formatStored(end), id)
	if err != nil {
		return fmt.Errorf("failed to close time entry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("time entry %d: %w", id, ErrNotOpen)
	}

	return nil
}

// ListByTaskInRange returns a task's entries whose start falls within
// [start, end], ordered by start time
func (r *EntryRepo) ListByTaskInRange(ctx context.Context, taskID int64, start, end time.Time) ([]*domain.TimeEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM time_entries
		WHERE task_id = ? AND start_time >= ? AND start_time <= ?
		ORDER BY start_time
	`

	rows, err := r.db.QueryContext(ctx, query, taskID, formatStored(start), formatStored(end))
	if err != nil {
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.TimeEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// ListInRange returns entries across all tasks whose start falls within
// [start, end], ordered by start time
func (r *EntryRepo) ListInRange(ctx context.Context, start, end time.Time) ([]*domain.TimeEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM time_entries
		WHERE start_time >= ? AND start_time <= ?
		ORDER BY start_time
	`

	rows, err := r.db.QueryContext(ctx, query, formatStored(start), formatStored(end))
	if err != nil {
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.TimeEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// ListByClientInRange returns entries logged against any task of the
// client's projects whose start falls within [start, end]
func (r *EntryRepo) ListByClientInRange(ctx context.Context, clientID int64, start, end time.Time) ([]*domain.TimeEntry, error) {
	query := `
		SELECT e.id, e.task_id, e.start_time, e.end_time, e.created_at
		FROM time_entries e
		JOIN tasks t ON t.id = e.task_id
		JOIN projects p ON p.id = t.project_id
		WHERE p.client_id = ? AND e.start_time >= ? AND e.start_time <= ?
		ORDER BY e.start_time
	`

	rows, err := r.db.QueryContext(ctx, query, clientID, formatStored(start), formatStored(end))
	if err != nil {
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.TimeEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// Delete removes a time entry outright
func (r *EntryRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM time_entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete time entry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("time entry %d not found", id)
	}

	return nil
}

// DeleteByTask removes all entries logged against a task
func (r *EntryRepo) DeleteByTask(ctx context.Context, taskID int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM time_entries WHERE task_id = ?", taskID); err != nil {
		return fmt.Errorf("failed to delete time entries: %w", err)
	}
	return nil
}

func (r *EntryRepo) scanOne(row *sql.Row) (*domain.TimeEntry, error) {
	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return entry, nil
}

func scanEntry(row rowScanner) (*domain.TimeEntry, error) {
	entry := &domain.TimeEntry{}
	var startTime, createdAt string
	var endTime sql.NullString

	err := row.Scan(&entry.ID, &entry.TaskID, &startTime, &endTime, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan time entry: %w", err)
	}

	if entry.Start, err = parseStored(startTime); err != nil {
		return nil, fmt.Errorf("failed to parse start_time: %w", err)
	}
	if endTime.Valid {
		t, err := parseStored(endTime.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse end_time: %w", err)
		}
		entry.End = &t
	}
	if entry.CreatedAt, err = parseStored(createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}

	return entry, nil
}
