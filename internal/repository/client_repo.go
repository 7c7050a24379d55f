package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andy/hourglass/internal/db"
	"github.com/andy/hourglass/internal/domain"
)

// ClientRepo is a SQLite implementation of ClientRepository
type ClientRepo struct {
	db *db.DB
}

// NewClientRepo creates a new ClientRepo
func NewClientRepo(database *db.DB) *ClientRepo {
	return &ClientRepo{db: database}
}

const clientColumns = `id, name, currency, monthly_hours, daily_hours, created_at`

// Create inserts a new client into the database
func (r *ClientRepo) Create(ctx context.Context, client *domain.Client) error {
	if err := client.Validate(); err != nil {
		return fmt.Errorf("invalid client: %w", err)
	}

	query := `
		INSERT INTO clients (name, currency, monthly_hours, daily_hours, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		client.Name,
		client.Currency,
		nullableInt(client.MonthlyHours),
		nullableFloat(client.DailyHours),
		formatStored(client.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get client ID: %w", err)
	}

	client.ID = id
	return nil
}

// GetByID retrieves a client by ID, or nil if it does not exist
func (r *ClientRepo) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// GetByName retrieves a client by name, or nil if it does not exist
func (r *ClientRepo) GetByName(ctx context.Context, name string) (*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE name = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, name))
}

// List returns all clients ordered by name
func (r *ClientRepo) List(ctx context.Context) ([]*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var clients []*domain.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}

	return clients, rows.Err()
}

// Rename changes a client's display name
func (r *ClientRepo) Rename(ctx context.Context, id int64, name string) error {
	result, err := r.db.ExecContext(ctx, "UPDATE clients SET name = ? WHERE id = ?", name, id)
	if err != nil {
		return fmt.Errorf("failed to rename client: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("client %d not found", id)
	}

	return nil
}

// UpdateTargets sets or clears a client's work targets
func (r *ClientRepo) UpdateTargets(ctx context.Context, id int64, monthlyHours *int64, dailyHours *float64) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE clients SET monthly_hours = ?, daily_hours = ? WHERE id = ?",
		nullableInt(monthlyHours), nullableFloat(dailyHours), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update work targets: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("client %d not found", id)
	}

	return nil
}

// Delete removes a client; rate history, projects, tasks and entries
// cascade via foreign keys
func (r *ClientRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM clients WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("client %d not found", id)
	}

	return nil
}

func (r *ClientRepo) scanOne(row *sql.Row) (*domain.Client, error) {
	client, err := scanClient(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return client, nil
}

func scanClient(row rowScanner) (*domain.Client, error) {
	client := &domain.Client{}
	var monthlyHours sql.NullInt64
	var dailyHours sql.NullFloat64
	var createdAt string

	err := row.Scan(
		&client.ID,
		&client.Name,
		&client.Currency,
		&monthlyHours,
		&dailyHours,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan client: %w", err)
	}

	if monthlyHours.Valid {
		client.MonthlyHours = &monthlyHours.Int64
	}
	if dailyHours.Valid {
		client.DailyHours = &dailyHours.Float64
	}
	if client.CreatedAt, err = parseStored(createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}

	return client, nil
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
