package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andy/hourglass/internal/db"
	"github.com/andy/hourglass/internal/domain"
)

// ProjectRepo is a SQLite implementation of ProjectRepository
type ProjectRepo struct {
	db *db.DB
}

// NewProjectRepo creates a new ProjectRepo
func NewProjectRepo(database *db.DB) *ProjectRepo {
	return &ProjectRepo{db: database}
}

// Create inserts a new project into the database
func (r *ProjectRepo) Create(ctx context.Context, project *domain.Project) error {
	if err := project.Validate(); err != nil {
		return fmt.Errorf("invalid project: %w", err)
	}

	query := `
		INSERT INTO projects (client_id, name, created_at)
		VALUES (?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		project.ClientID,
		project.Name,
		formatStored(project.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get project ID: %w", err)
	}

	project.ID = id
	return nil
}

// GetByID retrieves a project by ID, or nil if it does not exist
func (r *ProjectRepo) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	query := `
		SELECT id, client_id, name, created_at
		FROM projects
		WHERE id = ?
	`

	project := &domain.Project{}
	var createdAt string

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&project.ID,
		&project.ClientID,
		&project.Name,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	if project.CreatedAt, err = parseStored(createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}

	return project, nil
}

// ListByClient returns all of a client's projects ordered by name
func (r *ProjectRepo) ListByClient(ctx context.Context, clientID int64) ([]*domain.Project, error) {
	query := `
		SELECT id, client_id, name, created_at
		FROM projects
		WHERE client_id = ?
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		project := &domain.Project{}
		var createdAt string

		if err := rows.Scan(&project.ID, &project.ClientID, &project.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		if project.CreatedAt, err = parseStored(createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}

		projects = append(projects, project)
	}

	return projects, rows.Err()
}

// Rename changes a project's display name
func (r *ProjectRepo) Rename(ctx context.Context, id int64, name string) error {
	result, err := r.db.ExecContext(ctx, "UPDATE projects SET name = ? WHERE id = ?", name, id)
	if err != nil {
		return fmt.Errorf("failed to rename project: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("project %d not found", id)
	}

	return nil
}

// Delete removes a project; its tasks and entries cascade
func (r *ProjectRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("project %d not found", id)
	}

	return nil
}
