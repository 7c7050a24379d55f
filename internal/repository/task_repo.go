package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andy/hourglass/internal/db"
	"github.com/andy/hourglass/internal/domain"
)

// TaskRepo is a SQLite implementation of TaskRepository
type TaskRepo struct {
	db *db.DB
}

// NewTaskRepo creates a new TaskRepo
func NewTaskRepo(database *db.DB) *TaskRepo {
	return &TaskRepo{db: database}
}

const taskColumns = `id, project_id, title, estimated_minutes, epic, category, is_exploration, scope, created_at`

// Create inserts a new task definition into the database
func (r *TaskRepo) Create(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("invalid task: %w", err)
	}

	query := `
		INSERT INTO tasks (project_id, title, estimated_minutes, epic, category, is_exploration, scope, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		task.ProjectID,
		task.Title,
		nullableInt(task.EstimatedMinutes),
		nullableString(task.Epic),
		nullableCategory(task.Category),
		task.IsExploration,
		nullableScope(task.Scope),
		formatStored(task.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get task ID: %w", err)
	}

	task.ID = id
	return nil
}

// GetByID retrieves a task by ID, or nil if it does not exist
func (r *TaskRepo) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// GetByTitle retrieves a task by its project-unique title, nil if absent
func (r *TaskRepo) GetByTitle(ctx context.Context, projectID int64, title string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = ? AND title = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, projectID, title))
}

// ListByProject returns all tasks in a project ordered by title
func (r *TaskRepo) ListByProject(ctx context.Context, projectID int64) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = ? ORDER BY title`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

// UpdateEstimate sets or clears a task's estimate in minutes
func (r *TaskRepo) UpdateEstimate(ctx context.Context, id int64, estimatedMinutes *int64) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE tasks SET estimated_minutes = ? WHERE id = ?",
		nullableInt(estimatedMinutes), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update estimate: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("task %d not found", id)
	}

	return nil
}

// UpdateMetadata writes a task's classification fields
func (r *TaskRepo) UpdateMetadata(ctx context.Context, task *domain.Task) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE tasks SET epic = ?, category = ?, is_exploration = ?, scope = ? WHERE id = ?",
		nullableString(task.Epic),
		nullableCategory(task.Category),
		task.IsExploration,
		nullableScope(task.Scope),
		task.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task metadata: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("task %d not found", task.ID)
	}

	return nil
}

// Delete removes a task; its time entries cascade
func (r *TaskRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("task %d not found", id)
	}

	return nil
}

func (r *TaskRepo) scanOne(row *sql.Row) (*domain.Task, error) {
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return task, nil
}

func scanTask(row rowScanner) (*domain.Task, error) {
	task := &domain.Task{}
	var estimated sql.NullInt64
	var epic, category, scope sql.NullString
	var createdAt string

	err := row.Scan(
		&task.ID,
		&task.ProjectID,
		&task.Title,
		&estimated,
		&epic,
		&category,
		&task.IsExploration,
		&scope,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan task: %w", err)
	}

	if estimated.Valid {
		task.EstimatedMinutes = &estimated.Int64
	}
	if epic.Valid {
		task.Epic = &epic.String
	}
	if category.Valid {
		c := domain.Category(category.String)
		task.Category = &c
	}
	if scope.Valid {
		s := domain.Scope(scope.String)
		task.Scope = &s
	}
	if task.CreatedAt, err = parseStored(createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}

	return task, nil
}

func nullableInt(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableCategory(v *domain.Category) any {
	if v == nil {
		return nil
	}
	return string(*v)
}

func nullableScope(v *domain.Scope) any {
	if v == nil {
		return nil
	}
	return string(*v)
}
