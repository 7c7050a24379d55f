package repository

import (
	"context"
	"time"

	"github.com/andy/hourglass/internal/domain"
)

// ClientRepository manages client persistence
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, id int64) (*domain.Client, error)
	GetByName(ctx context.Context, name string) (*domain.Client, error)
	List(ctx context.Context) ([]*domain.Client, error)
	Rename(ctx context.Context, id int64, name string) error
	// UpdateTargets sets the work targets; nil clears a target
	UpdateTargets(ctx context.Context, id int64, monthlyHours *int64, dailyHours *float64) error
	Delete(ctx context.Context, id int64) error
}

// RateHistoryRepository manages the append-only rate history per client
type RateHistoryRepository interface {
	Append(ctx context.Context, period *domain.RatePeriod) error
	// ListByClient returns the full history, ascending by effective_from
	ListByClient(ctx context.Context, clientID int64) ([]*domain.RatePeriod, error)
	// Latest returns the most recent period, or nil if none exists
	Latest(ctx context.Context, clientID int64) (*domain.RatePeriod, error)
}

// ProjectRepository manages project persistence
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	GetByID(ctx context.Context, id int64) (*domain.Project, error)
	ListByClient(ctx context.Context, clientID int64) ([]*domain.Project, error)
	Rename(ctx context.Context, id int64, name string) error
	Delete(ctx context.Context, id int64) error
}

// TaskRepository manages task definition persistence
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id int64) (*domain.Task, error)
	// GetByTitle finds a task by its project-unique title, nil if absent
	GetByTitle(ctx context.Context, projectID int64, title string) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID int64) ([]*domain.Task, error)
	UpdateEstimate(ctx context.Context, id int64, estimatedMinutes *int64) error
	UpdateMetadata(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id int64) error
}

// TimeEntryRepository manages time entry persistence. The open entry is
// not a separate singleton: it is the row with a NULL end_time, found
// via GetOpen, and a partial unique index keeps it unique.
type TimeEntryRepository interface {
	Create(ctx context.Context, entry *domain.TimeEntry) error
	GetByID(ctx context.Context, id int64) (*domain.TimeEntry, error)
	// GetOpen returns the single open entry, or nil when idle
	GetOpen(ctx context.Context) (*domain.TimeEntry, error)
	// Close sets end_time on an entry that is still open
	Close(ctx context.Context, id int64, end time.Time) error
	// ListByTaskInRange returns entries whose start falls in [start, end]
	ListByTaskInRange(ctx context.Context, taskID int64, start, end time.Time) ([]*domain.TimeEntry, error)
	// ListInRange returns all entries whose start falls in [start, end]
	ListInRange(ctx context.Context, start, end time.Time) ([]*domain.TimeEntry, error)
	// ListByClientInRange returns entries across all of a client's
	// projects whose start falls in [start, end]
	ListByClientInRange(ctx context.Context, clientID int64, start, end time.Time) ([]*domain.TimeEntry, error)
	Delete(ctx context.Context, id int64) error
	DeleteByTask(ctx context.Context, taskID int64) error
}
