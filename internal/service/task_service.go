package service

import (
	"context"
	"fmt"

	"github.com/andy/hourglass/internal/domain"
	"github.com/andy/hourglass/internal/repository"
)

// TaskMetadata is the optional classification a task can carry. Nil
// fields are left unchanged by SetMetadata.
type TaskMetadata struct {
	Epic          *string
	Category      *domain.Category
	IsExploration *bool
	Scope         *domain.Scope
}

// TaskService manages task definitions within a project
type TaskService interface {
	// GetOrCreate returns the project's task with the given title,
	// creating it on first use. Titles are unique per project.
	GetOrCreate(ctx context.Context, projectID int64, title string) (*domain.Task, error)

	GetByID(ctx context.Context, id int64) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID int64) ([]*domain.Task, error)

	// SetEstimate sets the minute estimate; nil clears it
	SetEstimate(ctx context.Context, id int64, estimatedMinutes *int64) error

	SetMetadata(ctx context.Context, id int64, meta TaskMetadata) error

	// Delete removes the task and every entry logged against it
	Delete(ctx context.Context, id int64) error
}

type taskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	entryRepo   repository.TimeEntryRepository
}

// NewTaskService creates a new task service
func NewTaskService(
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
	entryRepo repository.TimeEntryRepository,
) TaskService {
	return &taskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		entryRepo:   entryRepo,
	}
}

func (s *taskService) GetOrCreate(ctx context.Context, projectID int64, title string) (*domain.Task, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}

	existing, err := s.taskRepo.GetByTitle(ctx, projectID, title)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	task := domain.NewTask(projectID, title)
	if err := task.Validate(); err != nil {
		return nil, fmt.Errorf("invalid task: %w", err)
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

func (s *taskService) ListByProject(ctx context.Context, projectID int64) ([]*domain.Task, error) {
	return s.taskRepo.ListByProject(ctx, projectID)
}

func (s *taskService) SetEstimate(ctx context.Context, id int64, estimatedMinutes *int64) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if estimatedMinutes != nil && *estimatedMinutes <= 0 {
		return fmt.Errorf("estimate must be positive, got %d", *estimatedMinutes)
	}
	return s.taskRepo.UpdateEstimate(ctx, id, estimatedMinutes)
}

func (s *taskService) SetMetadata(ctx context.Context, id int64, meta TaskMetadata) error {
	task, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if meta.Epic != nil {
		task.Epic = meta.Epic
	}
	if meta.Category != nil {
		task.Category = meta.Category
	}
	if meta.IsExploration != nil {
		task.IsExploration = *meta.IsExploration
	}
	if meta.Scope != nil {
		task.Scope = meta.Scope
	}

	return s.taskRepo.UpdateMetadata(ctx, task)
}

// Delete removes the entries first so a torn delete never strands
// entries without their task
func (s *taskService) Delete(ctx context.Context, id int64) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.entryRepo.DeleteByTask(ctx, id); err != nil {
		return err
	}
	return s.taskRepo.Delete(ctx, id)
}
