package service

import (
	"context"
	"fmt"

	"github.com/andy/hourglass/internal/domain"
	"github.com/andy/hourglass/internal/repository"
)

// ProjectService manages projects within a client
type ProjectService interface {
	Create(ctx context.Context, clientID int64, name string) (*domain.Project, error)
	GetByID(ctx context.Context, id int64) (*domain.Project, error)
	ListByClient(ctx context.Context, clientID int64) ([]*domain.Project, error)
	Rename(ctx context.Context, id int64, name string) error
	Delete(ctx context.Context, id int64) error
}

type projectService struct {
	projectRepo repository.ProjectRepository
	clientRepo  repository.ClientRepository
}

// NewProjectService creates a new project service
func NewProjectService(
	projectRepo repository.ProjectRepository,
	clientRepo repository.ClientRepository,
) ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		clientRepo:  clientRepo,
	}
}

func (s *projectService) Create(ctx context.Context, clientID int64, name string) (*domain.Project, error) {
	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrClientNotFound
	}

	project := domain.NewProject(clientID, name)
	if err := project.Validate(); err != nil {
		return nil, fmt.Errorf("invalid project: %w", err)
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}
	return project, nil
}

func (s *projectService) ListByClient(ctx context.Context, clientID int64) ([]*domain.Project, error) {
	return s.projectRepo.ListByClient(ctx, clientID)
}

func (s *projectService) Rename(ctx context.Context, id int64, name string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.projectRepo.Rename(ctx, id, name)
}

func (s *projectService) Delete(ctx context.Context, id int64) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.projectRepo.Delete(ctx, id)
}
