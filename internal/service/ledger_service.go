package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/andy/hourglass/internal/domain"
	"github.com/andy/hourglass/internal/repository"
)

var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrNoActiveEntry = errors.New("no active entry")
	ErrEntryConflict = errors.New("active entry changed")
)

// ToggleAction describes what a toggle call did
type ToggleAction string

const (
	ActionStarted  ToggleAction = "started"
	ActionStopped  ToggleAction = "stopped"
	ActionSwitched ToggleAction = "switched"
)

// ToggleResult reports the outcome of a toggle
type ToggleResult struct {
	Action  ToggleAction
	EntryID int64
	TaskID  int64
}

// LedgerService is the state machine over the set of time entries. The
// system is Idle when no open entry exists and Active when exactly one
// does; these are the only mutation entry points for that state.
type LedgerService interface {
	// Toggle starts, stops, or switches work on a task at the current instant
	Toggle(ctx context.Context, taskID int64) (*ToggleResult, error)

	// EndActive closes the open entry, but only if its ID still matches
	EndActive(ctx context.Context, entryID int64) error

	// GetActive returns the open entry, or nil when idle
	GetActive(ctx context.Context) (*domain.TimeEntry, error)

	// DeleteEntry removes an entry outright by explicit user action
	DeleteEntry(ctx context.Context, entryID int64) error
}

type ledgerService struct {
	entryRepo repository.TimeEntryRepository
	taskRepo  repository.TaskRepository

	// mu serializes mutations so two toggles can never both observe
	// Idle and both open an entry. The partial unique index on open
	// entries is the storage-layer backstop.
	mu  sync.Mutex
	now func() time.Time
}

// NewLedgerService creates a new ledger service
func NewLedgerService(
	entryRepo repository.TimeEntryRepository,
	taskRepo repository.TaskRepository,
) LedgerService {
	return &ledgerService{
		entryRepo: entryRepo,
		taskRepo:  taskRepo,
		now:       time.Now,
	}
}

func (s *ledgerService) Toggle(ctx context.Context, taskID int64) (*ToggleResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}

	open, err := s.entryRepo.GetOpen(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC().Truncate(time.Second)

	// Idle: start a new entry
	if open == nil {
		entry := domain.NewTimeEntry(taskID, now)
		if err := s.entryRepo.Create(ctx, entry); err != nil {
			return nil, err
		}
		return &ToggleResult{Action: ActionStarted, EntryID: entry.ID, TaskID: taskID}, nil
	}

	// Active on the same task: stop it
	if open.TaskID == taskID {
		if err := s.entryRepo.Close(ctx, open.ID, now); err != nil {
			return nil, err
		}
		return &ToggleResult{Action: ActionStopped, EntryID: open.ID, TaskID: taskID}, nil
	}

	// Active on another task: switch. Close then open at the same
	// instant. If the open step fails after the close committed the
	// system is left Idle, never with two open entries.
	if err := s.entryRepo.Close(ctx, open.ID, now); err != nil {
		return nil, err
	}
	entry := domain.NewTimeEntry(taskID, now)
	if err := s.entryRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return &ToggleResult{Action: ActionSwitched, EntryID: entry.ID, TaskID: taskID}, nil
}

func (s *ledgerService) EndActive(ctx context.Context, entryID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	open, err := s.entryRepo.GetOpen(ctx)
	if err != nil {
		return err
	}
	if open == nil {
		return ErrNoActiveEntry
	}
	// A stale caller may reference an entry that already stopped;
	// refuse rather than close whatever is running now.
	if open.ID != entryID {
		return ErrEntryConflict
	}

	return s.entryRepo.Close(ctx, open.ID, s.now().UTC().Truncate(time.Second))
}

func (s *ledgerService) GetActive(ctx context.Context) (*domain.TimeEntry, error) {
	return s.entryRepo.GetOpen(ctx)
}

func (s *ledgerService) DeleteEntry(ctx context.Context, entryID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.entryRepo.Delete(ctx, entryID)
}
