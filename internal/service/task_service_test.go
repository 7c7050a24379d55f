package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/andy/hourglass/internal/domain"
)

func newTaskServiceForTest(entries *mockEntryRepo) (*taskService, *mockTaskRepo) {
	tasks := &mockTaskRepo{tasks: map[int64]*domain.Task{
		1: {ID: 1, ProjectID: 1, Title: "api integration"},
	}}
	svc := &taskService{
		taskRepo: tasks,
		projectRepo: &mockProjectRepo{projects: map[int64]*domain.Project{
			1: {ID: 1, ClientID: 1, Name: "backend"},
		}},
		entryRepo: entries,
	}
	return svc, tasks
}

func TestGetOrCreate_ReturnsExisting(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTaskServiceForTest(newMockEntryRepo())

	got, err := svc.GetOrCreate(ctx, 1, "api integration")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != 1 {
		t.Fatalf("expected existing task 1, got %+v", got)
	}
}

func TestGetOrCreate_UnknownProject(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTaskServiceForTest(newMockEntryRepo())

	_, err := svc.GetOrCreate(ctx, 42, "anything")
	if !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestTaskDelete_RemovesEntries(t *testing.T) {
	ctx := context.Background()
	entries := newMockEntryRepo()
	end := time.Date(2026, 1, 12, 10, 0, 0, 0, time.UTC)
	entries.Create(ctx, &domain.TimeEntry{TaskID: 1, Start: end.Add(-time.Hour), End: &end})
	svc, _ := newTaskServiceForTest(entries)

	if err := svc.Delete(ctx, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries.entries) != 0 {
		t.Fatalf("expected entries removed with the task")
	}
}

func TestTaskDelete_Unknown(t *testing.T) {
	svc, _ := newTaskServiceForTest(newMockEntryRepo())

	if err := svc.Delete(context.Background(), 42); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestSetEstimate_RejectsNonPositive(t *testing.T) {
	svc, _ := newTaskServiceForTest(newMockEntryRepo())

	bad := int64(0)
	if err := svc.SetEstimate(context.Background(), 1, &bad); err == nil {
		t.Fatalf("expected error for zero estimate")
	}
}
