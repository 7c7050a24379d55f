package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/andy/hourglass/internal/domain"
	"github.com/andy/hourglass/internal/timeutil"
)

func newSummaryForTest(entries *mockEntryRepo, loc *time.Location) *summaryService {
	return &summaryService{
		entryRepo: entries,
		taskRepo: &mockTaskRepo{tasks: map[int64]*domain.Task{
			1: {ID: 1, ProjectID: 1, Title: "api integration"},
			2: {ID: 2, ProjectID: 2, Title: "layout"},
		}},
		projectRepo: &mockProjectRepo{projects: map[int64]*domain.Project{
			1: {ID: 1, ClientID: 1, Name: "backend"},
			2: {ID: 2, ClientID: 1, Name: "frontend"},
		}},
		loc: loc,
	}
}

func TestSummaryByDay(t *testing.T) {
	ctx := context.Background()
	entries := newMockEntryRepo()
	logSession(entries, 1, time.Date(2026, 1, 12, 9, 0, 0, 0, time.UTC), time.Hour)
	logSession(entries, 2, time.Date(2026, 1, 12, 11, 0, 0, 0, time.UTC), 30*time.Minute)
	// Previous day, and a still-running entry: both excluded
	logSession(entries, 1, time.Date(2026, 1, 11, 9, 0, 0, 0, time.UTC), time.Hour)
	entries.Create(ctx, &domain.TimeEntry{TaskID: 1, Start: time.Date(2026, 1, 12, 13, 0, 0, 0, time.UTC)})

	svc := newSummaryForTest(entries, time.UTC)
	got, err := svc.ByDay(ctx, "2026-01-12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(got.Lines))
	}
	if got.TotalSeconds != 5400 {
		t.Fatalf("expected 5400 total seconds, got %d", got.TotalSeconds)
	}

	first := got.Lines[0]
	if first.TaskTitle != "api integration" || first.ProjectName != "backend" {
		t.Fatalf("unexpected first line: %+v", first)
	}
	second := got.Lines[1]
	if second.TaskTitle != "layout" || second.ProjectName != "frontend" || second.Seconds != 1800 {
		t.Fatalf("unexpected second line: %+v", second)
	}
}

func TestSummaryByDay_ZonedBoundaries(t *testing.T) {
	ctx := context.Background()
	warsaw, err := time.LoadLocation("Europe/Warsaw")
	if err != nil {
		t.Fatalf("failed to load timezone: %v", err)
	}

	entries := newMockEntryRepo()
	// 23:30 UTC Jan 11 is already Jan 12 in Warsaw
	logSession(entries, 1, time.Date(2026, 1, 11, 23, 30, 0, 0, time.UTC), 30*time.Minute)
	// 23:30 UTC Jan 12 is Jan 13 in Warsaw
	logSession(entries, 2, time.Date(2026, 1, 12, 23, 30, 0, 0, time.UTC), 30*time.Minute)

	svc := newSummaryForTest(entries, warsaw)
	got, err := svc.ByDay(ctx, "2026-01-12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got.Lines) != 1 || got.Lines[0].TaskID != 1 {
		t.Fatalf("expected only the late-evening entry, got %+v", got.Lines)
	}
	if got.Lines[0].Start.Hour() != 0 || got.Lines[0].Start.Minute() != 30 {
		t.Fatalf("expected zoned start 00:30, got %v", got.Lines[0].Start)
	}
}

func TestSummaryByDay_Empty(t *testing.T) {
	svc := newSummaryForTest(newMockEntryRepo(), time.UTC)

	got, err := svc.ByDay(context.Background(), "2026-01-12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Lines) != 0 || got.TotalSeconds != 0 {
		t.Fatalf("expected empty summary, got %+v", got)
	}
}

func TestSummaryByDay_MalformedDate(t *testing.T) {
	svc := newSummaryForTest(newMockEntryRepo(), time.UTC)

	_, err := svc.ByDay(context.Background(), "12.01.2026")
	if !errors.Is(err, timeutil.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}
