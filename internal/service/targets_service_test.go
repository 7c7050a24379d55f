package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/andy/hourglass/internal/domain"
)

func newTargetsForTest(entries *mockEntryRepo, monthlyHours *int64, dailyHours *float64) *targetsService {
	entries.taskClients = map[int64]int64{1: 1}
	return &targetsService{
		clientRepo: &mockClientRepo{clients: map[int64]*domain.Client{
			1: {ID: 1, Name: "ACME", Currency: "PLN", MonthlyHours: monthlyHours, DailyHours: dailyHours},
		}},
		entryRepo: entries,
		loc:       time.UTC,
	}
}

// 2026-01-14 is a Wednesday; its week starts Monday 2026-01-12 and
// January has 13 working days left from the 14th on
func TestTargets_Breakdown(t *testing.T) {
	ctx := context.Background()
	entries := newMockEntryRepo()
	logSession(entries, 1, time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC), 50*time.Hour)
	logSession(entries, 1, time.Date(2026, 1, 13, 9, 0, 0, 0, time.UTC), 4*time.Hour)
	logSession(entries, 1, time.Date(2026, 1, 14, 8, 0, 0, 0, time.UTC), time.Hour)

	monthly, daily := int64(120), 6.0
	svc := newTargetsForTest(entries, &monthly, &daily)

	got, err := svc.GetClientTargets(ctx, 1, "2026-01-14")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := got.Monthly
	if m == nil {
		t.Fatalf("expected monthly section")
	}
	if m.TargetSeconds != 432000 || m.WorkedSeconds != 198000 || m.RemainingSeconds != 234000 {
		t.Fatalf("unexpected monthly numbers: %+v", m)
	}
	if m.WorkingDaysLeft != 13 {
		t.Fatalf("expected 13 working days left, got %d", m.WorkingDaysLeft)
	}
	if m.RequiredPerDaySeconds != 18000 {
		t.Fatalf("expected 5h/day pace, got %d", m.RequiredPerDaySeconds)
	}

	d := got.Daily
	if d == nil || d.TargetSeconds != 21600 || d.WorkedSeconds != 3600 {
		t.Fatalf("unexpected daily numbers: %+v", d)
	}
	if d.RequiredSeconds != 18000 || d.OverflowSeconds != 0 {
		t.Fatalf("daily pace must follow the monthly target: %+v", d)
	}

	w := got.Weekly
	if w == nil || w.TargetSeconds != 108000 || w.WorkedSeconds != 18000 {
		t.Fatalf("unexpected weekly numbers: %+v", w)
	}
	if w.RequiredSeconds != 90000 {
		t.Fatalf("expected weekly pace 25h, got %d", w.RequiredSeconds)
	}
}

func TestTargets_DailyOverflow(t *testing.T) {
	ctx := context.Background()
	entries := newMockEntryRepo()
	logSession(entries, 1, time.Date(2026, 1, 14, 8, 0, 0, 0, time.UTC), 7*time.Hour)

	daily := 6.0
	svc := newTargetsForTest(entries, nil, &daily)

	got, err := svc.GetClientTargets(ctx, 1, "2026-01-14")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Monthly != nil {
		t.Fatalf("expected no monthly section without a monthly target")
	}
	d := got.Daily
	if d.OverflowSeconds != 3600 {
		t.Fatalf("expected 1h overflow, got %d", d.OverflowSeconds)
	}
	// Without a monthly target the required pace is the target itself
	if d.RequiredSeconds != d.TargetSeconds {
		t.Fatalf("expected required to fall back to target, got %d", d.RequiredSeconds)
	}
}

func TestTargets_MonthlyMet(t *testing.T) {
	ctx := context.Background()
	entries := newMockEntryRepo()
	logSession(entries, 1, time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC), 130*time.Hour)

	monthly, daily := int64(120), 6.0
	svc := newTargetsForTest(entries, &monthly, &daily)

	got, err := svc.GetClientTargets(ctx, 1, "2026-01-14")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Monthly.RemainingSeconds != -36000 {
		t.Fatalf("expected remaining -10h, got %d", got.Monthly.RemainingSeconds)
	}
	if got.Monthly.RequiredPerDaySeconds != 0 {
		t.Fatalf("met target must need no pace, got %d", got.Monthly.RequiredPerDaySeconds)
	}
	if got.Daily.RequiredSeconds != got.Daily.TargetSeconds {
		t.Fatalf("daily pace must fall back to target once the month is met")
	}
}

func TestTargets_WeekSpansMonthBoundary(t *testing.T) {
	ctx := context.Background()
	entries := newMockEntryRepo()
	// 2026-01-01 is a Thursday; its week starts Monday 2025-12-29
	logSession(entries, 1, time.Date(2025, 12, 30, 9, 0, 0, 0, time.UTC), 2*time.Hour)

	monthly, daily := int64(120), 6.0
	svc := newTargetsForTest(entries, &monthly, &daily)

	got, err := svc.GetClientTargets(ctx, 1, "2026-01-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Weekly.WorkedSeconds != 7200 {
		t.Fatalf("last year's Tuesday is still this week: got %d", got.Weekly.WorkedSeconds)
	}
	if got.Monthly.WorkedSeconds != 0 {
		t.Fatalf("December work must not count toward January, got %d", got.Monthly.WorkedSeconds)
	}
}

func TestTargets_OpenEntryExcluded(t *testing.T) {
	ctx := context.Background()
	entries := newMockEntryRepo()
	logSession(entries, 1, time.Date(2026, 1, 14, 8, 0, 0, 0, time.UTC), time.Hour)
	entries.Create(ctx, &domain.TimeEntry{TaskID: 1, Start: time.Date(2026, 1, 14, 10, 0, 0, 0, time.UTC)})

	daily := 6.0
	svc := newTargetsForTest(entries, nil, &daily)

	got, err := svc.GetClientTargets(ctx, 1, "2026-01-14")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Daily.WorkedSeconds != 3600 {
		t.Fatalf("running entry must not count, got %d", got.Daily.WorkedSeconds)
	}
}

func TestTargets_NoTargetsConfigured(t *testing.T) {
	svc := newTargetsForTest(newMockEntryRepo(), nil, nil)

	got, err := svc.GetClientTargets(context.Background(), 1, "2026-01-14")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Daily != nil || got.Weekly != nil || got.Monthly != nil {
		t.Fatalf("expected empty breakdown, got %+v", got)
	}
}

func TestTargets_UnknownClient(t *testing.T) {
	svc := newTargetsForTest(newMockEntryRepo(), nil, nil)

	_, err := svc.GetClientTargets(context.Background(), 42, "2026-01-14")
	if !errors.Is(err, ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}
}
