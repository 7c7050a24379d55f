package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andy/hourglass/internal/domain"
)

type mockClientRepo struct {
	clients map[int64]*domain.Client
	err     error // returned by GetByID when set
}

func (m *mockClientRepo) Create(ctx context.Context, client *domain.Client) error { return nil }
func (m *mockClientRepo) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.clients[id], nil
}
func (m *mockClientRepo) GetByName(ctx context.Context, name string) (*domain.Client, error) {
	return nil, nil
}
func (m *mockClientRepo) List(ctx context.Context) ([]*domain.Client, error)      { return nil, nil }
func (m *mockClientRepo) Rename(ctx context.Context, id int64, name string) error { return nil }
func (m *mockClientRepo) UpdateTargets(ctx context.Context, id int64, monthlyHours *int64, dailyHours *float64) error {
	if c, ok := m.clients[id]; ok {
		c.MonthlyHours = monthlyHours
		c.DailyHours = dailyHours
	}
	return nil
}
func (m *mockClientRepo) Delete(ctx context.Context, id int64) error { return nil }

type mockProjectRepo struct {
	projects map[int64]*domain.Project
}

func (m *mockProjectRepo) Create(ctx context.Context, project *domain.Project) error { return nil }
func (m *mockProjectRepo) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	return m.projects[id], nil
}
func (m *mockProjectRepo) ListByClient(ctx context.Context, clientID int64) ([]*domain.Project, error) {
	var out []*domain.Project
	for _, p := range m.projects {
		if p.ClientID == clientID {
			out = append(out, p)
		}
	}
	return out, nil
}
func (m *mockProjectRepo) Rename(ctx context.Context, id int64, name string) error { return nil }
func (m *mockProjectRepo) Delete(ctx context.Context, id int64) error              { return nil }

type mockRateRepo struct {
	periods map[int64][]*domain.RatePeriod
}

func (m *mockRateRepo) Append(ctx context.Context, period *domain.RatePeriod) error {
	m.periods[period.ClientID] = append(m.periods[period.ClientID], period)
	return nil
}
func (m *mockRateRepo) ListByClient(ctx context.Context, clientID int64) ([]*domain.RatePeriod, error) {
	return m.periods[clientID], nil
}
func (m *mockRateRepo) Latest(ctx context.Context, clientID int64) (*domain.RatePeriod, error) {
	return domain.LatestPeriod(m.periods[clientID]), nil
}

// fixture: one client with a rate raise on Feb 1, two projects,
// three tasks
type earningsFixture struct {
	svc     *earningsService
	entries *mockEntryRepo
}

func newEarningsFixture() *earningsFixture {
	entries := newMockEntryRepo()
	svc := &earningsService{
		clientRepo: &mockClientRepo{clients: map[int64]*domain.Client{
			1: {ID: 1, Name: "ACME", Currency: "PLN"},
			2: {ID: 2, Name: "Globex", Currency: "EUR"},
		}},
		projectRepo: &mockProjectRepo{projects: map[int64]*domain.Project{
			1: {ID: 1, ClientID: 1, Name: "backend"},
			2: {ID: 2, ClientID: 1, Name: "frontend"},
			3: {ID: 3, ClientID: 2, Name: "consulting"},
		}},
		taskRepo: &mockTaskRepo{tasks: map[int64]*domain.Task{
			1: {ID: 1, ProjectID: 1, Title: "api integration"},
			2: {ID: 2, ProjectID: 1, Title: "bugfix"},
			3: {ID: 3, ProjectID: 2, Title: "layout"},
			4: {ID: 4, ProjectID: 3, Title: "audit"},
		}},
		entryRepo: entries,
		rateRepo: &mockRateRepo{periods: map[int64][]*domain.RatePeriod{
			1: {
				{ID: 1, ClientID: 1, HourlyRate: 50, Currency: "PLN", EffectiveFrom: date(2026, 1, 1)},
				{ID: 2, ClientID: 1, HourlyRate: 60, Currency: "PLN", EffectiveFrom: date(2026, 2, 1)},
			},
		}},
		loc: time.UTC,
	}
	return &earningsFixture{svc: svc, entries: entries}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (f *earningsFixture) logEntry(taskID int64, start time.Time, d time.Duration) {
	end := start.Add(d)
	f.entries.Create(context.Background(), &domain.TimeEntry{TaskID: taskID, Start: start, End: &end})
}

func mustEarn(t *testing.T, e *Earnings, want int64) {
	t.Helper()
	if e.Earnings == nil {
		t.Fatalf("expected earnings %d, got nil", want)
	}
	if !e.Earnings.Equal(decimal.NewFromInt(want)) {
		t.Fatalf("expected earnings %d, got %s", want, e.Earnings)
	}
}

func TestTaskEarnings_HistoricalRates(t *testing.T) {
	ctx := context.Background()
	f := newEarningsFixture()

	// 2h at 50/h in January, 2h at 60/h in February
	f.logEntry(1, time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC), 2*time.Hour)
	f.logEntry(1, time.Date(2026, 2, 15, 10, 0, 0, 0, time.UTC), 2*time.Hour)

	got, err := f.svc.GetTaskEarnings(ctx, 1, "2026-01-01", "2026-01-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mustEarn(t, got, 100)
	if got.TotalSeconds != 7200 {
		t.Fatalf("expected 7200 seconds, got %d", got.TotalSeconds)
	}

	got, err = f.svc.GetTaskEarnings(ctx, 1, "2026-02-01", "2026-02-28")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mustEarn(t, got, 120)

	got, err = f.svc.GetTaskEarnings(ctx, 1, "2026-01-01", "2026-02-28")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mustEarn(t, got, 220)

	// Current rate is reported even for a past range
	if got.HourlyRate == nil || *got.HourlyRate != 60 {
		t.Fatalf("expected current rate 60, got %v", got.HourlyRate)
	}
	if got.Currency != "PLN" {
		t.Fatalf("expected PLN, got %s", got.Currency)
	}
}

func TestEarnings_AggregationIdentity(t *testing.T) {
	ctx := context.Background()
	f := newEarningsFixture()

	f.logEntry(1, time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC), 90*time.Minute)
	f.logEntry(2, time.Date(2026, 1, 12, 14, 0, 0, 0, time.UTC), time.Hour)
	f.logEntry(3, time.Date(2026, 2, 3, 11, 0, 0, 0, time.UTC), 150*time.Minute)

	client, err := f.svc.GetClientEarnings(ctx, 1, "2026-01-01", "2026-02-28")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sumProjects := decimal.Zero
	sumTasks := decimal.Zero
	var sumSeconds int64
	for projectID, taskIDs := range map[int64][]int64{1: {1, 2}, 2: {3}} {
		p, err := f.svc.GetProjectEarnings(ctx, projectID, "2026-01-01", "2026-02-28")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		sumProjects = sumProjects.Add(*p.Earnings)

		for _, taskID := range taskIDs {
			te, err := f.svc.GetTaskEarnings(ctx, taskID, "2026-01-01", "2026-02-28")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			sumTasks = sumTasks.Add(*te.Earnings)
			sumSeconds += te.TotalSeconds
		}
	}

	if !client.Earnings.Equal(sumProjects) {
		t.Fatalf("client %s != sum of projects %s", client.Earnings, sumProjects)
	}
	if !client.Earnings.Equal(sumTasks) {
		t.Fatalf("client %s != sum of tasks %s", client.Earnings, sumTasks)
	}
	if client.TotalSeconds != sumSeconds {
		t.Fatalf("client seconds %d != sum of task seconds %d", client.TotalSeconds, sumSeconds)
	}

	// 1.5h*50 + 1h*50 + 2.5h*60 = 275
	mustEarn(t, client, 275)
	if client.ProjectCount != 2 || client.TaskCount != 3 {
		t.Fatalf("expected 2 projects / 3 tasks, got %d / %d", client.ProjectCount, client.TaskCount)
	}
}

func TestEarnings_OpenEntryExcluded(t *testing.T) {
	ctx := context.Background()
	f := newEarningsFixture()

	f.logEntry(1, time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC), time.Hour)
	// Running entry: no end yet
	f.entries.Create(ctx, &domain.TimeEntry{TaskID: 1, Start: time.Date(2026, 1, 15, 11, 0, 0, 0, time.UTC)})

	got, err := f.svc.GetTaskEarnings(ctx, 1, "2026-01-15", "2026-01-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.TotalSeconds != 3600 {
		t.Fatalf("open entry must not count: expected 3600s, got %d", got.TotalSeconds)
	}
	mustEarn(t, got, 50)
}

func TestEarnings_NoRateConfigured(t *testing.T) {
	ctx := context.Background()
	f := newEarningsFixture()

	f.logEntry(4, time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC), time.Hour)

	// Client 2 has no rate history at all
	got, err := f.svc.GetClientEarnings(ctx, 2, "2026-01-01", "2026-01-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.HourlyRate != nil || got.Earnings != nil {
		t.Fatalf("expected nil rate and earnings, got %v / %v", got.HourlyRate, got.Earnings)
	}
	if got.Currency != "EUR" {
		t.Fatalf("expected client default currency EUR, got %s", got.Currency)
	}
}

func TestEarnings_MixedCurrenciesRejected(t *testing.T) {
	ctx := context.Background()
	f := newEarningsFixture()

	// Currency switch mid-history
	f.svc.rateRepo.(*mockRateRepo).periods[1] = []*domain.RatePeriod{
		{ID: 1, ClientID: 1, HourlyRate: 50, Currency: "PLN", EffectiveFrom: date(2026, 1, 1)},
		{ID: 2, ClientID: 1, HourlyRate: 15, Currency: "EUR", EffectiveFrom: date(2026, 2, 1)},
	}
	f.logEntry(1, time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC), time.Hour)
	f.logEntry(1, time.Date(2026, 2, 15, 10, 0, 0, 0, time.UTC), time.Hour)

	_, err := f.svc.GetTaskEarnings(ctx, 1, "2026-01-01", "2026-02-28")
	if !errors.Is(err, ErrMixedCurrencies) {
		t.Fatalf("expected ErrMixedCurrencies, got %v", err)
	}

	// A range inside a single currency period still works
	got, err := f.svc.GetTaskEarnings(ctx, 1, "2026-02-01", "2026-02-28")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Currency != "EUR" {
		t.Fatalf("expected EUR, got %s", got.Currency)
	}
	mustEarn(t, got, 15)
}

func TestEarnings_NoRateClientLookupFailure(t *testing.T) {
	ctx := context.Background()
	f := newEarningsFixture()

	// Task 4 belongs to the client with no rate history; a failing
	// client lookup must surface, not degrade to an empty currency
	storageErr := errors.New("storage failure")
	f.svc.clientRepo.(*mockClientRepo).err = storageErr

	_, err := f.svc.GetTaskEarnings(ctx, 4, "2026-01-01", "2026-01-31")
	if !errors.Is(err, storageErr) {
		t.Fatalf("expected storage error to propagate, got %v", err)
	}
}

func TestEarnings_InvalidRange(t *testing.T) {
	ctx := context.Background()
	f := newEarningsFixture()

	_, err := f.svc.GetTaskEarnings(ctx, 1, "2026-02-01", "2026-01-01")
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestEarnings_UnknownTask(t *testing.T) {
	ctx := context.Background()
	f := newEarningsFixture()

	_, err := f.svc.GetTaskEarnings(ctx, 42, "2026-01-01", "2026-01-31")
	if !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestEarnings_FractionalHoursAreExact(t *testing.T) {
	ctx := context.Background()
	f := newEarningsFixture()

	// 20 minutes at 50/h: exactly 50/3 in decimal terms
	f.logEntry(1, time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC), 20*time.Minute)

	got, err := f.svc.GetTaskEarnings(ctx, 1, "2026-01-15", "2026-01-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := decimal.NewFromInt(1200).Div(decimal.NewFromInt(3600)).Mul(decimal.NewFromInt(50))
	if !got.Earnings.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got.Earnings)
	}
}
