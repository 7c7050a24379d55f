package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andy/hourglass/internal/domain"
	"github.com/andy/hourglass/internal/repository"
	"github.com/andy/hourglass/internal/timeutil"
)

var (
	ErrClientNotFound  = errors.New("client not found")
	ErrProjectNotFound = errors.New("project not found")
	ErrInvalidRange    = errors.New("end date precedes start date")
	ErrMixedCurrencies = errors.New("range spans a currency change")
)

var secondsPerHour = decimal.NewFromInt(3600)

// Earnings is the money earned over a date range at one level of the
// client -> project -> task hierarchy. A client with no rate history
// reports nil HourlyRate and nil Earnings: "no rate configured" is not
// the same as zero hours worked.
type Earnings struct {
	HourlyRate   *int64 // current rate
	TotalSeconds int64
	Hours        float64
	Earnings     *decimal.Decimal
	Currency     string
	TaskCount    int
	ProjectCount int
}

// EarningsService turns logged time into money using historically
// accurate rates. All three levels aggregate through the same
// per-entry resolution path, so totals match exactly across levels.
type EarningsService interface {
	GetTaskEarnings(ctx context.Context, taskID int64, startDate, endDate string) (*Earnings, error)
	GetProjectEarnings(ctx context.Context, projectID int64, startDate, endDate string) (*Earnings, error)
	GetClientEarnings(ctx context.Context, clientID int64, startDate, endDate string) (*Earnings, error)
}

type earningsService struct {
	clientRepo  repository.ClientRepository
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
	entryRepo   repository.TimeEntryRepository
	rateRepo    repository.RateHistoryRepository
	loc         *time.Location
}

// NewEarningsService creates a new earnings service. loc is the user's
// timezone; range dates are local calendar days in it.
func NewEarningsService(
	clientRepo repository.ClientRepository,
	projectRepo repository.ProjectRepository,
	taskRepo repository.TaskRepository,
	entryRepo repository.TimeEntryRepository,
	rateRepo repository.RateHistoryRepository,
	loc *time.Location,
) EarningsService {
	return &earningsService{
		clientRepo:  clientRepo,
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		entryRepo:   entryRepo,
		rateRepo:    rateRepo,
		loc:         loc,
	}
}

// localRangeSpan converts two local calendar dates into the UTC instant
// span they cover, first day's local midnight through last day's 23:59:59
func localRangeSpan(loc *time.Location, startDate, endDate string) (time.Time, time.Time, error) {
	first, err := timeutil.LocalDayRange(startDate, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	last, err := timeutil.LocalDayRange(endDate, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if last.End.Before(first.Start) {
		return time.Time{}, time.Time{}, ErrInvalidRange
	}
	return first.Start, last.End, nil
}

// entryTotals accumulates closed-entry seconds and earnings under one
// currency. Open entries are excluded: a running timer's duration is
// not earned until it stops, so repeated queries never double count.
type entryTotals struct {
	seconds  int64
	earnings decimal.Decimal
	currency string
}

func (t *entryTotals) add(entries []*domain.TimeEntry, periods []*domain.RatePeriod) error {
	for _, e := range entries {
		if e.IsOpen() || e.Start.IsZero() {
			continue
		}

		seconds := e.DurationSeconds()
		t.seconds += seconds

		rate := domain.ResolveRate(periods, e.Start)
		if rate == nil {
			continue
		}
		if t.currency != "" && t.currency != rate.Currency {
			return ErrMixedCurrencies
		}
		t.currency = rate.Currency

		amount := decimal.NewFromInt(seconds).
			Div(secondsPerHour).
			Mul(decimal.NewFromInt(rate.HourlyRate))
		t.earnings = t.earnings.Add(amount)
	}
	return nil
}

func (s *earningsService) GetTaskEarnings(ctx context.Context, taskID int64, startDate, endDate string) (*Earnings, error) {
	start, end, err := localRangeSpan(s.loc, startDate, endDate)
	if err != nil {
		return nil, err
	}

	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}

	project, err := s.projectRepo.GetByID(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}

	rates, err := s.rateRepo.ListByClient(ctx, project.ClientID)
	if err != nil {
		return nil, err
	}
	if domain.LatestPeriod(rates) == nil {
		return s.unratedEarnings(ctx, project.ClientID)
	}

	entries, err := s.entryRepo.ListByTaskInRange(ctx, taskID, start, end)
	if err != nil {
		return nil, err
	}

	totals := entryTotals{}
	if err := totals.add(entries, domain.PeriodsOverlapping(rates, end)); err != nil {
		return nil, err
	}

	return s.buildEarnings(rates, totals, 1, 0), nil
}

func (s *earningsService) GetProjectEarnings(ctx context.Context, projectID int64, startDate, endDate string) (*Earnings, error) {
	start, end, err := localRangeSpan(s.loc, startDate, endDate)
	if err != nil {
		return nil, err
	}

	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}

	rates, err := s.rateRepo.ListByClient(ctx, project.ClientID)
	if err != nil {
		return nil, err
	}
	if domain.LatestPeriod(rates) == nil {
		return s.unratedEarnings(ctx, project.ClientID)
	}

	totals := entryTotals{}
	taskCount, err := s.addProjectTotals(ctx, &totals, projectID, rates, start, end)
	if err != nil {
		return nil, err
	}

	return s.buildEarnings(rates, totals, taskCount, 0), nil
}

func (s *earningsService) GetClientEarnings(ctx context.Context, clientID int64, startDate, endDate string) (*Earnings, error) {
	start, end, err := localRangeSpan(s.loc, startDate, endDate)
	if err != nil {
		return nil, err
	}

	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrClientNotFound
	}

	rates, err := s.rateRepo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if domain.LatestPeriod(rates) == nil {
		return s.unratedEarnings(ctx, clientID)
	}

	projects, err := s.projectRepo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	totals := entryTotals{}
	taskCount := 0
	for _, project := range projects {
		n, err := s.addProjectTotals(ctx, &totals, project.ID, rates, start, end)
		if err != nil {
			return nil, err
		}
		taskCount += n
	}

	return s.buildEarnings(rates, totals, taskCount, len(projects)), nil
}

// addProjectTotals folds every task of a project into the running
// totals through the same per-entry path the task level uses
func (s *earningsService) addProjectTotals(
	ctx context.Context,
	totals *entryTotals,
	projectID int64,
	rates []*domain.RatePeriod,
	start, end time.Time,
) (int, error) {
	tasks, err := s.taskRepo.ListByProject(ctx, projectID)
	if err != nil {
		return 0, err
	}

	periods := domain.PeriodsOverlapping(rates, end)
	for _, task := range tasks {
		entries, err := s.entryRepo.ListByTaskInRange(ctx, task.ID, start, end)
		if err != nil {
			return 0, err
		}
		if err := totals.add(entries, periods); err != nil {
			return 0, err
		}
	}

	return len(tasks), nil
}

func (s *earningsService) buildEarnings(rates []*domain.RatePeriod, totals entryTotals, taskCount, projectCount int) *Earnings {
	latest := domain.LatestPeriod(rates)

	currency := totals.currency
	if currency == "" {
		currency = latest.Currency
	}

	earned := totals.earnings
	return &Earnings{
		HourlyRate:   &latest.HourlyRate,
		TotalSeconds: totals.seconds,
		Hours:        float64(totals.seconds) / 3600,
		Earnings:     &earned,
		Currency:     currency,
		TaskCount:    taskCount,
		ProjectCount: projectCount,
	}
}

// unratedEarnings reports "no rate configured" for the client: nil rate
// and nil earnings, with the client's default currency for display
func (s *earningsService) unratedEarnings(ctx context.Context, clientID int64) (*Earnings, error) {
	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	currency := ""
	if client != nil {
		currency = client.Currency
	}
	return &Earnings{Currency: currency}, nil
}
