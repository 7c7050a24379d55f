package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/andy/hourglass/internal/domain"
	"github.com/andy/hourglass/internal/repository"
	"github.com/andy/hourglass/internal/timeutil"
)

// BudgetStatus is the qualitative label for actual-vs-estimated time
type BudgetStatus string

const (
	BudgetNoEstimation BudgetStatus = "no_estimation"
	BudgetOnTrack      BudgetStatus = "on_track"
	BudgetWarning      BudgetStatus = "warning"
	BudgetOverBudget   BudgetStatus = "over_budget"
)

// Estimation compares actual logged time against the task's estimate
type Estimation struct {
	HasEstimation     bool
	EstimatedSeconds  *int64
	ActualSeconds     int64
	DifferenceSeconds *int64
	DifferencePercent *float64
	IsOverBudget      bool
}

// Distribution describes how sessions were spread over the range.
// Nil fields mean "not enough data", never zero-as-absent.
type Distribution struct {
	SessionCount           int
	AvgSessionSeconds      *int64
	MedianSessionSeconds   *float64
	LongestSessionSeconds  *int64
	ShortestSessionSeconds *int64
	LongestGapSeconds      *int64
	DaysWorked             int
	PeakHour               *int
	DeepWorkCount          int
	LastActivity           *time.Time
	TimeSinceLastSeconds   *int64
}

// Budget reports consumption of the task's estimate
type Budget struct {
	PercentUsed      *float64
	RemainingSeconds *int64 // negative once over budget
	Status           BudgetStatus
}

// TaskAnalytics bundles all per-task analytics for a date range
type TaskAnalytics struct {
	Estimation      Estimation
	Distribution    Distribution
	Budget          Budget
	EntriesAnalyzed int
}

// deepWorkSeconds is the minimum session length counted as deep work
const deepWorkSeconds = 3600

// AnalyticsService describes how time was spent, independent of money
type AnalyticsService interface {
	GetTaskAnalytics(ctx context.Context, taskID int64, startDate, endDate string) (*TaskAnalytics, error)
}

type analyticsService struct {
	taskRepo  repository.TaskRepository
	entryRepo repository.TimeEntryRepository
	loc       *time.Location
	now       func() time.Time
}

// NewAnalyticsService creates a new analytics service. Hour-of-day and
// days-worked statistics are computed on local (zoned) start times.
func NewAnalyticsService(
	taskRepo repository.TaskRepository,
	entryRepo repository.TimeEntryRepository,
	loc *time.Location,
) AnalyticsService {
	return &analyticsService{
		taskRepo:  taskRepo,
		entryRepo: entryRepo,
		loc:       loc,
		now:       time.Now,
	}
}

func (s *analyticsService) GetTaskAnalytics(ctx context.Context, taskID int64, startDate, endDate string) (*TaskAnalytics, error) {
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

	entries, err := s.entryRepo.ListByTaskInRange(ctx, taskID, start, end)
	if err != nil {
		return nil, err
	}

	sessions := closedSessions(entries)

	return &TaskAnalytics{
		Estimation:      estimationAccuracy(task.EstimatedMinutes, sessions),
		Distribution:    timeDistribution(sessions, s.loc, s.now()),
		Budget:          budgetAnalysis(task.EstimatedMinutes, sessions),
		EntriesAnalyzed: len(entries),
	}, nil
}

// closedSessions filters to closed, well-formed entries sorted by start.
// A malformed entry (missing start) is skipped, not fatal.
func closedSessions(entries []*domain.TimeEntry) []*domain.TimeEntry {
	var out []*domain.TimeEntry
	for _, e := range entries {
		if e.End == nil || e.Start.IsZero() {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

func sumSeconds(sessions []*domain.TimeEntry) int64 {
	var total int64
	for _, e := range sessions {
		total += e.DurationSeconds()
	}
	return total
}

func estimationAccuracy(estimatedMinutes *int64, sessions []*domain.TimeEntry) Estimation {
	actual := sumSeconds(sessions)

	if estimatedMinutes == nil {
		return Estimation{ActualSeconds: actual}
	}

	estimated := *estimatedMinutes * 60
	diff := actual - estimated
	percent := float64(diff) / float64(estimated) * 100

	return Estimation{
		HasEstimation:     true,
		EstimatedSeconds:  &estimated,
		ActualSeconds:     actual,
		DifferenceSeconds: &diff,
		DifferencePercent: &percent,
		IsOverBudget:      diff > 0,
	}
}

func timeDistribution(sessions []*domain.TimeEntry, loc *time.Location, now time.Time) Distribution {
	if len(sessions) == 0 {
		return Distribution{}
	}

	durations := make([]int64, len(sessions))
	for i, e := range sessions {
		durations[i] = e.DurationSeconds()
	}
	sorted := append([]int64(nil), durations...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var total int64
	deepWork := 0
	for _, d := range durations {
		total += d
		if d >= deepWorkSeconds {
			deepWork++
		}
	}
	avg := int64(math.Round(float64(total) / float64(len(durations))))
	median := medianOf(sorted)
	longest := sorted[len(sorted)-1]
	shortest := sorted[0]

	// Largest idle gap between consecutive sessions (sorted by start)
	var longestGap *int64
	for i := 1; i < len(sessions); i++ {
		gap := int64(sessions[i].Start.Sub(*sessions[i-1].End).Seconds())
		if longestGap == nil || gap > *longestGap {
			g := gap
			longestGap = &g
		}
	}

	// Distinct local calendar dates and start-hour histogram
	days := map[string]struct{}{}
	var hourCounts [24]int
	for _, e := range sessions {
		local := e.Start.In(loc)
		days[local.Format(timeutil.DateLayout)] = struct{}{}
		hourCounts[local.Hour()]++
	}

	// Scanning hours in ascending order breaks ties toward the lowest
	// hour, keeping the result deterministic
	peak := 0
	for h := 1; h < 24; h++ {
		if hourCounts[h] > hourCounts[peak] {
			peak = h
		}
	}

	last := sessions[len(sessions)-1]
	lastActivity := *last.End
	sinceLast := int64(now.Sub(lastActivity).Seconds())

	return Distribution{
		SessionCount:           len(sessions),
		AvgSessionSeconds:      &avg,
		MedianSessionSeconds:   &median,
		LongestSessionSeconds:  &longest,
		ShortestSessionSeconds: &shortest,
		LongestGapSeconds:      longestGap,
		DaysWorked:             len(days),
		PeakHour:               &peak,
		DeepWorkCount:          deepWork,
		LastActivity:           &lastActivity,
		TimeSinceLastSeconds:   &sinceLast,
	}
}

// medianOf returns the median of an ascending-sorted slice: the middle
// value for odd counts, the mean of the two middle values for even
func medianOf(sorted []int64) float64 {
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid])
	}
	return float64(sorted[mid-1]+sorted[mid]) / 2
}

func budgetAnalysis(estimatedMinutes *int64, sessions []*domain.TimeEntry) Budget {
	if estimatedMinutes == nil {
		return Budget{Status: BudgetNoEstimation}
	}

	actual := sumSeconds(sessions)
	estimated := *estimatedMinutes * 60
	percent := float64(actual) / float64(estimated) * 100
	remaining := estimated - actual

	status := BudgetOnTrack
	switch {
	case percent >= 100:
		status = BudgetOverBudget
	case percent >= 80:
		status = BudgetWarning
	}

	return Budget{
		PercentUsed:      &percent,
		RemainingSeconds: &remaining,
		Status:           status,
	}
}
