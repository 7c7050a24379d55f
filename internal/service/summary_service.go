package service

import (
	"context"
	"time"

	"github.com/andy/hourglass/internal/domain"
	"github.com/andy/hourglass/internal/repository"
	"github.com/andy/hourglass/internal/timeutil"
)

// SummaryLine is one closed entry of the day with its task and project
// context resolved for display
type SummaryLine struct {
	EntryID     int64
	TaskID      int64
	TaskTitle   string
	ProjectName string
	Start       time.Time // zoned
	End         time.Time // zoned
	Seconds     int64
}

// DaySummary lists what was worked on during one local calendar day
type DaySummary struct {
	Date         string
	Lines        []SummaryLine
	TotalSeconds int64
}

// SummaryService builds per-day work summaries
type SummaryService interface {
	ByDay(ctx context.Context, localDate string) (*DaySummary, error)
}

type summaryService struct {
	entryRepo   repository.TimeEntryRepository
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	loc         *time.Location
}

// NewSummaryService creates a new summary service
func NewSummaryService(
	entryRepo repository.TimeEntryRepository,
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
	loc *time.Location,
) SummaryService {
	return &summaryService{
		entryRepo:   entryRepo,
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		loc:         loc,
	}
}

// ByDay summarizes the closed entries of one local calendar day, in
// start order, with the running entry left out until it stops.
func (s *summaryService) ByDay(ctx context.Context, localDate string) (*DaySummary, error) {
	day, err := timeutil.LocalDayRange(localDate, s.loc)
	if err != nil {
		return nil, err
	}

	entries, err := s.entryRepo.ListInRange(ctx, day.Start, day.End)
	if err != nil {
		return nil, err
	}

	summary := &DaySummary{Date: localDate}

	// Task and project lookups are cached per call; a day's entries
	// cluster on a handful of tasks
	tasks := map[int64]*domain.Task{}
	projects := map[int64]*domain.Project{}

	for _, entry := range closedSessions(entries) {
		task, ok := tasks[entry.TaskID]
		if !ok {
			if task, err = s.taskRepo.GetByID(ctx, entry.TaskID); err != nil {
				return nil, err
			}
			tasks[entry.TaskID] = task
		}

		line := SummaryLine{
			EntryID: entry.ID,
			TaskID:  entry.TaskID,
			Start:   entry.Start.In(s.loc),
			End:     entry.End.In(s.loc),
			Seconds: entry.DurationSeconds(),
		}
		if task != nil {
			line.TaskTitle = task.Title
			project, ok := projects[task.ProjectID]
			if !ok {
				if project, err = s.projectRepo.GetByID(ctx, task.ProjectID); err != nil {
					return nil, err
				}
				projects[task.ProjectID] = project
			}
			if project != nil {
				line.ProjectName = project.Name
			}
		}

		summary.Lines = append(summary.Lines, line)
		summary.TotalSeconds += line.Seconds
	}

	return summary, nil
}
