package service

import (
	"context"
	"math"
	"time"

	"github.com/andy/hourglass/internal/repository"
	"github.com/andy/hourglass/internal/timeutil"
)

// PeriodTarget compares worked time against the target for one period.
// Required is the pace needed to stay on track with the monthly target;
// it falls back to the period target when no monthly target is set.
type PeriodTarget struct {
	TargetSeconds   int64
	WorkedSeconds   int64
	RequiredSeconds int64
	OverflowSeconds int64
}

// MonthlyTarget reports month-to-date progress against the monthly
// hours target. Remaining is signed; negative means the target is met.
type MonthlyTarget struct {
	TargetSeconds         int64
	WorkedSeconds         int64
	RemainingSeconds      int64
	WorkingDaysLeft       int
	RequiredPerDaySeconds int64
}

// TargetBreakdown is the work-target progress for one client as of a
// local date. A nil section means the corresponding target is not set.
type TargetBreakdown struct {
	Daily   *PeriodTarget
	Weekly  *PeriodTarget
	Monthly *MonthlyTarget
}

// workingDaysPerWeek scales the daily target up to a weekly one
const workingDaysPerWeek = 5

// TargetsService tracks worked time against per-client hour targets
type TargetsService interface {
	// GetClientTargets reports progress as of the given local date:
	// that day, its Monday-based week, and its calendar month
	GetClientTargets(ctx context.Context, clientID int64, localDate string) (*TargetBreakdown, error)
}

type targetsService struct {
	clientRepo repository.ClientRepository
	entryRepo  repository.TimeEntryRepository
	loc        *time.Location
}

// NewTargetsService creates a new targets service
func NewTargetsService(
	clientRepo repository.ClientRepository,
	entryRepo repository.TimeEntryRepository,
	loc *time.Location,
) TargetsService {
	return &targetsService{
		clientRepo: clientRepo,
		entryRepo:  entryRepo,
		loc:        loc,
	}
}

func (s *targetsService) GetClientTargets(ctx context.Context, clientID int64, localDate string) (*TargetBreakdown, error) {
	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrClientNotFound
	}
	if client.MonthlyHours == nil && client.DailyHours == nil {
		return &TargetBreakdown{}, nil
	}

	day, err := timeutil.ParseLocalDate(localDate, s.loc)
	if err != nil {
		return nil, err
	}
	dayRange, err := timeutil.LocalDayRange(localDate, s.loc)
	if err != nil {
		return nil, err
	}

	// Week starts on Monday; the month on its first day. Either span
	// may begin before the other, so the query covers both.
	weekRange, err := timeutil.LocalDayRange(mondayOf(day).Format(timeutil.DateLayout), s.loc)
	if err != nil {
		return nil, err
	}
	firstOfMonth := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, s.loc)
	monthRange, err := timeutil.LocalDayRange(firstOfMonth.Format(timeutil.DateLayout), s.loc)
	if err != nil {
		return nil, err
	}

	queryStart := monthRange.Start
	if weekRange.Start.Before(queryStart) {
		queryStart = weekRange.Start
	}
	entries, err := s.entryRepo.ListByClientInRange(ctx, clientID, queryStart, dayRange.End)
	if err != nil {
		return nil, err
	}

	var dayWorked, weekWorked, monthWorked int64
	for _, e := range closedSessions(entries) {
		seconds := e.DurationSeconds()
		if !e.Start.Before(monthRange.Start) {
			monthWorked += seconds
		}
		if !e.Start.Before(weekRange.Start) {
			weekWorked += seconds
		}
		if !e.Start.Before(dayRange.Start) {
			dayWorked += seconds
		}
	}

	breakdown := &TargetBreakdown{}
	var requiredPerDay int64

	if client.MonthlyHours != nil {
		target := *client.MonthlyHours * 3600
		remaining := target - monthWorked
		daysLeft := workingDaysLeft(day)
		if remaining > 0 && daysLeft > 0 {
			requiredPerDay = int64(math.Round(float64(remaining) / float64(daysLeft)))
		}
		breakdown.Monthly = &MonthlyTarget{
			TargetSeconds:         target,
			WorkedSeconds:         monthWorked,
			RemainingSeconds:      remaining,
			WorkingDaysLeft:       daysLeft,
			RequiredPerDaySeconds: requiredPerDay,
		}
	}

	if client.DailyHours != nil {
		dailyTarget := int64(math.Round(*client.DailyHours * 3600))
		breakdown.Daily = periodTarget(dailyTarget, dayWorked, requiredPerDay)
		breakdown.Weekly = periodTarget(dailyTarget*workingDaysPerWeek, weekWorked, requiredPerDay*workingDaysPerWeek)
	}

	return breakdown, nil
}

func periodTarget(target, worked, required int64) *PeriodTarget {
	if required == 0 {
		required = target
	}
	overflow := worked - target
	if overflow < 0 {
		overflow = 0
	}
	return &PeriodTarget{
		TargetSeconds:   target,
		WorkedSeconds:   worked,
		RequiredSeconds: required,
		OverflowSeconds: overflow,
	}
}

// mondayOf returns the Monday of the week the day falls in
func mondayOf(day time.Time) time.Time {
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// workingDaysLeft counts the Monday-to-Friday days from the given day
// through the end of its month, the day itself included
func workingDaysLeft(day time.Time) int {
	count := 0
	for d := day; d.Month() == day.Month(); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			count++
		}
	}
	return count
}
