package domain

import (
	"errors"
	"time"
)

// TimeEntry is a logged span of work on one task. An entry with no end
// time is open (running). At most one open entry exists system-wide;
// the ledger service and a partial unique index both enforce this.
type TimeEntry struct {
	ID        int64
	TaskID    int64
	Start     time.Time
	End       *time.Time // nil while running
	CreatedAt time.Time
}

// NewTimeEntry creates an open entry starting at the given instant
func NewTimeEntry(taskID int64, start time.Time) *TimeEntry {
	return &TimeEntry{
		TaskID:    taskID,
		Start:     start,
		CreatedAt: time.Now(),
	}
}

// IsOpen returns true if the entry has no end time yet
func (e *TimeEntry) IsOpen() bool {
	return e.End == nil
}

// Duration returns the logged duration, or time elapsed so far if open
func (e *TimeEntry) Duration() time.Duration {
	if e.End == nil {
		return time.Since(e.Start)
	}
	return e.End.Sub(e.Start)
}

// DurationSeconds returns the closed duration in whole seconds.
// Open entries report zero: their time is not accounted until stopped.
func (e *TimeEntry) DurationSeconds() int64 {
	if e.End == nil {
		return 0
	}
	return int64(e.End.Sub(e.Start).Seconds())
}

// Close sets the end time, transitioning the entry from open to closed
func (e *TimeEntry) Close(end time.Time) error {
	if e.End != nil {
		return errors.New("entry is already closed")
	}
	if end.Before(e.Start) {
		return errors.New("end time must not precede start time")
	}
	e.End = &end
	return nil
}

// Validate returns an error if the entry is invalid
func (e *TimeEntry) Validate() error {
	if e.TaskID <= 0 {
		return errors.New("task ID is required")
	}
	if e.Start.IsZero() {
		return errors.New("start time is required")
	}
	if e.End != nil && e.End.Before(e.Start) {
		return errors.New("end time must not precede start time")
	}
	return nil
}
