package repository

import (
	"time"

	"github.com/andy/hourglass/internal/timeutil"
)

// parseStored parses a stored UTC time string
func parseStored(s string) (time.Time, error) {
	return timeutil.ParseStored(s)
}

// formatStored formats an instant for storage as UTC
func formatStored(t time.Time) string {
	return timeutil.ToStored(t)
}

// parseStoredDate parses a stored YYYY-MM-DD date as midnight UTC
func parseStoredDate(s string) (time.Time, error) {
	return time.ParseInLocation(timeutil.DateLayout, s, time.UTC)
}

// formatStoredDate formats a date for storage
func formatStoredDate(t time.Time) string {
	return t.UTC().Format(timeutil.DateLayout)
}
