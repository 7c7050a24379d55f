// Package timeutil converts between the UTC instants persisted in the
// database and the user's local calendar. Stored values carry no zone;
// every boundary computation goes through here so daylight-saving
// transitions cannot corrupt a day boundary.
package timeutil

import (
	"errors"
	"fmt"
	"time"
)

// StoredLayout is the format for instants persisted in SQLite, always UTC
const StoredLayout = "2006-01-02 15:04:05"

// DateLayout is the format for local calendar dates at the CLI boundary
const DateLayout = "2006-01-02"

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidTimezone = errors.New("invalid timezone")
)

// DayRange is the UTC span occupied by one local calendar day. Both
// bounds are inclusive; End is the last whole second of the day.
type DayRange struct {
	Start time.Time
	End   time.Time
}

// StoredStart returns the range start in the stored format
func (r DayRange) StoredStart() string { return ToStored(r.Start) }

// StoredEnd returns the range end in the stored format
func (r DayRange) StoredEnd() string { return ToStored(r.End) }

// ToStored serializes an instant as a UTC string, dropping zone info
func ToStored(t time.Time) string {
	return t.UTC().Format(StoredLayout)
}

// ParseStored parses a stored UTC string back into a UTC instant
func ParseStored(s string) (time.Time, error) {
	t, err := time.ParseInLocation(StoredLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// ToZoned reconstitutes a stored UTC string as an instant in the given
// timezone, for display and editing
func ToZoned(s string, loc *time.Location) (time.Time, error) {
	t, err := ParseStored(s)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(loc), nil
}

// LoadLocation resolves an IANA timezone name
func LoadLocation(name string) (*time.Location, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, name)
	}
	return loc, nil
}

// LocalDayRange returns the UTC range occupied by a local calendar day.
//
// The two endpoints are constructed independently: local 00:00:00 and
// local 23:59:59 are each built with the UTC offset in force at that
// specific moment, then converted to UTC separately. When a DST
// transition falls inside the day the range is 23 or 25 hours wide,
// which is exactly what querying stored UTC instants requires.
func LocalDayRange(date string, loc *time.Location) (DayRange, error) {
	d, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return DayRange{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	end := time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 0, loc)

	return DayRange{Start: start.UTC(), End: end.UTC()}, nil
}

// ParseLocalDate parses a YYYY-MM-DD string in the given timezone
func ParseLocalDate(date string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return d, nil
}
