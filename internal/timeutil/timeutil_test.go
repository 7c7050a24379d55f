package timeutil

import (
	"errors"
	"testing"
	"time"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := LoadLocation(name)
	if err != nil {
		t.Fatalf("failed to load %s: %v", name, err)
	}
	return loc
}

func TestToStored_DropsZone(t *testing.T) {
	warsaw := mustLoad(t, "Europe/Warsaw")
	local := time.Date(2026, 1, 27, 13, 30, 45, 0, warsaw) // UTC+1 in winter

	if got := ToStored(local); got != "2026-01-27 12:30:45" {
		t.Fatalf("expected 2026-01-27 12:30:45, got %s", got)
	}
}

func TestToZoned_RoundTrip(t *testing.T) {
	warsaw := mustLoad(t, "Europe/Warsaw")

	got, err := ToZoned("2026-01-27 12:00:00", warsaw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Hour() != 13 || got.Day() != 27 {
		t.Fatalf("expected 13:00 local on the 27th, got %v", got)
	}

	ny := mustLoad(t, "America/New_York")
	got, err = ToZoned("2026-01-27 12:00:00", ny)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Hour() != 7 {
		t.Fatalf("expected 07:00 in New York, got %v", got)
	}
}

func TestToZoned_Malformed(t *testing.T) {
	_, err := ToZoned("not-a-date", time.UTC)
	if !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestLoadLocation_Unknown(t *testing.T) {
	_, err := LoadLocation("Mars/Olympus_Mons")
	if !errors.Is(err, ErrInvalidTimezone) {
		t.Fatalf("expected ErrInvalidTimezone, got %v", err)
	}
}

func TestLocalDayRange_Warsaw(t *testing.T) {
	warsaw := mustLoad(t, "Europe/Warsaw")

	r, err := LocalDayRange("2026-01-27", warsaw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := r.StoredStart(); got != "2026-01-26 23:00:00" {
		t.Fatalf("expected start 2026-01-26 23:00:00, got %s", got)
	}
	if got := r.StoredEnd(); got != "2026-01-27 22:59:59" {
		t.Fatalf("expected end 2026-01-27 22:59:59, got %s", got)
	}
}

func TestLocalDayRange_NewYork(t *testing.T) {
	ny := mustLoad(t, "America/New_York")

	r, err := LocalDayRange("2026-01-27", ny)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := r.StoredStart(); got != "2026-01-27 05:00:00" {
		t.Fatalf("expected start 2026-01-27 05:00:00, got %s", got)
	}
	if got := r.StoredEnd(); got != "2026-01-28 04:59:59" {
		t.Fatalf("expected end 2026-01-28 04:59:59, got %s", got)
	}
}

func TestLocalDayRange_UTC(t *testing.T) {
	r, err := LocalDayRange("2026-01-27", time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.StoredStart() != "2026-01-27 00:00:00" || r.StoredEnd() != "2026-01-27 23:59:59" {
		t.Fatalf("unexpected UTC range: %s .. %s", r.StoredStart(), r.StoredEnd())
	}
}

func TestLocalDayRange_SpringForward(t *testing.T) {
	// Warsaw jumps 02:00 -> 03:00 on 2026-03-29, so the local day spans
	// only 23 hours of UTC. Each endpoint must use its own offset.
	warsaw := mustLoad(t, "Europe/Warsaw")

	r, err := LocalDayRange("2026-03-29", warsaw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := r.StoredStart(); got != "2026-03-28 23:00:00" {
		t.Fatalf("expected start 2026-03-28 23:00:00, got %s", got)
	}
	if got := r.StoredEnd(); got != "2026-03-29 21:59:59" {
		t.Fatalf("expected end 2026-03-29 21:59:59, got %s", got)
	}

	if width := r.End.Sub(r.Start); width != 23*time.Hour-time.Second {
		t.Fatalf("expected a 23-hour day, got %v", width)
	}
}

func TestLocalDayRange_FallBack(t *testing.T) {
	// Warsaw gains an hour on 2026-10-25: a 25-hour local day.
	warsaw := mustLoad(t, "Europe/Warsaw")

	r, err := LocalDayRange("2026-10-25", warsaw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if width := r.End.Sub(r.Start); width != 25*time.Hour-time.Second {
		t.Fatalf("expected a 25-hour day, got %v", width)
	}
}

func TestLocalDayRange_RoundTripStaysOnDate(t *testing.T) {
	warsaw := mustLoad(t, "Europe/Warsaw")

	r, err := LocalDayRange("2026-01-27", warsaw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Every instant inside the range must land back on the same local date
	for _, utc := range []time.Time{r.Start, r.Start.Add(6 * time.Hour), r.End} {
		zoned, err := ToZoned(ToStored(utc), warsaw)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := zoned.Format(DateLayout); got != "2026-01-27" {
			t.Fatalf("instant %v mapped to local date %s", utc, got)
		}
	}
}

func TestLocalDayRange_Malformed(t *testing.T) {
	if _, err := LocalDayRange("27-01-2026", time.UTC); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}
