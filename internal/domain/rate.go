package domain

import (
	"errors"
	"time"
)

// RatePeriod is one step in a client's rate history. It applies from
// EffectiveFrom (inclusive) until the next period for the same client
// begins, or indefinitely if it is the latest one. Histories are
// append-only and strictly increasing by EffectiveFrom.
type RatePeriod struct {
	ID            int64
	ClientID      int64
	HourlyRate    int64
	Currency      string
	EffectiveFrom time.Time // date, midnight UTC
	CreatedAt     time.Time
}

// Validate returns an error if the rate period is invalid
func (p *RatePeriod) Validate() error {
	if p.ClientID <= 0 {
		return errors.New("client ID is required")
	}
	if p.HourlyRate <= 0 {
		return errors.New("hourly rate must be positive")
	}
	if len(p.Currency) != 3 {
		return errors.New("currency must be a 3-letter code")
	}
	if p.EffectiveFrom.IsZero() {
		return errors.New("effective-from date is required")
	}
	return nil
}

// DateOf truncates an instant to its UTC calendar date (midnight UTC)
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ResolveRate returns the rate period in force at the given instant.
// Periods must be sorted ascending by EffectiveFrom; the applicable
// period is the last one whose effective date is on or before the
// instant's date. Returns nil if the client had no rate yet. A linear
// scan is fine here: rate histories are short.
func ResolveRate(periods []*RatePeriod, at time.Time) *RatePeriod {
	day := DateOf(at)

	var applicable *RatePeriod
	for _, p := range periods {
		if p.EffectiveFrom.After(day) {
			break
		}
		applicable = p
	}
	return applicable
}

// PeriodsOverlapping returns, in ascending order, every period that can
// apply to some instant on or before end. A period that took effect
// before the range still governs entries inside it, so only the upper
// bound filters.
func PeriodsOverlapping(periods []*RatePeriod, end time.Time) []*RatePeriod {
	day := DateOf(end)

	var out []*RatePeriod
	for _, p := range periods {
		if p.EffectiveFrom.After(day) {
			break
		}
		out = append(out, p)
	}
	return out
}

// LatestPeriod returns the most recent period, or nil for an empty history
func LatestPeriod(periods []*RatePeriod) *RatePeriod {
	if len(periods) == 0 {
		return nil
	}
	return periods[len(periods)-1]
}
