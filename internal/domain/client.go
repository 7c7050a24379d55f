package domain

import (
	"errors"
	"strings"
	"time"
)

// Client owns projects and a rate history. MonthlyHours and DailyHours
// are optional work targets; nil means no target is set.
type Client struct {
	ID           int64
	Name         string
	Currency     string
	MonthlyHours *int64
	DailyHours   *float64
	CreatedAt    time.Time
}

// NewClient creates a new client with required fields
func NewClient(name, currency string) *Client {
	return &Client{
		Name:      strings.TrimSpace(name),
		Currency:  strings.ToUpper(strings.TrimSpace(currency)),
		CreatedAt: time.Now(),
	}
}

// Validate returns an error if the client is invalid
func (c *Client) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("client name is required")
	}
	if len(c.Currency) != 3 {
		return errors.New("currency must be a 3-letter code")
	}
	if c.MonthlyHours != nil && *c.MonthlyHours <= 0 {
		return errors.New("monthly hours target must be positive")
	}
	if c.DailyHours != nil && *c.DailyHours <= 0 {
		return errors.New("daily hours target must be positive")
	}
	return nil
}
