package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andy/hourglass/internal/domain"
	"github.com/andy/hourglass/internal/repository"
	"github.com/andy/hourglass/internal/timeutil"
)

// ErrRateNotAfterLatest is returned when a new rate period does not
// start strictly after the latest one in the client's history
var ErrRateNotAfterLatest = errors.New("rate must take effect after the latest period")

// ClientService manages clients and their append-only rate histories
type ClientService interface {
	Create(ctx context.Context, name, currency string) (*domain.Client, error)
	GetByID(ctx context.Context, id int64) (*domain.Client, error)
	GetByName(ctx context.Context, name string) (*domain.Client, error)
	List(ctx context.Context) ([]*domain.Client, error)
	Rename(ctx context.Context, id int64, name string) error
	Delete(ctx context.Context, id int64) error

	// SetRate appends a new rate period taking effect on the given
	// local date (YYYY-MM-DD). History is never rewritten.
	SetRate(ctx context.Context, clientID int64, hourlyRate int64, currency, effectiveFrom string) (*domain.RatePeriod, error)

	// SetTargets sets the client's optional work targets in hours.
	// A nil value clears the corresponding target.
	SetTargets(ctx context.Context, clientID int64, monthlyHours *int64, dailyHours *float64) error

	// CurrentRate returns the latest rate period, or nil if none is set
	CurrentRate(ctx context.Context, clientID int64) (*domain.RatePeriod, error)

	// RateHistory returns all rate periods, oldest first
	RateHistory(ctx context.Context, clientID int64) ([]*domain.RatePeriod, error)
}

type clientService struct {
	clientRepo repository.ClientRepository
	rateRepo   repository.RateHistoryRepository
}

// NewClientService creates a new client service
func NewClientService(
	clientRepo repository.ClientRepository,
	rateRepo repository.RateHistoryRepository,
) ClientService {
	return &clientService{
		clientRepo: clientRepo,
		rateRepo:   rateRepo,
	}
}

func (s *clientService) Create(ctx context.Context, name, currency string) (*domain.Client, error) {
	client := domain.NewClient(name, currency)
	if err := client.Validate(); err != nil {
		return nil, fmt.Errorf("invalid client: %w", err)
	}
	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *clientService) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrClientNotFound
	}
	return client, nil
}

func (s *clientService) GetByName(ctx context.Context, name string) (*domain.Client, error) {
	client, err := s.clientRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrClientNotFound
	}
	return client, nil
}

func (s *clientService) List(ctx context.Context) ([]*domain.Client, error) {
	return s.clientRepo.List(ctx)
}

func (s *clientService) Rename(ctx context.Context, id int64, name string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.clientRepo.Rename(ctx, id, name)
}

func (s *clientService) Delete(ctx context.Context, id int64) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.clientRepo.Delete(ctx, id)
}

func (s *clientService) SetTargets(ctx context.Context, clientID int64, monthlyHours *int64, dailyHours *float64) error {
	client, err := s.GetByID(ctx, clientID)
	if err != nil {
		return err
	}

	updated := *client
	updated.MonthlyHours = monthlyHours
	updated.DailyHours = dailyHours
	if err := updated.Validate(); err != nil {
		return fmt.Errorf("invalid targets: %w", err)
	}

	return s.clientRepo.UpdateTargets(ctx, clientID, monthlyHours, dailyHours)
}

func (s *clientService) SetRate(ctx context.Context, clientID int64, hourlyRate int64, currency, effectiveFrom string) (*domain.RatePeriod, error) {
	if _, err := s.GetByID(ctx, clientID); err != nil {
		return nil, err
	}

	// Effective dates are calendar dates, stored as midnight UTC
	from, err := timeutil.ParseLocalDate(effectiveFrom, time.UTC)
	if err != nil {
		return nil, err
	}

	latest, err := s.rateRepo.Latest(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if latest != nil && !from.After(latest.EffectiveFrom) {
		return nil, fmt.Errorf("%s: %w", effectiveFrom, ErrRateNotAfterLatest)
	}

	period := &domain.RatePeriod{
		ClientID:      clientID,
		HourlyRate:    hourlyRate,
		Currency:      currency,
		EffectiveFrom: from,
		CreatedAt:     time.Now(),
	}
	if err := period.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rate period: %w", err)
	}
	if err := s.rateRepo.Append(ctx, period); err != nil {
		return nil, err
	}
	return period, nil
}

func (s *clientService) CurrentRate(ctx context.Context, clientID int64) (*domain.RatePeriod, error) {
	if _, err := s.GetByID(ctx, clientID); err != nil {
		return nil, err
	}
	return s.rateRepo.Latest(ctx, clientID)
}

func (s *clientService) RateHistory(ctx context.Context, clientID int64) ([]*domain.RatePeriod, error) {
	if _, err := s.GetByID(ctx, clientID); err != nil {
		return nil, err
	}
	return s.rateRepo.ListByClient(ctx, clientID)
}
