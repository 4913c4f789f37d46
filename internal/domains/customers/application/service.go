package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/verdavida/lawncare/internal/domains/customers/domain"
	"github.com/verdavida/lawncare/internal/domains/customers/ports"
)

const (
	// SeedThreshold is the customer count above which seeding is refused.
	SeedThreshold = 25
	MaxSeedCount  = 10000
	MaxSearchSize = 100
)

// Service orchestrates customer use cases.
type Service struct {
	repo      ports.Repository
	logger    *slog.Logger
	now       func() time.Time
	generator *Generator
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithGenerator replaces the fake-data generator used for seeding.
func WithGenerator(g *Generator) Option {
	return func(s *Service) { s.generator = g }
}

func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.generator == nil {
		s.generator = NewGenerator(0)
	}
	return s
}

// Search finds active customers by phone, email or street address.
func (s *Service) Search(ctx context.Context, query string, maxResults int) ([]*domain.Customer, error) {
	term := strings.TrimSpace(query)
	if term == "" {
		return nil, fmt.Errorf("%w: search query cannot be empty", ErrInvalidInput)
	}
	if maxResults < 1 || maxResults > MaxSearchSize {
		return nil, fmt.Errorf("%w: maxResults must be between 1 and %d", ErrInvalidInput, MaxSearchSize)
	}
	return s.repo.Search(ctx, term, maxResults)
}

// Seed generates count fake customers in the mid-Atlantic service area.
// It refuses to run once more than SeedThreshold customers exist.
func (s *Service) Seed(ctx context.Context, count int) (ports.SeedResult, error) {
	if count < 1 || count > MaxSeedCount {
		return ports.SeedResult{}, fmt.Errorf("%w: count must be between 1 and %d", ErrInvalidInput, MaxSeedCount)
	}
	existing, err := s.repo.Count(ctx)
	if err != nil {
		return ports.SeedResult{}, err
	}
	if existing > SeedThreshold {
		s.logger.WarnContext(ctx, "customer seeding skipped", slog.Int64("existing", existing))
		return ports.SeedResult{}, ErrAlreadySeeded
	}
	now := s.now().UTC()
	customers, err := s.generator.Customers(count, now)
	if err != nil {
		return ports.SeedResult{}, mapError(err)
	}
	if err := s.repo.CreateBatch(ctx, customers); err != nil {
		return ports.SeedResult{}, err
	}
	s.logger.InfoContext(ctx, "seeded customers", slog.Int("count", len(customers)))
	return ports.SeedResult{Count: len(customers), Timestamp: now}, nil
}

var _ ports.Service = (*Service)(nil)
