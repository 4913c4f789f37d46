package ports

import (
	"context"
	"time"

	"github.com/verdavida/lawncare/internal/domains/customers/domain"
)

// Service exposes customer use cases to adapters.
type Service interface {
	Search(ctx context.Context, query string, maxResults int) ([]*domain.Customer, error)
	Seed(ctx context.Context, count int) (SeedResult, error)
}

// SeedResult summarises a seeding run.
type SeedResult struct {
	Count     int
	Timestamp time.Time
}
