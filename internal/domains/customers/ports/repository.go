package ports

import (
	"context"
	"errors"

	"github.com/verdavida/lawncare/internal/domains/customers/domain"
)

var ErrNotFound = errors.New("customer not found")

// Repository persists customers.
type Repository interface {
	Create(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
	// FindActiveByEmail returns the oldest active customer with the email, or ErrNotFound.
	FindActiveByEmail(ctx context.Context, email string) (*domain.Customer, error)
	// Search returns active customers whose phone, email or address contains term, ordered by relevance.
	Search(ctx context.Context, term string, limit int) ([]*domain.Customer, error)
	Count(ctx context.Context) (int64, error)
	CreateBatch(ctx context.Context, customers []*domain.Customer) error
}
