package memory

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/verdavida/lawncare/internal/domains/customers/domain"
	"github.com/verdavida/lawncare/internal/domains/customers/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory customer persistence adapter.
type Repository struct {
	mu        sync.RWMutex
	customers map[int64]*domain.Customer
	nextID    int64
	now       func() time.Time
}

type Option func(*Repository)

func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

func NewRepository(opts ...Option) *Repository {
	r := &Repository{customers: map[int64]*domain.Customer{}, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Repository) Create(_ context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if customer == nil {
		return nil, errors.New("customer is nil")
	}
	clone := *customer
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.insertLocked(&clone)
	out := clone
	return &out, nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	customer, ok := r.customers[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *customer
	return &clone, nil
}

func (r *Repository) FindActiveByEmail(_ context.Context, email string) (*domain.Customer, error) {
	email = domain.NormalizeEmail(email)
	r.mu.RLock()
	defer r.mu.RUnlock()
	var found *domain.Customer
	for _, customer := range r.customers {
		if !customer.IsActive || domain.NormalizeEmail(customer.Email) != email {
			continue
		}
		if found == nil || customer.ID < found.ID {
			found = customer
		}
	}
	if found == nil {
		return nil, ports.ErrNotFound
	}
	clone := *found
	return &clone, nil
}

func (r *Repository) Search(_ context.Context, term string, limit int) ([]*domain.Customer, error) {
	type ranked struct {
		customer  *domain.Customer
		relevance domain.Relevance
	}
	r.mu.RLock()
	matches := make([]ranked, 0)
	for _, customer := range r.customers {
		if !customer.IsActive {
			continue
		}
		rel := domain.Rank(customer, term)
		if !rel.Matched {
			continue
		}
		clone := *customer
		matches = append(matches, ranked{customer: &clone, relevance: rel})
	}
	r.mu.RUnlock()

	slices.SortFunc(matches, func(a, b ranked) int {
		if c := a.relevance.Compare(b.relevance); c != 0 {
			return c
		}
		return cmp.Or(
			cmp.Compare(a.customer.LastName, b.customer.LastName),
			cmp.Compare(a.customer.FirstName, b.customer.FirstName),
			cmp.Compare(a.customer.ID, b.customer.ID),
		)
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]*domain.Customer, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.customer)
	}
	return out, nil
}

func (r *Repository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.customers)), nil
}

func (r *Repository) CreateBatch(_ context.Context, customers []*domain.Customer) error {
	for _, customer := range customers {
		if err := customer.Validate(); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, customer := range customers {
		clone := *customer
		r.insertLocked(&clone)
		customer.ID = clone.ID
	}
	return nil
}

// Delete removes a customer. Used to undo inserts when an enclosing unit of work fails.
func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.customers, id)
	return nil
}

func (r *Repository) insertLocked(customer *domain.Customer) {
	now := r.now().UTC()
	r.nextID++
	customer.ID = r.nextID
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = now
	}
	if customer.UpdatedAt.IsZero() {
		customer.UpdatedAt = customer.CreatedAt
	}
	r.customers[customer.ID] = customer
}
