package ports

import (
	"context"
	"errors"
	"time"

	catalogdomain "github.com/verdavida/lawncare/internal/domains/catalog/domain"
	customerdomain "github.com/verdavida/lawncare/internal/domains/customers/domain"
	"github.com/verdavida/lawncare/internal/domains/estimates/domain"
)

var (
	ErrNotFound = errors.New("estimate not found")
	// ErrDuplicateNumber is returned when the estimate number unique index rejects an insert.
	ErrDuplicateNumber = errors.New("estimate number already exists")
	// ErrConcurrencyConflict is returned when the row changed between read and write.
	ErrConcurrencyConflict = errors.New("estimate was modified by another request")
)

// CustomerStore is the slice of customer persistence an estimate transaction needs.
type CustomerStore interface {
	FindActiveByEmail(ctx context.Context, email string) (*customerdomain.Customer, error)
	Create(ctx context.Context, customer *customerdomain.Customer) (*customerdomain.Customer, error)
}

// Tx groups the writes of one estimate creation. Everything done through it
// commits or rolls back together.
type Tx interface {
	Customers() CustomerStore
	EstimateNumbersWithPrefix(ctx context.Context, prefix string) ([]string, error)
	// AddEstimate inserts the estimate row and assigns its ID.
	AddEstimate(ctx context.Context, estimate *domain.Estimate) error
	// AddLineItems inserts the line items of an already added estimate and assigns their IDs.
	AddLineItems(ctx context.Context, estimateID int64, items []domain.LineItem) error
}

// JobStatus filters the jobs listing.
type JobStatus string

const (
	JobStatusAll       JobStatus = "all"
	JobStatusOpen      JobStatus = "open"
	JobStatusCompleted JobStatus = "completed"
)

// JobFilter narrows the jobs listing. Cancelled estimates are never returned.
type JobFilter struct {
	Status     JobStatus
	Search     string
	CustomerID *int64
}

// Repository persists estimates together with their line items.
type Repository interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// GetByID loads the estimate with its customer and line items ordered by id.
	GetByID(ctx context.Context, id int64) (*domain.Estimate, error)
	// Update stores status and completion fields if the stored status still equals from.
	Update(ctx context.Context, estimate *domain.Estimate, from domain.Status) error
	ListJobs(ctx context.Context, filter JobFilter) ([]*domain.Estimate, error)
	// ExpireOverdue moves Sent and Viewed estimates whose expiration is before now to Expired.
	ExpireOverdue(ctx context.Context, now time.Time) (int, error)
}

// Catalog resolves referenced services and equipment.
type Catalog interface {
	ServiceByID(ctx context.Context, id int64) (*catalogdomain.Service, error)
	EquipmentByID(ctx context.Context, id int64) (*catalogdomain.Equipment, error)
}
