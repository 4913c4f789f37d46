package ports

import (
	"context"
	"errors"

	"github.com/verdavida/lawncare/internal/domains/catalog/domain"
)

var ErrNotFound = errors.New("catalog item not found")

// Repository persists the service and equipment catalog.
type Repository interface {
	ListServices(ctx context.Context, activeOnly bool) ([]*domain.Service, error)
	ListEquipment(ctx context.Context, activeOnly bool) ([]*domain.Equipment, error)
	ServiceByID(ctx context.Context, id int64) (*domain.Service, error)
	EquipmentByID(ctx context.Context, id int64) (*domain.Equipment, error)
	Counts(ctx context.Context) (services int64, equipment int64, err error)
	InsertServices(ctx context.Context, services []*domain.Service) error
	InsertEquipment(ctx context.Context, equipment []*domain.Equipment) error
}

// Service exposes catalog use cases to adapters and other bounded contexts.
type Service interface {
	ListServices(ctx context.Context) ([]*domain.Service, error)
	ListEquipment(ctx context.Context) ([]*domain.Equipment, error)
	ServiceByID(ctx context.Context, id int64) (*domain.Service, error)
	EquipmentByID(ctx context.Context, id int64) (*domain.Equipment, error)
	EnsureSeeded(ctx context.Context) (SeedResult, error)
}

// SeedResult reports how many catalog rows a seeding pass inserted.
type SeedResult struct {
	Services  int
	Equipment int
}
