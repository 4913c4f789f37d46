package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/verdavida/lawncare/internal/domains/catalog/domain"
	"github.com/verdavida/lawncare/internal/domains/catalog/ports"
)

// ErrInvalidInput signals a catalog item violated a domain invariant.
var ErrInvalidInput = errors.New("invalid catalog input")

// Service orchestrates catalog use cases.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// ListServices returns active services ordered by name.
func (s *Service) ListServices(ctx context.Context) ([]*domain.Service, error) {
	return s.repo.ListServices(ctx, true)
}

// ListEquipment returns active equipment ordered by name.
func (s *Service) ListEquipment(ctx context.Context) ([]*domain.Equipment, error) {
	return s.repo.ListEquipment(ctx, true)
}

func (s *Service) ServiceByID(ctx context.Context, id int64) (*domain.Service, error) {
	return s.repo.ServiceByID(ctx, id)
}

func (s *Service) EquipmentByID(ctx context.Context, id int64) (*domain.Equipment, error) {
	return s.repo.EquipmentByID(ctx, id)
}

// EnsureSeeded inserts the default catalog into each empty table.
func (s *Service) EnsureSeeded(ctx context.Context) (ports.SeedResult, error) {
	var result ports.SeedResult
	services, equipment, err := s.repo.Counts(ctx)
	if err != nil {
		return result, err
	}
	if equipment == 0 {
		defaults := domain.DefaultEquipment()
		for _, item := range defaults {
			if err := item.Validate(); err != nil {
				return result, fmt.Errorf("%w: %s: %w", ErrInvalidInput, item.Name, err)
			}
		}
		if err := s.repo.InsertEquipment(ctx, defaults); err != nil {
			return result, err
		}
		result.Equipment = len(defaults)
	}
	if services == 0 {
		defaults := domain.DefaultServices()
		for _, item := range defaults {
			if err := item.Validate(); err != nil {
				return result, fmt.Errorf("%w: %s: %w", ErrInvalidInput, item.Name, err)
			}
		}
		if err := s.repo.InsertServices(ctx, defaults); err != nil {
			return result, err
		}
		result.Services = len(defaults)
	}
	return result, nil
}

var _ ports.Service = (*Service)(nil)
