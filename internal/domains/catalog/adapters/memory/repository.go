package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/verdavida/lawncare/internal/domains/catalog/domain"
	"github.com/verdavida/lawncare/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory catalog adapter.
type Repository struct {
	mu          sync.RWMutex
	services    map[int64]*domain.Service
	equipment   map[int64]*domain.Equipment
	nextService int64
	nextEquip   int64
	now         func() time.Time
}

func NewRepository() *Repository {
	return &Repository{
		services:  map[int64]*domain.Service{},
		equipment: map[int64]*domain.Equipment{},
		now:       time.Now,
	}
}

func (r *Repository) ListServices(_ context.Context, activeOnly bool) ([]*domain.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Service, 0, len(r.services))
	for _, svc := range r.services {
		if activeOnly && !svc.IsActive {
			continue
		}
		list = append(list, cloneService(svc))
	}
	slices.SortFunc(list, func(a, b *domain.Service) int { return strings.Compare(a.Name, b.Name) })
	return list, nil
}

func (r *Repository) ListEquipment(_ context.Context, activeOnly bool) ([]*domain.Equipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Equipment, 0, len(r.equipment))
	for _, item := range r.equipment {
		if activeOnly && !item.IsActive {
			continue
		}
		clone := *item
		list = append(list, &clone)
	}
	slices.SortFunc(list, func(a, b *domain.Equipment) int { return strings.Compare(a.Name, b.Name) })
	return list, nil
}

func (r *Repository) ServiceByID(_ context.Context, id int64) (*domain.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	svc, ok := r.services[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneService(svc), nil
}

func (r *Repository) EquipmentByID(_ context.Context, id int64) (*domain.Equipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.equipment[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *item
	return &clone, nil
}

func (r *Repository) Counts(_ context.Context) (int64, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.services)), int64(len(r.equipment)), nil
}

func (r *Repository) InsertServices(_ context.Context, services []*domain.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now().UTC()
	for _, svc := range services {
		clone := cloneService(svc)
		r.nextService++
		clone.ID = r.nextService
		clone.CreatedAt, clone.UpdatedAt = now, now
		r.services[clone.ID] = clone
		svc.ID = clone.ID
	}
	return nil
}

func (r *Repository) InsertEquipment(_ context.Context, equipment []*domain.Equipment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now().UTC()
	for _, item := range equipment {
		clone := *item
		r.nextEquip++
		clone.ID = r.nextEquip
		clone.CreatedAt, clone.UpdatedAt = now, now
		r.equipment[clone.ID] = &clone
		item.ID = clone.ID
	}
	return nil
}

// Deactivate marks a catalog service inactive.
func (r *Repository) Deactivate(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if svc, ok := r.services[id]; ok {
		svc.IsActive = false
	}
}

func cloneService(svc *domain.Service) *domain.Service {
	clone := *svc
	clone.Seasons = slices.Clone(svc.Seasons)
	return &clone
}
