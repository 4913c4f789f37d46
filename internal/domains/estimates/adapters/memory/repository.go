package memory

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	customermemory "github.com/verdavida/lawncare/internal/domains/customers/adapters/memory"
	customerdomain "github.com/verdavida/lawncare/internal/domains/customers/domain"
	"github.com/verdavida/lawncare/internal/domains/estimates/domain"
	"github.com/verdavida/lawncare/internal/domains/estimates/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory estimate store. Transactions are serialised and
// undo their customer inserts on rollback.
type Repository struct {
	txMu           sync.Mutex
	mu             sync.RWMutex
	customers      *customermemory.Repository
	estimates      map[int64]*domain.Estimate
	nextEstimateID int64
	nextLineItemID int64
}

// NewRepository stores estimates next to the given customer repository.
func NewRepository(customers *customermemory.Repository) *Repository {
	if customers == nil {
		customers = customermemory.NewRepository()
	}
	return &Repository{customers: customers, estimates: map[int64]*domain.Estimate{}}
}

func (r *Repository) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx ports.Tx) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	tx := &memoryTx{repo: r, customers: &trackingCustomers{inner: r.customers}}
	if err := fn(ctx, tx); err != nil {
		tx.rollback(ctx)
		return err
	}
	if err := ctx.Err(); err != nil {
		tx.rollback(ctx)
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range tx.staged {
		r.estimates[e.ID] = e
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Estimate, error) {
	r.mu.RLock()
	stored, ok := r.estimates[id]
	var clone *domain.Estimate
	if ok {
		clone = stored.Clone()
	}
	r.mu.RUnlock()
	if !ok {
		return nil, ports.ErrNotFound
	}
	r.hydrate(ctx, clone)
	return clone, nil
}

func (r *Repository) Update(_ context.Context, estimate *domain.Estimate, from domain.Status) error {
	if estimate == nil {
		return errors.New("estimate is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.estimates[estimate.ID]
	if !ok {
		return ports.ErrNotFound
	}
	if stored.Status != from {
		return ports.ErrConcurrencyConflict
	}
	next := estimate.Clone()
	stored.Status = next.Status
	stored.ScheduledDate = next.ScheduledDate
	stored.CompletedDate = next.CompletedDate
	stored.CompletionNotes = next.CompletionNotes
	stored.UpdatedAt = next.UpdatedAt
	return nil
}

func (r *Repository) ListJobs(ctx context.Context, filter ports.JobFilter) ([]*domain.Estimate, error) {
	r.mu.RLock()
	candidates := make([]*domain.Estimate, 0, len(r.estimates))
	for _, e := range r.estimates {
		if e.Status == domain.StatusCancelled || !matchesStatus(e.Status, filter.Status) {
			continue
		}
		if filter.CustomerID != nil && e.CustomerID != *filter.CustomerID {
			continue
		}
		candidates = append(candidates, e.Clone())
	}
	r.mu.RUnlock()

	term := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]*domain.Estimate, 0, len(candidates))
	for _, e := range candidates {
		r.hydrate(ctx, e)
		if term != "" && !matchesSearch(e, term) {
			continue
		}
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b *domain.Estimate) int {
		return cmp.Or(b.EstimateDate.Compare(a.EstimateDate), cmp.Compare(b.ID, a.ID))
	})
	return out, nil
}

func (r *Repository) ExpireOverdue(_ context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, e := range r.estimates {
		if e.Expire(now) {
			count++
		}
	}
	return count, nil
}

func (r *Repository) hydrate(ctx context.Context, e *domain.Estimate) {
	if customer, err := r.customers.GetByID(ctx, e.CustomerID); err == nil {
		e.Customer = customer
	}
}

func matchesStatus(status domain.Status, filter ports.JobStatus) bool {
	switch filter {
	case ports.JobStatusOpen:
		return status != domain.StatusCompleted
	case ports.JobStatusCompleted:
		return status == domain.StatusCompleted
	default:
		return true
	}
}

func matchesSearch(e *domain.Estimate, term string) bool {
	fields := []string{e.Number}
	if c := e.Customer; c != nil {
		fields = append(fields, c.FirstName, c.LastName, c.Email)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

type memoryTx struct {
	repo      *Repository
	customers *trackingCustomers
	staged    []*domain.Estimate
}

func (tx *memoryTx) Customers() ports.CustomerStore { return tx.customers }

func (tx *memoryTx) EstimateNumbersWithPrefix(_ context.Context, prefix string) ([]string, error) {
	tx.repo.mu.RLock()
	defer tx.repo.mu.RUnlock()
	var numbers []string
	for _, e := range tx.repo.estimates {
		if strings.HasPrefix(e.Number, prefix) {
			numbers = append(numbers, e.Number)
		}
	}
	for _, e := range tx.staged {
		if strings.HasPrefix(e.Number, prefix) {
			numbers = append(numbers, e.Number)
		}
	}
	return numbers, nil
}

func (tx *memoryTx) AddEstimate(_ context.Context, estimate *domain.Estimate) error {
	if estimate == nil {
		return errors.New("estimate is nil")
	}
	tx.repo.mu.Lock()
	defer tx.repo.mu.Unlock()
	for _, e := range tx.repo.estimates {
		if e.Number == estimate.Number {
			return ports.ErrDuplicateNumber
		}
	}
	tx.repo.nextEstimateID++
	estimate.ID = tx.repo.nextEstimateID
	if estimate.Customer != nil {
		estimate.CustomerID = estimate.Customer.ID
	}
	stored := estimate.Clone()
	stored.LineItems = nil
	tx.staged = append(tx.staged, stored)
	return nil
}

func (tx *memoryTx) AddLineItems(_ context.Context, estimateID int64, items []domain.LineItem) error {
	var target *domain.Estimate
	for _, e := range tx.staged {
		if e.ID == estimateID {
			target = e
		}
	}
	if target == nil {
		return ports.ErrNotFound
	}
	tx.repo.mu.Lock()
	defer tx.repo.mu.Unlock()
	for i := range items {
		tx.repo.nextLineItemID++
		items[i].ID = tx.repo.nextLineItemID
		items[i].EstimateID = estimateID
		if items[i].CreatedAt.IsZero() {
			items[i].CreatedAt = target.CreatedAt
		}
	}
	clone := (&domain.Estimate{LineItems: items}).Clone()
	target.LineItems = append(target.LineItems, clone.LineItems...)
	return nil
}

func (tx *memoryTx) rollback(ctx context.Context) {
	for _, id := range tx.customers.created {
		_ = tx.repo.customers.Delete(ctx, id)
	}
	tx.staged = nil
}

// trackingCustomers remembers inserts so a rollback can remove them.
type trackingCustomers struct {
	inner   *customermemory.Repository
	created []int64
}

func (t *trackingCustomers) FindActiveByEmail(ctx context.Context, email string) (*customerdomain.Customer, error) {
	return t.inner.FindActiveByEmail(ctx, email)
}

func (t *trackingCustomers) Create(ctx context.Context, customer *customerdomain.Customer) (*customerdomain.Customer, error) {
	saved, err := t.inner.Create(ctx, customer)
	if err != nil {
		return nil, err
	}
	t.created = append(t.created, saved.ID)
	return saved, nil
}
