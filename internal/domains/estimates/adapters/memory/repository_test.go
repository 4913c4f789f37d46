package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customerdomain "github.com/verdavida/lawncare/internal/domains/customers/domain"
	"github.com/verdavida/lawncare/internal/domains/estimates/domain"
	"github.com/verdavida/lawncare/internal/domains/estimates/ports"
)

func addEstimate(t *testing.T, repo *Repository, number string) *domain.Estimate {
	t.Helper()
	now := time.Now().UTC()
	var out *domain.Estimate
	err := repo.WithinTransaction(context.Background(), func(ctx context.Context, tx ports.Tx) error {
		c, err := customerdomain.NewCustomer(customerdomain.Contact{FirstName: "Sam", LastName: "Ray", Email: number + "@example.com"})
		require.NoError(t, err)
		saved, err := tx.Customers().Create(ctx, c)
		if err != nil {
			return err
		}
		items := []domain.LineItem{domain.NewLineItem("Mulching", decimal.NewFromInt(1), decimal.NewFromInt(65), nil, nil)}
		e, err := domain.NewEstimate(number, saved, items, "", "", now, now.AddDate(0, 0, 30))
		require.NoError(t, err)
		if err := tx.AddEstimate(ctx, e); err != nil {
			return err
		}
		if err := tx.AddLineItems(ctx, e.ID, e.LineItems); err != nil {
			return err
		}
		out = e
		return nil
	})
	require.NoError(t, err)
	return out
}

func TestRepository_UpdateDetectsStaleStatus(t *testing.T) {
	repo := NewRepository(nil)
	ctx := context.Background()
	e := addEstimate(t, repo, "EST-20250301-0001")

	first, err := repo.GetByID(ctx, e.ID)
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, e.ID)
	require.NoError(t, err)

	_, err = first.MarkSent(time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, first, domain.StatusDraft))

	second.Status = domain.StatusCancelled
	require.ErrorIs(t, repo.Update(ctx, second, domain.StatusDraft), ports.ErrConcurrencyConflict)

	missing := &domain.Estimate{ID: 99}
	require.ErrorIs(t, repo.Update(ctx, missing, domain.StatusDraft), ports.ErrNotFound)
}

func TestRepository_DuplicateNumberRejected(t *testing.T) {
	repo := NewRepository(nil)
	addEstimate(t, repo, "EST-20250301-0001")

	err := repo.WithinTransaction(context.Background(), func(ctx context.Context, tx ports.Tx) error {
		now := time.Now()
		items := []domain.LineItem{domain.NewLineItem("x", decimal.NewFromInt(1), decimal.NewFromInt(1), nil, nil)}
		e, err := domain.NewEstimate("EST-20250301-0001", nil, items, "", "", now, now)
		require.NoError(t, err)
		return tx.AddEstimate(ctx, e)
	})
	require.ErrorIs(t, err, ports.ErrDuplicateNumber)
}

func TestRepository_RollbackDiscardsWrites(t *testing.T) {
	repo := NewRepository(nil)
	ctx := context.Background()
	boom := errors.New("boom")

	err := repo.WithinTransaction(ctx, func(ctx context.Context, tx ports.Tx) error {
		c, _ := customerdomain.NewCustomer(customerdomain.Contact{FirstName: "A", LastName: "B", Email: "ab@example.com"})
		if _, err := tx.Customers().Create(ctx, c); err != nil {
			return err
		}
		now := time.Now()
		items := []domain.LineItem{domain.NewLineItem("x", decimal.NewFromInt(1), decimal.NewFromInt(1), nil, nil)}
		e, _ := domain.NewEstimate("EST-20250301-0001", nil, items, "", "", now, now)
		if err := tx.AddEstimate(ctx, e); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	count, err := repo.customers.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
	_, err = repo.GetByID(ctx, 1)
	require.ErrorIs(t, err, ports.ErrNotFound)

	numbers, err := (&memoryTx{repo: repo}).EstimateNumbersWithPrefix(ctx, "EST-20250301-")
	require.NoError(t, err)
	assert.Empty(t, numbers)
}
