package application

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdavida/lawncare/internal/domains/customers/adapters/memory"
	"github.com/verdavida/lawncare/internal/domains/customers/domain"
)

func newCustomer(t *testing.T, first, last, email, phone, address string) *domain.Customer {
	t.Helper()
	c, err := domain.NewCustomer(domain.Contact{
		FirstName: first, LastName: last, Email: email, Phone: phone,
		Address: address, City: "Annapolis", State: "MD", PostalCode: "21401",
	})
	require.NoError(t, err)
	return c
}

func TestSearch_OrdersByRelevanceThenName(t *testing.T) {
	repo := memory.NewRepository()
	ctx := context.Background()
	for _, c := range []*domain.Customer{
		newCustomer(t, "Zed", "Adams", "zed@example.com", "(410) 555-0100", "12 Smith Lane"),
		newCustomer(t, "Anna", "Smith", "anna.smith@example.com", "(410) 555-0101", "1 Bay Ridge"),
		newCustomer(t, "Bob", "Brown", "smithers@example.com", "(410) 555-0102", "9 Oak Street"),
		newCustomer(t, "Carl", "Jones", "carl@example.com", "(410) 555-0103", "5 Elm Court"),
	} {
		_, err := repo.Create(ctx, c)
		require.NoError(t, err)
	}
	svc := NewService(repo)

	results, err := svc.Search(ctx, "  SMITH ", 20)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "smithers@example.com", results[0].Email, "email prefix first")
	assert.Equal(t, "anna.smith@example.com", results[1].Email, "email contains second")
	assert.Equal(t, "zed@example.com", results[2].Email, "address contains last")

	limited, err := svc.Search(ctx, "example.com", 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "Adams", limited[0].LastName)
	assert.Equal(t, "Brown", limited[1].LastName)
}

func TestSearch_RejectsInvalidInput(t *testing.T) {
	svc := NewService(memory.NewRepository())
	_, err := svc.Search(context.Background(), "   ", 20)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Search(context.Background(), "smith", 101)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Search(context.Background(), "smith", 0)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestSeed_GeneratesUniqueCustomersInServiceArea(t *testing.T) {
	repo := memory.NewRepository()
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	svc := NewService(repo, WithClock(func() time.Time { return now }), WithGenerator(NewGenerator(42)))
	ctx := context.Background()

	result, err := svc.Seed(ctx, 200)
	require.NoError(t, err)
	assert.Equal(t, 200, result.Count)
	assert.Equal(t, now, result.Timestamp)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(200), count)

	phone := regexp.MustCompile(`^\(\d{3}\) \d{3}-\d{4}$`)
	seen := map[string]bool{}
	for id := int64(1); id <= 200; id++ {
		c, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.False(t, seen[c.Email], "duplicate email %s", c.Email)
		seen[c.Email] = true
		assert.Regexp(t, `^[a-z0-9]+\.[a-z0-9]+\d*@example\.com$`, c.Email)
		assert.True(t, phone.MatchString(c.Phone), c.Phone)
		assert.Contains(t, []string{"MD", "VA", "DE"}, c.State)
		assert.True(t, c.IsActive)
		assert.False(t, c.CreatedAt.After(now))
		assert.True(t, c.CreatedAt.After(now.AddDate(0, 0, -731)))
	}
}

func TestSeed_RefusesWhenCustomersExist(t *testing.T) {
	repo := memory.NewRepository()
	ctx := context.Background()
	for i := 0; i < SeedThreshold+1; i++ {
		_, err := repo.Create(ctx, newCustomer(t, "A", "B", fmt.Sprintf("a%d@example.com", i), "", ""))
		require.NoError(t, err)
	}
	svc := NewService(repo)

	_, err := svc.Seed(ctx, 10)
	require.ErrorIs(t, err, ErrAlreadySeeded)
}

func TestSeed_ValidatesCount(t *testing.T) {
	svc := NewService(memory.NewRepository())
	_, err := svc.Seed(context.Background(), 0)
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Seed(context.Background(), MaxSeedCount+1)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestUniqueEmail_AppendsCounter(t *testing.T) {
	seen := map[string]struct{}{}
	assert.Equal(t, "mary.oneil@example.com", uniqueEmail("Mary", "O'Neil", seen))
	assert.Equal(t, "mary.oneil1@example.com", uniqueEmail("Mary", "O'Neil", seen))
	assert.Equal(t, "mary.oneil2@example.com", uniqueEmail("Mary", "O'Neil", seen))
}
