package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogmemory "github.com/verdavida/lawncare/internal/domains/catalog/adapters/memory"
	catalogdomain "github.com/verdavida/lawncare/internal/domains/catalog/domain"
	customermemory "github.com/verdavida/lawncare/internal/domains/customers/adapters/memory"
	customerports "github.com/verdavida/lawncare/internal/domains/customers/ports"
	"github.com/verdavida/lawncare/internal/domains/estimates/adapters/memory"
	estimatetypes "github.com/verdavida/lawncare/internal/domains/estimates/application/types"
	"github.com/verdavida/lawncare/internal/domains/estimates/domain"
	"github.com/verdavida/lawncare/internal/domains/estimates/ports"
	"github.com/verdavida/lawncare/internal/shared/events"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) named(name string) []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []events.Event
	for _, e := range p.events {
		if e.EventName() == name {
			out = append(out, e)
		}
	}
	return out
}

type recordingRecorder struct {
	received int
	sent     int
	quoted   decimal.Decimal
	booked   decimal.Decimal
}

func (r *recordingRecorder) EstimateReceived(_ context.Context, total decimal.Decimal) {
	r.received++
	r.quoted = r.quoted.Add(total)
}
func (r *recordingRecorder) EstimateSent(context.Context) { r.sent++ }
func (r *recordingRecorder) JobCompleted(_ context.Context, total decimal.Decimal) {
	r.booked = r.booked.Add(total)
}

type fixture struct {
	svc       *Service
	repo      *memory.Repository
	customers *customermemory.Repository
	catalog   *catalogmemory.Repository
	publisher *recordingPublisher
	recorder  *recordingRecorder
	now       time.Time
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		customers: customermemory.NewRepository(),
		catalog:   catalogmemory.NewRepository(),
		publisher: &recordingPublisher{},
		recorder:  &recordingRecorder{},
		now:       time.Date(2025, 3, 1, 14, 30, 0, 0, time.UTC),
	}
	f.repo = memory.NewRepository(f.customers)
	base := []Option{
		WithClock(func() time.Time { return f.now }),
		WithPublisher(f.publisher),
		WithRecorder(f.recorder),
	}
	f.svc = NewService(f.repo, f.catalog, append(base, opts...)...)
	return f
}

func janeRequest() estimatetypes.CreateEstimateInput {
	return estimatetypes.CreateEstimateInput{
		Customer: estimatetypes.CustomerInput{
			FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", Phone: "(410) 555-0199",
			Address: "12 Severn Ave", City: "Annapolis", State: "MD", PostalCode: "21403",
		},
		LineItems: []estimatetypes.LineItemInput{{
			Description: "Lawn Mowing",
			Quantity:    decimal.NewFromInt(2),
			UnitPrice:   decimal.RequireFromString("25.00"),
			LineTotal:   decimal.RequireFromString("50.00"),
		}},
		Notes: "Front and back yard",
		Terms: "Net 15",
	}
}

// insertDraft stores a Draft estimate without going through CreateEstimate.
func (f *fixture) insertDraft(t *testing.T, email string) *domain.Estimate {
	t.Helper()
	var created *domain.Estimate
	err := f.repo.WithinTransaction(context.Background(), func(ctx context.Context, tx ports.Tx) error {
		customer, err := f.svc.findOrCreateCustomer(ctx, tx.Customers(), estimatetypes.CustomerInput{
			FirstName: "Pat", LastName: "Lee", Email: email, PostalCode: "21401",
		})
		if err != nil {
			return err
		}
		numbers, err := tx.EstimateNumbersWithPrefix(ctx, domain.NumberPrefix(f.now))
		if err != nil {
			return err
		}
		items := []domain.LineItem{
			domain.NewLineItem("Leaf Removal", decimal.NewFromInt(1), decimal.RequireFromString("55.00"), nil, nil),
			domain.NewLineItem("Core Aerator", decimal.NewFromInt(3), decimal.RequireFromString("45.00"), nil, nil),
		}
		e, err := domain.NewEstimate(domain.NextNumber(f.now, numbers), customer, items, "", "", f.now, f.now.AddDate(0, 0, 30))
		if err != nil {
			return err
		}
		if err := tx.AddEstimate(ctx, e); err != nil {
			return err
		}
		if err := tx.AddLineItems(ctx, e.ID, e.LineItems); err != nil {
			return err
		}
		created = e
		return nil
	})
	require.NoError(t, err)
	return created
}

func (f *fixture) setStatus(t *testing.T, id int64, status domain.Status) {
	t.Helper()
	e, err := f.repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	from := e.Status
	e.Status = status
	require.NoError(t, f.repo.Update(context.Background(), e, from))
}

func TestCreateEstimate_NewCustomer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.svc.CreateEstimate(ctx, janeRequest())
	require.NoError(t, err)

	e := result.Entity
	assert.Equal(t, "EST-20250301-0001", e.Number)
	assert.Equal(t, domain.StatusSent, e.Status)
	assert.True(t, result.Derived.Subtotal.Equal(decimal.RequireFromString("50.00")))
	assert.True(t, result.Derived.TaxAmount.IsZero())
	assert.True(t, result.Derived.TotalAmount.Equal(result.Derived.Subtotal))
	assert.Equal(t, 30, result.Derived.DaysUntilExpiration)
	assert.False(t, result.Derived.IsExpired)
	assert.Equal(t, f.now.AddDate(0, 0, 30), e.ExpirationDate)
	require.Len(t, e.LineItems, 1)
	assert.NotZero(t, e.LineItems[0].ID)
	require.NotNil(t, e.Customer)
	assert.Equal(t, "jane@example.com", e.Customer.Email)

	created := f.publisher.named(events.CustomerCreatedName)
	require.Len(t, created, 1)
	assert.Equal(t, "jane@example.com", created[0].(events.CustomerCreated).Email)
	assert.Equal(t, e.CustomerID, created[0].(events.CustomerCreated).CustomerID)
	require.Len(t, f.publisher.named(events.EstimateSentName), 1)

	assert.Equal(t, 1, f.recorder.received)
	assert.Equal(t, 1, f.recorder.sent)
	assert.True(t, f.recorder.quoted.Equal(decimal.NewFromInt(50)))
}

func TestCreateEstimate_ReusesActiveCustomerAndIncrementsNumber(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.CreateEstimate(ctx, janeRequest())
	require.NoError(t, err)
	req := janeRequest()
	req.Customer.Email = "  JANE@example.com "
	second, err := f.svc.CreateEstimate(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, "EST-20250301-0002", second.Entity.Number)
	assert.Equal(t, first.Entity.CustomerID, second.Entity.CustomerID)
	assert.Len(t, f.publisher.named(events.CustomerCreatedName), 1)
	count, err := f.customers.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	f.now = f.now.Add(24 * time.Hour)
	third, err := f.svc.CreateEstimate(ctx, janeRequest())
	require.NoError(t, err)
	assert.Equal(t, "EST-20250302-0001", third.Entity.Number)
}

func TestCreateEstimate_TrimsPaddedCustomerFields(t *testing.T) {
	f := newFixture(t)
	req := janeRequest()
	req.Customer.FirstName = "  Jane "
	req.Customer.Email = "  JANE@example.com "
	req.Customer.PostalCode = " 21403 "

	result, err := f.svc.CreateEstimate(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result.Entity.Customer)
	assert.Equal(t, "Jane", result.Entity.Customer.FirstName)
	assert.Equal(t, "jane@example.com", result.Entity.Customer.Email)
	assert.Equal(t, "21403", result.Entity.Customer.PostalCode)

	blank := janeRequest()
	blank.Customer.City = "   "
	_, err = f.svc.CreateEstimate(context.Background(), blank)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "customer.city")
}

func TestCreateEstimate_ValidationFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*estimatetypes.CreateEstimateInput)
		field  string
	}{
		{name: "no line items", mutate: func(in *estimatetypes.CreateEstimateInput) { in.LineItems = nil }, field: "lineItems"},
		{name: "bad email", mutate: func(in *estimatetypes.CreateEstimateInput) { in.Customer.Email = "not-an-email" }, field: "customer.email"},
		{name: "missing first name", mutate: func(in *estimatetypes.CreateEstimateInput) { in.Customer.FirstName = "" }, field: "customer.firstName"},
		{name: "line total mismatch", mutate: func(in *estimatetypes.CreateEstimateInput) {
			in.LineItems[0].LineTotal = decimal.NewFromInt(49)
		}, field: "lineItems[0].lineTotal"},
		{name: "zero quantity", mutate: func(in *estimatetypes.CreateEstimateInput) {
			in.LineItems[0].Quantity = decimal.Zero
			in.LineItems[0].LineTotal = decimal.Zero
		}, field: "lineItems[0].quantity"},
		{name: "negative price", mutate: func(in *estimatetypes.CreateEstimateInput) {
			in.LineItems[0].UnitPrice = decimal.NewFromInt(-1)
			in.LineItems[0].LineTotal = decimal.NewFromInt(-2)
		}, field: "lineItems[0].unitPrice"},
		{name: "expiration in the past", mutate: func(in *estimatetypes.CreateEstimateInput) {
			past := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
			in.ExpirationDate = &past
		}, field: "expirationDate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := janeRequest()
			tt.mutate(&req)
			_, err := f.svc.CreateEstimate(ctx, req)
			require.ErrorIs(t, err, ErrInvalidInput)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
	assert.Empty(t, f.publisher.events)
}

func TestCreateEstimate_ResolvesCatalogReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	services := []*catalogdomain.Service{
		{Name: "Lawn Aeration", BasePrice: decimal.RequireFromString("120.00"), Type: catalogdomain.ServiceTypeAeration, IsActive: true},
		{Name: "Snow Removal", BasePrice: decimal.RequireFromString("80.00"), Type: catalogdomain.ServiceTypeSnowRemoval, IsActive: true},
	}
	require.NoError(t, f.catalog.InsertServices(ctx, services))
	f.catalog.Deactivate(services[1].ID)

	req := janeRequest()
	req.LineItems[0].ServiceID = &services[0].ID
	result, err := f.svc.CreateEstimate(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "Lawn Aeration", result.Entity.LineItems[0].ServiceName)

	req.LineItems[0].ServiceID = &services[1].ID
	_, err = f.svc.CreateEstimate(ctx, req)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "lineItems[0].serviceId")

	missing := int64(999)
	req.LineItems[0].ServiceID = nil
	req.LineItems[0].EquipmentID = &missing
	_, err = f.svc.CreateEstimate(ctx, req)
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "lineItems[0].equipmentId")
}

func TestCreateEstimate_PublishFailureDoesNotFailCreate(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = errors.New("broker down")

	result, err := f.svc.CreateEstimate(context.Background(), janeRequest())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSent, result.Entity.Status)
	assert.Len(t, f.publisher.named(events.EstimateSentName), 1)
}

type failingLineItemsTx struct{ ports.Tx }

func (failingLineItemsTx) AddLineItems(context.Context, int64, []domain.LineItem) error {
	return errors.New("pq: insert or update on table violates foreign key constraint")
}

type failingRepo struct{ *memory.Repository }

func (r failingRepo) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx ports.Tx) error) error {
	return r.Repository.WithinTransaction(ctx, func(ctx context.Context, tx ports.Tx) error {
		return fn(ctx, failingLineItemsTx{tx})
	})
}

func TestCreateEstimate_RollsBackOnFailure(t *testing.T) {
	f := newFixture(t)
	svc := NewService(failingRepo{f.repo}, f.catalog, WithClock(func() time.Time { return f.now }), WithPublisher(f.publisher))
	ctx := context.Background()

	_, err := svc.CreateEstimate(ctx, janeRequest())
	require.ErrorIs(t, err, ErrPersistence)
	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, msgCreateDatabase, err.Error())
	assert.NotContains(t, err.Error(), "pq:")

	_, err = f.customers.FindActiveByEmail(ctx, "jane@example.com")
	require.ErrorIs(t, err, customerports.ErrNotFound)
	jobs, err := f.repo.ListJobs(ctx, ports.JobFilter{Status: ports.JobStatusAll})
	require.NoError(t, err)
	assert.Empty(t, jobs)
	assert.Empty(t, f.publisher.named(events.EstimateSentName))
}

func TestSendEstimate_DraftPublishesSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	var target *domain.Estimate
	for i := 0; i < 7; i++ {
		target = f.insertDraft(t, fmt.Sprintf("pat%d@example.com", i))
	}
	require.Equal(t, int64(7), target.ID)

	result, err := f.svc.SendEstimate(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSent, result.Entity.Status)

	stored, err := f.repo.GetByID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSent, stored.Status)

	sent := f.publisher.named(events.EstimateSentName)
	require.Len(t, sent, 1)
	evt := sent[0].(events.EstimateSent)
	assert.Equal(t, int64(7), evt.EstimateID)
	assert.Equal(t, target.Number, evt.EstimateNumber)
	assert.Equal(t, "pat6@example.com", evt.CustomerEmail)
	assert.Equal(t, "21401", evt.CustomerPostalCode)
	require.Len(t, evt.LineItems, 2)
	assert.Equal(t, "Leaf Removal", evt.LineItems[0].Description)
	assert.True(t, evt.LineItems[1].LineTotal.Equal(decimal.NewFromInt(135)))
	assert.True(t, evt.Subtotal.Equal(decimal.NewFromInt(190)))
	assert.True(t, evt.TotalAmount.Equal(evt.Subtotal))
	assert.Equal(t, f.now, evt.SentAt)
}

func TestSendEstimate_IsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	draft := f.insertDraft(t, "pat@example.com")

	first, err := f.svc.SendEstimate(ctx, draft.ID)
	require.NoError(t, err)
	second, err := f.svc.SendEstimate(ctx, draft.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusSent, second.Entity.Status)
	assert.Equal(t, first.Entity.UpdatedAt, second.Entity.UpdatedAt)
	assert.Len(t, f.publisher.named(events.EstimateSentName), 1)
	assert.Equal(t, 1, f.recorder.sent)
}

func TestSendEstimate_ConflictsLeaveStatusUnchanged(t *testing.T) {
	for _, status := range []domain.Status{domain.StatusRejected, domain.StatusExpired, domain.StatusCancelled} {
		t.Run(string(status), func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			draft := f.insertDraft(t, "pat@example.com")
			f.setStatus(t, draft.ID, status)

			_, err := f.svc.SendEstimate(ctx, draft.ID)
			require.ErrorIs(t, err, ErrInvalidTransition)

			stored, err := f.repo.GetByID(ctx, draft.ID)
			require.NoError(t, err)
			assert.Equal(t, status, stored.Status)
			assert.Empty(t, f.publisher.named(events.EstimateSentName))
		})
	}
}

func TestSendEstimate_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.SendEstimate(context.Background(), 42)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestListJobs_FiltersAndOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.insertDraft(t, "alpha@example.com")
	f.now = f.now.Add(time.Hour)
	b := f.insertDraft(t, "bravo@example.com")
	f.now = f.now.Add(time.Hour)
	c := f.insertDraft(t, "charlie@example.com")
	f.setStatus(t, b.ID, domain.StatusCompleted)
	f.setStatus(t, c.ID, domain.StatusCancelled)

	all, err := f.svc.ListJobs(ctx, estimatetypes.ListJobsInput{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, b.ID, all[0].Entity.ID)
	assert.Equal(t, a.ID, all[1].Entity.ID)

	open, err := f.svc.ListJobs(ctx, estimatetypes.ListJobsInput{Status: "Open"})
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, a.ID, open[0].Entity.ID)

	completed, err := f.svc.ListJobs(ctx, estimatetypes.ListJobsInput{Status: "completed"})
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, b.ID, completed[0].Entity.ID)

	search, err := f.svc.ListJobs(ctx, estimatetypes.ListJobsInput{Search: "ALPHA"})
	require.NoError(t, err)
	require.Len(t, search, 1)
	assert.Equal(t, a.ID, search[0].Entity.ID)

	byNumber, err := f.svc.ListJobs(ctx, estimatetypes.ListJobsInput{Search: b.Number})
	require.NoError(t, err)
	require.Len(t, byNumber, 1)

	byCustomer, err := f.svc.ListJobs(ctx, estimatetypes.ListJobsInput{CustomerID: &a.CustomerID})
	require.NoError(t, err)
	require.Len(t, byCustomer, 1)

	_, err = f.svc.ListJobs(ctx, estimatetypes.ListJobsInput{Status: "pending"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestCompleteJob(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	draft := f.insertDraft(t, "pat@example.com")

	_, err := f.svc.CompleteJob(ctx, estimatetypes.CompleteJobInput{EstimateID: draft.ID})
	require.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.svc.SendEstimate(ctx, draft.ID)
	require.NoError(t, err)
	result, err := f.svc.CompleteJob(ctx, estimatetypes.CompleteJobInput{EstimateID: draft.ID, CompletionNotes: " all done "})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, result.Entity.Status)
	assert.Equal(t, "all done", result.Entity.CompletionNotes)
	require.NotNil(t, result.Entity.CompletedDate)
	assert.True(t, f.recorder.booked.Equal(decimal.NewFromInt(190)))

	_, err = f.svc.CompleteJob(ctx, estimatetypes.CompleteJobInput{EstimateID: 404})
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestExpireOverdue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sent := f.insertDraft(t, "one@example.com")
	draft := f.insertDraft(t, "two@example.com")
	_, err := f.svc.SendEstimate(ctx, sent.ID)
	require.NoError(t, err)

	count, err := f.svc.ExpireOverdue(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	f.now = f.now.AddDate(0, 0, 31)
	count, err = f.svc.ExpireOverdue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	stored, err := f.repo.GetByID(ctx, sent.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusExpired, stored.Status)
	stored, err = f.repo.GetByID(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, stored.Status)
}

func TestCreateEstimate_IdempotencyKeyReplays(t *testing.T) {
	store := memory.NewIdempotencyStore()
	f := newFixture(t, WithIdempotencyStore(store))
	ctx := context.Background()

	req := janeRequest()
	req.IdempotencyKey = "retry-42"
	first, err := f.svc.CreateEstimate(ctx, req)
	require.NoError(t, err)

	req.LineItems[0].UnitPrice = decimal.RequireFromString("25")
	replayed, err := f.svc.CreateEstimate(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, first.Entity.ID, replayed.Entity.ID)
	assert.Equal(t, 1, f.recorder.received)
	assert.Len(t, f.publisher.named(events.EstimateSentName), 1)

	record, err := store.Get(ctx, "retry-42")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, first.Entity.ID, record.EstimateID)
}

func TestCreateEstimate_IdempotencyKeyConflict(t *testing.T) {
	f := newFixture(t, WithIdempotencyStore(memory.NewIdempotencyStore()))
	ctx := context.Background()

	req := janeRequest()
	req.IdempotencyKey = "retry-42"
	_, err := f.svc.CreateEstimate(ctx, req)
	require.NoError(t, err)

	req.Notes = "Back yard only"
	_, err = f.svc.CreateEstimate(ctx, req)
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)
}

func TestCreateEstimate_KeyIgnoredWithoutStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := janeRequest()
	req.IdempotencyKey = "retry-42"
	first, err := f.svc.CreateEstimate(ctx, req)
	require.NoError(t, err)
	second, err := f.svc.CreateEstimate(ctx, req)
	require.NoError(t, err)
	assert.NotEqual(t, first.Entity.ID, second.Entity.ID)
}

func TestFingerprintCreateEstimate(t *testing.T) {
	a := janeRequest()
	b := janeRequest()
	b.Customer.Email = "  JANE@example.com "
	b.LineItems[0].LineTotal = decimal.RequireFromString("50")
	b.IdempotencyKey = "ignored"

	fa, err := FingerprintCreateEstimate(a)
	require.NoError(t, err)
	fb, err := FingerprintCreateEstimate(b)
	require.NoError(t, err)
	assert.Equal(t, fa, fb)

	b.Terms = "Net 30"
	fc, err := FingerprintCreateEstimate(b)
	require.NoError(t, err)
	assert.NotEqual(t, fa, fc)
}
