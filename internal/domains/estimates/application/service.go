package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	catalogports "github.com/verdavida/lawncare/internal/domains/catalog/ports"
	customerdomain "github.com/verdavida/lawncare/internal/domains/customers/domain"
	customerports "github.com/verdavida/lawncare/internal/domains/customers/ports"
	estimatetypes "github.com/verdavida/lawncare/internal/domains/estimates/application/types"
	"github.com/verdavida/lawncare/internal/domains/estimates/domain"
	"github.com/verdavida/lawncare/internal/domains/estimates/ports"
	"github.com/verdavida/lawncare/internal/shared/events"
)

// DefaultValidity is how long an estimate stays open when the request sets no expiration.
const DefaultValidity = 30 * 24 * time.Hour

// Recorder receives business measurements from the estimate use cases.
type Recorder interface {
	EstimateReceived(ctx context.Context, total decimal.Decimal)
	EstimateSent(ctx context.Context)
	JobCompleted(ctx context.Context, total decimal.Decimal)
}

type nopRecorder struct{}

func (nopRecorder) EstimateReceived(context.Context, decimal.Decimal) {}
func (nopRecorder) EstimateSent(context.Context)                      {}
func (nopRecorder) JobCompleted(context.Context, decimal.Decimal)     {}

// Service orchestrates the estimate lifecycle.
type Service struct {
	repo        ports.Repository
	catalog     ports.Catalog
	publisher   events.Publisher
	recorder    Recorder
	idempotency ports.IdempotencyStore
	validate    *validator.Validate
	logger      *slog.Logger
	now         func() time.Time
	validity    time.Duration
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithPublisher sets where CustomerCreated and EstimateSent go.
func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithIdempotencyStore enables Idempotency-Key handling on CreateEstimate.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) { s.idempotency = store }
}

// WithValidityDays overrides the default expiration window; non-positive values are ignored.
func WithValidityDays(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.validity = time.Duration(days) * 24 * time.Hour
		}
	}
}

// NewService wires the estimate use cases. catalog may be nil, in which case
// service and equipment references are stored without lookup.
func NewService(repo ports.Repository, catalog ports.Catalog, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		catalog:   catalog,
		publisher: events.Discard,
		recorder:  nopRecorder{},
		validate:  newValidator(),
		logger:    slog.Default(),
		now:       time.Now,
		validity:  DefaultValidity,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateEstimate records a new estimate for the submitted customer and sends it.
func (s *Service) CreateEstimate(ctx context.Context, input estimatetypes.CreateEstimateInput) (*estimatetypes.EstimateProjection, error) {
	input.Customer = trimCustomer(input.Customer)
	if err := s.validate.StructCtx(ctx, input); err != nil {
		return nil, validationFailure(err)
	}
	key := strings.TrimSpace(input.IdempotencyKey)
	var fingerprint string
	if key != "" && s.idempotency != nil {
		fp, err := FingerprintCreateEstimate(input)
		if err != nil {
			return nil, persistenceError(msgCreateUnexpected, err)
		}
		replayed, err := s.replayCreate(ctx, key, fp)
		if err != nil || replayed != nil {
			return replayed, err
		}
		fingerprint = fp
	}
	now := s.now().UTC()
	expiration := now.Add(s.validity)
	if input.ExpirationDate != nil {
		if !input.ExpirationDate.After(now) {
			return nil, fieldError("expirationDate", "expiration date must be in the future")
		}
		expiration = input.ExpirationDate.UTC()
	}
	items, err := s.resolveLineItems(ctx, input.LineItems)
	if err != nil {
		return nil, err
	}

	var created *domain.Estimate
	err = s.repo.WithinTransaction(ctx, func(ctx context.Context, tx ports.Tx) error {
		customer, err := s.findOrCreateCustomer(ctx, tx.Customers(), input.Customer)
		if err != nil {
			return err
		}
		numbers, err := tx.EstimateNumbersWithPrefix(ctx, domain.NumberPrefix(now))
		if err != nil {
			return err
		}
		estimate, err := domain.NewEstimate(domain.NextNumber(now, numbers), customer, items,
			strings.TrimSpace(input.Notes), strings.TrimSpace(input.Terms), now, expiration)
		if err != nil {
			return mapError(err)
		}
		if err := tx.AddEstimate(ctx, estimate); err != nil {
			return err
		}
		if err := tx.AddLineItems(ctx, estimate.ID, estimate.LineItems); err != nil {
			return err
		}
		created = estimate
		return nil
	})
	if err != nil {
		return nil, s.createFailure(ctx, err)
	}
	s.recorder.EstimateReceived(ctx, created.TotalAmount())
	s.logger.InfoContext(ctx, "estimate created",
		slog.Int64("estimate.id", created.ID),
		slog.String("estimate.number", created.Number),
		slog.Int64("customer.id", created.CustomerID))
	if fingerprint != "" {
		s.rememberCreate(ctx, key, fingerprint, created.ID)
	}

	sent, err := s.SendEstimate(ctx, created.ID)
	if err == nil {
		return sent, nil
	}
	s.logger.WarnContext(ctx, "estimate created but not sent",
		slog.Int64("estimate.id", created.ID), slog.String("error", err.Error()))
	if current, getErr := s.repo.GetByID(ctx, created.ID); getErr == nil {
		return estimatetypes.NewEstimateProjection(current, now), nil
	}
	return estimatetypes.NewEstimateProjection(created, now), nil
}

// trimCustomer strips surrounding whitespace so padded values validate and match stored customers.
func trimCustomer(c estimatetypes.CustomerInput) estimatetypes.CustomerInput {
	return estimatetypes.CustomerInput{
		FirstName:  strings.TrimSpace(c.FirstName),
		LastName:   strings.TrimSpace(c.LastName),
		Email:      strings.TrimSpace(c.Email),
		Phone:      strings.TrimSpace(c.Phone),
		Address:    strings.TrimSpace(c.Address),
		City:       strings.TrimSpace(c.City),
		State:      strings.TrimSpace(c.State),
		PostalCode: strings.TrimSpace(c.PostalCode),
	}
}

func (s *Service) createFailure(ctx context.Context, err error) error {
	var validation *ValidationError
	var persistence *PersistenceError
	switch {
	case errors.As(err, &validation), errors.As(err, &persistence), errors.Is(err, ErrInvalidInput):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		s.logger.ErrorContext(ctx, "estimate creation aborted", slog.String("error", err.Error()))
		return persistenceError(msgCreateUnexpected, err)
	default:
		s.logger.ErrorContext(ctx, "database error creating estimate", slog.String("error", err.Error()))
		return persistenceError(msgCreateDatabase, err)
	}
}

// findOrCreateCustomer reuses the oldest active customer with the email or creates
// one, publishing CustomerCreated for new customers.
func (s *Service) findOrCreateCustomer(ctx context.Context, store ports.CustomerStore, input estimatetypes.CustomerInput) (*customerdomain.Customer, error) {
	existing, err := store.FindActiveByEmail(ctx, input.Email)
	switch {
	case err == nil:
		return existing, nil
	case !errors.Is(err, customerports.ErrNotFound):
		s.logger.ErrorContext(ctx, "customer lookup failed", slog.String("error", err.Error()))
		return nil, persistenceError(msgCustomer, err)
	}
	customer, err := customerdomain.NewCustomer(customerdomain.Contact{
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Email:      input.Email,
		Phone:      input.Phone,
		Address:    input.Address,
		City:       input.City,
		State:      input.State,
		PostalCode: input.PostalCode,
	})
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := store.Create(ctx, customer)
	if err != nil {
		s.logger.ErrorContext(ctx, "customer insert failed", slog.String("error", err.Error()))
		return nil, persistenceError(msgCustomer, err)
	}
	s.publish(ctx, events.CustomerCreated{
		CustomerID: saved.ID,
		Email:      saved.Email,
		CreatedAt:  saved.CreatedAt,
	})
	return saved, nil
}

func (s *Service) resolveLineItems(ctx context.Context, inputs []estimatetypes.LineItemInput) ([]domain.LineItem, error) {
	items := make([]domain.LineItem, 0, len(inputs))
	for i, in := range inputs {
		item := domain.NewLineItem(strings.TrimSpace(in.Description), in.Quantity, in.UnitPrice, in.ServiceID, in.EquipmentID)
		if s.catalog != nil && in.ServiceID != nil {
			svc, err := s.catalog.ServiceByID(ctx, *in.ServiceID)
			if err != nil && !errors.Is(err, catalogports.ErrNotFound) {
				return nil, persistenceError(msgCreateUnexpected, err)
			}
			if err != nil || !svc.IsActive {
				return nil, fieldError(fmt.Sprintf("lineItems[%d].serviceId", i), "service does not exist or is inactive")
			}
			item.ServiceName = svc.Name
		}
		if s.catalog != nil && in.EquipmentID != nil {
			eq, err := s.catalog.EquipmentByID(ctx, *in.EquipmentID)
			if err != nil && !errors.Is(err, catalogports.ErrNotFound) {
				return nil, persistenceError(msgCreateUnexpected, err)
			}
			if err != nil || !eq.IsActive {
				return nil, fieldError(fmt.Sprintf("lineItems[%d].equipmentId", i), "equipment does not exist or is inactive")
			}
			item.EquipmentName = eq.Name
		}
		items = append(items, item)
	}
	return items, nil
}

// SendEstimate moves a draft to Sent and publishes EstimateSent. Sending an
// already sent estimate returns it unchanged without publishing again.
func (s *Service) SendEstimate(ctx context.Context, id int64) (*estimatetypes.EstimateProjection, error) {
	estimate, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, err
		}
		return nil, persistenceError(msgSendDatabase, err)
	}
	now := s.now().UTC()
	changed, err := estimate.MarkSent(now)
	if err != nil {
		return nil, err
	}
	if !changed {
		return estimatetypes.NewEstimateProjection(estimate, now), nil
	}
	if err := s.repo.Update(ctx, estimate, domain.StatusDraft); err != nil {
		if errors.Is(err, ports.ErrConcurrencyConflict) {
			return nil, err
		}
		s.logger.ErrorContext(ctx, "database error sending estimate",
			slog.Int64("estimate.id", id), slog.String("error", err.Error()))
		return nil, persistenceError(msgSendDatabase, err)
	}
	s.recorder.EstimateSent(ctx)
	s.publish(ctx, sentEvent(estimate, now))
	return estimatetypes.NewEstimateProjection(estimate, now), nil
}

func (s *Service) GetEstimate(ctx context.Context, id int64) (*estimatetypes.EstimateProjection, error) {
	estimate, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return estimatetypes.NewEstimateProjection(estimate, s.now().UTC()), nil
}

// ListJobs returns non-cancelled estimates, newest first.
func (s *Service) ListJobs(ctx context.Context, input estimatetypes.ListJobsInput) ([]*estimatetypes.EstimateProjection, error) {
	status := ports.JobStatus(strings.ToLower(strings.TrimSpace(input.Status)))
	switch status {
	case "":
		status = ports.JobStatusAll
	case ports.JobStatusAll, ports.JobStatusOpen, ports.JobStatusCompleted:
	default:
		return nil, fieldError("status", "must be one of all, open, completed")
	}
	estimates, err := s.repo.ListJobs(ctx, ports.JobFilter{
		Status:     status,
		Search:     strings.TrimSpace(input.Search),
		CustomerID: input.CustomerID,
	})
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	out := make([]*estimatetypes.EstimateProjection, 0, len(estimates))
	for _, e := range estimates {
		out = append(out, estimatetypes.NewEstimateProjection(e, now))
	}
	return out, nil
}

// CompleteJob closes a Sent, Viewed or Accepted estimate and books its total.
func (s *Service) CompleteJob(ctx context.Context, input estimatetypes.CompleteJobInput) (*estimatetypes.EstimateProjection, error) {
	if err := s.validate.StructCtx(ctx, input); err != nil {
		return nil, validationFailure(err)
	}
	estimate, err := s.repo.GetByID(ctx, input.EstimateID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	from := estimate.Status
	if err := estimate.Complete(strings.TrimSpace(input.CompletionNotes), now); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, estimate, from); err != nil {
		if errors.Is(err, ports.ErrConcurrencyConflict) {
			return nil, err
		}
		return nil, persistenceError(msgCompleteDatabase, err)
	}
	s.recorder.JobCompleted(ctx, estimate.TotalAmount())
	return estimatetypes.NewEstimateProjection(estimate, now), nil
}

// ExpireOverdue marks outstanding estimates past their expiration date as Expired.
func (s *Service) ExpireOverdue(ctx context.Context) (int, error) {
	count, err := s.repo.ExpireOverdue(ctx, s.now().UTC())
	if err != nil {
		return 0, err
	}
	s.logger.InfoContext(ctx, "expired overdue estimates", slog.Int("count", count))
	return count, nil
}

// publish is best effort: failures are logged and never undo the state change.
func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish event",
			slog.String("event", event.EventName()), slog.String("error", err.Error()))
		return
	}
	s.logger.DebugContext(ctx, "published event", slog.String("event", event.EventName()))
}

// sentEvent snapshots the estimate by value.
func sentEvent(e *domain.Estimate, sentAt time.Time) events.EstimateSent {
	evt := events.EstimateSent{
		EstimateID:     e.ID,
		EstimateNumber: e.Number,
		CustomerID:     e.CustomerID,
		EstimateDate:   e.EstimateDate,
		ExpirationDate: e.ExpirationDate,
		Notes:          e.Notes,
		Terms:          e.Terms,
		LineItems:      make([]events.EstimateLineItem, 0, len(e.LineItems)),
		Subtotal:       e.Subtotal(),
		TaxAmount:      e.TaxAmount(),
		TotalAmount:    e.TotalAmount(),
		SentAt:         sentAt,
	}
	if c := e.Customer; c != nil {
		evt.CustomerFirstName = c.FirstName
		evt.CustomerLastName = c.LastName
		evt.CustomerEmail = c.Email
		evt.CustomerPostalCode = c.PostalCode
	}
	for _, li := range e.LineItems {
		evt.LineItems = append(evt.LineItems, events.EstimateLineItem{
			Description: li.Description,
			Quantity:    li.Quantity,
			UnitPrice:   li.UnitPrice,
			LineTotal:   li.LineTotal,
		})
	}
	return evt
}

var _ ports.Service = (*Service)(nil)
