package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	customerdomain "github.com/verdavida/lawncare/internal/domains/customers/domain"
	customerports "github.com/verdavida/lawncare/internal/domains/customers/ports"
)

const tracerName = "github.com/verdavida/lawncare/internal/domains/customers/adapters/observability/service"

// Service decorates the customer service with tracing, logging, and metrics.
type Service struct {
	inner   customerports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core customer service.
func New(inner customerports.Service, opts ...Option) customerports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) Search(ctx context.Context, query string, maxResults int) ([]*customerdomain.Customer, error) {
	ctx, span := s.tracer.Start(ctx, "CustomerService.Search",
		trace.WithAttributes(attribute.Int("customer.search.max_results", maxResults)))
	defer span.End()

	result, err := s.inner.Search(ctx, query, maxResults)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to search customers", slog.String("query", query))
	}
	span.SetAttributes(attribute.Int("customer.search.matches", len(result)))
	s.logInfo(ctx, "customers searched", slog.String("query", query), slog.Int("matches", len(result)))
	return result, nil
}

func (s *Service) Seed(ctx context.Context, count int) (customerports.SeedResult, error) {
	ctx, span := s.tracer.Start(ctx, "CustomerService.Seed", trace.WithAttributes(attribute.Int("customer.seed.count", count)))
	defer span.End()

	s.logInfo(ctx, "seeding customers", slog.Int("count", count))
	result, err := s.inner.Seed(ctx, count)
	if err != nil {
		return result, s.handleError(ctx, span, err, "failed to seed customers", slog.Int("count", count))
	}
	s.metrics.recordSeeded(ctx, result.Count)
	s.logInfo(ctx, "customers seeded", slog.Int("count", result.Count))
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	customersSeeded metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	customersSeeded, _ := m.Int64Counter("customers.service.customers_seeded", metric.WithDescription("Number of generated customers inserted"))
	return serviceMetrics{customersSeeded: customersSeeded}
}

func (m serviceMetrics) recordSeeded(ctx context.Context, count int) {
	if m.customersSeeded != nil {
		m.customersSeeded.Add(ctx, int64(count))
	}
}

var _ customerports.Service = (*Service)(nil)
