package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	estimatetypes "github.com/verdavida/lawncare/internal/domains/estimates/application/types"
	estimateports "github.com/verdavida/lawncare/internal/domains/estimates/ports"
)

const tracerName = "github.com/verdavida/lawncare/internal/domains/estimates/adapters/observability/service"

// Service decorates the estimate service with tracing and logging.
type Service struct {
	inner  estimateports.Service
	tracer trace.Tracer
	logger *slog.Logger
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

// New wraps the core estimate service.
func New(inner estimateports.Service, opts ...Option) estimateports.Service {
	s := &Service{
		inner:  inner,
		tracer: nooptrace.NewTracerProvider().Tracer(tracerName),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
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

func (s *Service) CreateEstimate(ctx context.Context, input estimatetypes.CreateEstimateInput) (*estimatetypes.EstimateProjection, error) {
	ctx, span := s.tracer.Start(ctx, "EstimateService.CreateEstimate",
		trace.WithAttributes(
			attribute.Int("estimate.line_items", len(input.LineItems)),
			attribute.Bool("estimate.idempotent", input.IdempotencyKey != ""),
		))
	defer span.End()

	s.logInfo(ctx, "creating estimate", slog.String("customer.email", input.Customer.Email))
	result, err := s.inner.CreateEstimate(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create estimate", slog.String("customer.email", input.Customer.Email))
	}
	span.SetAttributes(estimateAttributes(result)...)
	s.logInfo(ctx, "estimate created",
		slog.Int64("estimate.id", result.Entity.ID),
		slog.String("estimate.number", result.Entity.Number),
		slog.String("status", string(result.Entity.Status)),
		slog.String("total", result.Derived.TotalAmount.StringFixed(2)))
	return result, nil
}

func (s *Service) SendEstimate(ctx context.Context, id int64) (*estimatetypes.EstimateProjection, error) {
	ctx, span := s.tracer.Start(ctx, "EstimateService.SendEstimate", trace.WithAttributes(attribute.Int64("estimate.id", id)))
	defer span.End()

	s.logInfo(ctx, "sending estimate", slog.Int64("estimate.id", id))
	result, err := s.inner.SendEstimate(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to send estimate", slog.Int64("estimate.id", id))
	}
	span.SetAttributes(estimateAttributes(result)...)
	s.logInfo(ctx, "estimate sent", slog.Int64("estimate.id", id), slog.String("estimate.number", result.Entity.Number))
	return result, nil
}

func (s *Service) GetEstimate(ctx context.Context, id int64) (*estimatetypes.EstimateProjection, error) {
	ctx, span := s.tracer.Start(ctx, "EstimateService.GetEstimate", trace.WithAttributes(attribute.Int64("estimate.id", id)))
	defer span.End()

	result, err := s.inner.GetEstimate(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load estimate", slog.Int64("estimate.id", id))
	}
	span.SetAttributes(estimateAttributes(result)...)
	return result, nil
}

func (s *Service) ListJobs(ctx context.Context, input estimatetypes.ListJobsInput) ([]*estimatetypes.EstimateProjection, error) {
	ctx, span := s.tracer.Start(ctx, "EstimateService.ListJobs",
		trace.WithAttributes(attribute.String("jobs.status", input.Status), attribute.Bool("jobs.search", input.Search != "")))
	defer span.End()

	result, err := s.inner.ListJobs(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list jobs", slog.String("status", input.Status))
	}
	span.SetAttributes(attribute.Int("jobs.count", len(result)))
	return result, nil
}

func (s *Service) CompleteJob(ctx context.Context, input estimatetypes.CompleteJobInput) (*estimatetypes.EstimateProjection, error) {
	ctx, span := s.tracer.Start(ctx, "EstimateService.CompleteJob", trace.WithAttributes(attribute.Int64("estimate.id", input.EstimateID)))
	defer span.End()

	s.logInfo(ctx, "completing job", slog.Int64("estimate.id", input.EstimateID))
	result, err := s.inner.CompleteJob(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to complete job", slog.Int64("estimate.id", input.EstimateID))
	}
	s.logInfo(ctx, "job completed", slog.Int64("estimate.id", input.EstimateID),
		slog.String("total", result.Derived.TotalAmount.StringFixed(2)))
	return result, nil
}

func (s *Service) ExpireOverdue(ctx context.Context) (int, error) {
	ctx, span := s.tracer.Start(ctx, "EstimateService.ExpireOverdue")
	defer span.End()

	count, err := s.inner.ExpireOverdue(ctx)
	if err != nil {
		return 0, s.handleError(ctx, span, err, "failed to expire overdue estimates")
	}
	span.SetAttributes(attribute.Int("estimates.expired", count))
	return count, nil
}

func estimateAttributes(p *estimatetypes.EstimateProjection) []attribute.KeyValue {
	if p == nil || p.Entity == nil {
		return nil
	}
	return []attribute.KeyValue{
		attribute.Int64("estimate.id", p.Entity.ID),
		attribute.String("estimate.number", p.Entity.Number),
		attribute.String("estimate.status", string(p.Entity.Status)),
	}
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

var _ estimateports.Service = (*Service)(nil)
