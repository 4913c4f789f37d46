package eventbus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	oteltrace "go.opentelemetry.io/otel/trace"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	notificationworkflows "github.com/verdavida/lawncare/internal/platform/temporal/workflows/notifications"
	"github.com/verdavida/lawncare/internal/shared/events"
)

// WorkflowStarter is the slice of the Temporal client the publisher needs.
type WorkflowStarter interface {
	ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error)
}

// TemporalPublisher starts one notification workflow per event and does not wait for it.
type TemporalPublisher struct {
	client    WorkflowStarter
	taskQueue string
	logger    *slog.Logger
}

// NewTemporalPublisher wires a Temporal client into the publisher.
func NewTemporalPublisher(c WorkflowStarter, logger *slog.Logger) *TemporalPublisher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &TemporalPublisher{
		client:    c,
		taskQueue: notificationworkflows.TaskQueue,
		logger:    logger.With(slog.String("bus", "temporal")),
	}
}

// Publish starts the workflow that handles event.
func (p *TemporalPublisher) Publish(ctx context.Context, event events.Event) error {
	if p == nil || p.client == nil {
		return errors.New("temporal publisher not configured")
	}
	if event == nil {
		return errors.New("temporal publisher: nil event")
	}
	traceID := workflowTraceID(ctx)
	var (
		workflowName string
		input        interface{}
	)
	switch evt := event.(type) {
	case events.CustomerCreated:
		workflowName = notificationworkflows.CustomerCreatedWorkflowName
		input = notificationworkflows.CustomerCreatedInput{Event: evt, TraceID: traceID}
	case events.EstimateSent:
		workflowName = notificationworkflows.EstimateSentWorkflowName
		input = notificationworkflows.EstimateSentInput{Event: evt, TraceID: traceID}
	default:
		return fmt.Errorf("%w: %s", events.ErrUnknownEvent, event.EventName())
	}

	options := client.StartWorkflowOptions{
		ID:                    WorkflowID(event),
		TaskQueue:             p.taskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE,
	}
	run, err := p.client.ExecuteWorkflow(ctx, options, workflowName, input)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) {
			p.logger.InfoContext(ctx, "notification workflow already started",
				slog.String("event", event.EventName()), slog.String("workflow_id", options.ID))
			return nil
		}
		return fmt.Errorf("start %s: %w", workflowName, err)
	}
	attrs := []any{slog.String("event", event.EventName()), slog.String("workflow_id", options.ID)}
	if run != nil {
		attrs = append(attrs, slog.String("run_id", run.GetRunID()))
	}
	p.logger.DebugContext(ctx, "notification workflow started", attrs...)
	return nil
}

// WorkflowID builds the "<event-name>-<uuid>" workflow id for an event.
func WorkflowID(event events.Event) string {
	return event.EventName() + "-" + uuid.NewString()
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}

var _ events.Publisher = (*TemporalPublisher)(nil)
