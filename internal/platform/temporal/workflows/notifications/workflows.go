package notifications

import (
	"go.temporal.io/sdk/workflow"

	"github.com/verdavida/lawncare/internal/domains/notifications/domain"
	"github.com/verdavida/lawncare/internal/platform/temporal/sequences"
	"github.com/verdavida/lawncare/internal/shared/events"
)

const (
	// CustomerCreatedWorkflowName is the registered name of the customer-created workflow.
	CustomerCreatedWorkflowName = "notifications.workflows.CustomerCreated"
	// EstimateSentWorkflowName is the registered name of the estimate-sent workflow.
	EstimateSentWorkflowName = "notifications.workflows.EstimateSent"
	// TaskQueue is consumed by the notifications worker.
	TaskQueue = "NOTIFICATIONS"
)

// CustomerCreatedInput is the workflow payload for a customer-created event.
type CustomerCreatedInput struct {
	Event   events.CustomerCreated
	TraceID string
}

// EstimateSentInput is the workflow payload for an estimate-sent event.
type EstimateSentInput struct {
	Event   events.EstimateSent
	TraceID string
}

// CustomerCreatedWorkflow delivers one customer-created event.
func CustomerCreatedWorkflow(ctx workflow.Context, input CustomerCreatedInput) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("CustomerCreatedWorkflow started", withTraceID(input.TraceID, "customerId", input.Event.CustomerID)...)
	if err := sequences.RunCustomerCreatedSequence(ctx, input.Event); err != nil {
		logger.Error("CustomerCreatedWorkflow failed", withTraceID(input.TraceID, "customerId", input.Event.CustomerID, "error", err)...)
		return err
	}
	logger.Info("CustomerCreatedWorkflow completed", withTraceID(input.TraceID, "customerId", input.Event.CustomerID)...)
	return nil
}

// EstimateSentWorkflow delivers one estimate-sent event and returns the delivery outcome.
func EstimateSentWorkflow(ctx workflow.Context, input EstimateSentInput) (domain.Outcome, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("EstimateSentWorkflow started", withTraceID(input.TraceID, "estimateId", input.Event.EstimateID)...)
	outcome, err := sequences.RunEstimateSentSequence(ctx, input.Event)
	if err != nil {
		logger.Error("EstimateSentWorkflow failed", withTraceID(input.TraceID, "estimateId", input.Event.EstimateID, "error", err)...)
		return "", err
	}
	logger.Info("EstimateSentWorkflow completed", withTraceID(input.TraceID, "estimateId", input.Event.EstimateID, "outcome", string(outcome))...)
	return outcome, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
