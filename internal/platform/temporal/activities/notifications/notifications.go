package notifications

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	"github.com/verdavida/lawncare/internal/domains/notifications/domain"
	"github.com/verdavida/lawncare/internal/shared/events"
)

const (
	// CustomerCreatedActivityName logs a newly created customer.
	CustomerCreatedActivityName = "notifications.activities.CustomerCreated"
	// EstimateSentActivityName emails a sent estimate to the customer.
	EstimateSentActivityName = "notifications.activities.EstimateSent"
)

// Handlers is the notification pipeline the activities delegate to.
type Handlers interface {
	CustomerCreated(ctx context.Context, evt events.CustomerCreated)
	EstimateSent(ctx context.Context, evt events.EstimateSent) domain.Delivery
}

// Activities wraps the notification handlers for a Temporal worker.
type Activities struct {
	handlers Handlers
}

// NewActivities wires the notification handlers into the activities bundle.
func NewActivities(handlers Handlers) *Activities {
	return &Activities{handlers: handlers}
}

// CustomerCreated runs the customer-created handler. It fails only when unwired.
func (a *Activities) CustomerCreated(ctx context.Context, evt events.CustomerCreated) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.handlers == nil {
		logger.Error("customer created activity not initialized", "customerId", evt.CustomerID)
		return errors.New("customer created activity not initialized")
	}
	a.handlers.CustomerCreated(ctx, evt)
	logger.Info("CustomerCreated activity completed", "customerId", evt.CustomerID)
	return nil
}

// EstimateSent runs the estimate email pipeline and reports its terminal state.
// Pipeline failures are part of the result, not activity errors.
func (a *Activities) EstimateSent(ctx context.Context, evt events.EstimateSent) (domain.Outcome, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.handlers == nil {
		logger.Error("estimate sent activity not initialized", "estimateId", evt.EstimateID)
		return "", errors.New("estimate sent activity not initialized")
	}
	logger.Info("EstimateSent activity started", "estimateId", evt.EstimateID, "estimateNumber", evt.EstimateNumber)
	delivery := a.handlers.EstimateSent(ctx, evt)
	logger.Info("EstimateSent activity completed",
		"estimateId", evt.EstimateID,
		"outcome", string(delivery.Outcome),
		"weather", string(delivery.Weather),
	)
	return delivery.Outcome, nil
}
