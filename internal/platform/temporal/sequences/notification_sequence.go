package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/verdavida/lawncare/internal/domains/notifications/domain"
	notificationactivities "github.com/verdavida/lawncare/internal/platform/temporal/activities/notifications"
	"github.com/verdavida/lawncare/internal/shared/events"
)

// notificationOptions gives each delivery exactly one attempt.
var notificationOptions = workflow.ActivityOptions{
	StartToCloseTimeout: 2 * time.Minute,
	RetryPolicy: &temporal.RetryPolicy{
		MaximumAttempts: 1,
	},
}

// RunCustomerCreatedSequence executes the customer-created activity once.
func RunCustomerCreatedSequence(ctx workflow.Context, evt events.CustomerCreated) error {
	logger := workflow.GetLogger(ctx)
	err := workflow.ExecuteActivity(
		workflow.WithActivityOptions(ctx, notificationOptions),
		notificationactivities.CustomerCreatedActivityName,
		evt,
	).Get(ctx, nil)
	if err != nil {
		logger.Error("customer created sequence failed", "customerId", evt.CustomerID, "error", err)
		return err
	}
	return nil
}

// RunEstimateSentSequence executes the estimate email activity once and returns its outcome.
func RunEstimateSentSequence(ctx workflow.Context, evt events.EstimateSent) (domain.Outcome, error) {
	logger := workflow.GetLogger(ctx)
	var outcome domain.Outcome
	err := workflow.ExecuteActivity(
		workflow.WithActivityOptions(ctx, notificationOptions),
		notificationactivities.EstimateSentActivityName,
		evt,
	).Get(ctx, &outcome)
	if err != nil {
		logger.Error("estimate sent sequence failed", "estimateId", evt.EstimateID, "error", err)
		return "", err
	}
	logger.Info("estimate sent sequence finished", "estimateId", evt.EstimateID, "outcome", string(outcome))
	return outcome, nil
}
