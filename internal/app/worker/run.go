// Package worker runs the notification consumers: a Temporal worker or a Redis stream consumer.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/verdavida/lawncare/internal/app/config"
	notificationsapp "github.com/verdavida/lawncare/internal/domains/notifications/application"
	"github.com/verdavida/lawncare/internal/platform/eventbus"
	platformobservability "github.com/verdavida/lawncare/internal/platform/observability"
	platformtemporal "github.com/verdavida/lawncare/internal/platform/temporal"
	notificationactivities "github.com/verdavida/lawncare/internal/platform/temporal/activities/notifications"
	notificationworkflows "github.com/verdavida/lawncare/internal/platform/temporal/workflows/notifications"
)

const serviceName = "lawncare-worker"

// Run consumes integration events until ctx is cancelled or the process is interrupted.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName, platformobservability.Options{
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTLPEndpoint,
		OTLPInsecure: cfg.OTLPInsecure,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	handlers, err := NewNotificationHandlers(cfg, instruments)
	if err != nil {
		return err
	}

	switch cfg.EventBus {
	case config.EventBusRedis:
		return runRedisConsumer(ctx, cfg, logger, handlers)
	case config.EventBusTemporal:
		return runTemporalWorker(cfg, instruments, handlers)
	default:
		return errors.New("EVENT_BUS=memory dispatches inside the API process; the worker needs temporal or redis")
	}
}

func runTemporalWorker(cfg config.Config, instruments *platformobservability.Instruments, handlers *notificationsapp.Handlers) error {
	logger := instruments.Logger
	temporalClient, err := platformtemporal.Dial(instruments, platformtemporal.Settings{
		Address:    cfg.TemporalAddress,
		Namespace:  cfg.TemporalNamespace,
		Disabled:   cfg.TemporalDisabled,
		TracerName: "temporal-worker",
	})
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		return err
	}
	defer temporalClient.Close()

	activities := notificationactivities.NewActivities(handlers)
	w := worker.New(temporalClient, notificationworkflows.TaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(notificationworkflows.CustomerCreatedWorkflow, workflow.RegisterOptions{Name: notificationworkflows.CustomerCreatedWorkflowName})
	w.RegisterWorkflowWithOptions(notificationworkflows.EstimateSentWorkflow, workflow.RegisterOptions{Name: notificationworkflows.EstimateSentWorkflowName})
	w.RegisterActivityWithOptions(activities.CustomerCreated, activity.RegisterOptions{Name: notificationactivities.CustomerCreatedActivityName})
	w.RegisterActivityWithOptions(activities.EstimateSent, activity.RegisterOptions{Name: notificationactivities.EstimateSentActivityName})

	logger.Info("worker listening", slog.String("taskQueue", notificationworkflows.TaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return err
	}
	logger.Info("Temporal worker stopped")
	return nil
}

func runRedisConsumer(ctx context.Context, cfg config.Config, logger *slog.Logger, handlers *notificationsapp.Handlers) error {
	client, err := eventbus.ConnectRedis(ctx, cfg.Redis.URL)
	if err != nil {
		logger.Error("failed to connect to redis", slog.String("error", err.Error()))
		return err
	}
	bus, err := eventbus.NewRedisBus(ctx, client, cfg.Redis.Stream, cfg.Redis.Group, eventbus.WithRedisLogger(logger))
	if err != nil {
		_ = client.Close()
		return err
	}
	defer bus.Close()
	handlers.Register(bus)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-worker.InterruptCh():
			cancel()
		case <-runCtx.Done():
		}
	}()

	logger.Info("redis consumer listening", slog.String("stream", cfg.Redis.Stream), slog.String("group", cfg.Redis.Group))
	if err := bus.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("redis consumer exited with error", slog.String("error", err.Error()))
		return err
	}
	logger.Info("redis consumer stopped")
	return nil
}
