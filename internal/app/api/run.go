package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	lawncareserver "github.com/verdavida/lawncare/go"

	"github.com/verdavida/lawncare/internal/app/config"
	appworker "github.com/verdavida/lawncare/internal/app/worker"
	catalogmemory "github.com/verdavida/lawncare/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/verdavida/lawncare/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/verdavida/lawncare/internal/domains/catalog/application"
	catalogports "github.com/verdavida/lawncare/internal/domains/catalog/ports"
	customermemory "github.com/verdavida/lawncare/internal/domains/customers/adapters/memory"
	customerobs "github.com/verdavida/lawncare/internal/domains/customers/adapters/observability"
	customerpostgres "github.com/verdavida/lawncare/internal/domains/customers/adapters/persistence/postgres"
	customerapp "github.com/verdavida/lawncare/internal/domains/customers/application"
	customerports "github.com/verdavida/lawncare/internal/domains/customers/ports"
	estimatememory "github.com/verdavida/lawncare/internal/domains/estimates/adapters/memory"
	estimateobs "github.com/verdavida/lawncare/internal/domains/estimates/adapters/observability"
	estimatepostgres "github.com/verdavida/lawncare/internal/domains/estimates/adapters/persistence/postgres"
	estimateapp "github.com/verdavida/lawncare/internal/domains/estimates/application"
	estimateports "github.com/verdavida/lawncare/internal/domains/estimates/ports"
	"github.com/verdavida/lawncare/internal/platform/eventbus"
	"github.com/verdavida/lawncare/internal/platform/migrations"
	platformobservability "github.com/verdavida/lawncare/internal/platform/observability"
	platformpostgres "github.com/verdavida/lawncare/internal/platform/postgres"
	platformtemporal "github.com/verdavida/lawncare/internal/platform/temporal"
	"github.com/verdavida/lawncare/internal/shared/events"
)

const serviceName = "lawncare-api"

// Run boots the lawn care HTTP API with observability, repositories, and the event bus wired.
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
	decimal.MarshalJSONWithoutQuotes = true

	db, cleanupDB := platformpostgres.ConnectOrFallback(ctx, cfg.PostgresDSN, logger)
	defer cleanupDB()
	if db != nil {
		if err := migrations.Run(db); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	repos := buildRepositories(db)

	catalogService := catalogapp.NewService(repos.catalog)
	if cfg.SeedCatalog {
		seeded, err := catalogService.EnsureSeeded(ctx)
		if err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
		if seeded.Services > 0 || seeded.Equipment > 0 {
			logger.Info("catalog seeded", slog.Int("services", seeded.Services), slog.Int("equipment", seeded.Equipment))
		}
	}

	publisher, closeBus, err := buildPublisher(ctx, cfg, instruments)
	if err != nil {
		return err
	}
	defer closeBus()

	customerService := customerobs.New(
		customerapp.NewService(repos.customers, customerapp.WithLogger(logger)),
		customerobs.WithLogger(logger),
		customerobs.WithTracer(instruments.Tracer("internal.customers.application")),
		customerobs.WithMeter(instruments.Meter("internal.customers.application")),
	)
	estimateService := estimateobs.New(
		estimateapp.NewService(repos.estimates, catalogService,
			estimateapp.WithLogger(logger),
			estimateapp.WithPublisher(publisher),
			estimateapp.WithRecorder(estimateobs.NewRecorder(instruments.Meter("internal.estimates.application"))),
			estimateapp.WithValidityDays(cfg.Estimate.ValidityDays),
			estimateapp.WithIdempotencyStore(repos.idempotency),
		),
		estimateobs.WithLogger(logger),
		estimateobs.WithTracer(instruments.Tracer("internal.estimates.application")),
	)

	handlers := lawncareserver.ApiHandleFunctions{
		CatalogAPI:   lawncareserver.NewCatalogAPI(catalogService),
		CustomersAPI: lawncareserver.NewCustomersAPI(customerService),
		EstimatesAPI: lawncareserver.NewEstimatesAPI(estimateService),
		HealthAPI:    lawncareserver.NewHealthAPI(readinessChecks(db)),
		JobsAPI:      lawncareserver.NewJobsAPI(estimateService),
	}

	router := lawncareserver.NewRouter(handlers)
	router.Use(otelgin.Middleware(serviceName))
	addr := cfg.Addr()
	logger.Info("lawn care API listening", slog.String("addr", addr), slog.String("eventBus", string(cfg.EventBus)))
	if err := router.Run(addr); err != nil {
		logger.Error("lawn care API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

type repositories struct {
	catalog     catalogports.Repository
	customers   customerports.Repository
	estimates   estimateports.Repository
	idempotency estimateports.IdempotencyStore
}

// buildRepositories returns Postgres adapters when db is set and in-memory ones otherwise.
func buildRepositories(db *gorm.DB) repositories {
	if db != nil {
		return repositories{
			catalog:     catalogpostgres.NewRepository(db),
			customers:   customerpostgres.NewRepository(db),
			estimates:   estimatepostgres.NewRepository(db),
			idempotency: estimatepostgres.NewIdempotencyStore(db),
		}
	}
	customers := customermemory.NewRepository()
	return repositories{
		catalog:     catalogmemory.NewRepository(),
		customers:   customers,
		estimates:   estimatememory.NewRepository(customers),
		idempotency: estimatememory.NewIdempotencyStore(),
	}
}

// buildPublisher selects the configured event transport. Temporal and Redis
// fall back to the in-process bus when unreachable.
func buildPublisher(ctx context.Context, cfg config.Config, instruments *platformobservability.Instruments) (events.Publisher, func(), error) {
	logger := instruments.Logger
	switch cfg.EventBus {
	case config.EventBusTemporal:
		temporalClient, err := platformtemporal.Dial(instruments, platformtemporal.Settings{
			Address:   cfg.TemporalAddress,
			Namespace: cfg.TemporalNamespace,
			Disabled:  cfg.TemporalDisabled,
		})
		if err == nil {
			logger.Info("Temporal event publisher enabled", slog.String("namespace", cfg.TemporalNamespace))
			return eventbus.NewTemporalPublisher(temporalClient, logger), temporalClient.Close, nil
		}
		logger.Warn("Temporal unavailable, dispatching events in-process", slog.String("error", err.Error()))
	case config.EventBusRedis:
		bus, err := connectRedisBus(ctx, cfg, logger)
		if err == nil {
			logger.Info("Redis event publisher enabled", slog.String("stream", cfg.Redis.Stream))
			return bus, func() { _ = bus.Close() }, nil
		}
		logger.Warn("Redis unavailable, dispatching events in-process", slog.String("error", err.Error()))
	}
	return newInProcessBus(cfg, instruments)
}

func connectRedisBus(ctx context.Context, cfg config.Config, logger *slog.Logger) (*eventbus.RedisBus, error) {
	client, err := eventbus.ConnectRedis(ctx, cfg.Redis.URL)
	if err != nil {
		return nil, err
	}
	bus, err := eventbus.NewRedisBus(ctx, client, cfg.Redis.Stream, cfg.Redis.Group, eventbus.WithRedisLogger(logger))
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	return bus, nil
}

func newInProcessBus(cfg config.Config, instruments *platformobservability.Instruments) (events.Publisher, func(), error) {
	bus := eventbus.NewMemoryBus(instruments.Logger)
	handlers, err := appworker.NewNotificationHandlers(cfg, instruments)
	if err != nil {
		return nil, nil, err
	}
	handlers.Register(bus)
	return bus, func() {}, nil
}

func readinessChecks(db *gorm.DB) map[string]lawncareserver.ReadinessCheck {
	checks := map[string]lawncareserver.ReadinessCheck{}
	if db == nil {
		return checks
	}
	checks["postgres"] = func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return errors.New("postgres unreachable")
		}
		return nil
	}
	return checks
}
