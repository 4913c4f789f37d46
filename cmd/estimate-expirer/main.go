package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/verdavida/lawncare/internal/app/config"
	catalogpostgres "github.com/verdavida/lawncare/internal/domains/catalog/adapters/persistence/postgres"
	estimatepostgres "github.com/verdavida/lawncare/internal/domains/estimates/adapters/persistence/postgres"
	estimateapp "github.com/verdavida/lawncare/internal/domains/estimates/application"
	platformpostgres "github.com/verdavida/lawncare/internal/platform/postgres"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, cleanup := platformpostgres.ConnectOrFallback(ctx, cfg.PostgresDSN, logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot expire estimates")
	}

	service := estimateapp.NewService(
		estimatepostgres.NewRepository(db),
		catalogpostgres.NewRepository(db),
		estimateapp.WithLogger(logger),
	)
	count, err := service.ExpireOverdue(ctx)
	if err != nil {
		log.Fatalf("failed to expire estimates: %v", err)
	}
	log.Printf("estimate expiry completed: %d estimates expired", count)
}
