// Package config loads process settings from the environment (and an optional .env file).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
)

// EventBus names a transport for integration events.
type EventBus string

const (
	EventBusMemory   EventBus = "memory"
	EventBusTemporal EventBus = "temporal"
	EventBusRedis    EventBus = "redis"
)

// Config carries environment-driven settings shared by the API, worker and CLI processes.
type Config struct {
	Environment string
	Port        string
	PostgresDSN string

	EventBus          EventBus
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool

	Redis    RedisConfig
	Weather  WeatherConfig
	SMTP     SMTPConfig
	Estimate EstimateConfig

	TemplatesPath string
	SeedCatalog   bool

	OTLPEndpoint string
	OTLPInsecure bool
}

type RedisConfig struct {
	URL    string
	Stream string
	Group  string
}

type WeatherConfig struct {
	BaseURL string
	Timeout time.Duration
}

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	EnableSSL bool
}

type EstimateConfig struct {
	ValidityDays int
}

// Load reads environment variables, applies defaults, and validates basic constraints.
// A missing .env file is not an error.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Environment:       envDefault("ENVIRONMENT", "local"),
		Port:              envDefault("PORT", "8080"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		EventBus:          EventBus(strings.ToLower(envDefault("EVENT_BUS", string(EventBusTemporal)))),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		Redis: RedisConfig{
			URL:    envDefault("REDIS_URL", "redis://localhost:6379"),
			Stream: envDefault("REDIS_STREAM", "verdavida-events"),
			Group:  envDefault("REDIS_GROUP", "communications"),
		},
		Weather: WeatherConfig{
			BaseURL: strings.TrimRight(envDefault("WEATHER_BASE_URL", "http://localhost:5000"), "/"),
		},
		SMTP: SMTPConfig{
			Host:      envDefault("SMTP_HOST", "localhost"),
			Username:  strings.TrimSpace(os.Getenv("SMTP_USERNAME")),
			Password:  os.Getenv("SMTP_PASSWORD"),
			FromEmail: envDefault("SMTP_FROM_EMAIL", "noreply@verdevida.com"),
			FromName:  envDefault("SMTP_FROM_NAME", "VerdaVida Lawn Care"),
			EnableSSL: isTruthy(os.Getenv("SMTP_ENABLE_SSL")),
		},
		TemplatesPath: strings.TrimSpace(os.Getenv("TEMPLATES_PATH")),
		SeedCatalog:   envBool("SEED_CATALOG", true),
		OTLPEndpoint:  strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
		OTLPInsecure:  os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") != "0",
	}

	var errs []error
	timeoutSeconds, err := envPositiveInt("WEATHER_TIMEOUT_SECONDS", 30)
	errs = append(errs, err)
	cfg.Weather.Timeout = time.Duration(timeoutSeconds) * time.Second

	cfg.SMTP.Port, err = envPositiveInt("SMTP_PORT", 1025)
	errs = append(errs, err)

	cfg.Estimate.ValidityDays, err = envPositiveInt("ESTIMATE_VALIDITY_DAYS", 30)
	errs = append(errs, err)

	switch cfg.EventBus {
	case EventBusMemory, EventBusTemporal, EventBusRedis:
	default:
		errs = append(errs, fmt.Errorf("EVENT_BUS must be one of memory, temporal, redis (got %q)", cfg.EventBus))
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func envPositiveInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback, fmt.Errorf("%s must be a positive integer", key)
	}
	return n, nil
}

func envBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	return isTruthy(raw)
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
