package worker

import (
	"fmt"
	"log/slog"

	"github.com/verdavida/lawncare/internal/app/config"
	weatherclient "github.com/verdavida/lawncare/internal/clients/http/weather"
	"github.com/verdavida/lawncare/internal/domains/notifications/adapters/email"
	weatheradapter "github.com/verdavida/lawncare/internal/domains/notifications/adapters/external/weather"
	"github.com/verdavida/lawncare/internal/domains/notifications/adapters/templates"
	notificationsapp "github.com/verdavida/lawncare/internal/domains/notifications/application"
	platformobservability "github.com/verdavida/lawncare/internal/platform/observability"
)

// NewNotificationHandlers assembles the notification pipeline from configuration:
// weather lookups, liquid templates and SMTP delivery.
func NewNotificationHandlers(cfg config.Config, instruments *platformobservability.Instruments) (*notificationsapp.Handlers, error) {
	logger := instruments.Logger

	weather, err := weatherclient.NewClient(cfg.Weather.BaseURL, cfg.Weather.Timeout,
		weatherclient.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("configure weather client: %w", err)
	}

	renderer := templates.NewFromPath(cfg.TemplatesPath, templates.WithLogger(logger))
	if cfg.TemplatesPath != "" {
		logger.Info("email templates loaded from disk", slog.String("path", cfg.TemplatesPath))
	}

	sender := email.NewSender(email.Settings{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromEmail: cfg.SMTP.FromEmail,
		FromName:  cfg.SMTP.FromName,
		EnableSSL: cfg.SMTP.EnableSSL,
	}, email.WithLogger(logger))

	return notificationsapp.NewHandlers(
		weatheradapter.NewForecaster(weather),
		renderer,
		sender,
		notificationsapp.WithLogger(logger),
	), nil
}
