package ports

import (
	"context"

	"github.com/verdavida/lawncare/internal/domains/notifications/domain"
)

// WeatherClient looks up a forecast by postal code.
type WeatherClient interface {
	GetForecast(ctx context.Context, postalCode string) (*domain.Forecast, error)
}

// Renderer renders a named template against a model.
type Renderer interface {
	Render(ctx context.Context, name string, model any) (string, error)
}

// EmailSender delivers one email.
type EmailSender interface {
	Send(ctx context.Context, msg domain.Message) error
}
