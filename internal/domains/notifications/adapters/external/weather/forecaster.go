// Package weather adapts the forecast HTTP client to the notifications port.
package weather

import (
	"context"
	"errors"

	weatherclient "github.com/verdavida/lawncare/internal/clients/http/weather"
	"github.com/verdavida/lawncare/internal/domains/notifications/domain"
	"github.com/verdavida/lawncare/internal/domains/notifications/ports"
)

// Forecaster implements the outbound weather port.
type Forecaster struct {
	client *weatherclient.Client
}

// NewForecaster wires a weather HTTP client into the port adapter.
func NewForecaster(client *weatherclient.Client) *Forecaster {
	return &Forecaster{client: client}
}

// GetForecast looks up the forecast for postalCode.
func (f *Forecaster) GetForecast(ctx context.Context, postalCode string) (*domain.Forecast, error) {
	if f == nil || f.client == nil {
		return nil, errors.New("weather forecaster not configured")
	}
	forecast, err := f.client.GetForecast(ctx, postalCode)
	if err != nil {
		return nil, err
	}
	return ToForecast(forecast), nil
}

var _ ports.WeatherClient = (*Forecaster)(nil)
