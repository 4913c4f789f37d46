package weather

import (
	weatherclient "github.com/verdavida/lawncare/internal/clients/http/weather"
	"github.com/verdavida/lawncare/internal/domains/notifications/domain"
)

// ToForecast converts the forecast service payload into the notification model.
func ToForecast(f *weatherclient.Forecast) *domain.Forecast {
	if f == nil {
		return nil
	}
	days := make([]domain.DailyForecast, 0, len(f.Days))
	for _, d := range f.Days {
		days = append(days, domain.DailyForecast{
			Date:            d.Date,
			TemperatureHigh: d.TemperatureHigh,
			TemperatureLow:  d.TemperatureLow,
			TemperatureAvg:  d.TemperatureAvg,
			Description:     d.Description,
			Condition:       d.Condition,
			Humidity:        d.Humidity,
			WindSpeed:       d.WindSpeed,
		})
	}
	return &domain.Forecast{
		ZipCode:  f.ZipCode,
		Location: f.Location,
		Country:  f.Country,
		Days:     days,
	}
}
