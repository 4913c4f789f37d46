// Package domain holds the consumer-side models used to compose customer emails.
package domain

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/verdavida/lawncare/internal/shared/events"
)

// EstimateEmailTemplate is the template rendered for every sent estimate.
const EstimateEmailTemplate = "EstimateEmail"

// SunnyCondition is the forecast condition treated as a sunny day.
const SunnyCondition = "Clear"

// Forecast is a multi-day weather forecast for a postal code.
type Forecast struct {
	ZipCode  string
	Location string
	Country  string
	Days     []DailyForecast
}

// DailyForecast is one forecast day. Temperatures are Fahrenheit.
type DailyForecast struct {
	Date            string
	TemperatureHigh float64
	TemperatureLow  float64
	TemperatureAvg  float64
	Description     string
	Condition       string
	Humidity        float64
	WindSpeed       float64
}

// IsSunny reports whether the day's condition is "Clear", ignoring case.
func (d DailyForecast) IsSunny() bool {
	return strings.EqualFold(strings.TrimSpace(d.Condition), SunnyCondition)
}

// EstimateEmailModel is the template input for an estimate email.
type EstimateEmailModel struct {
	Estimate events.EstimateSent
	Weather  *Forecast
}

// FirstSunnyDay returns the first sunny forecast day, or nil.
func (m EstimateEmailModel) FirstSunnyDay() *DailyForecast {
	if m.Weather == nil {
		return nil
	}
	for i := range m.Weather.Days {
		if m.Weather.Days[i].IsSunny() {
			day := m.Weather.Days[i]
			return &day
		}
	}
	return nil
}

// Subject is the email subject line for the estimate.
func (m EstimateEmailModel) Subject() string {
	return EstimateSubject(m.Estimate.EstimateNumber)
}

// EstimateSubject formats the subject line for an estimate number.
func EstimateSubject(number string) string {
	return "Your Estimate #" + number + " - VerdaVida Lawn Care"
}

// Bindings flattens the model into template variables with snake_case keys.
// Money renders with two decimals and dates as "January 2, 2006".
func (m EstimateEmailModel) Bindings() map[string]any {
	e := m.Estimate
	items := make([]map[string]any, 0, len(e.LineItems))
	for _, li := range e.LineItems {
		items = append(items, map[string]any{
			"description": li.Description,
			"quantity":    li.Quantity.String(),
			"unit_price":  money(li.UnitPrice),
			"line_total":  money(li.LineTotal),
		})
	}
	bindings := map[string]any{
		"estimate": map[string]any{
			"estimate_id":          e.EstimateID,
			"estimate_number":      e.EstimateNumber,
			"customer_id":          e.CustomerID,
			"customer_first_name":  e.CustomerFirstName,
			"customer_last_name":   e.CustomerLastName,
			"customer_email":       e.CustomerEmail,
			"customer_postal_code": e.CustomerPostalCode,
			"estimate_date":        e.EstimateDate.Format("January 2, 2006"),
			"expiration_date":      e.ExpirationDate.Format("January 2, 2006"),
			"notes":                e.Notes,
			"terms":                e.Terms,
			"line_items":           items,
			"subtotal":             money(e.Subtotal),
			"tax_amount":           money(e.TaxAmount),
			"total_amount":         money(e.TotalAmount),
		},
		"weather":         nil,
		"first_sunny_day": nil,
	}
	if m.Weather != nil {
		days := make([]map[string]any, 0, len(m.Weather.Days))
		for _, d := range m.Weather.Days {
			days = append(days, dayBindings(d))
		}
		bindings["weather"] = map[string]any{
			"zip_code": m.Weather.ZipCode,
			"location": m.Weather.Location,
			"country":  m.Weather.Country,
			"forecast": days,
		}
	}
	if sunny := m.FirstSunnyDay(); sunny != nil {
		bindings["first_sunny_day"] = dayBindings(*sunny)
	}
	return bindings
}

func dayBindings(d DailyForecast) map[string]any {
	return map[string]any{
		"date":             d.Date,
		"temperature_high": d.TemperatureHigh,
		"temperature_low":  d.TemperatureLow,
		"temperature_avg":  d.TemperatureAvg,
		"description":      d.Description,
		"condition":        d.Condition,
		"humidity":         d.Humidity,
		"wind_speed":       d.WindSpeed,
		"is_sunny":         d.IsSunny(),
	}
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Message is one outbound email. Empty From fields fall back to the sender's defaults.
type Message struct {
	To        string
	Subject   string
	HTMLBody  string
	FromEmail string
	FromName  string
}
