package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdavida/lawncare/internal/shared/events"
)

func TestFirstSunnyDay(t *testing.T) {
	cases := []struct {
		name    string
		weather *Forecast
		want    string
	}{
		{name: "no forecast", weather: nil},
		{name: "no clear day", weather: &Forecast{Days: []DailyForecast{{Date: "d1", Condition: "Rain"}, {Date: "d2", Condition: "Clouds"}}}},
		{name: "first clear wins", weather: &Forecast{Days: []DailyForecast{{Date: "d1", Condition: "Rain"}, {Date: "d2", Condition: "Clear"}, {Date: "d3", Condition: "Clear"}}}, want: "d2"},
		{name: "case insensitive", weather: &Forecast{Days: []DailyForecast{{Date: "d1", Condition: "CLEAR"}}}, want: "d1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := EstimateEmailModel{Weather: tc.weather}.FirstSunnyDay()
			if tc.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tc.want, got.Date)
		})
	}
}

func TestBindings(t *testing.T) {
	model := EstimateEmailModel{
		Estimate: events.EstimateSent{
			EstimateNumber:    "EST-20250301-0001",
			CustomerFirstName: "Jane",
			EstimateDate:      time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			ExpirationDate:    time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
			LineItems: []events.EstimateLineItem{{
				Description: "Leaf Removal",
				Quantity:    decimal.RequireFromString("1.5"),
				UnitPrice:   decimal.NewFromInt(40),
				LineTotal:   decimal.NewFromInt(60),
			}},
			Subtotal:    decimal.NewFromInt(60),
			TotalAmount: decimal.NewFromInt(60),
		},
		Weather: &Forecast{Location: "Annapolis, MD", Days: []DailyForecast{{Date: "2025-03-02", Condition: "Clear"}}},
	}

	b := model.Bindings()
	estimate := b["estimate"].(map[string]any)
	assert.Equal(t, "March 1, 2025", estimate["estimate_date"])
	assert.Equal(t, "60.00", estimate["subtotal"])
	assert.Equal(t, "0.00", estimate["tax_amount"])
	items := estimate["line_items"].([]map[string]any)
	require.Len(t, items, 1)
	assert.Equal(t, "1.5", items[0]["quantity"])
	assert.Equal(t, "40.00", items[0]["unit_price"])

	sunny := b["first_sunny_day"].(map[string]any)
	assert.Equal(t, "2025-03-02", sunny["date"])
	assert.Equal(t, "Annapolis, MD", b["weather"].(map[string]any)["location"])

	plain := EstimateEmailModel{Estimate: model.Estimate}.Bindings()
	assert.Nil(t, plain["weather"])
	assert.Nil(t, plain["first_sunny_day"])
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "Your Estimate #EST-20250301-0042 - VerdaVida Lawn Care", EstimateSubject("EST-20250301-0042"))
}
