package templates

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdavida/lawncare/internal/domains/notifications/domain"
	"github.com/verdavida/lawncare/internal/shared/events"
)

func estimateModel(weather *domain.Forecast) domain.EstimateEmailModel {
	return domain.EstimateEmailModel{
		Estimate: events.EstimateSent{
			EstimateID:        7,
			EstimateNumber:    "EST-20250301-0001",
			CustomerFirstName: "Jane",
			CustomerEmail:     "jane@example.com",
			EstimateDate:      time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			ExpirationDate:    time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
			Notes:             "Gate code 1234",
			LineItems: []events.EstimateLineItem{
				{Description: "Lawn Mowing", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(25), LineTotal: decimal.NewFromInt(50)},
				{Description: "Leaf Removal", Quantity: decimal.RequireFromString("1.5"), UnitPrice: decimal.NewFromInt(40), LineTotal: decimal.NewFromInt(60)},
			},
			Subtotal:    decimal.NewFromInt(110),
			TaxAmount:   decimal.Zero,
			TotalAmount: decimal.NewFromInt(110),
		},
		Weather: weather,
	}
}

func TestRender_EmbeddedEstimateEmail(t *testing.T) {
	r := NewRenderer()
	weather := &domain.Forecast{
		Location: "Annapolis, MD",
		Days: []domain.DailyForecast{
			{Date: "2025-03-02", Condition: "Rain", TemperatureHigh: 52},
			{Date: "2025-03-03", Condition: "Clear", TemperatureHigh: 61.4},
		},
	}

	html, err := r.Render(context.Background(), domain.EstimateEmailTemplate, estimateModel(weather))
	require.NoError(t, err)
	assert.Contains(t, html, "Hi Jane,")
	assert.Contains(t, html, "EST-20250301-0001")
	assert.Contains(t, html, "Leaf Removal")
	assert.Contains(t, html, "$110.00")
	assert.Contains(t, html, "March 31, 2025")
	assert.Contains(t, html, "Gate code 1234")
	assert.Contains(t, html, "Annapolis, MD")
	assert.Contains(t, html, "2025-03-03")
	assert.NotContains(t, html, "Terms")
}

func TestRender_WithoutWeatherOmitsForecast(t *testing.T) {
	r := NewRenderer()
	html, err := r.Render(context.Background(), domain.EstimateEmailTemplate, estimateModel(nil))
	require.NoError(t, err)
	assert.NotContains(t, html, "local forecast")
}

func TestRender_InputErrors(t *testing.T) {
	r := NewRenderer(WithSource(fstest.MapFS{
		"Hello.liquid": {Data: []byte("Hello {{ name }}")},
	}))
	ctx := context.Background()

	_, err := r.Render(ctx, " ", map[string]any{})
	require.ErrorIs(t, err, ErrTemplateNameRequired)

	_, err = r.Render(ctx, "Missing", map[string]any{})
	require.ErrorIs(t, err, ErrTemplateNotFound)

	_, err = r.Render(ctx, "Hello", nil)
	require.ErrorIs(t, err, ErrNilModel)

	out, err := r.Render(ctx, "Hello", struct {
		Name string `json:"name"`
	}{Name: "Sam"})
	require.NoError(t, err)
	assert.Equal(t, "Hello Sam", out)
}

func TestRender_CachesParsedTemplates(t *testing.T) {
	source := fstest.MapFS{"Greeting.liquid": {Data: []byte("Hi {{ name }}")}}
	r := NewRenderer(WithSource(source))
	ctx := context.Background()

	out, err := r.Render(ctx, "Greeting", map[string]any{"name": "Ana"})
	require.NoError(t, err)
	assert.Equal(t, "Hi Ana", out)

	source["Greeting.liquid"] = &fstest.MapFile{Data: []byte("Bye {{ name }}")}
	out, err = r.Render(ctx, "Greeting", map[string]any{"name": "Ana"})
	require.NoError(t, err)
	assert.Equal(t, "Hi Ana", out)
}

func TestRender_ConcurrentFirstRendersAgree(t *testing.T) {
	r := NewRenderer(WithSource(fstest.MapFS{"Greeting.liquid": {Data: []byte("Hi {{ name }}")}}))
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	outputs := make([]string, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outputs[i], errs[i] = r.Render(ctx, "Greeting", map[string]any{"name": "Ana"})
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "Hi Ana", outputs[i])
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	assert.Len(t, r.cache, 1)
}

func TestRender_ParseErrorIsNotCached(t *testing.T) {
	source := fstest.MapFS{"Broken.liquid": {Data: []byte("{% if name %}unterminated")}}
	r := NewRenderer(WithSource(source))
	ctx := context.Background()

	_, err := r.Render(ctx, "Broken", map[string]any{"name": "x"})
	require.ErrorIs(t, err, ErrTemplateNotFound)

	source["Broken.liquid"] = &fstest.MapFile{Data: []byte("{% if name %}fixed{% endif %}")}
	out, err := r.Render(ctx, "Broken", map[string]any{"name": "x"})
	require.NoError(t, err)
	assert.Equal(t, "fixed", out)
}

func TestRender_RenderTimeErrors(t *testing.T) {
	boom := func(s string) (string, error) { return "", errors.New("boom") }
	r := NewRenderer(
		WithSource(fstest.MapFS{"Explode.liquid": {Data: []byte("{{ name | explode }}")}}),
		WithFilter("explode", boom),
	)

	_, err := r.Render(context.Background(), "Explode", map[string]any{"name": "x"})
	require.ErrorIs(t, err, ErrRender)
}

func TestNewFromPath_EmptyUsesEmbedded(t *testing.T) {
	r := NewFromPath("")
	_, err := r.Render(context.Background(), domain.EstimateEmailTemplate, estimateModel(nil))
	require.NoError(t, err)
}

func TestNewFromPath_ReadsDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Custom.liquid"), []byte("Custom {{ estimate.estimate_number }}"), 0o600))
	r := NewFromPath(dir)
	out, err := r.Render(context.Background(), "Custom", estimateModel(nil))
	require.NoError(t, err)
	assert.Equal(t, "Custom EST-20250301-0001", out)
}
