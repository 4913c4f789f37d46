package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	customerdomain "github.com/verdavida/lawncare/internal/domains/customers/domain"
	customerports "github.com/verdavida/lawncare/internal/domains/customers/ports"
)

type stubService struct {
	seedErr error
}

func (s stubService) Search(context.Context, string, int) ([]*customerdomain.Customer, error) {
	return []*customerdomain.Customer{{ID: 1}}, nil
}

func (s stubService) Seed(_ context.Context, count int) (customerports.SeedResult, error) {
	if s.seedErr != nil {
		return customerports.SeedResult{}, s.seedErr
	}
	return customerports.SeedResult{Count: count, Timestamp: time.Now()}, nil
}

func seededTotal(t *testing.T, reader *sdkmetric.ManualReader) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != "customers.service.customers_seeded" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	return 0
}

func TestService_RecordsSeededCustomers(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")

	svc := New(stubService{}, WithMeter(meter))
	_, err := svc.Seed(context.Background(), 40)
	require.NoError(t, err)

	assert.Equal(t, int64(40), seededTotal(t, reader))
}

func TestService_PassesErrorsThrough(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")
	boom := errors.New("boom")

	svc := New(stubService{seedErr: boom}, WithMeter(meter))
	_, err := svc.Seed(context.Background(), 10)
	require.ErrorIs(t, err, boom)
	assert.Zero(t, seededTotal(t, reader))

	found, err := svc.Search(context.Background(), "555", 5)
	require.NoError(t, err)
	assert.Len(t, found, 1)
}
