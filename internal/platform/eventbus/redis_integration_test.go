//go:build integration

package eventbus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/verdavida/lawncare/internal/shared/events"
)

func setupRedis(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7.2-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)
	return "redis://" + host + ":" + port.Port()
}

func TestRedisBus_PublishAndConsume(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	url := setupRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := ConnectRedis(ctx, url)
	require.NoError(t, err)
	bus, err := NewRedisBus(ctx, client, "verdavida-events-test", "communications", WithReadBlock(200*time.Millisecond))
	require.NoError(t, err)
	defer bus.Close()

	// Creating the group twice is tolerated.
	_, err = NewRedisBus(ctx, client, "verdavida-events-test", "communications")
	require.NoError(t, err)

	var (
		mu       sync.Mutex
		received []events.EstimateSent
		calls    int
	)
	bus.Subscribe(events.EstimateSentName, func(_ context.Context, e events.Event) error {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, e.(events.EstimateSent))
		return nil
	})
	bus.Subscribe(events.CustomerCreatedName, func(context.Context, events.Event) error {
		mu.Lock()
		calls++
		mu.Unlock()
		panic("consumer failure")
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = bus.Run(ctx)
	}()

	require.NoError(t, bus.Publish(ctx, events.CustomerCreated{CustomerID: 1, Email: "a@example.com"}))
	require.NoError(t, bus.Publish(ctx, events.EstimateSent{
		EstimateID:  7,
		LineItems:   []events.EstimateLineItem{{Description: "Mowing", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(25), LineTotal: decimal.NewFromInt(50)}},
		TotalAmount: decimal.NewFromInt(50),
	}))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 1 && calls == 1
	}, 10*time.Second, 50*time.Millisecond)

	mu.Lock()
	assert.Equal(t, int64(7), received[0].EstimateID)
	assert.True(t, received[0].TotalAmount.Equal(decimal.NewFromInt(50)))
	mu.Unlock()

	require.Eventually(t, func() bool {
		pending, err := client.XPending(ctx, "verdavida-events-test", "communications").Result()
		return err == nil && pending.Count == 0
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	<-done
}
