// Package eventbus provides the transports that carry integration events from
// the estimate lifecycle to the notification handlers.
package eventbus

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/verdavida/lawncare/internal/shared/events"
)

// MemoryBus dispatches events synchronously to in-process subscribers.
// Handler errors and panics are logged and never reach the publisher.
type MemoryBus struct {
	mu       sync.RWMutex
	handlers map[string][]events.Handler
	logger   *slog.Logger
}

// NewMemoryBus creates an empty in-process bus.
func NewMemoryBus(logger *slog.Logger) *MemoryBus {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &MemoryBus{
		handlers: make(map[string][]events.Handler),
		logger:   logger.With(slog.String("bus", "memory")),
	}
}

// Subscribe registers handler for events named name.
func (b *MemoryBus) Subscribe(name string, handler events.Handler) {
	if handler == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], handler)
}

// Publish runs every handler subscribed to the event before returning.
func (b *MemoryBus) Publish(ctx context.Context, event events.Event) error {
	if event == nil {
		return fmt.Errorf("memory bus: nil event")
	}
	name := event.EventName()
	b.mu.RLock()
	handlers := append([]events.Handler(nil), b.handlers[name]...)
	b.mu.RUnlock()

	b.logger.DebugContext(ctx, "publishing event", slog.String("event", name), slog.Int("handlers", len(handlers)))
	for _, handler := range handlers {
		b.invoke(ctx, name, handler, event)
	}
	return nil
}

func (b *MemoryBus) invoke(ctx context.Context, name string, handler events.Handler, event events.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.ErrorContext(ctx, "event handler panic recovered", slog.String("event", name), slog.Any("panic", r))
		}
	}()
	if err := handler(ctx, event); err != nil {
		b.logger.ErrorContext(ctx, "event handler failed", slog.String("event", name), slog.String("error", err.Error()))
	}
}

var (
	_ events.Publisher  = (*MemoryBus)(nil)
	_ events.Subscriber = (*MemoryBus)(nil)
)
