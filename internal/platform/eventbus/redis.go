package eventbus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/verdavida/lawncare/internal/shared/events"
)

const (
	envelopeField    = "event"
	defaultReadBlock = 5 * time.Second
)

// RedisBus appends events to a Redis stream and consumes them through a consumer group.
// Every delivered message is acknowledged once its handlers ran, whatever they returned.
type RedisBus struct {
	client   *redis.Client
	stream   string
	group    string
	consumer string
	block    time.Duration
	logger   *slog.Logger

	mu       sync.RWMutex
	handlers map[string][]events.Handler
}

// RedisOption configures a RedisBus.
type RedisOption func(*RedisBus)

// WithRedisLogger sets the bus logger.
func WithRedisLogger(logger *slog.Logger) RedisOption {
	return func(b *RedisBus) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithConsumerName overrides the generated consumer name.
func WithConsumerName(name string) RedisOption {
	return func(b *RedisBus) {
		if name = strings.TrimSpace(name); name != "" {
			b.consumer = name
		}
	}
}

// WithReadBlock sets how long a read waits for new messages.
func WithReadBlock(d time.Duration) RedisOption {
	return func(b *RedisBus) {
		if d > 0 {
			b.block = d
		}
	}
}

// ConnectRedis parses url, pings the server and returns a client.
func ConnectRedis(ctx context.Context, url string) (*redis.Client, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("redis event bus: url is required")
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis event bus: invalid URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis event bus: connection failed: %w", err)
	}
	return client, nil
}

// NewRedisBus ensures the stream and consumer group exist.
func NewRedisBus(ctx context.Context, client *redis.Client, stream, group string, opts ...RedisOption) (*RedisBus, error) {
	if client == nil {
		return nil, errors.New("redis event bus: client is required")
	}
	stream, group = strings.TrimSpace(stream), strings.TrimSpace(group)
	if stream == "" || group == "" {
		return nil, errors.New("redis event bus: stream and group are required")
	}
	b := &RedisBus{
		client:   client,
		stream:   stream,
		group:    group,
		consumer: "consumer-" + uuid.NewString(),
		block:    defaultReadBlock,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		handlers: make(map[string][]events.Handler),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	b.logger = b.logger.With(slog.String("bus", "redis"), slog.String("stream", stream))

	err := client.XGroupCreateMkStream(ctx, stream, group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return nil, fmt.Errorf("redis event bus: create consumer group: %w", err)
	}
	return b, nil
}

// Publish appends the event envelope to the stream.
func (b *RedisBus) Publish(ctx context.Context, event events.Event) error {
	if event == nil {
		return errors.New("redis event bus: nil event")
	}
	body, err := encodeEnvelope(event)
	if err != nil {
		return fmt.Errorf("redis event bus: %w", err)
	}
	id, err := b.client.XAdd(ctx, &redis.XAddArgs{
		Stream: b.stream,
		Values: map[string]any{envelopeField: string(body)},
	}).Result()
	if err != nil {
		b.logger.ErrorContext(ctx, "failed to publish event", slog.String("event", event.EventName()), slog.String("error", err.Error()))
		return fmt.Errorf("redis event bus: publish failed: %w", err)
	}
	b.logger.DebugContext(ctx, "event published", slog.String("event", event.EventName()), slog.String("message_id", id))
	return nil
}

// Subscribe registers handler for events named name. Handlers run inside Run.
func (b *RedisBus) Subscribe(name string, handler events.Handler) {
	if handler == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], handler)
}

// Run reads the stream as a member of the consumer group until ctx is done.
func (b *RedisBus) Run(ctx context.Context) error {
	b.logger.InfoContext(ctx, "redis consumer started", slog.String("group", b.group), slog.String("consumer", b.consumer))
	for {
		if ctx.Err() != nil {
			b.logger.InfoContext(ctx, "redis consumer stopped")
			return nil
		}
		res, err := b.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    b.group,
			Consumer: b.consumer,
			Streams:  []string{b.stream, ">"},
			Count:    10,
			Block:    b.block,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				continue
			}
			b.logger.ErrorContext(ctx, "error reading from stream", slog.String("error", err.Error()))
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
			continue
		}
		for _, stream := range res {
			for _, msg := range stream.Messages {
				b.handle(ctx, msg)
			}
		}
	}
}

func (b *RedisBus) handle(ctx context.Context, msg redis.XMessage) {
	defer func() {
		if err := b.client.XAck(context.WithoutCancel(ctx), b.stream, b.group, msg.ID).Err(); err != nil {
			b.logger.ErrorContext(ctx, "failed to acknowledge message", slog.String("message_id", msg.ID), slog.String("error", err.Error()))
		}
	}()

	raw, ok := msg.Values[envelopeField].(string)
	if !ok {
		b.logger.WarnContext(ctx, "message without envelope", slog.String("message_id", msg.ID))
		return
	}
	event, err := decodeEnvelope([]byte(raw))
	if err != nil {
		b.logger.ErrorContext(ctx, "failed to decode message", slog.String("message_id", msg.ID), slog.String("error", err.Error()))
		return
	}
	name := event.EventName()
	b.mu.RLock()
	handlers := append([]events.Handler(nil), b.handlers[name]...)
	b.mu.RUnlock()

	for _, handler := range handlers {
		b.invoke(ctx, msg.ID, name, handler, event)
	}
}

func (b *RedisBus) invoke(ctx context.Context, id, name string, handler events.Handler, event events.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.ErrorContext(ctx, "event handler panic recovered", slog.String("event", name), slog.String("message_id", id), slog.Any("panic", r))
		}
	}()
	if err := handler(ctx, event); err != nil {
		b.logger.ErrorContext(ctx, "event handler failed", slog.String("event", name), slog.String("message_id", id), slog.String("error", err.Error()))
	}
}

// Close releases the Redis client.
func (b *RedisBus) Close() error {
	return b.client.Close()
}

var (
	_ events.Publisher  = (*RedisBus)(nil)
	_ events.Subscriber = (*RedisBus)(nil)
)
