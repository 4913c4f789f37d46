package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/verdavida/lawncare/internal/domains/notifications/domain"
	"github.com/verdavida/lawncare/internal/domains/notifications/ports"
	"github.com/verdavida/lawncare/internal/shared/events"
)

// Handlers consumes integration events and turns them into customer notifications.
// Handler failures are logged and never returned, so a delivery is always acknowledged.
type Handlers struct {
	weather  ports.WeatherClient
	renderer ports.Renderer
	sender   ports.EmailSender
	logger   *slog.Logger
	console  io.Writer
	now      func() time.Time
}

// Option configures Handlers.
type Option func(*Handlers)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handlers) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithConsole sets where the customer-created summary is printed.
func WithConsole(w io.Writer) Option {
	return func(h *Handlers) {
		if w != nil {
			h.console = w
		}
	}
}

// WithClock overrides the clock used for summary timestamps.
func WithClock(now func() time.Time) Option {
	return func(h *Handlers) {
		if now != nil {
			h.now = now
		}
	}
}

// NewHandlers wires the notification pipeline. A nil weather client disables forecasts.
func NewHandlers(weather ports.WeatherClient, renderer ports.Renderer, sender ports.EmailSender, opts ...Option) *Handlers {
	h := &Handlers{
		weather:  weather,
		renderer: renderer,
		sender:   sender,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		console:  os.Stdout,
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// CustomerCreated logs the new customer and prints a short summary.
func (h *Handlers) CustomerCreated(ctx context.Context, evt events.CustomerCreated) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.ErrorContext(ctx, "customer created handler panicked",
				slog.Int64("customer.id", evt.CustomerID),
				slog.Any("panic", r),
			)
		}
	}()

	h.logger.InfoContext(ctx, "new customer created",
		slog.Int64("customer.id", evt.CustomerID),
		slog.String("customer.email", evt.Email),
		slog.Time("customer.created_at", evt.CreatedAt),
	)

	headline := color.New(color.FgGreen, color.Bold)
	label := color.New(color.FgCyan)
	headline.Fprintln(h.console, "NEW CUSTOMER CREATED!")
	label.Fprint(h.console, "   Customer ID: ")
	fmt.Fprintln(h.console, evt.CustomerID)
	label.Fprint(h.console, "   Email: ")
	fmt.Fprintln(h.console, evt.Email)
	label.Fprint(h.console, "   Created At: ")
	fmt.Fprintln(h.console, evt.CreatedAt.UTC().Format("2006-01-02 15:04:05")+" UTC")
	label.Fprint(h.console, "   Timestamp: ")
	fmt.Fprintln(h.console, h.now().UTC().Format("2006-01-02 15:04:05")+" UTC")
	fmt.Fprintln(h.console, "---")
}

// EstimateSent renders the estimate email, enriched with a forecast when the
// customer has a postal code, and sends it. A render failure skips the send.
func (h *Handlers) EstimateSent(ctx context.Context, evt events.EstimateSent) (delivery domain.Delivery) {
	delivery = domain.Delivery{EstimateID: evt.EstimateID, Weather: domain.WeatherSkipped}
	logAttrs := []any{
		slog.Int64("estimate.id", evt.EstimateID),
		slog.String("estimate.number", evt.EstimateNumber),
		slog.String("customer.email", evt.CustomerEmail),
	}
	defer func() {
		if r := recover(); r != nil {
			delivery.Outcome = domain.OutcomeSendFailed
			delivery.Err = fmt.Errorf("estimate sent handler panicked: %v", r)
			h.logger.ErrorContext(ctx, "unexpected error processing estimate sent event",
				append(logAttrs, slog.Any("panic", r))...)
		}
	}()

	h.logger.InfoContext(ctx, "processing estimate sent event", logAttrs...)

	model := domain.EstimateEmailModel{Estimate: evt}
	if evt.CustomerPostalCode != "" && h.weather != nil {
		forecast, err := h.weather.GetForecast(ctx, evt.CustomerPostalCode)
		if err != nil {
			delivery.Weather = domain.WeatherFailed
			h.logger.WarnContext(ctx, "weather lookup failed, sending estimate without forecast",
				append(logAttrs, slog.String("postal_code", evt.CustomerPostalCode), slog.String("error", err.Error()))...)
		} else {
			delivery.Weather = domain.WeatherAttached
			model.Weather = forecast
		}
	}

	body, err := h.renderer.Render(ctx, domain.EstimateEmailTemplate, model)
	if err != nil {
		delivery.Outcome = domain.OutcomeRenderFailed
		delivery.Err = err
		h.logger.ErrorContext(ctx, "failed to render estimate email",
			append(logAttrs, slog.String("error", err.Error()))...)
		return delivery
	}

	err = h.sender.Send(ctx, domain.Message{
		To:       evt.CustomerEmail,
		Subject:  model.Subject(),
		HTMLBody: body,
	})
	if err != nil {
		delivery.Outcome = domain.OutcomeSendFailed
		delivery.Err = err
		h.logger.ErrorContext(ctx, "failed to send estimate email",
			append(logAttrs, slog.String("error", err.Error()))...)
		return delivery
	}

	delivery.Outcome = domain.OutcomeSent
	h.logger.InfoContext(ctx, "sent estimate email",
		append(logAttrs, slog.String("weather", string(delivery.Weather)))...)
	return delivery
}

// Dispatch routes a decoded event to its handler. It returns an error only for
// event types this package does not handle.
func (h *Handlers) Dispatch(ctx context.Context, event events.Event) error {
	switch evt := event.(type) {
	case events.CustomerCreated:
		h.CustomerCreated(ctx, evt)
	case *events.CustomerCreated:
		h.CustomerCreated(ctx, *evt)
	case events.EstimateSent:
		h.EstimateSent(ctx, evt)
	case *events.EstimateSent:
		h.EstimateSent(ctx, *evt)
	default:
		return fmt.Errorf("%w: %T", events.ErrUnknownEvent, event)
	}
	return nil
}

// Register subscribes the handlers to every event they consume.
func (h *Handlers) Register(sub events.Subscriber) {
	sub.Subscribe(events.CustomerCreatedName, h.Dispatch)
	sub.Subscribe(events.EstimateSentName, h.Dispatch)
}
