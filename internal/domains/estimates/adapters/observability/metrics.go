package observability

import (
	"context"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"

	estimateapp "github.com/verdavida/lawncare/internal/domains/estimates/application"
)

// Recorder publishes estimate business metrics through an OpenTelemetry meter.
type Recorder struct {
	received metric.Int64Counter
	sent     metric.Int64Counter
	quoted   metric.Float64Counter
	booked   metric.Float64Counter
}

// NewRecorder registers the estimate counters. A nil meter yields a recorder that drops everything.
func NewRecorder(m metric.Meter) *Recorder {
	if m == nil {
		return &Recorder{}
	}
	received, _ := m.Int64Counter("estimates.service.estimates_received", metric.WithDescription("Number of estimates received"))
	sent, _ := m.Int64Counter("estimates.service.estimates_sent", metric.WithDescription("Number of estimates sent to customers"))
	quoted, _ := m.Float64Counter("estimates.service.dollar_value_quoted",
		metric.WithDescription("Total dollar value of estimates received"), metric.WithUnit("USD"))
	booked, _ := m.Float64Counter("estimates.service.dollar_value_booked",
		metric.WithDescription("Total dollar value of completed jobs"), metric.WithUnit("USD"))
	return &Recorder{received: received, sent: sent, quoted: quoted, booked: booked}
}

func (r *Recorder) EstimateReceived(ctx context.Context, total decimal.Decimal) {
	if r.received != nil {
		r.received.Add(ctx, 1)
	}
	if r.quoted != nil {
		r.quoted.Add(ctx, total.InexactFloat64())
	}
}

func (r *Recorder) EstimateSent(ctx context.Context) {
	if r.sent != nil {
		r.sent.Add(ctx, 1)
	}
}

func (r *Recorder) JobCompleted(ctx context.Context, total decimal.Decimal) {
	if r.booked != nil {
		r.booked.Add(ctx, total.InexactFloat64())
	}
}

var _ estimateapp.Recorder = (*Recorder)(nil)
