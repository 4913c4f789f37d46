// Package events holds the integration events exchanged between the estimate
// lifecycle and the notification consumers, plus the publish/subscribe ports
// every transport implements.
package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Event is the base interface for all integration events.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

const (
	CustomerCreatedName = "customers.customer.created"
	EstimateSentName    = "estimates.estimate.sent"
)

// CustomerCreated is raised when an estimate submission creates a new customer.
type CustomerCreated struct {
	CustomerID int64     `json:"customer_id"`
	Email      string    `json:"email"`
	CreatedAt  time.Time `json:"created_at"`
}

// EventName returns the event type identifier.
func (CustomerCreated) EventName() string { return CustomerCreatedName }

// OccurredAt returns when the customer was created.
func (e CustomerCreated) OccurredAt() time.Time { return e.CreatedAt }

// EstimateLineItem is a by-value copy of one estimate line taken at publish time.
type EstimateLineItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// EstimateSent is raised after an estimate transitions to Sent.
type EstimateSent struct {
	EstimateID         int64              `json:"estimate_id"`
	EstimateNumber     string             `json:"estimate_number"`
	CustomerID         int64              `json:"customer_id"`
	CustomerFirstName  string             `json:"customer_first_name"`
	CustomerLastName   string             `json:"customer_last_name"`
	CustomerEmail      string             `json:"customer_email"`
	CustomerPostalCode string             `json:"customer_postal_code"`
	EstimateDate       time.Time          `json:"estimate_date"`
	ExpirationDate     time.Time          `json:"expiration_date"`
	Notes              string             `json:"notes"`
	Terms              string             `json:"terms"`
	LineItems          []EstimateLineItem `json:"line_items"`
	Subtotal           decimal.Decimal    `json:"subtotal"`
	TaxAmount          decimal.Decimal    `json:"tax_amount"`
	TotalAmount        decimal.Decimal    `json:"total_amount"`
	SentAt             time.Time          `json:"sent_at"`
}

// EventName returns the event type identifier.
func (EstimateSent) EventName() string { return EstimateSentName }

// OccurredAt returns when the estimate was sent.
func (e EstimateSent) OccurredAt() time.Time { return e.SentAt }

// Publisher hands events to a transport. Callers treat publishing as best effort.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Handler consumes one delivered event.
type Handler func(ctx context.Context, event Event) error

// Subscriber registers handlers by event name.
type Subscriber interface {
	Subscribe(name string, handler Handler)
}

// PublisherFunc adapts a function to the Publisher interface.
type PublisherFunc func(ctx context.Context, event Event) error

// Publish calls f.
func (f PublisherFunc) Publish(ctx context.Context, event Event) error { return f(ctx, event) }

// Discard drops every event.
var Discard Publisher = PublisherFunc(func(context.Context, Event) error { return nil })
