package types

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/verdavida/lawncare/internal/domains/estimates/domain"
	"github.com/verdavida/lawncare/internal/shared/projection"
)

// CustomerInput carries the customer block of an estimate request.
type CustomerInput struct {
	FirstName  string `validate:"required,max=100"`
	LastName   string `validate:"required,max=100"`
	Email      string `validate:"required,email,max=255"`
	Phone      string `validate:"required,max=20"`
	Address    string `validate:"required,max=500"`
	City       string `validate:"required,max=100"`
	State      string `validate:"required,max=50"`
	PostalCode string `validate:"required,max=20"`
}

// LineItemInput is one requested line. LineTotal must match Quantity * UnitPrice.
type LineItemInput struct {
	ServiceID   *int64
	EquipmentID *int64
	Description string `validate:"required,max=500"`
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
}

// CreateEstimateInput is the submitted estimate request.
type CreateEstimateInput struct {
	Customer       CustomerInput
	LineItems      []LineItemInput `validate:"min=1,dive"`
	Notes          string          `validate:"max=2000"`
	Terms          string          `validate:"max=2000"`
	ExpirationDate *time.Time
	// IdempotencyKey makes retries return the estimate the first attempt created.
	IdempotencyKey string `validate:"max=255"`
}

// ListJobsInput filters the jobs listing. Status is "all", "open" or "completed"; empty means all.
type ListJobsInput struct {
	Status     string
	Search     string
	CustomerID *int64
}

type CompleteJobInput struct {
	EstimateID      int64
	CompletionNotes string `validate:"max=2000"`
}

// Totals holds the amounts and expiry facts computed from an estimate.
type Totals struct {
	Subtotal            decimal.Decimal
	TaxAmount           decimal.Decimal
	TotalAmount         decimal.Decimal
	DaysUntilExpiration int
	IsExpired           bool
}

// EstimateProjection is what the estimate use cases return.
type EstimateProjection = projection.Projection[*domain.Estimate, Totals]

// NewEstimateProjection derives totals and expiry as of now.
func NewEstimateProjection(estimate *domain.Estimate, now time.Time) *EstimateProjection {
	if estimate == nil {
		return nil
	}
	return projection.New(estimate, projection.Metadata{
		CreatedAt: estimate.CreatedAt,
		UpdatedAt: estimate.UpdatedAt,
	}, now, deriveTotals)
}

func deriveTotals(e *domain.Estimate, now time.Time) Totals {
	return Totals{
		Subtotal:            e.Subtotal(),
		TaxAmount:           e.TaxAmount(),
		TotalAmount:         e.TotalAmount(),
		DaysUntilExpiration: e.DaysUntilExpiration(now),
		IsExpired:           e.IsExpired(now),
	}
}
