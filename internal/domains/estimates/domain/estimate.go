package domain

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	customerdomain "github.com/verdavida/lawncare/internal/domains/customers/domain"
)

// Status enumerates estimate lifecycle states.
type Status string

const (
	StatusDraft     Status = "Draft"
	StatusSent      Status = "Sent"
	StatusViewed    Status = "Viewed"
	StatusAccepted  Status = "Accepted"
	StatusRejected  Status = "Rejected"
	StatusExpired   Status = "Expired"
	StatusCancelled Status = "Cancelled"
	StatusCompleted Status = "Completed"
)

var (
	ErrInvalidTransition = errors.New("invalid estimate status transition")
	ErrNoLineItems       = errors.New("at least one line item is required")
	ErrInvalidQuantity   = errors.New("quantity must be greater than 0")
	ErrNegativePrice     = errors.New("unit price cannot be negative")
	ErrLineTotalMismatch = errors.New("line total must equal quantity * unit price")
)

// TransitionError reports a lifecycle move that the current status does not allow.
type TransitionError struct {
	Action string
	From   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s estimate with status %s", e.Action, e.From)
}

func (e *TransitionError) Is(target error) bool { return target == ErrInvalidTransition }

// LineItem is one priced unit of work or equipment usage.
type LineItem struct {
	ID            int64
	EstimateID    int64
	ServiceID     *int64
	ServiceName   string
	EquipmentID   *int64
	EquipmentName string
	Description   string
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	LineTotal     decimal.Decimal
	CreatedAt     time.Time
}

// NewLineItem prices a line item; the total is always computed server-side.
func NewLineItem(description string, quantity, unitPrice decimal.Decimal, serviceID, equipmentID *int64) LineItem {
	return LineItem{
		ServiceID:   serviceID,
		EquipmentID: equipmentID,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		LineTotal:   quantity.Mul(unitPrice),
	}
}

func (li LineItem) Validate() error {
	if !li.Quantity.IsPositive() {
		return ErrInvalidQuantity
	}
	if li.UnitPrice.IsNegative() {
		return ErrNegativePrice
	}
	if !li.LineTotal.Equal(li.Quantity.Mul(li.UnitPrice)) {
		return ErrLineTotalMismatch
	}
	return nil
}

// Estimate is the quote aggregate.
type Estimate struct {
	ID              int64
	Number          string
	CustomerID      int64
	Customer        *customerdomain.Customer
	EstimateDate    time.Time
	ExpirationDate  time.Time
	Status          Status
	Notes           string
	Terms           string
	ScheduledDate   *time.Time
	CompletedDate   *time.Time
	CompletionNotes string
	LineItems       []LineItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewEstimate drafts an estimate dated now.
func NewEstimate(number string, customer *customerdomain.Customer, items []LineItem, notes, terms string, now, expiration time.Time) (*Estimate, error) {
	e := &Estimate{
		Number:         number,
		Customer:       customer,
		EstimateDate:   now,
		ExpirationDate: expiration,
		Status:         StatusDraft,
		Notes:          notes,
		Terms:          terms,
		LineItems:      items,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if customer != nil {
		e.CustomerID = customer.ID
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Estimate) Validate() error {
	if len(e.LineItems) == 0 {
		return ErrNoLineItems
	}
	for i, li := range e.LineItems {
		if err := li.Validate(); err != nil {
			return fmt.Errorf("line item %d: %w", i, err)
		}
	}
	return nil
}

// Subtotal sums the line totals.
func (e *Estimate) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, li := range e.LineItems {
		sum = sum.Add(li.LineTotal)
	}
	return sum
}

// TaxAmount is zero until tax rules exist.
func (e *Estimate) TaxAmount() decimal.Decimal { return decimal.Zero }

func (e *Estimate) TotalAmount() decimal.Decimal { return e.Subtotal().Add(e.TaxAmount()) }

// DaysUntilExpiration counts whole days left, never negative.
func (e *Estimate) DaysUntilExpiration(now time.Time) int {
	remaining := e.ExpirationDate.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int(math.Floor(remaining.Hours() / 24))
}

func (e *Estimate) IsExpired(now time.Time) bool { return e.ExpirationDate.Before(now) }

// MarkSent moves a draft to Sent. It reports false without error when already sent.
func (e *Estimate) MarkSent(now time.Time) (bool, error) {
	switch e.Status {
	case StatusSent:
		return false, nil
	case StatusDraft:
		e.Status = StatusSent
		e.UpdatedAt = now
		return true, nil
	default:
		return false, &TransitionError{Action: "send", From: e.Status}
	}
}

// Complete closes an active job.
func (e *Estimate) Complete(notes string, now time.Time) error {
	switch e.Status {
	case StatusSent, StatusViewed, StatusAccepted:
	default:
		return &TransitionError{Action: "complete", From: e.Status}
	}
	e.Status = StatusCompleted
	e.CompletedDate = &now
	e.CompletionNotes = notes
	e.UpdatedAt = now
	return nil
}

// Expire marks an outstanding estimate past its expiration date. It reports whether the status changed.
func (e *Estimate) Expire(now time.Time) bool {
	if e.Status != StatusSent && e.Status != StatusViewed {
		return false
	}
	if !e.IsExpired(now) {
		return false
	}
	e.Status = StatusExpired
	e.UpdatedAt = now
	return true
}

// Clone returns a deep copy safe to hand across adapter boundaries.
func (e *Estimate) Clone() *Estimate {
	if e == nil {
		return nil
	}
	clone := *e
	if e.Customer != nil {
		c := *e.Customer
		clone.Customer = &c
	}
	clone.ScheduledDate = cloneTime(e.ScheduledDate)
	clone.CompletedDate = cloneTime(e.CompletedDate)
	clone.LineItems = make([]LineItem, len(e.LineItems))
	for i, li := range e.LineItems {
		li.ServiceID = cloneID(li.ServiceID)
		li.EquipmentID = cloneID(li.EquipmentID)
		clone.LineItems[i] = li
	}
	return &clone
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
