package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	customerdomain "github.com/verdavida/lawncare/internal/domains/customers/domain"
	estimatetypes "github.com/verdavida/lawncare/internal/domains/estimates/application/types"
	"github.com/verdavida/lawncare/internal/domains/estimates/domain"
)

// CustomerInfo is the customer block of a create request.
type CustomerInfo struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
}

// LineItemRequest is one requested line item.
type LineItemRequest struct {
	ServiceID   *int64          `json:"serviceId,omitempty"`
	EquipmentID *int64          `json:"equipmentId,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

// CreateEstimateRequest is the POST /api/estimates payload.
type CreateEstimateRequest struct {
	Customer       CustomerInfo      `json:"customer"`
	LineItems      []LineItemRequest `json:"lineItems"`
	Notes          string            `json:"notes"`
	Terms          string            `json:"terms"`
	ExpirationDate *time.Time        `json:"expirationDate,omitempty"`
}

// CompleteJobRequest is the POST /api/jobs/:jobId/complete payload.
type CompleteJobRequest struct {
	CompletionNotes string `json:"completionNotes"`
}

// Customer is the customer block of an estimate response.
type Customer struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postalCode"`
	FullAddress string `json:"fullAddress"`
}

// LineItem is a line item as returned by the API.
type LineItem struct {
	ID            int64           `json:"id"`
	ServiceID     *int64          `json:"serviceId"`
	ServiceName   *string         `json:"serviceName"`
	EquipmentID   *int64          `json:"equipmentId"`
	EquipmentName *string         `json:"equipmentName"`
	Description   string          `json:"description"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	LineTotal     decimal.Decimal `json:"lineTotal"`
}

// Estimate is the EstimateResponse body.
type Estimate struct {
	ID                  int64           `json:"id"`
	EstimateNumber      string          `json:"estimateNumber"`
	Customer            Customer        `json:"customer"`
	EstimateDate        time.Time       `json:"estimateDate"`
	ExpirationDate      time.Time       `json:"expirationDate"`
	Status              string          `json:"status"`
	Notes               string          `json:"notes"`
	Terms               string          `json:"terms"`
	ScheduledDate       *time.Time      `json:"scheduledDate"`
	CompletedDate       *time.Time      `json:"completedDate"`
	CompletionNotes     string          `json:"completionNotes"`
	LineItems           []LineItem      `json:"lineItems"`
	Subtotal            decimal.Decimal `json:"subtotal"`
	TaxAmount           decimal.Decimal `json:"taxAmount"`
	TotalAmount         decimal.Decimal `json:"totalAmount"`
	DaysUntilExpiration int             `json:"daysUntilExpiration"`
	IsExpired           bool            `json:"isExpired"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           time.Time       `json:"updatedAt"`
}

// ToCreateInput maps the request payload into the application input.
func ToCreateInput(req CreateEstimateRequest) estimatetypes.CreateEstimateInput {
	items := make([]estimatetypes.LineItemInput, 0, len(req.LineItems))
	for _, li := range req.LineItems {
		items = append(items, estimatetypes.LineItemInput{
			ServiceID:   li.ServiceID,
			EquipmentID: li.EquipmentID,
			Description: li.Description,
			Quantity:    li.Quantity,
			UnitPrice:   li.UnitPrice,
			LineTotal:   li.LineTotal,
		})
	}
	return estimatetypes.CreateEstimateInput{
		Customer: estimatetypes.CustomerInput{
			FirstName:  req.Customer.FirstName,
			LastName:   req.Customer.LastName,
			Email:      req.Customer.Email,
			Phone:      req.Customer.Phone,
			Address:    req.Customer.Address,
			City:       req.Customer.City,
			State:      req.Customer.State,
			PostalCode: req.Customer.PostalCode,
		},
		LineItems:      items,
		Notes:          req.Notes,
		Terms:          req.Terms,
		ExpirationDate: req.ExpirationDate,
	}
}

// FromProjection maps an estimate projection to the response body.
func FromProjection(p *estimatetypes.EstimateProjection) Estimate {
	if p == nil || p.Entity == nil {
		return Estimate{}
	}
	e := p.Entity
	out := Estimate{
		ID:                  e.ID,
		EstimateNumber:      e.Number,
		Customer:            fromCustomer(e.CustomerID, e.Customer),
		EstimateDate:        e.EstimateDate,
		ExpirationDate:      e.ExpirationDate,
		Status:              string(e.Status),
		Notes:               e.Notes,
		Terms:               e.Terms,
		ScheduledDate:       e.ScheduledDate,
		CompletedDate:       e.CompletedDate,
		CompletionNotes:     e.CompletionNotes,
		LineItems:           make([]LineItem, 0, len(e.LineItems)),
		Subtotal:            p.Derived.Subtotal,
		TaxAmount:           p.Derived.TaxAmount,
		TotalAmount:         p.Derived.TotalAmount,
		DaysUntilExpiration: p.Derived.DaysUntilExpiration,
		IsExpired:           p.Derived.IsExpired,
		CreatedAt:           p.Metadata.CreatedAt,
		UpdatedAt:           p.Metadata.UpdatedAt,
	}
	for _, li := range e.LineItems {
		out.LineItems = append(out.LineItems, fromLineItem(li))
	}
	return out
}

// FromProjectionList maps a list of projections.
func FromProjectionList(list []*estimatetypes.EstimateProjection) []Estimate {
	out := make([]Estimate, 0, len(list))
	for _, p := range list {
		out = append(out, FromProjection(p))
	}
	return out
}

func fromCustomer(id int64, c *customerdomain.Customer) Customer {
	if c == nil {
		return Customer{ID: id}
	}
	return Customer{
		ID:          c.ID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Email:       c.Email,
		Phone:       c.Phone,
		Address:     c.Address,
		City:        c.City,
		State:       c.State,
		PostalCode:  c.PostalCode,
		FullAddress: c.FullAddress(),
	}
}

func fromLineItem(li domain.LineItem) LineItem {
	out := LineItem{
		ID:          li.ID,
		ServiceID:   li.ServiceID,
		EquipmentID: li.EquipmentID,
		Description: li.Description,
		Quantity:    li.Quantity,
		UnitPrice:   li.UnitPrice,
		LineTotal:   li.LineTotal,
	}
	if li.ServiceName != "" {
		name := li.ServiceName
		out.ServiceName = &name
	}
	if li.EquipmentName != "" {
		name := li.EquipmentName
		out.EquipmentName = &name
	}
	return out
}
