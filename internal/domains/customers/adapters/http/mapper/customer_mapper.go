package mapper

import (
	"fmt"
	"time"

	"github.com/verdavida/lawncare/internal/domains/customers/domain"
	"github.com/verdavida/lawncare/internal/domains/customers/ports"
)

// SearchResult is one customer in a search response.
type SearchResult struct {
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

// SearchResponse is the GET /api/customers/search body.
type SearchResponse struct {
	Customers  []SearchResult `json:"customers"`
	TotalCount int            `json:"totalCount"`
}

// SeedResponse is the POST /api/customers/seed body.
type SeedResponse struct {
	Message   string    `json:"message"`
	Created   int       `json:"created"`
	Timestamp time.Time `json:"timestamp"`
}

func FromSearch(customers []*domain.Customer) SearchResponse {
	out := SearchResponse{Customers: make([]SearchResult, 0, len(customers))}
	for _, c := range customers {
		if c == nil {
			continue
		}
		out.Customers = append(out.Customers, SearchResult{
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
		})
	}
	out.TotalCount = len(out.Customers)
	return out
}

func FromSeedResult(result ports.SeedResult) SeedResponse {
	return SeedResponse{
		Message:   fmt.Sprintf("Successfully seeded %d customer records", result.Count),
		Created:   result.Count,
		Timestamp: result.Timestamp,
	}
}
