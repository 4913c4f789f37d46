package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrFirstNameRequired = errors.New("first name is required")
	ErrLastNameRequired  = errors.New("last name is required")
	ErrInvalidEmail      = errors.New("email must contain '@'")
)

// Customer is a person or household that receives estimates.
type Customer struct {
	ID         int64
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	Address    string
	City       string
	State      string
	PostalCode string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Contact groups the submitted fields used to create a customer.
type Contact struct {
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	Address    string
	City       string
	State      string
	PostalCode string
}

// NewCustomer builds an active customer from contact details.
func NewCustomer(contact Contact) (*Customer, error) {
	c := &Customer{
		FirstName:  strings.TrimSpace(contact.FirstName),
		LastName:   strings.TrimSpace(contact.LastName),
		Email:      NormalizeEmail(contact.Email),
		Phone:      strings.TrimSpace(contact.Phone),
		Address:    strings.TrimSpace(contact.Address),
		City:       strings.TrimSpace(contact.City),
		State:      strings.TrimSpace(contact.State),
		PostalCode: strings.TrimSpace(contact.PostalCode),
		IsActive:   true,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate enforces invariants on the aggregate.
func (c *Customer) Validate() error {
	if c.FirstName == "" {
		return ErrFirstNameRequired
	}
	if c.LastName == "" {
		return ErrLastNameRequired
	}
	if !strings.Contains(c.Email, "@") {
		return ErrInvalidEmail
	}
	return nil
}

// FullName joins first and last name.
func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// FullAddress renders "Address, City, State PostalCode".
func (c *Customer) FullAddress() string {
	return fmt.Sprintf("%s, %s, %s %s", c.Address, c.City, c.State, c.PostalCode)
}

// NormalizeEmail trims and lowercases an address for lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
