package application

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	customerdomain "github.com/verdavida/lawncare/internal/domains/customers/domain"
	"github.com/verdavida/lawncare/internal/domains/estimates/domain"
)

var (
	// ErrInvalidInput signals the request failed validation.
	ErrInvalidInput = errors.New("invalid estimate input")
	// ErrInvalidTransition signals the estimate status does not allow the operation.
	ErrInvalidTransition = domain.ErrInvalidTransition
	// ErrPersistence marks storage failures whose details must not reach callers.
	ErrPersistence = errors.New("estimate persistence failed")
)

const (
	msgCreateDatabase   = "A database error occurred while creating the estimate"
	msgCreateUnexpected = "An unexpected error occurred while creating the estimate"
	msgSendDatabase     = "A database error occurred while sending the estimate"
	msgSendUnexpected   = "An unexpected error occurred while sending the estimate"
	msgCompleteDatabase = "A database error occurred while completing the job"
	msgCustomer         = "Failed to process customer information"
)

// ValidationError lists field level failures keyed by request field path.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

func fieldError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// PersistenceError carries a caller-safe message. The storage cause is kept for logs.
type PersistenceError struct {
	Message string
	Cause   error
}

func (e *PersistenceError) Error() string { return e.Message }

func (e *PersistenceError) Unwrap() []error { return []error{ErrPersistence, e.Cause} }

func persistenceError(message string, cause error) error {
	return &PersistenceError{Message: message, Cause: cause}
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNoLineItems) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrNegativePrice) ||
		errors.Is(err, domain.ErrLineTotalMismatch) ||
		errors.Is(err, customerdomain.ErrFirstNameRequired) ||
		errors.Is(err, customerdomain.ErrLastNameRequired) ||
		errors.Is(err, customerdomain.ErrInvalidEmail) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
