package application

import (
	"errors"
	"fmt"

	"github.com/verdavida/lawncare/internal/domains/customers/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid customer input")
	// ErrAlreadySeeded is returned when seeding would pile onto an existing customer base.
	ErrAlreadySeeded = errors.New("customers already exist in the database; clear existing customers before seeding")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrFirstNameRequired) ||
		errors.Is(err, domain.ErrLastNameRequired) ||
		errors.Is(err, domain.ErrInvalidEmail) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
