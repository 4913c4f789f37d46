package application

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	estimatetypes "github.com/verdavida/lawncare/internal/domains/estimates/application/types"
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(validateLineItem, estimatetypes.LineItemInput{})
	return v
}

func validateLineItem(sl validator.StructLevel) {
	item := sl.Current().Interface().(estimatetypes.LineItemInput)
	if !item.Quantity.IsPositive() {
		sl.ReportError(item.Quantity, "Quantity", "Quantity", "positive", "")
	}
	if item.UnitPrice.IsNegative() {
		sl.ReportError(item.UnitPrice, "UnitPrice", "UnitPrice", "nonnegative", "")
	}
	if !item.LineTotal.Equal(item.Quantity.Mul(item.UnitPrice)) {
		sl.ReportError(item.LineTotal, "LineTotal", "LineTotal", "linetotal", "")
	}
}

// validationFailure converts validator output into a ValidationError.
func validationFailure(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		key := fieldKey(fe.Namespace())
		if _, seen := fields[key]; !seen {
			fields[key] = fieldMessage(fe)
		}
	}
	return &ValidationError{Fields: fields}
}

// fieldKey turns "CreateEstimateInput.LineItems[0].UnitPrice" into "lineItems[0].unitPrice".
func fieldKey(namespace string) string {
	segments := strings.Split(namespace, ".")
	if len(segments) > 1 {
		segments = segments[1:]
	}
	for i, seg := range segments {
		segments[i] = lowerFirst(seg)
	}
	return strings.Join(segments, ".")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "invalid email format"
	case "max":
		return fmt.Sprintf("cannot exceed %s characters", fe.Param())
	case "min":
		if fe.Field() == "LineItems" {
			return "at least one line item is required"
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "positive":
		return "must be greater than 0"
	case "nonnegative":
		return "cannot be negative"
	case "linetotal":
		return "line total must equal quantity * unit price"
	default:
		return "is invalid"
	}
}
