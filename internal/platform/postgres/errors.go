package postgres

import (
	"errors"

	"github.com/lib/pq"
)

// ErrorClass groups PostgreSQL failures by how callers should react.
type ErrorClass int

const (
	ErrorClassPermanent ErrorClass = iota
	ErrorClassUniqueViolation
	ErrorClassConcurrency
	ErrorClassTransient
)

// ClassifyError inspects the SQLSTATE of a lib/pq error.
func ClassifyError(err error) ErrorClass {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return ErrorClassPermanent
	}
	switch pqErr.Code {
	case "23505":
		return ErrorClassUniqueViolation
	case "40001", "40P01":
		return ErrorClassConcurrency
	case "55P03":
		return ErrorClassTransient
	default:
		return ErrorClassPermanent
	}
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	return ClassifyError(err) == ErrorClassUniqueViolation
}

// ConstraintName returns the violated constraint, if the driver reported one.
func ConstraintName(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint
	}
	return ""
}
