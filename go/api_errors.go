package lawncareserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	catalogapp "github.com/verdavida/lawncare/internal/domains/catalog/application"
	catalogports "github.com/verdavida/lawncare/internal/domains/catalog/ports"
	customersapp "github.com/verdavida/lawncare/internal/domains/customers/application"
	estimatesapp "github.com/verdavida/lawncare/internal/domains/estimates/application"
	estimatesports "github.com/verdavida/lawncare/internal/domains/estimates/ports"
	apierrors "github.com/verdavida/lawncare/internal/shared/errors"
)

var responder = apierrors.NewResponder(
	mapValidationError,
	mapNotFoundError,
	mapConflictError,
	mapPersistenceError,
	mapInvalidInputError,
)

func mapValidationError(err error) (apierrors.ProblemDetail, bool) {
	var verr *estimatesapp.ValidationError
	if !errors.As(err, &verr) {
		return apierrors.ProblemDetail{}, false
	}
	return apierrors.NewValidationProblem(verr.Fields), true
}

func mapNotFoundError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, estimatesports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, catalogports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapConflictError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, estimatesapp.ErrInvalidTransition),
		errors.Is(err, estimatesports.ErrConcurrencyConflict),
		errors.Is(err, estimatesports.ErrIdempotencyConflict),
		errors.Is(err, customersapp.ErrAlreadySeeded):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

// Storage causes stay in the logs; callers only see the safe message.
func mapPersistenceError(err error) (apierrors.ProblemDetail, bool) {
	var perr *estimatesapp.PersistenceError
	if !errors.As(err, &perr) {
		return apierrors.ProblemDetail{}, false
	}
	problem := apierrors.ErrBadRequest.WithDetail(perr.Message)
	problem.Title = "Estimate operation failed"
	return problem, true
}

func mapInvalidInputError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, estimatesapp.ErrInvalidInput),
		errors.Is(err, customersapp.ErrInvalidInput),
		errors.Is(err, catalogapp.ErrInvalidInput):
		return apierrors.ErrBadRequest.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

// respondError writes err as a problem response.
func respondError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.RespondError(c, err)
}

func respondBadRequest(c *gin.Context, err error) {
	responder.BadRequest(c, err.Error())
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		responder.BadRequest(c, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}

func parseIntQuery(c *gin.Context, name string, fallback int) (int, bool) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return fallback, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		responder.BadRequest(c, name+" must be an integer")
		return 0, false
	}
	return value, true
}

func created(c *gin.Context, location string, body any) {
	c.Header("Location", location)
	c.JSON(http.StatusCreated, body)
}
