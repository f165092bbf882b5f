package common

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// Order matters: the first sentinel matched by errors.Is wins.
var errorMappings = []errorMapping{
	{ErrValidationFailed, http.StatusBadRequest, "VALIDATION_FAILED"},
	{ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
	{ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{ErrNotLinkedToUnit, http.StatusForbidden, "NOT_LINKED_TO_UNIT"},
	{ErrCrossTenantUnit, http.StatusUnprocessableEntity, "CROSS_TENANT_UNIT"},
	{ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{ErrQuotaExceeded, http.StatusConflict, "QUOTA_EXCEEDED"},
	{ErrDuplicateUnit, http.StatusConflict, "DUPLICATE_UNIT"},
	{ErrDuplicateUser, http.StatusConflict, "DUPLICATE_USER"},
	{ErrDuplicateCondominium, http.StatusConflict, "DUPLICATE_CONDOMINIUM"},
	{ErrInvalidState, http.StatusConflict, "INVALID_STATE"},
	{ErrRateLimited, http.StatusTooManyRequests, "RATE_LIMITED"},
}

// HTTPStatus returns the status code and error code a service error is reported with.
func HTTPStatus(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, "SERVER_ERROR"
}

// RespondError writes err in the standard error envelope.
func RespondError(c echo.Context, err error) error {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	status, code := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).
			Str("method", c.Request().Method).
			Str("route", c.Path()).
			Msg("request failed")
		return SendServerError(c, "Internal server error")
	}

	var details map[string]string
	message := err.Error()

	var validationErr *ValidationError
	var quotaErr *QuotaExceededError
	switch {
	case errors.As(err, &validationErr):
		message = "Validation failed"
		details = map[string]string{validationErr.Field: validationErr.Message}
	case errors.As(err, &quotaErr):
		details = map[string]string{
			"current": strconv.Itoa(quotaErr.Current),
			"limit":   strconv.Itoa(quotaErr.Limit),
		}
	case status == http.StatusUnauthorized:
		// Never tell the caller which tenancy check failed.
		message = ErrUnauthorized.Error()
	}

	log.Debug().Err(err).Int("status", status).Str("route", c.Path()).Msg("request rejected")
	return c.JSON(status, CreateErrorResponse(code, message, details))
}
