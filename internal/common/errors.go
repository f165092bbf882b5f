package common

import (
	"errors"
	"fmt"
)

// Domain failures returned by services. Callers match them with errors.Is.
var (
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbidden            = errors.New("forbidden")
	ErrNotFound             = errors.New("not found")
	ErrNotLinkedToUnit      = errors.New("user is not linked to this unit")
	ErrCrossTenantUnit      = errors.New("unit does not belong to this condominium")
	ErrQuotaExceeded        = errors.New("plan unit limit reached")
	ErrDuplicateUnit        = errors.New("unit already registered in this block")
	ErrInvalidState         = errors.New("package is no longer pending")
	ErrValidationFailed     = errors.New("validation failed")
	ErrDuplicateUser        = errors.New("email or tax id already registered")
	ErrDuplicateCondominium = errors.New("condominium tax id already registered")
	ErrRateLimited          = errors.New("too many attempts, try again later")
)

// QuotaExceededError carries the counter and limit observed when the quota check failed.
type QuotaExceededError struct {
	Current int
	Limit   int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("unit limit reached (%d/%d), upgrade the plan", e.Current, e.Limit)
}

func (e *QuotaExceededError) Is(target error) bool {
	return target == ErrQuotaExceeded
}

// ValidationError names the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
