package domain

import (
	"errors"
	"fmt"
)

var (
	// auth
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrPermissionDenied       = errors.New("permission denied")

	// conflicts
	ErrUserExists = errors.New("user already exists")

	// lookups
	ErrNotFound        = errors.New("not found")
	ErrFlightNotFound  = fmtNotFound("flight")
	ErrBookingNotFound = fmtNotFound("booking")
	ErrUserNotFound    = fmtNotFound("user")

	ErrValidation = errors.New("validation error")
)

type notFoundError struct {
	entity string
}

func fmtNotFound(entity string) error {
	return &notFoundError{entity: entity}
}

func (e *notFoundError) Error() string {
	return e.entity + " not found"
}

func (e *notFoundError) Is(target error) bool {
	return target == ErrNotFound
}

type validationError struct {
	msg string
}

// Invalid builds an error that matches ErrValidation and whose text is safe to
// show to the caller.
func Invalid(format string, args ...any) error {
	return &validationError{msg: fmt.Sprintf(format, args...)}
}

func (e *validationError) Error() string {
	return e.msg
}

func (e *validationError) Is(target error) bool {
	return target == ErrValidation
}

// ValidationMessage returns the caller-facing text of the innermost error built
// by Invalid.
func ValidationMessage(err error) (string, bool) {
	var v *validationError
	if errors.As(err, &v) {
		return v.msg, true
	}
	return "", false
}
