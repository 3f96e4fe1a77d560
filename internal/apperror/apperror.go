package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors for the expected domain outcomes. Handlers check these with
// errors.Is to pick the HTTP status; everything else is treated as a store
// failure.
var (
	ErrNotFound           = errors.New("not found")
	ErrNotRegistered      = errors.New("not registered")
	ErrIdentityValidation = errors.New("identity validation failed")
	ErrWindowExpired      = errors.New("delete window expired")
	ErrForbidden          = errors.New("forbidden")
	ErrStore              = errors.New("store unavailable")
)

// AppError pairs a sentinel with a human-readable reason string.
type AppError struct {
	Err     error
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func NotRegistered(name string) *AppError {
	return &AppError{
		Err:     ErrNotRegistered,
		Message: fmt.Sprintf("user %q not found. Enter correct name or provide GitHub to register", name),
	}
}

func IdentityValidationFailed(ref string) *AppError {
	return &AppError{
		Err:     ErrIdentityValidation,
		Message: fmt.Sprintf("could not verify GitHub profile %q", ref),
	}
}

func WindowExpired() *AppError {
	return &AppError{
		Err:     ErrWindowExpired,
		Message: "delete window expired (30 minutes only)",
	}
}

func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

func Store(op string, err error) *AppError {
	return &AppError{
		Err:     ErrStore,
		Message: fmt.Sprintf("storage failure during %s: %v", op, err),
	}
}
