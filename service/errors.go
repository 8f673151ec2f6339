package service

import (
	"errors"
	"strings"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrDuplicateEntry    = errors.New("duplicate entry")
	ErrNotFound          = errors.New("not found")
	ErrCapacityExceeded  = errors.New("capacity exceeded")
	ErrStorage           = errors.New("storage error")
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrInvalidAuthResult = errors.New("invalid auth response")
)

// ValidationError carries every violation found in a request, in the order
// they were checked.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "invalid request: " + strings.Join(e.Errors, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// ErrorCode maps an error from this package to a stable machine-readable code.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrDuplicateEntry):
		return "duplicate_entry"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrCapacityExceeded):
		return "capacity_exceeded"
	case errors.Is(err, ErrStorage):
		return "storage_error"
	case errors.Is(err, ErrNotAuthenticated):
		return "not_authenticated"
	}
	return "unknown"
}
