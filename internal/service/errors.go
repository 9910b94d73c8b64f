package service

import (
	"errors"
	"fmt"

	"meditrack/internal/model"
)

// Callers classify failures with errors.Is against these.
var (
	ErrValidation      = errors.New("validation failed")
	ErrAuthentication  = errors.New("authentication failed")
	ErrOutOfRange      = errors.New("selection out of range")
	ErrOutOfStock      = model.ErrOutOfStock
	ErrStorage         = errors.New("storage failure")
	ErrTooManyAttempts = errors.New("too many failed attempts")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func storageErr(err error) error {
	return fmt.Errorf("%w: %w", ErrStorage, err)
}
