package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput signals a missing or out-of-range planning input.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidMask signals a malformed voxel mask (dimensions, labels or transform).
	ErrInvalidMask = errors.New("invalid mask")
	// ErrPlanNotFound signals a missing stored plan.
	ErrPlanNotFound = errors.New("plan not found")
)

// InputError wraps ErrInvalidInput with the offending field.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidInput.Error(), e.Field, e.Reason)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

// NewInputError creates a validation failure for a single input field.
func NewInputError(field, reason string) error {
	return &InputError{Field: field, Reason: reason}
}
