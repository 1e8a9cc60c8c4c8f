package nutrition

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput reports a missing, non-numeric, non-finite or
	// non-positive biometric field.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidEnum reports an unrecognized sex, activity level, goal or
	// macro policy.
	ErrInvalidEnum = errors.New("invalid enum value")

	// ErrInfeasibleTarget reports a goal adjustment or macro split that would
	// produce non-positive calories or negative grams.
	ErrInfeasibleTarget = errors.New("infeasible target")
)

// FieldError ties one of the sentinel errors above to the offending field.
// Use errors.Is against the sentinels to classify it.
type FieldError struct {
	Field string
	Value any
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v (got %q)", e.Field, e.Err, fmt.Sprint(e.Value))
}

func (e *FieldError) Unwrap() error { return e.Err }

func invalidInput(field string, value any) error {
	return &FieldError{Field: field, Value: value, Err: ErrInvalidInput}
}

func invalidEnum(field string, value any) error {
	return &FieldError{Field: field, Value: value, Err: ErrInvalidEnum}
}
