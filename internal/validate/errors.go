// ABOUTME: Validation error types.
// ABOUTME: Every failure matches ErrValidation so callers can tell bad input from storage faults.
package validate

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation is matched by every validation failure.
var ErrValidation = errors.New("validation failed")

// FieldError describes one rejected input field.
type FieldError struct {
	Field  string
	Input  string
	Reason string
}

func (e *FieldError) Error() string {
	if e.Input == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %q is %s", e.Field, e.Input, e.Reason)
}

// Is reports whether target is ErrValidation.
func (e *FieldError) Is(target error) bool {
	return target == ErrValidation
}

// Errors aggregates field errors from one form.
type Errors []*FieldError

func (es Errors) Error() string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return "invalid input: " + strings.Join(msgs, "; ")
}

// Is reports whether target is ErrValidation.
func (es Errors) Is(target error) bool {
	return target == ErrValidation
}

// Unwrap exposes the individual field errors to errors.As.
func (es Errors) Unwrap() []error {
	out := make([]error, len(es))
	for i, e := range es {
		out[i] = e
	}
	return out
}

// Err returns es as an error, or nil when empty.
func (es Errors) Err() error {
	if len(es) == 0 {
		return nil
	}
	return es
}

// Required returns the error for a missing value.
func Required(field string) *FieldError {
	return &FieldError{Field: field, Reason: "required"}
}
