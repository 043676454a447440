package tos

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation indicates a missing or invalid request field.
	ErrValidation = errors.New("validation failed")

	// ErrCompletionFailed wraps any transport, auth or provider-side error.
	ErrCompletionFailed = errors.New("completion failed")

	// ErrCompletionTimeout indicates the completion call exceeded its deadline.
	ErrCompletionTimeout = errors.New("completion timed out")

	// ErrMalformedResponse indicates provider output that is not valid JSON.
	ErrMalformedResponse = errors.New("malformed model response")

	// ErrSchemaViolation indicates parsed output missing or mistyping required fields.
	ErrSchemaViolation = errors.New("model response violates schema")

	// ErrStoreUnavailable indicates the history store could not be read.
	ErrStoreUnavailable = errors.New("history store unavailable")
)

// ValidationError is a request-field error whose message is returned to the
// caller verbatim. It matches ErrValidation under errors.Is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// MissingField reports a required request field that was absent or blank.
func MissingField(field string) error {
	return &ValidationError{Message: fmt.Sprintf("Missing '%s' in request body", field)}
}

// InvalidField reports a request field with an unusable value.
func InvalidField(field, reason string) error {
	return &ValidationError{Message: fmt.Sprintf("Invalid '%s': %s", field, reason)}
}
