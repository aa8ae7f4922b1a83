package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrListingNotFound is sent to clients verbatim as the { error } body.
	ErrListingNotFound  = errors.New("Listing not found")
	ErrInvalidSignature = errors.New("webhook signature verification failed")
)

// ValidationError reports a rejected listing or checkout submission.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// MissingField builds the ValidationError for an absent required field.
func MissingField(field string) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf("Missing required field: %s", field)}
}

// ProcessorError wraps a payment processor failure; Error returns the processor's message.
type ProcessorError struct {
	Err error
}

func (e *ProcessorError) Error() string {
	return e.Err.Error()
}

func (e *ProcessorError) Unwrap() error {
	return e.Err
}
