package storage

import (
	"errors"
	"fmt"
)

var (
	ErrEventNotFound          = errors.New("event not found")
	ErrEventExists            = errors.New("event with this slug already exists")
	ErrReferencedEventMissing = errors.New("referenced event does not exist")
	ErrEventReferenceCheck    = errors.New("failed to validate event reference")
)

// ValidationError wraps a failed model validation.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// CastError is returned when an identifier cannot be converted to the
// storage id type.
type CastError struct {
	Value string
	Err   error
}

func (e *CastError) Error() string {
	return fmt.Sprintf("cast to ObjectId failed for value %q: %s", e.Value, e.Err)
}

func (e *CastError) Unwrap() error {
	return e.Err
}
