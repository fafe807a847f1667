package taskstore

import (
	"errors"
	"fmt"
)

// Error types for task lookups and validation.
var (
	// ErrNotFound is returned when a task with the given ID does not exist.
	ErrNotFound = errors.New("task not found")

	// ErrAmbiguous is returned when an id prefix matches more than one task.
	ErrAmbiguous = errors.New("task id is ambiguous")

	// ErrValidation is returned when a task fails validation.
	ErrValidation = errors.New("task validation failed")
)

// NotFoundError wraps ErrNotFound with the task ID that was not found.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task not found: %s", e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// ValidationError wraps ErrValidation with details about the validation failure.
type ValidationError struct {
	ID     string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("task validation failed for %s: %s", e.ID, e.Reason)
	}
	return fmt.Sprintf("task validation failed: %s", e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
