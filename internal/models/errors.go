package models

import (
	"errors"
	"fmt"
)

// Custom errors
var (
	ErrNotFound             = errors.New("record not found")
	ErrDuplicateKey         = errors.New("duplicate key violation")
	ErrInvalidID            = errors.New("invalid ID format")
	ErrInvalidInput         = errors.New("invalid input")
	ErrRatingUpdateConflict = errors.New("rating update conflict")
	ErrResultAlreadyApplied = errors.New("result already applied")
	ErrTeamNameRequired     = errors.New("team name is required")
)

// InputValidationError reports a request that can never succeed as submitted.
type InputValidationError struct {
	Field  string
	Reason string
}

// NewInputValidationError creates a validation error for a field.
func NewInputValidationError(field, reason string) *InputValidationError {
	return &InputValidationError{Field: field, Reason: reason}
}

func (e *InputValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid input: %s", e.Reason)
	}
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

// Unwrap allows errors.Is(err, ErrInvalidInput).
func (e *InputValidationError) Unwrap() error {
	return ErrInvalidInput
}
