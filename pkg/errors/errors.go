// Package errors provides custom error types for the rosetta system.
// These errors enable programmatic error checking and keep precondition
// failures descriptive and condition-specific throughout the library.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the rosetta system
var (
	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyInput indicates that an input collection had no usable elements
	ErrEmptyInput = errors.New("empty input")

	// ErrNotImplemented indicates that a feature is not yet implemented
	ErrNotImplemented = errors.New("not implemented")

	// ErrColumnNotFound indicates that a required column is missing from a table
	ErrColumnNotFound = errors.New("column not found")

	// ErrEntityTypeMismatch indicates that two content wrappers carry different entity types
	ErrEntityTypeMismatch = errors.New("entity type mismatch")

	// ErrUnusableJoinColumns indicates that no join columns survived reliability filtering
	ErrUnusableJoinColumns = errors.New("no usable join columns")
)

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ContentError represents a misuse of a content wrapper, such as merging
// wrappers of different entity types or joining on a missing identifier column
type ContentError struct {
	EntityType string
	Provider   string
	Message    string
	Err        error
}

// Error implements the error interface
func (e *ContentError) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("content error for %s %s: %s", e.Provider, e.EntityType, e.Message)
	}
	return fmt.Sprintf("content error for %s: %s", e.EntityType, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ContentError) Unwrap() error {
	return e.Err
}

// NewContentError creates a new ContentError
func NewContentError(entityType, provider, message string, err error) *ContentError {
	return &ContentError{
		EntityType: entityType,
		Provider:   provider,
		Message:    message,
		Err:        err,
	}
}

// SyncError represents an error during synchronization
type SyncError struct {
	EntityType string
	Providers  []string
	Err        error
}

// Error implements the error interface
func (e *SyncError) Error() string {
	if len(e.Providers) > 0 {
		return fmt.Sprintf("sync error for %s (providers: %v): %v", e.EntityType, e.Providers, e.Err)
	}
	return fmt.Sprintf("sync error for %s: %v", e.EntityType, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *SyncError) Unwrap() error {
	return e.Err
}

// NewSyncError creates a new SyncError
func NewSyncError(entityType string, providers []string, err error) *SyncError {
	return &SyncError{
		EntityType: entityType,
		Providers:  providers,
		Err:        err,
	}
}

// DataQualityError represents a data-quality gap that could not be degraded
// around, such as losing every join column to reliability filtering
type DataQualityError struct {
	EntityType string
	Column     string
	Message    string
}

// Error implements the error interface
func (e *DataQualityError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("data quality error for %s column %s: %s", e.EntityType, e.Column, e.Message)
	}
	return fmt.Sprintf("data quality error for %s: %s", e.EntityType, e.Message)
}

// Is implements errors.Is support
func (e *DataQualityError) Is(target error) bool {
	return target == ErrUnusableJoinColumns
}

// Helper functions for error checking

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsEmptyInput checks if an error indicates an empty input collection
func IsEmptyInput(err error) bool {
	return errors.Is(err, ErrEmptyInput)
}

// IsEntityTypeMismatch checks if an error is an entity type mismatch
func IsEntityTypeMismatch(err error) bool {
	return errors.Is(err, ErrEntityTypeMismatch)
}

// IsColumnNotFound checks if an error indicates a missing table column
func IsColumnNotFound(err error) bool {
	return errors.Is(err, ErrColumnNotFound)
}

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapSync wraps an error as a SyncError
func WrapSync(entityType string, providers []string, err error) error {
	if err == nil {
		return nil
	}
	return NewSyncError(entityType, providers, err)
}
