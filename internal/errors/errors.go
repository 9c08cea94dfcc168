package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrDocumentNotFound is returned when a document is not found
	ErrDocumentNotFound = errors.New("document not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrIndexInconsistent is returned when the inverted index references a
	// document that the document store does not hold
	ErrIndexInconsistent = errors.New("index inconsistent with document store")
)

// DocumentNotFoundError represents a document not found error with context
type DocumentNotFoundError struct {
	DocumentID string
}

func (e *DocumentNotFoundError) Error() string {
	return fmt.Sprintf("document with ID '%s' not found", e.DocumentID)
}

func (e *DocumentNotFoundError) Is(target error) bool {
	return target == ErrDocumentNotFound
}

// NewDocumentNotFoundError creates a new DocumentNotFoundError
func NewDocumentNotFoundError(documentID string) *DocumentNotFoundError {
	return &DocumentNotFoundError{DocumentID: documentID}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	DocumentID string
	Field      string
	Message    string
}

func (e *ValidationError) Error() string {
	prefix := "validation error"
	if e.DocumentID != "" {
		prefix = fmt.Sprintf("validation error for document '%s'", e.DocumentID)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s, field '%s': %s", prefix, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(documentID, field, message string) *ValidationError {
	return &ValidationError{DocumentID: documentID, Field: field, Message: message}
}

// IndexInconsistencyError reports a query that matched a document id the store cannot materialize.
// It wraps the underlying store error.
type IndexInconsistencyError struct {
	DocumentID string
	Err        error
}

func (e *IndexInconsistencyError) Error() string {
	return fmt.Sprintf("index references document '%s' missing from store: %v", e.DocumentID, e.Err)
}

func (e *IndexInconsistencyError) Is(target error) bool {
	return target == ErrIndexInconsistent
}

func (e *IndexInconsistencyError) Unwrap() error {
	return e.Err
}

// NewIndexInconsistencyError creates a new IndexInconsistencyError
func NewIndexInconsistencyError(documentID string, err error) *IndexInconsistencyError {
	return &IndexInconsistencyError{DocumentID: documentID, Err: err}
}
