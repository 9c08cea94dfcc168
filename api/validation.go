// Package api provides the HTTP surface of the catalog and its request validation.
package api

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// ValidateDocumentID validates a document ID path parameter
func ValidateDocumentID(documentID string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if documentID == "" {
		result.AddError("documentID", "Document ID is required")
		return result
	}

	if strings.TrimSpace(documentID) != documentID {
		result.AddError("documentID", "Document ID cannot have leading or trailing whitespace")
		return result
	}

	return result
}

// ValidateItems checks the shape of an ingest payload. Field-level rules
// (blank description, negative price, duplicates) are applied per record by
// the indexing service, which skips offending records instead of failing the batch.
func ValidateItems(items []ItemRequest) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if len(items) == 0 {
		result.AddError("items", "No items provided")
		return result
	}

	for i, item := range items {
		if item.ID != "" && strings.TrimSpace(item.ID) != item.ID {
			result.AddError(fmt.Sprintf("items[%d].id", i), "Item ID cannot have leading or trailing whitespace")
		}
	}

	return result
}

// ValidateSearchRequest rejects blank queries and negative limits.
// A zero limit selects the configured default.
func ValidateSearchRequest(query string, limit int) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if strings.TrimSpace(query) == "" {
		result.AddError("query", "Query must not be blank")
	}

	if limit < 0 {
		result.AddError("limit", "Limit must not be negative")
	}

	return result
}

// SendValidationError sends a standardized validation error response
func SendValidationError(c *gin.Context, result *ValidationResult) {
	SendStructuredValidationError(c, result)
}
