package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	internalErrors "github.com/gcbaptista/go-catalog-search/internal/errors"
	"github.com/gcbaptista/go-catalog-search/model"
	"github.com/gcbaptista/go-catalog-search/services"
)

// ItemRequest is the JSON form of one item to ingest: the item fields plus an optional id.
type ItemRequest struct {
	ID string `json:"id,omitempty"`
	model.Item
}

// AddItemsHandler handles the request to add items to the catalog.
// Request Body: an ItemRequest object or an array of them.
// With ?reset=true the catalog is emptied first.
func (api *API) AddItemsHandler(c *gin.Context) {
	items, err := bindItems(c)
	if err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	if result := ValidateItems(items); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	reset := false
	if v := c.Query("reset"); v != "" {
		if reset, err = strconv.ParseBool(v); err != nil {
			SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest, "Invalid value for 'reset': "+v)
			return
		}
	}

	records := make([]services.Record, len(items))
	for i, item := range items {
		records[i] = services.Record{ID: item.ID, Item: item.Item}
	}

	var result services.BatchResult
	if reset {
		result, err = api.catalog.Reseed(c.Request.Context(), records)
	} else {
		result, err = api.catalog.AddItems(c.Request.Context(), records)
	}
	if err != nil {
		SendIndexingError(c, "add items", err)
		return
	}

	if result.Indexed == 0 && len(result.Failed) > 0 {
		details := make([]ErrorDetail, len(result.Failed))
		for i, failure := range result.Failed {
			details[i] = ErrorDetail{
				Field:   fmt.Sprintf("items[%d]", failure.Position),
				Message: failure.Error,
				Code:    "VALIDATION_ERROR",
			}
		}
		SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, "No item could be indexed", details...)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("%d item(s) indexed, %d rejected", result.Indexed, len(result.Failed)),
		"indexed": result.Indexed,
		"failed":  result.Failed,
	})
}

// bindItems binds either an array of items or a single item object.
// The body is read once and cached by gin, so both shapes can be tried.
func bindItems(c *gin.Context) ([]ItemRequest, error) {
	var items []ItemRequest
	if err := c.ShouldBindBodyWith(&items, binding.JSON); err == nil {
		return items, nil
	}

	var item ItemRequest
	if err := c.ShouldBindBodyWith(&item, binding.JSON); err != nil {
		return nil, fmt.Errorf("expecting an item object or an array of items: %w", err)
	}
	return []ItemRequest{item}, nil
}

// DeleteAllItemsHandler handles the request to drop every item from the catalog.
func (api *API) DeleteAllItemsHandler(c *gin.Context) {
	api.catalog.Reset()
	c.JSON(http.StatusOK, gin.H{"message": "All items deleted"})
}

// GetItemHandler handles the request to retrieve one item by document id.
func (api *API) GetItemHandler(c *gin.Context) {
	documentID := c.Param("documentId")
	if result := ValidateDocumentID(documentID); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	doc, err := api.catalog.Get(documentID)
	if err != nil {
		if errors.Is(err, internalErrors.ErrDocumentNotFound) {
			SendDocumentNotFoundError(c, documentID)
			return
		}
		SendInternalError(c, "get item", err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

// DeleteItemHandler handles the request to delete one item by document id.
func (api *API) DeleteItemHandler(c *gin.Context) {
	documentID := c.Param("documentId")
	if result := ValidateDocumentID(documentID); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if err := api.catalog.Remove(documentID); err != nil {
		if errors.Is(err, internalErrors.ErrDocumentNotFound) {
			SendDocumentNotFoundError(c, documentID)
			return
		}
		SendIndexingError(c, "delete item", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item '" + documentID + "' deleted"})
}
