package model

import (
	"fmt"

	"github.com/gcbaptista/go-catalog-search/internal/tokenizer"
)

// Field names as they appear in JSON payloads and in the inverted index.
const (
	FieldIDArticle   = "idArticle"
	FieldColorID     = "colorId"
	FieldModel       = "model"
	FieldQuality     = "quality"
	FieldPrice       = "price"
	FieldDescription = "description"
)

// StructuredFields lists the fields matched by prefix, in index order.
var StructuredFields = []string{FieldIDArticle, FieldColorID, FieldModel, FieldQuality, FieldPrice}

// IsStructuredField reports whether field is one of StructuredFields.
func IsStructuredField(field string) bool {
	for _, f := range StructuredFields {
		if f == field {
			return true
		}
	}
	return false
}

// IsTextField reports whether field holds free text that can be tokenized.
func IsTextField(field string) bool {
	value, ok := Item{}.Value(field)
	if !ok {
		return false
	}
	_, isString := value.(string)
	return isString
}

// Item is a catalog entry: an article in a given color.
type Item struct {
	IDArticle   int     `json:"idArticle" yaml:"idArticle"`
	ColorID     int     `json:"colorId" yaml:"colorId"`
	Model       int     `json:"model" yaml:"model"`
	Quality     int     `json:"quality" yaml:"quality"`
	Price       float32 `json:"price" yaml:"price"`
	Description string  `json:"description" yaml:"description"`
}

// DefaultID returns the "<idArticle>-<colorId>" identifier used when the caller supplies none.
func (it Item) DefaultID() string {
	return fmt.Sprintf("%d-%d", it.IDArticle, it.ColorID)
}

// Value returns the typed value of a field.
func (it Item) Value(field string) (interface{}, bool) {
	switch field {
	case FieldIDArticle:
		return it.IDArticle, true
	case FieldColorID:
		return it.ColorID, true
	case FieldModel:
		return it.Model, true
	case FieldQuality:
		return it.Quality, true
	case FieldPrice:
		return it.Price, true
	case FieldDescription:
		return it.Description, true
	default:
		return nil, false
	}
}

// Document is the immutable indexed form of an Item.
// Text holds the textual representation of every structured field, which is
// what prefix queries match against.
type Document struct {
	ID   string            `json:"id"`
	Item Item              `json:"item"`
	Text map[string]string `json:"-"`
}

// NewDocument builds a Document, deriving the textual form of each structured field.
func NewDocument(id string, item Item) Document {
	text := make(map[string]string, len(StructuredFields))
	for _, field := range StructuredFields {
		value, _ := item.Value(field)
		text[field] = tokenizer.NormalizeValue(value)
	}
	return Document{ID: id, Item: item, Text: text}
}

// Clone returns a copy of the document that shares no mutable state with d.
func (d Document) Clone() Document {
	if d.Text == nil {
		return d
	}
	text := make(map[string]string, len(d.Text))
	for field, value := range d.Text {
		text[field] = value
	}
	d.Text = text
	return d
}

// String renders the document the way the console prints results.
func (d Document) String() string {
	return fmt.Sprintf("idArticle: %d, colorId: %d, model: %d, quality: %d, price: %s, description: %s",
		d.Item.IDArticle, d.Item.ColorID, d.Item.Model, d.Item.Quality, d.Text[FieldPrice], d.Item.Description)
}
