package store

import (
	"sort"
	"sync"

	internalErrors "github.com/gcbaptista/go-catalog-search/internal/errors"
	"github.com/gcbaptista/go-catalog-search/model"
)

// DocumentStore owns the full content of every indexed document, keyed by document id.
// The inverted index only ever refers to documents by id.
//
// Like the inverted index, the store does no locking of its own; services
// coordinate through Mu.
type DocumentStore struct {
	Mu   sync.RWMutex
	docs map[string]model.Document
}

// NewDocumentStore creates an empty store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]model.Document)}
}

// Put stores a copy of a document, replacing any previous document with the same id.
func (ds *DocumentStore) Put(doc model.Document) {
	if ds.docs == nil {
		ds.docs = make(map[string]model.Document)
	}
	ds.docs[doc.ID] = doc.Clone()
}

// Get returns a copy of the document with the given id, or a DocumentNotFoundError.
// Changing the copy never affects the stored document.
func (ds *DocumentStore) Get(id string) (model.Document, error) {
	doc, ok := ds.docs[id]
	if !ok {
		return model.Document{}, internalErrors.NewDocumentNotFoundError(id)
	}
	return doc.Clone(), nil
}

// Has reports whether a document with the given id is stored.
func (ds *DocumentStore) Has(id string) bool {
	_, ok := ds.docs[id]
	return ok
}

// Delete removes a document. Deleting an absent id is a no-op.
func (ds *DocumentStore) Delete(id string) {
	delete(ds.docs, id)
}

// Len returns the number of stored documents.
func (ds *DocumentStore) Len() int {
	return len(ds.docs)
}

// IDs returns every stored document id, sorted.
func (ds *DocumentStore) IDs() []string {
	ids := make([]string, 0, len(ds.docs))
	for id := range ds.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Reset drops every document.
func (ds *DocumentStore) Reset() {
	ds.docs = make(map[string]model.Document)
}
