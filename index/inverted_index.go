package index

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/gcbaptista/go-catalog-search/internal/typoutil"
)

const defaultScanBatch = 256

// fieldIndex holds the dictionary and postings of a single field.
// terms is kept sorted so prefix lookups can binary search into it.
type fieldIndex struct {
	postings map[string]map[string]int // term -> docID -> frequency
	terms    []string
}

func newFieldIndex() *fieldIndex {
	return &fieldIndex{postings: make(map[string]map[string]int)}
}

// InvertedIndex maps (field, term) keys to the postings of the documents containing them.
//
// The index performs no locking of its own. Writers (the indexing service)
// hold Mu for writing across a whole document; readers (the search service)
// hold Mu for reading across a whole query, so a query never observes a
// half-indexed document.
type InvertedIndex struct {
	Mu     sync.RWMutex
	fields map[string]*fieldIndex
}

// NewInvertedIndex creates an empty index.
func NewInvertedIndex() *InvertedIndex {
	return &InvertedIndex{fields: make(map[string]*fieldIndex)}
}

func (ii *InvertedIndex) field(name string, create bool) *fieldIndex {
	if ii.fields == nil {
		if !create {
			return nil
		}
		ii.fields = make(map[string]*fieldIndex)
	}
	fi, ok := ii.fields[name]
	if !ok && create {
		fi = newFieldIndex()
		ii.fields[name] = fi
	}
	return fi
}

// Index adds the tokens of one document field, creating or incrementing a posting per distinct token.
// Re-indexing a document id without removing it first accumulates frequencies;
// callers must Remove before re-indexing.
func (ii *InvertedIndex) Index(docID, field string, tokens []string) {
	if len(tokens) == 0 {
		return
	}
	fi := ii.field(field, true)

	termFrequencies := make(map[string]int, len(tokens))
	for _, token := range tokens {
		if token == "" {
			continue
		}
		termFrequencies[token]++
	}

	for term, freq := range termFrequencies {
		docs, exists := fi.postings[term]
		if !exists {
			docs = make(map[string]int)
			fi.postings[term] = docs
			fi.insertTerm(term)
		}
		docs[docID] += freq
	}
}

// Remove deletes the postings a previous Index call created for docID in field.
// Terms left without postings are dropped from the dictionary.
func (ii *InvertedIndex) Remove(docID, field string, tokens []string) {
	fi := ii.field(field, false)
	if fi == nil {
		return
	}
	for _, term := range tokens {
		docs, ok := fi.postings[term]
		if !ok {
			continue
		}
		delete(docs, docID)
		if len(docs) == 0 {
			delete(fi.postings, term)
			fi.removeTerm(term)
		}
	}
	if len(fi.postings) == 0 {
		delete(ii.fields, field)
	}
}

func (fi *fieldIndex) insertTerm(term string) {
	i := sort.SearchStrings(fi.terms, term)
	fi.terms = append(fi.terms, "")
	copy(fi.terms[i+1:], fi.terms[i:])
	fi.terms[i] = term
}

func (fi *fieldIndex) removeTerm(term string) {
	i := sort.SearchStrings(fi.terms, term)
	if i < len(fi.terms) && fi.terms[i] == term {
		fi.terms = append(fi.terms[:i], fi.terms[i+1:]...)
	}
}

// TermsWithPrefix returns every term of field that starts with prefix, in sorted order.
// An empty prefix matches every term. Never returns nil.
func (ii *InvertedIndex) TermsWithPrefix(field, prefix string) []string {
	matches := make([]string, 0)
	fi := ii.field(field, false)
	if fi == nil {
		return matches
	}

	for i := sort.SearchStrings(fi.terms, prefix); i < len(fi.terms); i++ {
		if !strings.HasPrefix(fi.terms[i], prefix) {
			break
		}
		matches = append(matches, fi.terms[i])
	}
	return matches
}

// Postings returns the postings for an exact (field, term) key sorted by DocID.
// Never returns nil.
func (ii *InvertedIndex) Postings(field, term string) PostingList {
	list := make(PostingList, 0)
	fi := ii.field(field, false)
	if fi == nil {
		return list
	}
	docs, ok := fi.postings[term]
	if !ok {
		return list
	}
	for docID, freq := range docs {
		list = append(list, Posting{DocID: docID, Frequency: freq})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].DocID < list[j].DocID })
	return list
}

// FuzzyTerms returns every term of field within maxDistance edits of query,
// sorted by distance and then term.
//
// The scan checks ctx every batch terms and stops with ctx.Err() once the
// context is done. A non-positive batch uses the default of 256.
func (ii *InvertedIndex) FuzzyTerms(ctx context.Context, field, query string, maxDistance, batch int) ([]TermMatch, error) {
	matches := make([]TermMatch, 0)
	fi := ii.field(field, false)
	if fi == nil {
		return matches, nil
	}
	if batch <= 0 {
		batch = defaultScanBatch
	}

	queryRunes := []rune(query)
	queryLen := len(queryRunes)

	for i, term := range fi.terms {
		if i%batch == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		// Byte length bounds rune length from above, and a rune is at most 4 bytes.
		// Cheap rejection before decoding the term.
		if len(term) < queryLen-maxDistance || (len(term)+3)/4 > queryLen+maxDistance {
			continue
		}

		distance := typoutil.BoundedLevenshteinRunes(queryRunes, []rune(term), maxDistance)
		if distance <= maxDistance {
			matches = append(matches, TermMatch{Term: term, Distance: distance})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})
	return matches, nil
}

// TermCount returns the number of distinct terms indexed for field.
func (ii *InvertedIndex) TermCount(field string) int {
	fi := ii.field(field, false)
	if fi == nil {
		return 0
	}
	return len(fi.terms)
}

// Fields returns the names of every field holding at least one term, sorted.
func (ii *InvertedIndex) Fields() []string {
	names := make([]string, 0, len(ii.fields))
	for name := range ii.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reset drops every term and posting.
func (ii *InvertedIndex) Reset() {
	ii.fields = make(map[string]*fieldIndex)
}
