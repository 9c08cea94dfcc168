package index

// Posting records that a document contains a term in one field, and how often.
// For a given (field, term) key there is at most one Posting per DocID.
type Posting struct {
	DocID     string `json:"doc_id"`
	Frequency int    `json:"frequency"`
}

// PostingList is a slice of Posting, sorted by DocID ascending when returned by the index.
type PostingList []Posting

// TermMatch is an indexed term found by a fuzzy lookup, with its edit distance to the query.
type TermMatch struct {
	Term     string `json:"term"`
	Distance int    `json:"distance"`
}
