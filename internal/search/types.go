package search

// partialScores is the contribution of one sub-query, keyed by document id.
// Each sub-query goroutine owns its own map.
type partialScores map[string]float64

// candidateHit represents a document candidate during search processing
type candidateHit struct {
	docID         string
	score         float64
	matchedFields map[string]struct{}
}
