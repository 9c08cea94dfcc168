package index

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIndex() *InvertedIndex {
	ii := NewInvertedIndex()
	ii.Index("1-1", "description", []string{"camiseta", "roja"})
	ii.Index("2-2", "description", []string{"camiseta", "azul"})
	ii.Index("9-9", "description", []string{"camiseta", "rosa", "rosa"})
	ii.Index("1-1", "idArticle", []string{"1"})
	ii.Index("10-10", "idArticle", []string{"10"})
	ii.Index("9090-3429", "idArticle", []string{"9090"})
	return ii
}

func TestIndexAndPostings(t *testing.T) {
	ii := newTestIndex()

	assert.Equal(t, PostingList{
		{DocID: "1-1", Frequency: 1},
		{DocID: "2-2", Frequency: 1},
		{DocID: "9-9", Frequency: 1},
	}, ii.Postings("description", "camiseta"))

	assert.Equal(t, PostingList{{DocID: "9-9", Frequency: 2}}, ii.Postings("description", "rosa"))

	t.Run("absent term", func(t *testing.T) {
		list := ii.Postings("description", "verde")
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})

	t.Run("absent field", func(t *testing.T) {
		list := ii.Postings("quality", "1")
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})

	t.Run("fields are independent", func(t *testing.T) {
		assert.Empty(t, ii.Postings("idArticle", "camiseta"))
	})
}

func TestIndex_PostingsUniquePerDocument(t *testing.T) {
	ii := NewInvertedIndex()
	ii.Index("1-1", "description", []string{"camiseta", "camiseta", "roja"})

	list := ii.Postings("description", "camiseta")
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].Frequency)
}

func TestIndex_EmptyTokens(t *testing.T) {
	ii := NewInvertedIndex()
	ii.Index("1-1", "description", nil)
	ii.Index("1-1", "description", []string{""})

	assert.Equal(t, 0, ii.TermCount("description"))
}

func TestTermsWithPrefix(t *testing.T) {
	ii := newTestIndex()

	tests := []struct {
		name   string
		field  string
		prefix string
		want   []string
	}{
		{"single digit prefix", "idArticle", "1", []string{"1", "10"}},
		{"exact value", "idArticle", "9090", []string{"9090"}},
		{"partial value", "idArticle", "90", []string{"9090"}},
		{"no match", "idArticle", "5", []string{}},
		{"longer than any term", "idArticle", "90901", []string{}},
		{"text field prefix", "description", "ro", []string{"roja", "rosa"}},
		{"empty prefix matches everything", "idArticle", "", []string{"1", "10", "9090"}},
		{"unknown field", "colorId", "1", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ii.TermsWithPrefix(tt.field, tt.prefix)
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFuzzyTerms(t *testing.T) {
	ii := newTestIndex()
	ctx := context.Background()

	t.Run("exact and one edit", func(t *testing.T) {
		got, err := ii.FuzzyTerms(ctx, "description", "roja", 1, 0)
		require.NoError(t, err)
		assert.Equal(t, []TermMatch{{Term: "roja", Distance: 0}, {Term: "rosa", Distance: 1}}, got)
	})

	t.Run("zero budget is exact only", func(t *testing.T) {
		got, err := ii.FuzzyTerms(ctx, "description", "rosa", 0, 0)
		require.NoError(t, err)
		assert.Equal(t, []TermMatch{{Term: "rosa", Distance: 0}}, got)
	})

	t.Run("two edits", func(t *testing.T) {
		got, err := ii.FuzzyTerms(ctx, "description", "camisetas", 2, 0)
		require.NoError(t, err)
		assert.Equal(t, []TermMatch{{Term: "camiseta", Distance: 1}}, got)
	})

	t.Run("no match", func(t *testing.T) {
		got, err := ii.FuzzyTerms(ctx, "description", "xyz123nonexistent", 2, 0)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("unknown field", func(t *testing.T) {
		got, err := ii.FuzzyTerms(ctx, "notes", "roja", 1, 0)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

// A term exactly maxDistance+1 edits away is never returned.
func TestFuzzyTerms_BoundEnforced(t *testing.T) {
	ii := NewInvertedIndex()
	ii.Index("a", "description", []string{"abcdef"}) // distance 0
	ii.Index("b", "description", []string{"abcxef"}) // distance 1
	ii.Index("c", "description", []string{"abxxef"}) // distance 2
	ii.Index("d", "description", []string{"axxxef"}) // distance 3

	for maxDistance := 0; maxDistance <= 2; maxDistance++ {
		got, err := ii.FuzzyTerms(context.Background(), "description", "abcdef", maxDistance, 0)
		require.NoError(t, err)
		assert.Len(t, got, maxDistance+1)
		for _, m := range got {
			assert.LessOrEqual(t, m.Distance, maxDistance)
		}
	}
}

func TestFuzzyTerms_Cancelled(t *testing.T) {
	ii := newTestIndex()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := ii.FuzzyTerms(ctx, "description", "roja", 1, 1)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, got)
}

func TestRemove(t *testing.T) {
	ii := newTestIndex()

	ii.Remove("1-1", "description", []string{"camiseta", "roja"})

	assert.Equal(t, PostingList{
		{DocID: "2-2", Frequency: 1},
		{DocID: "9-9", Frequency: 1},
	}, ii.Postings("description", "camiseta"))
	assert.Empty(t, ii.Postings("description", "roja"))
	assert.Equal(t, []string{"rosa"}, ii.TermsWithPrefix("description", "ro"), "orphaned term leaves the dictionary")

	t.Run("remove then reindex restores frequencies", func(t *testing.T) {
		ii.Remove("9-9", "description", []string{"camiseta", "rosa", "rosa"})
		ii.Index("9-9", "description", []string{"camiseta", "rosa"})
		assert.Equal(t, PostingList{{DocID: "9-9", Frequency: 1}}, ii.Postings("description", "rosa"))
	})

	t.Run("removing last term drops the field", func(t *testing.T) {
		ii.Remove("9090-3429", "idArticle", []string{"9090"})
		ii.Remove("1-1", "idArticle", []string{"1"})
		ii.Remove("10-10", "idArticle", []string{"10"})
		assert.NotContains(t, ii.Fields(), "idArticle")
	})

	t.Run("unknown field is a no-op", func(t *testing.T) {
		ii.Remove("1-1", "quality", []string{"1"})
	})
}

func TestTermCountFieldsReset(t *testing.T) {
	ii := newTestIndex()

	assert.Equal(t, 4, ii.TermCount("description"))
	assert.Equal(t, 3, ii.TermCount("idArticle"))
	assert.Equal(t, 0, ii.TermCount("price"))
	assert.Equal(t, []string{"description", "idArticle"}, ii.Fields())

	ii.Reset()

	assert.Empty(t, ii.Fields())
	assert.Empty(t, ii.TermsWithPrefix("idArticle", ""))
}

func TestZeroValueIndex(t *testing.T) {
	var ii InvertedIndex

	assert.Empty(t, ii.TermsWithPrefix("description", ""))
	assert.Empty(t, ii.Postings("description", "roja"))
	ii.Index("1-1", "description", []string{"roja"})
	assert.Equal(t, 1, ii.TermCount("description"))
}
