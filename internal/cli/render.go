package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gcbaptista/go-catalog-search/services"
)

// styles holds the console styles, bound to one output so colour is only
// emitted on terminals.
type styles struct {
	header lipgloss.Style
	rank   lipgloss.Style
	id     lipgloss.Style
	score  lipgloss.Style
	muted  lipgloss.Style
	warn   lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		header: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")),
		rank:   r.NewStyle().Foreground(lipgloss.Color("#6C7086")),
		id:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("#06B6D4")),
		score:  r.NewStyle().Foreground(lipgloss.Color("#A6E3A1")),
		muted:  r.NewStyle().Foreground(lipgloss.Color("#6C7086")),
		warn:   r.NewStyle().Foreground(lipgloss.Color("#F9E2AF")),
	}
}

func renderResults(w io.Writer, result services.SearchResult) {
	st := newStyles(w)
	if result.NoResults() {
		fmt.Fprintln(w, st.warn.Render("No results found."))
		return
	}

	fmt.Fprintln(w, st.header.Render(fmt.Sprintf("Results (%d of %d):", len(result.Hits), result.Total)))
	for i, hit := range result.Hits {
		fmt.Fprintf(w, "  %s %s %s\n",
			st.rank.Render(fmt.Sprintf("[%d]", i+1)),
			st.id.Render(hit.Document.ID),
			st.score.Render(fmt.Sprintf("(%.2f)", hit.Score)),
		)
		fmt.Fprintf(w, "      %s\n", hit.Document.String())
		fmt.Fprintf(w, "      %s\n", st.muted.Render("matched: "+strings.Join(hit.MatchedFields, ", ")))
	}
}

func renderJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
