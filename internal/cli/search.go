package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gcbaptista/go-catalog-search/services"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the catalog",
	Long: `Runs a single query against the catalog. The query matches structured
fields by prefix and the description by edit distance; results are ranked by
combined score.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]
	if strings.TrimSpace(query) == "" {
		return errors.New("query must not be blank")
	}
	if searchLimit < 0 {
		return errors.New("limit must not be negative")
	}

	catalog, err := requireCatalog()
	if err != nil {
		return err
	}

	result, err := catalog.Search(cmd.Context(), services.SearchQuery{QueryString: query, Limit: searchLimit})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return renderJSON(cmd.OutOrStdout(), result)
	}
	renderResults(cmd.OutOrStdout(), result)
	return nil
}
