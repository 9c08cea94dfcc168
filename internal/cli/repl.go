package cli

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gcbaptista/go-catalog-search/internal/logger"
	"github.com/gcbaptista/go-catalog-search/services"
)

var replLimit int

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Query the catalog interactively",
	Long: `Reads one query per line and prints the ranked results.
An empty line, "salir" or "exit" ends the session.`,
	Args: cobra.NoArgs,
	RunE: runRepl,
}

func init() {
	replCmd.Flags().IntVarP(&replLimit, "limit", "n", 10, "maximum number of results per query")
	rootCmd.AddCommand(replCmd)
}

func runRepl(cmd *cobra.Command, _ []string) error {
	catalog, err := requireCatalog()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	st := newStyles(out)
	log := logger.WithComponent("cli")
	scanner := bufio.NewScanner(cmd.InOrStdin())

	for {
		fmt.Fprint(out, st.header.Render("search>")+" ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := scanner.Text()
		if isExitSentinel(line) {
			fmt.Fprintln(out, st.muted.Render("bye"))
			return nil
		}

		result, err := catalog.Search(cmd.Context(), services.SearchQuery{QueryString: line, Limit: replLimit})
		if err != nil {
			// A failed query does not end the session.
			log.Error("query failed", "query", line, "error", err)
			fmt.Fprintln(out, st.warn.Render("Search failed: "+err.Error()))
			continue
		}
		renderResults(out, result)
	}
}
