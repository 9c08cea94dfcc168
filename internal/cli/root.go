// Package cli implements the catalog-search command line.
package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gcbaptista/go-catalog-search/config"
	"github.com/gcbaptista/go-catalog-search/internal/engine"
	"github.com/gcbaptista/go-catalog-search/internal/logger"
	"github.com/gcbaptista/go-catalog-search/internal/metrics"
	"github.com/gcbaptista/go-catalog-search/services"
)

var version = "dev"

var (
	configPath string
	verbose    bool
)

// Set up by the root command before any subcommand runs.
// Tests inject catalogService directly.
var (
	appConfig      *config.Config
	appMetrics     *metrics.Metrics
	catalogService services.Catalog
)

var rootCmd = &cobra.Command{
	Use:   "catalog-search",
	Short: "Search a product catalog by prefix and fuzzy matching",
	Long: `catalog-search indexes a catalog of items and answers free-text queries.
Structured fields (idArticle, colorId, model, quality, price) match by prefix,
the description matches by bounded edit distance.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a .yaml or .toml config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func setup(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == versionCmd.Name() {
		return nil
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	logger.SetupWriter(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	appConfig = cfg

	if catalogService != nil {
		return nil
	}
	if cfg.Metrics.Enabled {
		appMetrics = metrics.New()
	}
	instance, err := engine.Open(cmd.Context(), cfg, appMetrics)
	if err != nil {
		return fmt.Errorf("opening catalog: %w", err)
	}
	catalogService = instance
	return nil
}

func requireCatalog() (services.Catalog, error) {
	if catalogService == nil {
		return nil, errors.New("catalog not configured")
	}
	return catalogService, nil
}

// isExitSentinel reports whether a console line ends the interactive loop.
func isExitSentinel(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "", "salir", "exit", "quit":
		return true
	default:
		return false
	}
}
