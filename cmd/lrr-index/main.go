// Package main provides the lrr-index CLI entry point.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/lrrindex/lrr-index/internal/config"
	"github.com/lrrindex/lrr-index/internal/diag"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool

	configPath string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(reportError(err))
	}
}

var rootCmd = &cobra.Command{
	Use:   "lrr-index",
	Short: "Build an author index from INSPIRE records",
	Long: `lrr-index converts INSPIRE-HEP records of a journal (EndNote XML or
literature JSON, from a file or a URL) into a static HTML author index:
papers grouped alphabetically by author surname.

Settings are read from lrr-index.yml (see --config). A .env file in the
working directory is loaded first.

Environment Variables:
  LOG_LEVEL            DEBUG, INFO, WARN or ERROR (default INFO)
  LRR_INDEX_CONFIG     Config file path
  LRR_INDEX_XML_URL    Overrides sources.xml_url
  LRR_INDEX_JSON_URL   Overrides sources.json_url`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogger,
}

func init() {
	// Load .env file if present
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $LRR_INDEX_CONFIG or ./"+config.ConfigFile+")")
	rootCmd.Version = Version
}

// setupLogger installs the default logger at LOG_LEVEL on stderr.
func setupLogger(cmd *cobra.Command, args []string) error {
	level := diag.ParseLevel(os.Getenv("LOG_LEVEL"))
	slog.SetDefault(diag.NewLogger(os.Stderr, level))
	return nil
}

// loadConfig loads the config file selected by --config. An explicit path
// must exist.
func loadConfig() (*config.Config, error) {
	return config.Load(config.Path(configPath), configPath != "")
}
