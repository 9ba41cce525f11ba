package cmd

import (
	"fmt"
	"log/slog"
	"os"

	cfgpkg "github.com/KaramelBytes/tabloom-cli/internal/config"
	"github.com/KaramelBytes/tabloom-cli/internal/logging"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile       string
	debug         bool
	flagDelimiter string
	flagLogFormat string

	// Loaded configuration
	cfg *cfgpkg.Global
	// Diagnostics logger, configured from cfg and the global flags
	logger = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "tabloom",
	Short: "tabloom: select, filter, group and join tabular files",
	Long: `tabloom loads CSV/TSV, Excel and parquet files into an in-memory table and
runs projection, filtering, missing-value dropping, grouping with aggregation
and joins on it, printing the result as a table, CSV, JSON Lines or Markdown.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.tabloom/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagDelimiter, "delimiter", "", "delimiter for text files: one character or tab|comma|semicolon|pipe (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "log format: text|json (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Defaults()
	}
	cfg = c

	f := rootCmd.PersistentFlags()
	if f.Changed("delimiter") {
		cfg.Delimiter = flagDelimiter
	}
	if f.Changed("log-format") && flagLogFormat != "" {
		cfg.LogFormat = flagLogFormat
	}
	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	logger = logging.Setup(level, cfg.LogFormat)
	logger.Debug("config loaded", "file", cfgFile, "output_format", cfg.OutputFormat, "delimiter", cfg.Delimiter)
}

// settings returns the loaded configuration or the defaults when commands run
// before initialization.
func settings() *cfgpkg.Global {
	if cfg == nil {
		return cfgpkg.Defaults()
	}
	return cfg
}
