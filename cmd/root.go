package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/chunkplot/internal/config"
	"github.com/KaramelBytes/chunkplot/internal/logging"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	logFile string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var (
	success = color.New(color.FgGreen)
	warning = color.New(color.FgYellow)
	failure = color.New(color.FgRed)
)

var rootCmd = &cobra.Command{
	Use:   "chunkplot",
	Short: "chunkplot: charts for chunking and deduplication benchmarks",
	Long: `chunkplot renders the results of chunker benchmarks: grouped bar charts
comparing chunkers per dataset for every metric of the measurements CSV, and
the chunk size distribution histogram.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	err := rootCmd.Execute()
	_ = logging.Close()
	if err != nil {
		failure.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SilenceErrors = true
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.chunkplot/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "append log lines to this file (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		warning.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Defaults()
	}
	cfg = c

	if f := rootCmd.PersistentFlags(); f.Changed("log-file") {
		cfg.LogFile = logFile
	}
	if err := logging.Init(cfg.LogFile, debug); err != nil {
		warning.Fprintf(os.Stderr, "⚠ Warning: failed to open log file: %v\n", err)
	}
}

// settings returns the loaded configuration, loading it on first use when the
// command was executed without Execute (as in tests).
func settings() *cfgpkg.Global {
	if cfg == nil {
		loadConfig()
	}
	return cfg
}

func mustPositive(name string, v float64) error {
	if v <= 0 {
		return fmt.Errorf("--%s must be positive, got %g", name, v)
	}
	return nil
}
