package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rustyeddy/swinghunter/config"
	"github.com/rustyeddy/swinghunter/internal/logx"
)

var rootCmd = &cobra.Command{
	Use:   "swinghunter",
	Short: "A swing-trade scanner and backtest simulator",
	Long: `Swinghunter scans a universe of instruments, replays candidate trades
through a realistic execution simulator, and reports performance statistics.

It provides tools for:
  - Scanning symbol universes over a bounded worker pool
  - Backtesting with partial exits, trailing stops, and volatility slippage
  - Risk-based position sizing with an optional Kelly overlay
  - Journaling trades and equity curves to CSV or SQLite
  - Collecting ML training data from closed trades`,
}

var (
	cfgFile  string
	logLevel string
)

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	cobra.OnInitialize(func() {
		logx.SetDefault(logx.New(logLevel))
	})
}

// loadConfig returns the defaults, overlaid with --config when given.
func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(cfgFile)
}
