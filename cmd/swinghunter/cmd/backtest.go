package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/swinghunter/internal/id"
	"github.com/rustyeddy/swinghunter/journal"
	"github.com/rustyeddy/swinghunter/market/data"
	"github.com/rustyeddy/swinghunter/sim"
	"github.com/rustyeddy/swinghunter/stats"
	"github.com/rustyeddy/swinghunter/strategies"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Backtest a single symbol and print its performance report",
	Long: `Backtest replays one symbol's bar history through the trade simulator:
risk-based sizing, partial exits at target 1, trailing stops, and a
30-day time stop, with volatility-scaled slippage on every fill.

Example:
  swinghunter backtest --data ./bars --symbol THYAO`,
	RunE: runBacktestCmd,
}

var (
	btDataDir    string
	btSymbol     string
	btTradesFile string
	btEquityFile string
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVarP(&btDataDir, "data", "d", "", "directory of per-symbol bar CSVs (required)")
	backtestCmd.Flags().StringVarP(&btSymbol, "symbol", "s", "", "symbol to backtest (required)")
	backtestCmd.Flags().StringVar(&btTradesFile, "trades", "", "write closed trades to this CSV")
	backtestCmd.Flags().StringVar(&btEquityFile, "equity", "", "write the equity curve to this CSV")

	backtestCmd.MarkFlagRequired("data")
	backtestCmd.MarkFlagRequired("symbol")
}

func runBacktestCmd(cobraCmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	symbol := strings.ToUpper(strings.TrimSpace(btSymbol))
	bars, err := data.LoadCSV(data.SymbolPath(btDataDir, symbol))
	if err != nil {
		return err
	}

	simulator := sim.New(cfg.Backtest)
	eval := strategies.NewSwing(strategies.DefaultSwingParams(), cfg.Backtest)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Scan.SymbolTimeout.Std())
	defer cancel()

	res, err := simulator.Run(ctx, symbol, bars, eval)
	if err != nil {
		return err
	}

	stats.Print(os.Stdout, symbol, res.Report)

	if btTradesFile != "" || btEquityFile != "" {
		if btTradesFile == "" || btEquityFile == "" {
			return fmt.Errorf("--trades and --equity must be given together")
		}
		j, err := journal.NewCSV(btTradesFile, btEquityFile)
		if err != nil {
			return err
		}
		defer j.Close()

		runID := id.New()
		for _, p := range res.Trades {
			if err := j.RecordTrade(journal.FromPosition(runID, p)); err != nil {
				return err
			}
		}
		for _, e := range res.Equity {
			if err := j.RecordEquity(journal.FromSample(runID, e)); err != nil {
				return err
			}
		}
		fmt.Printf("\nTrades: %s\nEquity: %s\n", btTradesFile, btEquityFile)
	}

	return nil
}
