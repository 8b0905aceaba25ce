package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/swinghunter/internal/id"
	"github.com/rustyeddy/swinghunter/journal"
	"github.com/rustyeddy/swinghunter/market/data"
	"github.com/rustyeddy/swinghunter/scan"
	"github.com/rustyeddy/swinghunter/sim"
	"github.com/rustyeddy/swinghunter/strategies"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan a symbol universe and rank backtest results",
	Long: `Scan fans the symbol list out across a bounded worker pool. Each worker
loads the symbol's pre-augmented bar series, replays it through the trade
simulator, and reports performance; results are ranked by total return.

Example:
  swinghunter scan --data ./bars --symbols THYAO,GARAN,ASELS --db scan.sqlite`,
	RunE: runScan,
}

var (
	scanDataDir  string
	scanArchive  string
	scanSymbols  string
	scanDBPath   string
	scanTraining string
)

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVarP(&scanDataDir, "data", "d", "", "directory of per-symbol bar CSVs")
	scanCmd.Flags().StringVar(&scanArchive, "archive", "", "zip archive of per-symbol bar CSVs (alternative to --data)")
	scanCmd.Flags().StringVarP(&scanSymbols, "symbols", "s", "", "comma-separated symbol list (default: every symbol in --archive)")
	scanCmd.Flags().StringVar(&scanDBPath, "db", "", "SQLite journal path (optional)")
	scanCmd.Flags().StringVar(&scanTraining, "training", "", "ML training CSV path (overrides config)")
}

func runScan(cobraCmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var src scan.Source
	var symbols []string

	switch {
	case scanArchive != "":
		as := data.NewArchiveSource(scanArchive)
		src = as
		if scanSymbols == "" {
			symbols, err = as.Symbols()
			if err != nil {
				return err
			}
		}
	case scanDataDir != "":
		src = data.NewDirSource(scanDataDir)
	default:
		return fmt.Errorf("either --data or --archive is required")
	}

	if scanSymbols != "" {
		for _, s := range strings.Split(scanSymbols, ",") {
			if s = strings.TrimSpace(s); s != "" {
				symbols = append(symbols, strings.ToUpper(s))
			}
		}
	}
	if len(symbols) == 0 {
		return fmt.Errorf("no symbols to scan")
	}

	trainingPath := cfg.Journal.TrainingFile
	if scanTraining != "" {
		trainingPath = scanTraining
	}

	simOpts := []sim.Option{}
	var training *journal.TrainingWriter
	if trainingPath != "" {
		training, err = journal.NewTrainingWriter(trainingPath)
		if err != nil {
			return fmt.Errorf("training sink: %w", err)
		}
		defer training.Close()
		simOpts = append(simOpts, sim.WithTradeLogger(training))
	}

	simulator := sim.New(cfg.Backtest, simOpts...)
	eval := strategies.NewSwing(strategies.DefaultSwingParams(), cfg.Backtest)

	// Ctrl-C requests a cooperative stop: no new symbols are
	// dispatched, completed results are kept.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orch := scan.New(cfg.Scan, scan.WithProgress(func(processed, total int, symbol string) {
		fmt.Printf("\r[%d/%d] %-12s", processed, total, symbol)
	}))

	summary := orch.Scan(ctx, symbols, scan.BacktestTask(src, simulator, eval))
	fmt.Println()

	printSummary(summary)

	if scanDBPath != "" {
		if err := persistScan(scanDBPath, summary, cfg.Scan.Workers); err != nil {
			return fmt.Errorf("journal: %w", err)
		}
		fmt.Printf("\nJournal written to %s\n", scanDBPath)
	}
	return nil
}

func printSummary(s scan.Summary) {
	fmt.Println()
	fmt.Printf("%-10s %10s %8s %8s %10s %10s\n",
		"SYMBOL", "RETURN%", "TRADES", "WINRATE", "MAXDD%", "SHARPE")
	fmt.Println(strings.Repeat("-", 60))
	for _, r := range s.Results {
		res, ok := r.Payload.(sim.Result)
		if !ok {
			continue
		}
		pf := res.Report
		fmt.Printf("%-10s %10.2f %8d %7.1f%% %10.2f %10.2f\n",
			r.Symbol, pf.TotalReturnPct, pf.TotalTrades, pf.WinRate,
			pf.MaxDrawdownPct, pf.SharpeRatio)
	}

	if len(s.Skipped) > 0 {
		fmt.Printf("\nSkipped (%d):\n", len(s.Skipped))
		for _, r := range s.Skipped {
			reason := "error"
			if r.TimedOut {
				reason = "timeout"
			}
			if r.Err != nil {
				reason = fmt.Sprintf("%s: %v", reason, r.Err)
			}
			fmt.Printf("  %-10s %s\n", r.Symbol, reason)
		}
	}

	fmt.Printf("\n%d/%d symbols in %s", len(s.Results), s.Total, s.Elapsed.Round(time.Millisecond))
	if s.Stopped {
		fmt.Print(" (stopped early)")
	}
	fmt.Println()
}

func persistScan(dbPath string, s scan.Summary, workers int) error {
	db, err := journal.NewSQLite(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	runID := id.New()
	if err := db.RecordScanRun(journal.ScanRun{
		RunID:    runID,
		Created:  time.Now().UTC(),
		Symbols:  s.Total,
		Eligible: len(s.Results),
		Skipped:  len(s.Skipped),
		Elapsed:  s.Elapsed,
		Workers:  workers,
	}); err != nil {
		return err
	}

	for _, r := range s.Results {
		res, ok := r.Payload.(sim.Result)
		if !ok {
			continue
		}
		for _, p := range res.Trades {
			if err := db.RecordTrade(journal.FromPosition(runID, p)); err != nil {
				return err
			}
		}
		for _, e := range res.Equity {
			if err := db.RecordEquity(journal.FromSample(runID, e)); err != nil {
				return err
			}
		}
	}
	return nil
}
