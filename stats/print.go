package stats

import (
	"fmt"
	"io"
	"math"
)

// Print writes a human-readable report for one symbol.
func Print(w io.Writer, symbol string, r Report) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, " Backtest Result: %s\n", symbol)
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trade Statistics")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Trades:        %d\n", r.TotalTrades)
	fmt.Fprintf(w, "Wins:          %d\n", r.WinCount)
	fmt.Fprintf(w, "Losses:        %d\n", r.LossCount)
	fmt.Fprintf(w, "Win Rate:      %.2f%%\n", r.WinRate)
	fmt.Fprintf(w, "Avg Win:       %.2f\n", r.AvgWin)
	fmt.Fprintf(w, "Avg Loss:      %.2f\n", r.AvgLoss)
	if math.IsInf(r.ProfitFactor, 1) {
		fmt.Fprintf(w, "Profit Factor: inf\n")
	} else {
		fmt.Fprintf(w, "Profit Factor: %.2f\n", r.ProfitFactor)
	}
	fmt.Fprintf(w, "Expectancy:    %.2f\n", r.Expectancy)
	fmt.Fprintf(w, "Avg Days Held: %.1f\n", r.AvgDaysHeld)
	fmt.Fprintf(w, "Avg MFE:       %.2f%%\n", r.AvgMFE)
	fmt.Fprintf(w, "Avg MAE:       %.2f%%\n", r.AvgMAE)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Account Performance")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Start Capital: %.2f\n", r.InitialCapital)
	fmt.Fprintf(w, "Final Equity:  %.2f\n", r.FinalEquity)
	fmt.Fprintf(w, "Net P/L:       %.2f\n", r.TotalProfit)
	fmt.Fprintf(w, "Return:        %.2f%%\n", r.TotalReturnPct)
	fmt.Fprintf(w, "Max Drawdown:  %.2f%%\n", r.MaxDrawdownPct)
	fmt.Fprintf(w, "Sharpe Ratio:  %.2f\n", r.SharpeRatio)
}
