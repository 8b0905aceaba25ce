// Package stats reduces closed trades and an equity curve into a
// performance report. All functions are pure.
package stats

import "math"

// TradeSummary is the slice of a closed position the analyzer needs.
type TradeSummary struct {
	Profit   float64 // realized P/L including partial exits
	DaysHeld int
	MFE      float64 // max favorable excursion, percent
	MAE      float64 // max adverse excursion, percent
}

// Report is an immutable reduction of one backtest run.
type Report struct {
	TotalTrades int     `json:"total_trades"`
	WinCount    int     `json:"winning_trades"`
	LossCount   int     `json:"losing_trades"`
	WinRate     float64 `json:"win_rate"`

	TotalProfit    float64 `json:"total_profit"`
	TotalReturnPct float64 `json:"total_return_pct"`
	AvgWin         float64 `json:"avg_win"`
	AvgLoss        float64 `json:"avg_loss"`
	ProfitFactor   float64 `json:"profit_factor"`

	MaxDrawdownPct float64 `json:"max_drawdown"`
	SharpeRatio    float64 `json:"sharpe_ratio"`
	Expectancy     float64 `json:"expectancy"`

	AvgDaysHeld float64 `json:"avg_days_held"`
	AvgMFE      float64 `json:"avg_mfe"`
	AvgMAE      float64 `json:"avg_mae"`

	InitialCapital float64 `json:"initial_capital"`
	FinalEquity    float64 `json:"final_equity"`
}

// Analyze computes the full report. An empty trade list yields an
// all-zero report with FinalEquity = initialCapital, never an error.
func Analyze(trades []TradeSummary, equity []float64, initialCapital float64) Report {
	if len(trades) == 0 {
		return Report{
			InitialCapital: initialCapital,
			FinalEquity:    initialCapital,
		}
	}

	var (
		wins, losses        int
		totalWin, totalLoss float64
		totalProfit         float64
		sumDays, sumMFE     float64
		sumMAE              float64
	)
	for _, t := range trades {
		totalProfit += t.Profit
		if t.Profit > 0 {
			wins++
			totalWin += t.Profit
		} else {
			losses++
			totalLoss += -t.Profit
		}
		sumDays += float64(t.DaysHeld)
		sumMFE += t.MFE
		sumMAE += t.MAE
	}

	n := float64(len(trades))
	winRate := float64(wins) / n * 100

	avgWin := 0.0
	if wins > 0 {
		avgWin = totalWin / float64(wins)
	}
	avgLoss := 0.0
	if losses > 0 {
		avgLoss = -totalLoss / float64(losses)
	}

	profitFactor := 0.0
	if totalLoss > 0 {
		profitFactor = totalWin / totalLoss
	} else if totalWin > 0 {
		profitFactor = math.Inf(1)
	}

	return Report{
		TotalTrades:    len(trades),
		WinCount:       wins,
		LossCount:      losses,
		WinRate:        winRate,
		TotalProfit:    totalProfit,
		TotalReturnPct: totalProfit / initialCapital * 100,
		AvgWin:         avgWin,
		AvgLoss:        avgLoss,
		ProfitFactor:   profitFactor,
		MaxDrawdownPct: MaxDrawdownPct(equity),
		SharpeRatio:    SharpeRatio(equity),
		Expectancy:     winRate/100*avgWin + (1-winRate/100)*avgLoss,
		AvgDaysHeld:    sumDays / n,
		AvgMFE:         sumMFE / n,
		AvgMAE:         sumMAE / n,
		InitialCapital: initialCapital,
		FinalEquity:    initialCapital + totalProfit,
	}
}

// MaxDrawdownPct returns the deepest peak-to-trough decline over the
// equity curve as a negative percentage (0 for flat or empty curves).
func MaxDrawdownPct(equity []float64) float64 {
	if len(equity) == 0 {
		return 0
	}
	peak := equity[0]
	maxDD := 0.0
	for _, v := range equity {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			dd := (v - peak) / peak * 100
			if dd < maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// SharpeRatio annualizes the mean/stdev of per-bar percentage returns
// with sqrt(252). Fewer than two equity samples, or a zero standard
// deviation, yields 0.
func SharpeRatio(equity []float64) float64 {
	if len(equity) < 2 {
		return 0
	}

	returns := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		if equity[i-1] == 0 {
			continue
		}
		returns = append(returns, (equity[i]-equity[i-1])/equity[i-1])
	}
	if len(returns) < 2 {
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(returns) - 1)

	sd := math.Sqrt(variance)
	if sd == 0 {
		return 0
	}
	return mean / sd * math.Sqrt(252)
}
