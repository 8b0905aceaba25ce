// Package risk computes position sizes and stop/target levels for long
// swing entries.
package risk

import "math"

// Size returns the share count for a long entry under fixed-fractional
// risk: floor(capital*riskPct% / (entry-stop)), hard-capped so the
// position never consumes more than 25% of capital.
//
// Fails soft to 0 shares on a non-positive price, stop, or risk
// distance; rejecting the entry is the caller's job.
func Size(capital, riskPct, entryPrice, stopLoss float64) int {
	if entryPrice <= 0 || stopLoss <= 0 || capital <= 0 {
		return 0
	}
	if riskPct <= 0 || riskPct > 100 {
		return 0
	}

	riskPerShare := entryPrice - stopLoss
	if riskPerShare <= 0 {
		return 0
	}

	riskAmount := capital * riskPct / 100
	shares := int(riskAmount / riskPerShare)

	maxShares := int(capital * 0.25 / entryPrice)
	if shares > maxShares {
		shares = maxShares
	}
	return shares
}

// KellyFraction returns the Kelly-optimal capital fraction for the given
// historical stats, clamped to [0, 0.25] (quarter-Kelly style cap).
// winRate is in percent. Returns 0 when either average is non-positive.
func KellyFraction(winRate, avgWin, avgLoss float64) float64 {
	if avgWin <= 0 || avgLoss <= 0 {
		return 0
	}

	p := winRate / 100
	b := avgWin / avgLoss
	kelly := (b*p - (1 - p)) / b

	if kelly < 0 {
		return 0
	}
	return math.Min(kelly, 0.25)
}

// SizeKelly scales the fixed-risk size by the Kelly fraction. A zero
// fraction sizes the position to zero, i.e. no trade.
func SizeKelly(capital, riskPct, entryPrice, stopLoss, winRate, avgWin, avgLoss float64) int {
	base := Size(capital, riskPct, entryPrice, stopLoss)
	f := KellyFraction(winRate, avgWin, avgLoss)
	return int(float64(base) * f)
}
