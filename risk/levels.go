package risk

import (
	"math"

	"github.com/rustyeddy/swinghunter/market"
)

// Levels are the risk/reward parameters attached to an entry signal.
type Levels struct {
	StopLoss float64
	Target1  float64
	Target2  float64
	RRRatio  float64
	RiskPct  float64
}

// LevelParams configures stop and target placement.
type LevelParams struct {
	ATRStopMultiplier float64 // stop distance in ATRs below close
	StopLossLookback  int     // bars to scan for the swing low
	Target1Multiplier float64 // target1 = close + risk * multiplier
	Target2Multiplier float64
}

// Compute derives stop and target levels for an entry at bars[idx]'s
// close. The stop is the tighter of an ATR stop and 2% under the recent
// swing low; targets are risk multiples above. When no ATR is available
// the fallback is a flat 5%/6%/10% geometry around the close.
func Compute(bars []market.Bar, idx int, p LevelParams) Levels {
	if idx < 0 || idx >= len(bars) {
		return Levels{}
	}
	price := bars[idx].Close
	if price <= 0 {
		return Levels{}
	}

	atr, ok := bars[idx].ATR()
	if !ok {
		return fallbackLevels(price)
	}

	atrStop := price - p.ATRStopMultiplier*atr

	swingStop := price * 0.95
	if low := market.LowestLow(bars, idx, p.StopLossLookback); low > 0 {
		swingStop = low * 0.98
	}

	stop := math.Max(atrStop, swingStop)
	riskDist := price - stop
	if riskDist <= 0 {
		return fallbackLevels(price)
	}

	t1 := price + riskDist*p.Target1Multiplier
	t2 := price + riskDist*p.Target2Multiplier

	return Levels{
		StopLoss: round2(stop),
		Target1:  round2(t1),
		Target2:  round2(t2),
		RRRatio:  round2((t1 - price) / riskDist),
		RiskPct:  round2(riskDist / price * 100),
	}
}

func fallbackLevels(price float64) Levels {
	return Levels{
		StopLoss: round2(price * 0.95),
		Target1:  round2(price * 1.06),
		Target2:  round2(price * 1.10),
		RRRatio:  2.0,
		RiskPct:  5.0,
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
