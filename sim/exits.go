package sim

import (
	"math"
	"time"

	"github.com/rustyeddy/swinghunter/config"
	"github.com/rustyeddy/swinghunter/market"
)

// ExitKind classifies the outcome of one exit-rule evaluation.
type ExitKind int

const (
	ExitNone ExitKind = iota
	ExitPartial
	ExitFull
)

// ExitEvent is the action the exit engine decided for one bar.
type ExitEvent struct {
	Kind   ExitKind
	Price  float64
	Shares int
	Reason string
}

// Trailing-stop geometry. The entry/exit thresholds around it are
// configurable; the distance formula is fixed.
const (
	trailATRMultiplier = 1.5
	trailMinDistPct    = 0.03 // of price, when ATR is available
	trailFallbackPct   = 0.05 // of price, when ATR is missing
)

// ExitEngine evaluates one open position against one new bar.
//
// Rules run in fixed priority order and the first match wins: stop-loss,
// target-1 partial, target-2 full, trailing-stop raise (side-effect
// only), time stop. At most one exit event fires per bar.
type ExitEngine struct {
	cfg config.BacktestConfig
}

func NewExitEngine(cfg config.BacktestConfig) *ExitEngine {
	return &ExitEngine{cfg: cfg}
}

// Slippage returns the simulated fill penalty in percent. With no ATR
// it is the configured base; otherwise it scales with volatility,
// floored at the base and capped at 1%.
func (e *ExitEngine) Slippage(atr, price float64) float64 {
	if atr <= 0 || price <= 0 {
		return e.cfg.BaseSlippagePct
	}
	atrPct := atr / price * 100
	return math.Min(math.Max(atrPct*0.3, e.cfg.BaseSlippagePct), 1.0)
}

// Evaluate runs the exit rules for p on the given bar. Partial exits and
// trailing-stop raises mutate p in place; full exits only return the
// event and leave closing to the simulator.
func (e *ExitEngine) Evaluate(p *Position, now time.Time, bar market.Bar) ExitEvent {
	atr, _ := bar.ATR()
	slippage := e.Slippage(atr, bar.Close)

	// 1. Stop-loss, with a small tolerance so an intrabar touch just
	// above the level still fires.
	if bar.Low <= p.StopLoss*0.995 {
		return ExitEvent{
			Kind:   ExitFull,
			Price:  p.StopLoss * (1 - slippage/100),
			Shares: p.Shares,
			Reason: ReasonStopLoss,
		}
	}

	// 2. Target 1: scale out half, move the stop to breakeven.
	if bar.High >= p.Target1 && !p.PartialExitDone {
		half := p.Shares / 2
		if half == 0 {
			return ExitEvent{Kind: ExitNone}
		}
		price := p.Target1 * (1 - slippage/100)
		p.PartialProfit += float64(half) * (price - p.EntryPrice)
		p.Shares -= half
		p.PartialExitDone = true
		p.StopLoss = p.EntryPrice
		p.Status = StatusPartiallyClosed
		return ExitEvent{
			Kind:   ExitPartial,
			Price:  price,
			Shares: half,
			Reason: ReasonTarget1,
		}
	}

	// 3. Target 2 closes the remainder, but only after the partial.
	if p.PartialExitDone && bar.High >= p.Target2 {
		return ExitEvent{
			Kind:   ExitFull,
			Price:  p.Target2 * (1 - slippage/100),
			Shares: p.Shares,
			Reason: ReasonTarget2,
		}
	}

	// 4. Trailing stop: once the trade is old enough and far enough in
	// profit, ratchet the stop up behind price. Never lowers it.
	daysHeld := daysBetween(p.EntryDate, now)
	if daysHeld > e.cfg.TrailMinDays {
		gainPct := (bar.Close - p.EntryPrice) / p.EntryPrice * 100
		if gainPct > e.cfg.TrailMinGainPct {
			dist := bar.Close * trailFallbackPct
			if atr > 0 {
				dist = math.Max(atr*trailATRMultiplier, bar.Close*trailMinDistPct)
			}
			if newStop := bar.Close - dist; newStop > p.StopLoss {
				p.StopLoss = newStop
			}
		}
	}

	// 5. Time stop.
	if daysHeld > e.cfg.MaxHoldDays {
		return ExitEvent{
			Kind:   ExitFull,
			Price:  bar.Close,
			Shares: p.Shares,
			Reason: ReasonMaxHold,
		}
	}

	return ExitEvent{Kind: ExitNone}
}
