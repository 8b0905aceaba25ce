// Package strategies ships a built-in entry evaluator so the CLI is
// runnable end-to-end. Production signal pipelines implement
// sim.Evaluator behind the same boundary.
package strategies

import (
	"github.com/rustyeddy/swinghunter/config"
	"github.com/rustyeddy/swinghunter/market"
	"github.com/rustyeddy/swinghunter/risk"
)

// SwingParams are the momentum-filter thresholds.
type SwingParams struct {
	MinRSI         float64
	MaxRSI         float64
	MinADX         float64
	MinVolumeRatio float64
}

// DefaultSwingParams mirrors a balanced large-exchange profile.
func DefaultSwingParams() SwingParams {
	return SwingParams{
		MinRSI:         30,
		MaxRSI:         70,
		MinADX:         20,
		MinVolumeRatio: 0.9,
	}
}

// Swing is a momentum-pullback evaluator over a pre-augmented series.
// It only reads indicator values the augmenting layer attached; it
// never computes indicators itself.
type Swing struct {
	params SwingParams
	levels risk.LevelParams
}

func NewSwing(params SwingParams, cfg config.BacktestConfig) *Swing {
	return &Swing{
		params: params,
		levels: risk.LevelParams{
			ATRStopMultiplier: cfg.ATRStopMultiplier,
			StopLossLookback:  cfg.StopLossLookback,
			Target1Multiplier: cfg.Target1Multiplier,
			Target2Multiplier: cfg.Target2Multiplier,
		},
	}
}

// EvaluateEntry implements sim.Evaluator.
func (s *Swing) EvaluateEntry(bars []market.Bar, idx int) (risk.Levels, bool) {
	if idx < market.MinWarmup || idx >= len(bars) {
		return risk.Levels{}, false
	}
	bar := bars[idx]

	if _, ok := bar.ATR(); !ok {
		return risk.Levels{}, false
	}

	rsi := bar.RSI()
	if rsi < s.params.MinRSI || rsi > s.params.MaxRSI {
		return risk.Levels{}, false
	}
	if bar.Indicator(market.KeyADX, 0) < s.params.MinADX {
		return risk.Levels{}, false
	}
	if bar.Indicator(market.KeyVolumeRatio, 1.0) < s.params.MinVolumeRatio {
		return risk.Levels{}, false
	}
	if bar.Indicator(market.KeyTrendScore, 0) <= 0 {
		return risk.Levels{}, false
	}

	return risk.Compute(bars, idx, s.levels), true
}
