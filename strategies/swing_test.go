package strategies

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/swinghunter/config"
	"github.com/rustyeddy/swinghunter/market"
)

// swingBars builds enough warmup history and one candidate bar whose
// indicators the test controls.
func swingBars(ind map[string]float64) ([]market.Bar, int) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]market.Bar, market.MinWarmup+1)
	for i := range bars {
		bars[i] = market.Bar{
			Time:  base.AddDate(0, 0, i),
			Open:  100, High: 101, Low: 99, Close: 100,
			Volume: 1000,
		}
	}
	idx := len(bars) - 1
	bars[idx].Indicators = ind
	return bars, idx
}

func entrySignal() map[string]float64 {
	return map[string]float64{
		market.KeyATR:         2,
		market.KeyRSI:         55,
		market.KeyADX:         25,
		market.KeyVolumeRatio: 1.2,
		market.KeyTrendScore:  2,
	}
}

func TestSwingAcceptsHealthySetup(t *testing.T) {
	t.Parallel()

	s := NewSwing(DefaultSwingParams(), config.Default().Backtest)
	bars, idx := swingBars(entrySignal())

	levels, ok := s.EvaluateEntry(bars, idx)
	require.True(t, ok)
	assert.Greater(t, levels.StopLoss, 0.0)
	assert.Greater(t, levels.Target1, bars[idx].Close)
	assert.Greater(t, levels.Target2, levels.Target1)
}

func TestSwingRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(map[string]float64)
	}{
		{"no atr", func(m map[string]float64) { delete(m, market.KeyATR) }},
		{"oversold", func(m map[string]float64) { m[market.KeyRSI] = 25 }},
		{"overbought", func(m map[string]float64) { m[market.KeyRSI] = 75 }},
		{"weak trend strength", func(m map[string]float64) { m[market.KeyADX] = 15 }},
		{"thin volume", func(m map[string]float64) { m[market.KeyVolumeRatio] = 0.5 }},
		{"downtrend", func(m map[string]float64) { m[market.KeyTrendScore] = -1 }},
	}

	s := NewSwing(DefaultSwingParams(), config.Default().Backtest)
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ind := entrySignal()
			tt.mutate(ind)
			bars, idx := swingBars(ind)

			_, ok := s.EvaluateEntry(bars, idx)
			assert.False(t, ok)
		})
	}
}

func TestSwingRejectsInsideWarmup(t *testing.T) {
	t.Parallel()

	s := NewSwing(DefaultSwingParams(), config.Default().Backtest)
	bars, _ := swingBars(nil)
	bars[10].Indicators = entrySignal()

	_, ok := s.EvaluateEntry(bars, 10)
	assert.False(t, ok)

	_, ok = s.EvaluateEntry(bars, len(bars))
	assert.False(t, ok)
}
