package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/swinghunter/config"
	"github.com/rustyeddy/swinghunter/market"
)

func testExitEngine() *ExitEngine {
	return NewExitEngine(config.Default().Backtest)
}

func openPosition(entry time.Time) *Position {
	p := newPosition("TEST", entry, 100, 25, nil)
	p.StopLoss = 95
	p.Target1 = 110
	p.Target2 = 115
	return p
}

func bar(high, low, close float64, ind map[string]float64) market.Bar {
	return market.Bar{
		Open:       close,
		High:       high,
		Low:        low,
		Close:      close,
		Indicators: ind,
	}
}

func TestSlippage(t *testing.T) {
	t.Parallel()

	e := testExitEngine()

	tests := []struct {
		name  string
		atr   float64
		price float64
		want  float64
	}{
		{"no atr uses base", 0, 100, 0.1},
		{"scaled with volatility", 1, 100, 0.3},
		{"floored at base", 0.1, 100, 0.1},
		{"capped at one percent", 10, 100, 1.0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, e.Slippage(tt.atr, tt.price), 1e-9)
		})
	}
}

func TestEvaluateStopLoss(t *testing.T) {
	t.Parallel()

	e := testExitEngine()
	entry := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	p := openPosition(entry)

	// Intrabar low touches the tolerance band: 95 * 0.995 = 94.525.
	ev := e.Evaluate(p, entry.AddDate(0, 0, 1), bar(101, 94.525, 96, nil))

	assert.Equal(t, ExitFull, ev.Kind)
	assert.Equal(t, ReasonStopLoss, ev.Reason)
	assert.Equal(t, 25, ev.Shares)
	assert.InDelta(t, 95*0.999, ev.Price, 1e-9)
}

func TestEvaluateStopLossNotTouched(t *testing.T) {
	t.Parallel()

	e := testExitEngine()
	entry := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	p := openPosition(entry)

	ev := e.Evaluate(p, entry.AddDate(0, 0, 1), bar(101, 94.53, 96, nil))
	assert.Equal(t, ExitNone, ev.Kind)
	assert.Equal(t, StatusOpen, p.Status)
}

func TestEvaluateTarget1Partial(t *testing.T) {
	t.Parallel()

	e := testExitEngine()
	entry := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	p := openPosition(entry)

	ev := e.Evaluate(p, entry.AddDate(0, 0, 1), bar(110.5, 105, 109, nil))

	require.Equal(t, ExitPartial, ev.Kind)
	assert.Equal(t, ReasonTarget1, ev.Reason)
	assert.Equal(t, 12, ev.Shares)
	assert.InDelta(t, 110*0.999, ev.Price, 1e-9)

	assert.Equal(t, 13, p.Shares)
	assert.Equal(t, 25, p.InitialShares)
	assert.True(t, p.PartialExitDone)
	assert.Equal(t, StatusPartiallyClosed, p.Status)
	assert.InDelta(t, p.EntryPrice, p.StopLoss, 1e-9)
	assert.InDelta(t, 12*(110*0.999-100), p.PartialProfit, 1e-9)
}

func TestEvaluateTarget1SingleShare(t *testing.T) {
	t.Parallel()

	e := testExitEngine()
	entry := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	p := openPosition(entry)
	p.Shares = 1
	p.InitialShares = 1

	// Half of one share floors to zero, so nothing fires.
	ev := e.Evaluate(p, entry.AddDate(0, 0, 1), bar(110.5, 105, 109, nil))
	assert.Equal(t, ExitNone, ev.Kind)
	assert.False(t, p.PartialExitDone)
	assert.Equal(t, 1, p.Shares)
}

func TestEvaluateTarget2RequiresPartial(t *testing.T) {
	t.Parallel()

	e := testExitEngine()
	entry := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	// A bar through both targets fires the partial first.
	p := openPosition(entry)
	ev := e.Evaluate(p, entry.AddDate(0, 0, 1), bar(116, 105, 114, nil))
	assert.Equal(t, ExitPartial, ev.Kind)

	// The next touch of target 2 closes the remainder.
	ev = e.Evaluate(p, entry.AddDate(0, 0, 2), bar(116, 108, 114, nil))
	require.Equal(t, ExitFull, ev.Kind)
	assert.Equal(t, ReasonTarget2, ev.Reason)
	assert.Equal(t, 13, ev.Shares)
	assert.InDelta(t, 115*0.999, ev.Price, 1e-9)
}

func TestEvaluateTrailingStop(t *testing.T) {
	t.Parallel()

	e := testExitEngine()
	entry := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("raises with atr distance", func(t *testing.T) {
		t.Parallel()
		p := openPosition(entry)
		ind := map[string]float64{market.KeyATR: 2}

		ev := e.Evaluate(p, entry.AddDate(0, 0, 3), bar(109, 106, 108, ind))
		assert.Equal(t, ExitNone, ev.Kind)
		// dist = max(1.5 * 2, 0.03 * 108) = 3.24
		assert.InDelta(t, 108-3.24, p.StopLoss, 1e-9)
	})

	t.Run("fallback distance without atr", func(t *testing.T) {
		t.Parallel()
		p := openPosition(entry)

		ev := e.Evaluate(p, entry.AddDate(0, 0, 3), bar(109, 106, 108, nil))
		assert.Equal(t, ExitNone, ev.Kind)
		assert.InDelta(t, 108*0.95, p.StopLoss, 1e-9)
	})

	t.Run("never lowers the stop", func(t *testing.T) {
		t.Parallel()
		p := openPosition(entry)
		p.StopLoss = 107

		e.Evaluate(p, entry.AddDate(0, 0, 3), bar(109, 107.5, 108, nil))
		assert.InDelta(t, 107.0, p.StopLoss, 1e-9)
	})

	t.Run("too early", func(t *testing.T) {
		t.Parallel()
		p := openPosition(entry)

		e.Evaluate(p, entry.AddDate(0, 0, 2), bar(109, 106, 108, nil))
		assert.InDelta(t, 95.0, p.StopLoss, 1e-9)
	})

	t.Run("gain too small", func(t *testing.T) {
		t.Parallel()
		p := openPosition(entry)

		e.Evaluate(p, entry.AddDate(0, 0, 3), bar(105, 101, 104, nil))
		assert.InDelta(t, 95.0, p.StopLoss, 1e-9)
	})
}

func TestEvaluateTimeStop(t *testing.T) {
	t.Parallel()

	e := testExitEngine()
	entry := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	p := openPosition(entry)

	ev := e.Evaluate(p, entry.AddDate(0, 0, 30), bar(102, 99, 101, nil))
	assert.Equal(t, ExitNone, ev.Kind)

	ev = e.Evaluate(p, entry.AddDate(0, 0, 31), bar(102, 99, 101, nil))
	require.Equal(t, ExitFull, ev.Kind)
	assert.Equal(t, ReasonMaxHold, ev.Reason)
	assert.InDelta(t, 101.0, ev.Price, 1e-9)
	assert.Equal(t, 25, ev.Shares)
}
