// Package market defines the bar-series data model shared by the
// scanner and the backtest simulator.
package market

import (
	"strings"
	"time"
)

// Well-known indicator keys. The evaluator that augments a series owns
// the map contents; these are the keys the core reads back.
const (
	KeyATR         = "atr14"
	KeyRSI         = "rsi"
	KeyMACD        = "macd"
	KeyADX         = "adx"
	KeyVolumeRatio = "volume_ratio"
	KeyTrendScore  = "trend_score"
	KeyATRPercent  = "atr_percent"
	KeyVolatility  = "volatility"
)

// Bar is one OHLCV sample, typically daily, plus the indicator values an
// external evaluator attached to it. The core treats Indicators as
// read-only.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64

	Indicators map[string]float64
}

// Indicator looks up a named indicator value, falling back to def when
// the evaluator did not provide it. Lookup is case-insensitive so both
// "ATR14" and "atr14" resolve.
func (b Bar) Indicator(name string, def float64) float64 {
	if len(b.Indicators) == 0 {
		return def
	}
	if v, ok := b.Indicators[name]; ok {
		return v
	}
	if v, ok := b.Indicators[strings.ToLower(name)]; ok {
		return v
	}
	if v, ok := b.Indicators[strings.ToUpper(name)]; ok {
		return v
	}
	return def
}

// ATR returns the bar's average true range and whether it was provided.
func (b Bar) ATR() (float64, bool) {
	v := b.Indicator(KeyATR, 0)
	return v, v > 0
}

// RSI returns the bar's relative strength index, defaulting to the
// neutral 50 when absent.
func (b Bar) RSI() float64 {
	return b.Indicator(KeyRSI, 50)
}
