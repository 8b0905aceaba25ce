// Package journal persists closed trades, equity curves, scan-run
// summaries, and the ML training dataset.
package journal

import (
	"time"

	"github.com/rustyeddy/swinghunter/sim"
)

// TradeRecord is one closed trade as persisted.
type TradeRecord struct {
	TradeID   string
	RunID     string
	Symbol    string
	Shares    int
	EntryTime time.Time
	ExitTime  time.Time

	EntryPrice float64
	ExitPrice  float64
	Profit     float64 // includes partial-exit P/L
	ProfitPct  float64
	Reason     string
}

// EquityRecord is one equity-curve sample as persisted.
type EquityRecord struct {
	RunID         string
	Time          time.Time
	Cash          float64
	OpenValue     float64
	Equity        float64
	OpenPositions int
}

// ScanRun summarizes one orchestrated scan.
type ScanRun struct {
	RunID    string
	Created  time.Time
	Symbols  int
	Eligible int
	Skipped  int
	Elapsed  time.Duration
	Workers  int
}

// Journal is the sink the CLI writes backtest output through.
type Journal interface {
	RecordTrade(TradeRecord) error
	RecordEquity(EquityRecord) error
	Close() error
}

// FromPosition converts a closed simulator position for persistence.
func FromPosition(runID string, p *sim.Position) TradeRecord {
	return TradeRecord{
		TradeID:    p.ID,
		RunID:      runID,
		Symbol:     p.Symbol,
		Shares:     p.InitialShares,
		EntryTime:  p.EntryDate,
		ExitTime:   p.ExitDate,
		EntryPrice: p.EntryPrice,
		ExitPrice:  p.ExitPrice,
		Profit:     p.TotalProfit(),
		ProfitPct:  p.ProfitPct,
		Reason:     p.ExitReason,
	}
}

// FromSample converts an equity sample for persistence.
func FromSample(runID string, e sim.EquitySample) EquityRecord {
	return EquityRecord{
		RunID:         runID,
		Time:          e.Time,
		Cash:          e.Cash,
		OpenValue:     e.OpenValue,
		Equity:        e.TotalEquity,
		OpenPositions: e.OpenPositions,
	}
}
