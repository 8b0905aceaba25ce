// Package sim replays a symbol's bar history through the entry and exit
// rules and produces the closed-trade list, equity curve, and
// performance report for that symbol.
package sim

import (
	"time"

	"github.com/rustyeddy/swinghunter/internal/id"
)

// Status tracks a position through its lifecycle.
type Status string

const (
	StatusOpen            Status = "open"
	StatusPartiallyClosed Status = "partially_closed"
	StatusClosed          Status = "closed"
)

// Exit reasons recorded on closed positions.
const (
	ReasonStopLoss    = "stop_loss"
	ReasonTarget1     = "target1_partial"
	ReasonTarget2     = "target2_reached"
	ReasonMaxHold     = "max_hold_time"
	ReasonBacktestEnd = "backtest_end"
)

// Position is a mutable trade record owned exclusively by the Simulator
// for its lifetime. Each symbol's simulation is single-threaded, so no
// locking or aliasing discipline is needed beyond that ownership.
//
// Invariants: 0 <= Shares <= InitialShares; StopLoss never decreases
// once the partial exit has fired; a Closed position is never mutated
// again.
type Position struct {
	ID     string
	Symbol string

	EntryDate  time.Time
	EntryPrice float64

	StopLoss float64
	Target1  float64
	Target2  float64

	Shares        int
	InitialShares int

	Status     Status
	ExitDate   time.Time
	ExitPrice  float64
	ExitReason string

	Profit        float64 // realized P/L on the final close, net of costs
	ProfitPct     float64
	PartialProfit float64 // accumulated P/L from partial exits

	DaysHeld        int
	MFE             float64 // best unrealized move, percent
	MAE             float64 // worst unrealized move, percent
	PartialExitDone bool

	// Features snapshots the indicator map at entry time for the
	// training-data sink.
	Features map[string]float64
}

func newPosition(symbol string, entryDate time.Time, entryPrice float64, shares int, features map[string]float64) *Position {
	return &Position{
		ID:            id.New(),
		Symbol:        symbol,
		EntryDate:     entryDate,
		EntryPrice:    entryPrice,
		Shares:        shares,
		InitialShares: shares,
		Status:        StatusOpen,
		Features:      features,
	}
}

// updateExcursions records the best and worst unrealized move while the
// position is open.
func (p *Position) updateExcursions(price float64) {
	if p.EntryPrice <= 0 {
		return
	}
	pct := (price - p.EntryPrice) / p.EntryPrice * 100
	if pct > p.MFE {
		p.MFE = pct
	}
	if pct < p.MAE {
		p.MAE = pct
	}
}

// close finalizes the position at exitPrice. The profit figure covers
// the remaining shares only; P/L already realized through partial exits
// accumulates in PartialProfit.
func (p *Position) close(exitDate time.Time, exitPrice float64, reason string, commissionPct float64) {
	p.ExitDate = exitDate
	p.ExitPrice = exitPrice
	p.ExitReason = reason
	p.DaysHeld = daysBetween(p.EntryDate, exitDate)

	entryCost := float64(p.Shares) * p.EntryPrice * (1 + commissionPct/100)
	exitValue := float64(p.Shares) * exitPrice * (1 - commissionPct/100)

	p.Profit = exitValue - entryCost
	if entryCost > 0 {
		p.ProfitPct = p.Profit / entryCost * 100
	}
	p.Status = StatusClosed
}

// TotalProfit is the realized P/L including partial exits.
func (p *Position) TotalProfit() float64 {
	return p.Profit + p.PartialProfit
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
