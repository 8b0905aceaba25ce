package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/rustyeddy/swinghunter/config"
	"github.com/rustyeddy/swinghunter/market"
	"github.com/rustyeddy/swinghunter/risk"
	"github.com/rustyeddy/swinghunter/stats"
)

// ErrInsufficientData marks a series too short to simulate. The scanner
// treats it as a skipped symbol, not a fatal error.
var ErrInsufficientData = errors.New("insufficient data")

// minEntryCash is the floor below which no new position is opened.
const minEntryCash = 1000

// kellyMinTrades is how many closed trades Kelly sizing needs before it
// has stats worth acting on.
const kellyMinTrades = 10

// Evaluator decides whether bars[idx] is a long entry and, if so, with
// what risk/reward geometry. The signal pipeline behind it (filters,
// scoring, ML) is not this package's concern.
type Evaluator interface {
	EvaluateEntry(bars []market.Bar, idx int) (risk.Levels, bool)
}

// TradeLogger receives every closed trade, typically to build an ML
// training set. Implementations must tolerate concurrent callers; one
// simulator runs per scan worker.
type TradeLogger interface {
	LogTrade(symbol string, entryDate time.Time, profitPct float64, features map[string]float64) error
}

// EquitySample is one point of the equity curve, appended once per
// simulated bar.
type EquitySample struct {
	Time          time.Time
	Cash          float64
	OpenValue     float64
	TotalEquity   float64
	OpenPositions int
}

// Result is the outcome of one symbol's backtest.
type Result struct {
	Symbol string
	Trades []*Position
	Equity []EquitySample
	Report stats.Report
}

// Simulator drives one symbol's bar history through the position sizer
// and exit rules, owning the full trade lifecycle.
type Simulator struct {
	cfg       config.BacktestConfig
	exits     *ExitEngine
	log       *slog.Logger
	collector TradeLogger
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithLogger overrides the default slog logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Simulator) { s.log = l }
}

// WithTradeLogger attaches a sink that records every closed trade.
func WithTradeLogger(tl TradeLogger) Option {
	return func(s *Simulator) { s.collector = tl }
}

func New(cfg config.BacktestConfig, opts ...Option) *Simulator {
	s := &Simulator{
		cfg:   cfg,
		exits: NewExitEngine(cfg),
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run replays the most recent simulation window of bars through the
// trade lifecycle. Cancellation is checked between bars, so a stop
// request halts within one bar-processing step; the context error is
// returned and partial results are discarded.
func (s *Simulator) Run(ctx context.Context, symbol string, bars []market.Bar, eval Evaluator) (Result, error) {
	start, ok := market.Window(bars)
	if !ok {
		return Result{}, fmt.Errorf("%s: %d bars: %w", symbol, len(bars), ErrInsufficientData)
	}

	cash := s.cfg.InitialCapital
	var open []*Position
	var closed []*Position
	equity := make([]EquitySample, 0, len(bars)-start)

	s.log.Debug("backtest start",
		"symbol", symbol, "bars", len(bars)-start, "capital", cash)

	for idx := start; idx < len(bars); idx++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		bar := bars[idx]
		now := bar.Time

		// 1. Manage open positions.
		remaining := open[:0]
		for _, p := range open {
			p.updateExcursions(bar.Close)

			ev := s.exits.Evaluate(p, now, bar)
			switch ev.Kind {
			case ExitPartial:
				cash += float64(ev.Shares) * ev.Price * (1 - s.cfg.CommissionPct/100)
				s.log.Debug("partial exit",
					"symbol", symbol, "shares", ev.Shares, "price", ev.Price)
				remaining = append(remaining, p)

			case ExitFull:
				cash += float64(ev.Shares) * ev.Price * (1 - s.cfg.CommissionPct/100)
				p.close(now, ev.Price, ev.Reason, s.cfg.CommissionPct)
				closed = append(closed, p)
				s.logClosedTrade(p)
				s.log.Debug("trade closed",
					"symbol", symbol, "reason", ev.Reason, "profit", p.TotalProfit())

			default:
				remaining = append(remaining, p)
			}
		}
		open = remaining

		// 2. Look for a new entry.
		if len(open) < s.cfg.MaxOpenPositions && cash > minEntryCash {
			if p, cost, opened := s.tryEntry(symbol, bars, idx, cash, closed, eval); opened {
				cash -= cost
				open = append(open, p)
				s.log.Debug("position opened",
					"symbol", symbol, "shares", p.Shares,
					"entry", p.EntryPrice, "stop", p.StopLoss)
			}
		}

		// 3. Equity sample.
		openValue := 0.0
		for _, p := range open {
			openValue += float64(p.Shares) * bar.Close
		}
		equity = append(equity, EquitySample{
			Time:          now,
			Cash:          cash,
			OpenValue:     openValue,
			TotalEquity:   cash + openValue,
			OpenPositions: len(open),
		})
	}

	// Forced liquidation at the final close.
	last := bars[len(bars)-1]
	for _, p := range open {
		p.close(last.Time, last.Close, ReasonBacktestEnd, s.cfg.CommissionPct)
		closed = append(closed, p)
		s.logClosedTrade(p)
	}

	return Result{
		Symbol: symbol,
		Trades: closed,
		Equity: equity,
		Report: analyze(closed, equity, s.cfg.InitialCapital),
	}, nil
}

// tryEntry asks the evaluator about bars[idx] and opens a position when
// the signal survives risk validation. Invalid risk parameters reject
// the candidate silently; they are expected, not errors.
func (s *Simulator) tryEntry(symbol string, bars []market.Bar, idx int, cash float64, closed []*Position, eval Evaluator) (*Position, float64, bool) {
	levels, isEntry := eval.EvaluateEntry(bars, idx)
	if !isEntry {
		return nil, 0, false
	}

	bar := bars[idx]
	price := bar.Close
	if levels.StopLoss <= 0 || price <= 0 {
		return nil, 0, false
	}

	stopDistPct := (price - levels.StopLoss) / price * 100
	if stopDistPct < s.cfg.MinStopDistancePct || stopDistPct > s.cfg.MaxStopDistancePct {
		return nil, 0, false
	}

	shares := risk.Size(cash, s.cfg.MaxRiskPct, price, levels.StopLoss)
	if s.cfg.KellySizing && len(closed) >= kellyMinTrades {
		// Report.AvgLoss is signed; the Kelly math wants its magnitude.
		r := analyze(closed, nil, s.cfg.InitialCapital)
		shares = risk.SizeKelly(cash, s.cfg.MaxRiskPct, price, levels.StopLoss,
			r.WinRate, r.AvgWin, math.Abs(r.AvgLoss))
	}
	if shares <= 0 {
		return nil, 0, false
	}

	atr, _ := bar.ATR()
	slippage := s.exits.Slippage(atr, price)
	entry := price * (1 + slippage/100)
	cost := float64(shares) * entry * (1 + s.cfg.CommissionPct/100)
	if cost > cash {
		return nil, 0, false
	}

	p := newPosition(symbol, bar.Time, entry, shares, bar.Indicators)
	p.StopLoss = levels.StopLoss
	p.Target1 = levels.Target1
	p.Target2 = levels.Target2
	return p, cost, true
}

func (s *Simulator) logClosedTrade(p *Position) {
	if s.collector == nil || len(p.Features) == 0 {
		return
	}
	// End-of-window liquidations are horizon artifacts, not exit-rule
	// outcomes; they stay out of the training set.
	if p.ExitReason == ReasonBacktestEnd {
		return
	}
	if err := s.collector.LogTrade(p.Symbol, p.EntryDate, p.ProfitPct, p.Features); err != nil {
		s.log.Error("trade log failed", "symbol", p.Symbol, "err", err)
	}
}

func analyze(closed []*Position, equity []EquitySample, initialCapital float64) stats.Report {
	trades := make([]stats.TradeSummary, 0, len(closed))
	for _, p := range closed {
		trades = append(trades, stats.TradeSummary{
			Profit:   p.TotalProfit(),
			DaysHeld: p.DaysHeld,
			MFE:      p.MFE,
			MAE:      p.MAE,
		})
	}
	curve := make([]float64, 0, len(equity))
	for _, e := range equity {
		curve = append(curve, e.TotalEquity)
	}
	return stats.Analyze(trades, curve, initialCapital)
}
