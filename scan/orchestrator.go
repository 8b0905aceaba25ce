// Package scan fans a symbol universe out across a bounded worker pool,
// replaying each symbol through an injected task and collecting ranked
// results.
package scan

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/rustyeddy/swinghunter/config"
	"github.com/rustyeddy/swinghunter/market"
)

// Source supplies a pre-augmented bar series per symbol. Data fetch,
// caching, and indicator computation live behind this boundary and may
// be I/O bound.
type Source interface {
	GetAugmentedSeries(ctx context.Context, symbol string) ([]market.Bar, error)
}

// Task evaluates one symbol. Implementations must honor ctx so a
// per-symbol timeout or a scan-wide stop can interrupt them.
type Task func(ctx context.Context, symbol string) (Result, error)

// Progress is invoked after each symbol completes, successful or not.
type Progress func(processed, total int, symbol string)

// Result is one symbol's outcome.
type Result struct {
	Symbol   string
	Score    float64
	TimedOut bool
	Err      error

	// Payload is whatever the task produced, typically a sim.Result.
	Payload any
}

// Success reports whether the symbol produced a usable result.
func (r Result) Success() bool {
	return r.Err == nil && !r.TimedOut
}

// Summary aggregates one scan run. Results is sorted descending by
// score with the symbol as a deterministic tie-break; Skipped holds
// failed and timed-out symbols.
type Summary struct {
	Results []Result
	Skipped []Result
	Total   int
	Elapsed time.Duration
	Stopped bool
}

// Orchestrator runs scans over a bounded worker pool. A zero worker
// count falls back to the default of 4; the hard upper bound is
// config.MaxWorkers.
type Orchestrator struct {
	workers int
	timeout time.Duration
	log     *slog.Logger

	progress Progress

	mu        sync.Mutex
	processed int
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger overrides the default slog logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.log = l }
}

// WithProgress registers a completion callback. It is called from
// worker goroutines, one call at a time.
func WithProgress(p Progress) Option {
	return func(o *Orchestrator) { o.progress = p }
}

func New(cfg config.ScanConfig, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		workers: cfg.Workers,
		timeout: cfg.SymbolTimeout.Std(),
		log:     slog.Default(),
	}
	if o.workers <= 0 {
		o.workers = 4
	}
	if o.workers > config.MaxWorkers {
		o.workers = config.MaxWorkers
	}
	if o.timeout <= 0 {
		o.timeout = 30 * time.Second
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Scan dispatches symbols to the pool and blocks until every dispatched
// symbol has completed or ctx is cancelled. Cancelling stops new
// dispatch; in-flight symbols finish (or are abandoned at their
// timeout) and already-collected results are preserved.
func (o *Orchestrator) Scan(ctx context.Context, symbols []string, task Task) Summary {
	start := time.Now()
	total := len(symbols)

	o.mu.Lock()
	o.processed = 0
	o.mu.Unlock()

	if total == 0 {
		return Summary{Elapsed: time.Since(start)}
	}

	o.log.Info("scan starting", "symbols", total, "workers", o.workers)

	jobs := make(chan string)
	var wg sync.WaitGroup

	var resMu sync.Mutex
	var results, skipped []Result

	for i := 0; i < o.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for symbol := range jobs {
				if ctx.Err() != nil {
					return
				}
				res := o.runOne(ctx, symbol, task)

				resMu.Lock()
				if res.Success() {
					results = append(results, res)
				} else {
					skipped = append(skipped, res)
				}
				resMu.Unlock()

				o.reportProgress(total, symbol)
			}
		}()
	}

	stopped := false
dispatch:
	for _, symbol := range symbols {
		select {
		case jobs <- symbol:
		case <-ctx.Done():
			stopped = true
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Symbol < results[j].Symbol
	})
	sort.Slice(skipped, func(i, j int) bool {
		return skipped[i].Symbol < skipped[j].Symbol
	})

	elapsed := time.Since(start)
	o.log.Info("scan complete",
		"eligible", len(results), "skipped", len(skipped),
		"total", total, "elapsed", elapsed, "stopped", stopped)

	return Summary{
		Results: results,
		Skipped: skipped,
		Total:   total,
		Elapsed: elapsed,
		Stopped: stopped,
	}
}

// runOne applies the per-symbol timeout and isolates failures. A task
// that overruns its deadline is abandoned; its goroutine drains when it
// eventually returns.
func (o *Orchestrator) runOne(ctx context.Context, symbol string, task Task) Result {
	tctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	done := make(chan Result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- Result{Symbol: symbol, Err: fmt.Errorf("panic: %v", r)}
			}
		}()
		res, err := task(tctx, symbol)
		res.Symbol = symbol
		res.Err = err
		done <- res
	}()

	select {
	case res := <-done:
		if res.Err != nil {
			o.log.Warn("symbol skipped", "symbol", symbol, "err", res.Err)
		}
		return res
	case <-tctx.Done():
		if ctx.Err() != nil {
			// Scan-wide stop, not a symbol fault.
			return Result{Symbol: symbol, Err: ctx.Err()}
		}
		o.log.Warn("symbol timed out", "symbol", symbol, "timeout", o.timeout)
		return Result{Symbol: symbol, TimedOut: true, Err: tctx.Err()}
	}
}

// reportProgress holds o.mu across the callback so invocations are
// serialized, as WithProgress promises.
func (o *Orchestrator) reportProgress(total int, symbol string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.processed++
	if o.progress != nil {
		o.progress(o.processed, total, symbol)
	}
}
