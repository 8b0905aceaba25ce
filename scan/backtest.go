package scan

import (
	"context"

	"github.com/rustyeddy/swinghunter/sim"
)

// BacktestTask builds the standard per-symbol task: fetch the augmented
// series from src, replay it through the simulator, and rank by the
// replay's total return. Per-symbol failures come back as errors and
// are isolated by the orchestrator.
func BacktestTask(src Source, simulator *sim.Simulator, eval sim.Evaluator) Task {
	return func(ctx context.Context, symbol string) (Result, error) {
		bars, err := src.GetAugmentedSeries(ctx, symbol)
		if err != nil {
			return Result{}, err
		}

		res, err := simulator.Run(ctx, symbol, bars, eval)
		if err != nil {
			return Result{}, err
		}

		return Result{
			Score:   res.Report.TotalReturnPct,
			Payload: res,
		}, nil
	}
}
