package market

// MinWarmup is the number of bars an evaluator needs before its
// indicator values are trustworthy. Entries are never taken inside the
// warmup region and a series shorter than this cannot be simulated.
const MinWarmup = 50

// MaxWindow caps the simulated horizon at roughly one trading year.
const MaxWindow = 252

// Window returns the start index of the simulation window over bars:
// the min(MaxWindow, len-MinWarmup) most recent bars. ok is false when
// fewer than MinWarmup usable bars remain.
func Window(bars []Bar) (start int, ok bool) {
	period := len(bars) - MinWarmup
	if period > MaxWindow {
		period = MaxWindow
	}
	if period < MinWarmup {
		return 0, false
	}
	return len(bars) - period, true
}

// LowestLow returns the lowest low over the lookback bars ending at idx
// (inclusive). Lookbacks longer than the available history are clipped.
func LowestLow(bars []Bar, idx, lookback int) float64 {
	if idx < 0 || idx >= len(bars) || lookback <= 0 {
		return 0
	}
	start := idx - lookback + 1
	if start < 0 {
		start = 0
	}
	low := bars[start].Low
	for _, b := range bars[start+1 : idx+1] {
		if b.Low < low {
			low = b.Low
		}
	}
	return low
}
