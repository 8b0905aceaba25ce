package journal

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// trainingHeader is a durable file-format contract consumed by the ML
// training pipeline. Do not reorder or rename columns.
var trainingHeader = []string{
	"date", "symbol", "profit_pct",
	"rsi", "macd", "adx", "volume_ratio",
	"trend_score", "atr_percent", "volatility",
	"outcome", // 1: win, 0: loss, 2: breakeven
}

// TrainingWriter appends one flat record per closed trade to the ML
// training CSV. Safe for concurrent use; scan workers share one writer.
type TrainingWriter struct {
	mu   sync.Mutex
	file *os.File
	w    *csv.Writer
}

// NewTrainingWriter opens (or creates, with header) the training file.
// Parent directories are created as needed.
func NewTrainingWriter(path string) (*TrainingWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("training data dir: %w", err)
	}

	_, statErr := os.Stat(path)
	fresh := os.IsNotExist(statErr)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open training file: %w", err)
	}

	w := csv.NewWriter(file)
	w.UseCRLF = true

	if fresh {
		if err := w.Write(trainingHeader); err != nil {
			file.Close()
			return nil, err
		}
		w.Flush()
		if err := w.Error(); err != nil {
			file.Close()
			return nil, err
		}
	}

	return &TrainingWriter{file: file, w: w}, nil
}

// LogTrade appends one closed trade. Outcome is 1 when profitPct > 2.0,
// 0 when < -1.0, else 2. Missing features resolve to documented
// defaults (rsi 50, volume_ratio 1.0, everything else 0).
func (t *TrainingWriter) LogTrade(symbol string, entryDate time.Time, profitPct float64, features map[string]float64) error {
	outcome := 2
	switch {
	case profitPct > 2.0:
		outcome = 1
	case profitPct < -1.0:
		outcome = 0
	}

	row := []string{
		entryDate.Format("2006-01-02"),
		symbol,
		fmt.Sprintf("%.2f", profitPct),
		fmt.Sprintf("%.2f", feature(features, 50, "rsi")),
		fmt.Sprintf("%.4f", feature(features, 0, "macd")),
		fmt.Sprintf("%.2f", feature(features, 0, "adx")),
		fmt.Sprintf("%.2f", feature(features, 1.0, "volume_ratio", "rvol")),
		fmt.Sprintf("%.2f", feature(features, 0, "trend_score")),
		fmt.Sprintf("%.2f", feature(features, 0, "atr_percent", "atr_pct")),
		fmt.Sprintf("%.2f", feature(features, 0, "volatility")),
		fmt.Sprintf("%d", outcome),
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.w.Write(row); err != nil {
		return err
	}
	t.w.Flush()
	return t.w.Error()
}

func (t *TrainingWriter) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.w.Flush()
	if err := t.w.Error(); err != nil {
		t.file.Close()
		return err
	}
	return t.file.Close()
}

// feature resolves the first present key, trying exact, lower, and
// upper case variants before falling back to def.
func feature(m map[string]float64, def float64, keys ...string) float64 {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return v
		}
		if v, ok := m[strings.ToLower(k)]; ok {
			return v
		}
		if v, ok := m[strings.ToUpper(k)]; ok {
			return v
		}
	}
	return def
}
