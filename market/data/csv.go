// Package data loads daily bar series from CSV files and zip archives.
package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/swinghunter/market"
)

// LoadCSV reads a daily bar file. The first row is a header; the first
// six columns must be date,open,high,low,close,volume. Any further
// columns are attached to each bar as indicator values keyed by the
// lowercased header name, so pre-augmented exports load directly.
func LoadCSV(path string) ([]market.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bars: %w", err)
	}
	defer f.Close()

	bars, err := readBars(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bars, nil
}

func readBars(r io.Reader) ([]market.Bar, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) < 6 {
		return nil, fmt.Errorf("header needs at least 6 columns, got %d", len(header))
	}

	extra := make([]string, 0, len(header)-6)
	for _, h := range header[6:] {
		extra = append(extra, strings.ToLower(strings.TrimSpace(h)))
	}

	var bars []market.Bar
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line+1, err)
		}
		line++

		t, err := parseDate(rec[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		vals := make([]float64, 5)
		for i := 0; i < 5; i++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[i+1]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d col %d: %w", line, i+2, err)
			}
			vals[i] = v
		}

		b := market.Bar{
			Time:   t,
			Open:   vals[0],
			High:   vals[1],
			Low:    vals[2],
			Close:  vals[3],
			Volume: vals[4],
		}

		if len(extra) > 0 {
			b.Indicators = make(map[string]float64, len(extra))
			for i, key := range extra {
				col := i + 6
				if col >= len(rec) || strings.TrimSpace(rec[col]) == "" {
					continue
				}
				v, err := strconv.ParseFloat(strings.TrimSpace(rec[col]), 64)
				if err != nil {
					continue // non-numeric indicator cells are skipped
				}
				b.Indicators[key] = v
			}
		}

		bars = append(bars, b)
	}

	return bars, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// SymbolPath maps a symbol to its bar file under dir.
func SymbolPath(dir, symbol string) string {
	return filepath.Join(dir, strings.ToUpper(symbol)+".csv")
}
