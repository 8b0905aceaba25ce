package data

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBars(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadCSV(t *testing.T) {
	t.Parallel()

	path := writeBars(t, "AAPL.csv", strings.Join([]string{
		"date,open,high,low,close,volume",
		"2024-03-04,99.5,101,99,100,120000",
		"2024-03-05,100,102,99.5,101.5,98000",
	}, "\n"))

	bars, err := LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, bars, 2)

	b := bars[0]
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), b.Time)
	assert.Equal(t, 99.5, b.Open)
	assert.Equal(t, 101.0, b.High)
	assert.Equal(t, 99.0, b.Low)
	assert.Equal(t, 100.0, b.Close)
	assert.Equal(t, 120000.0, b.Volume)
	assert.Nil(t, b.Indicators)
}

func TestLoadCSVIndicatorColumns(t *testing.T) {
	t.Parallel()

	path := writeBars(t, "MSFT.csv", strings.Join([]string{
		"date,open,high,low,close,volume,ATR14,rsi,trend_score",
		"2024-03-04,99.5,101,99,100,120000,2.1,55.5,2",
		"2024-03-05,100,102,99.5,101.5,98000,2.2,,n/a",
	}, "\n"))

	bars, err := LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, bars, 2)

	// Headers are lowercased on the way in.
	assert.Equal(t, 2.1, bars[0].Indicator("atr14", 0))
	assert.Equal(t, 55.5, bars[0].Indicator("rsi", 0))
	assert.Equal(t, 2.0, bars[0].Indicator("trend_score", 0))

	// Blank and non-numeric cells fall back to the caller's default.
	assert.Equal(t, 50.0, bars[1].Indicator("rsi", 50))
	assert.Equal(t, 0.0, bars[1].Indicator("trend_score", 0))
	assert.Equal(t, 2.2, bars[1].Indicator("atr14", 0))
}

func TestLoadCSVErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"too few columns", "date,open,high\n2024-03-04,99.5,101\n"},
		{"bad date", "date,open,high,low,close,volume\nyesterday,99.5,101,99,100,120000\n"},
		{"bad price", "date,open,high,low,close,volume\n2024-03-04,abc,101,99,100,120000\n"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := writeBars(t, "BAD.csv", tt.content)
			_, err := LoadCSV(path)
			assert.Error(t, err)
		})
	}

	_, err := LoadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestLoadCSVDateLayouts(t *testing.T) {
	t.Parallel()

	path := writeBars(t, "DATES.csv", strings.Join([]string{
		"date,open,high,low,close,volume",
		"2024-03-04,1,1,1,1,1",
		"2024-03-05T00:00:00Z,1,1,1,1,1",
		"2024-03-06 00:00:00,1,1,1,1,1",
	}, "\n"))

	bars, err := LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, bars, 3)
	assert.Equal(t, 4, bars[0].Time.Day())
	assert.Equal(t, 5, bars[1].Time.Day())
	assert.Equal(t, 6, bars[2].Time.Day())
}

func TestSymbolPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, filepath.Join("bars", "AAPL.csv"), SymbolPath("bars", "aapl"))
	assert.Equal(t, filepath.Join("bars", "MSFT.csv"), SymbolPath("bars", "MSFT"))
}
