package data

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xyproto/unzip"

	"github.com/rustyeddy/swinghunter/market"
)

// LoadArchive extracts a zip archive of per-symbol bar CSVs into a
// temporary directory and loads every .csv member. Keys are the upper-
// cased file names without extension, e.g. "THYAO.csv" -> "THYAO".
func LoadArchive(path string) (map[string][]market.Bar, error) {
	tmp, err := os.MkdirTemp("", "swinghunter-bars-")
	if err != nil {
		return nil, fmt.Errorf("archive temp dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	if err := unzip.Extract(path, tmp); err != nil {
		return nil, fmt.Errorf("extract %s: %w", path, err)
	}

	out := make(map[string][]market.Bar)
	walk := func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.EqualFold(filepath.Ext(p), ".csv") {
			return nil
		}
		bars, err := LoadCSV(p)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		out[strings.ToUpper(name)] = bars
		return nil
	}
	if err := filepath.Walk(tmp, walk); err != nil {
		return nil, fmt.Errorf("load archive %s: %w", path, err)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("archive %s: %w", path, ErrNoData)
	}
	return out, nil
}
