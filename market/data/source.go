package data

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rustyeddy/swinghunter/market"
)

// ErrNoData marks a symbol or archive with no bar series available.
var ErrNoData = errors.New("no bar data")

// DirSource serves pre-augmented bar series from per-symbol CSV files
// in a directory. It satisfies the scanner's Source interface.
type DirSource struct {
	dir string
}

func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

func (s *DirSource) GetAugmentedSeries(ctx context.Context, symbol string) ([]market.Bar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return LoadCSV(SymbolPath(s.dir, symbol))
}

// ArchiveSource serves bar series out of a zip archive, extracted once
// on first use.
type ArchiveSource struct {
	path string

	once sync.Once
	bars map[string][]market.Bar
	err  error
}

func NewArchiveSource(path string) *ArchiveSource {
	return &ArchiveSource{path: path}
}

func (s *ArchiveSource) GetAugmentedSeries(ctx context.Context, symbol string) ([]market.Bar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.once.Do(func() {
		s.bars, s.err = LoadArchive(s.path)
	})
	if s.err != nil {
		return nil, s.err
	}
	bars, ok := s.bars[symbol]
	if !ok {
		return nil, fmt.Errorf("%s: %w", symbol, ErrNoData)
	}
	return bars, nil
}

// Symbols lists every symbol the archive contains.
func (s *ArchiveSource) Symbols() ([]string, error) {
	s.once.Do(func() {
		s.bars, s.err = LoadArchive(s.path)
	})
	if s.err != nil {
		return nil, s.err
	}
	out := make([]string, 0, len(s.bars))
	for sym := range s.bars {
		out = append(out, sym)
	}
	return out, nil
}
