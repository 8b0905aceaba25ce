package data

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const barsCSV = "date,open,high,low,close,volume\n" +
	"2024-03-04,99.5,101,99,100,120000\n" +
	"2024-03-05,100,102,99.5,101.5,98000\n"

func TestDirSource(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "AAPL.csv"), []byte(barsCSV), 0644))

	src := NewDirSource(dir)

	bars, err := src.GetAugmentedSeries(context.Background(), "aapl")
	require.NoError(t, err)
	assert.Len(t, bars, 2)

	_, err = src.GetAugmentedSeries(context.Background(), "MISSING")
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = src.GetAugmentedSeries(ctx, "AAPL")
	assert.ErrorIs(t, err, context.Canceled)
}

func writeArchive(t *testing.T, members map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bars.zip")
	f, err := os.Create(path)
	require.NoError(t, err)

	zw := zip.NewWriter(f)
	for name, content := range members {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func TestArchiveSource(t *testing.T) {
	t.Parallel()

	path := writeArchive(t, map[string]string{
		"thyao.csv":  barsCSV,
		"GARAN.csv":  barsCSV,
		"readme.txt": "not a bar file",
	})

	src := NewArchiveSource(path)

	symbols, err := src.Symbols()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"THYAO", "GARAN"}, symbols)

	bars, err := src.GetAugmentedSeries(context.Background(), "THYAO")
	require.NoError(t, err)
	assert.Len(t, bars, 2)

	_, err = src.GetAugmentedSeries(context.Background(), "MISSING")
	assert.ErrorIs(t, err, ErrNoData)
}

func TestArchiveSourceEmpty(t *testing.T) {
	t.Parallel()

	path := writeArchive(t, map[string]string{"readme.txt": "nothing here"})
	src := NewArchiveSource(path)

	_, err := src.Symbols()
	assert.ErrorIs(t, err, ErrNoData)
}
