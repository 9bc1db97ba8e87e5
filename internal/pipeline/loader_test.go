package pipeline

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/theirongolddev/fburn/internal/model"
	"github.com/theirongolddev/fburn/internal/source"
	"github.com/theirongolddev/fburn/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeVehicle(t *testing.T, dir, vehicle string, entries []model.Entry) string {
	t.Helper()
	path := source.VehiclePath(dir, vehicle)
	require.NoError(t, source.WriteFile(path, entries))
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeVehicle(t, dir, "swift", swiftLog())
	writeVehicle(t, dir, "activa", []model.Entry{mkEntry("activa", 1, "2025-01-10", 300, 5, 100, true)})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.csv"), []byte("nope\n"), 0o600))

	var calls atomic.Int64
	res, err := Load(dir, func(current, total int) {
		calls.Add(1)
	})
	require.NoError(t, err)

	assert.Equal(t, 3, res.TotalFiles)
	assert.Equal(t, 2, res.ParsedFiles)
	assert.Equal(t, 1, res.FileErrors)
	assert.Equal(t, 3, res.VehicleCount)
	assert.Len(t, res.Entries, 5)
	assert.Equal(t, int64(3), calls.Load())

	for _, e := range res.Entries {
		assert.NotEmpty(t, e.Vehicle)
		assert.NotEmpty(t, e.FilePath)
	}
}

func TestLoadMissingDir(t *testing.T) {
	res, err := Load(filepath.Join(t.TempDir(), "missing"), nil)
	require.NoError(t, err)
	assert.Zero(t, res.TotalFiles)
}

func TestLoadWithCache(t *testing.T) {
	dir := t.TempDir()
	cache, err := store.Open(filepath.Join(t.TempDir(), "entries.db"))
	require.NoError(t, err)
	defer cache.Close()

	swift := writeVehicle(t, dir, "swift", swiftLog())
	activa := writeVehicle(t, dir, "activa", []model.Entry{mkEntry("activa", 1, "2025-01-10", 300, 5, 100, true)})

	first, err := LoadWithCache(dir, cache, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, first.CacheHits)
	assert.Equal(t, 2, first.Reparsed)
	assert.Len(t, first.Entries, 5)

	second, err := LoadWithCache(dir, cache, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, second.CacheHits)
	assert.Equal(t, 0, second.Reparsed)
	assert.Len(t, second.Entries, 5)

	// Append to swift; bump mtime in case the filesystem clock is coarse.
	entries := append(swiftLog(), mkEntry("swift", 5, "2025-03-01", 2500, 25, 110, true))
	require.NoError(t, source.WriteFile(swift, entries))
	future := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(swift, future, future))

	require.NoError(t, os.Remove(activa))

	third, err := LoadWithCache(dir, cache, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, third.CacheHits)
	assert.Equal(t, 1, third.Reparsed)
	assert.Equal(t, 1, third.Pruned)
	assert.Len(t, third.Entries, 5)

	n, err := cache.EntryCount()
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}
