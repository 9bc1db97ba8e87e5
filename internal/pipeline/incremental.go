package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/theirongolddev/fburn/internal/source"
	"github.com/theirongolddev/fburn/internal/store"
)

// CachedLoadResult extends LoadResult with cache metadata.
type CachedLoadResult struct {
	LoadResult
	CacheHits int
	Reparsed  int
	Pruned    int
}

// LoadWithCache discovers logs, diffs them against the cache by mtime and
// size, parses only changed files and drops cache rows for logs that no
// longer exist.
func LoadWithCache(dataDir string, cache *store.Cache, progressFn ProgressFunc) (*CachedLoadResult, error) {
	files, err := source.ScanDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dataDir, err)
	}

	tracked, err := cache.GetTrackedFiles()
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}

	result := &CachedLoadResult{
		LoadResult: LoadResult{
			TotalFiles:   len(files),
			VehicleCount: source.CountVehicles(files),
		},
	}

	present := make(map[string]struct{}, len(files))
	var toReparse []source.DiscoveredFile
	unchanged := make(map[string]struct{})

	for _, f := range files {
		present[f.Path] = struct{}{}
		info, err := os.Stat(f.Path)
		if err != nil {
			continue
		}

		cached, ok := tracked[f.Path]
		if ok && cached.MtimeNs == info.ModTime().UnixNano() && cached.SizeBytes == info.Size() {
			unchanged[f.Path] = struct{}{}
		} else {
			toReparse = append(toReparse, f)
		}
	}

	for path := range tracked {
		if _, ok := present[path]; ok {
			continue
		}
		if err := cache.DeleteFile(path); err != nil {
			return nil, fmt.Errorf("pruning %s: %w", path, err)
		}
		result.Pruned++
	}

	result.CacheHits = len(unchanged)
	result.Reparsed = len(toReparse)

	if len(unchanged) > 0 {
		cached, err := cache.LoadAllEntries()
		if err != nil {
			return nil, fmt.Errorf("loading cached entries: %w", err)
		}
		for _, e := range cached {
			if _, ok := unchanged[e.FilePath]; ok {
				result.Entries = append(result.Entries, e)
			}
		}
		result.ParsedFiles += len(unchanged)
	}

	if len(toReparse) == 0 {
		return result, nil
	}

	for i, pr := range parseFiles(toReparse, result.CacheHits, result.TotalFiles, progressFn) {
		if pr.Err != nil {
			result.FileErrors++
			continue
		}
		result.ParsedFiles++
		result.ParseErrors += pr.ParseErrors
		result.Entries = append(result.Entries, pr.Entries...)

		// A log with malformed rows is reparsed next time so the count stays visible.
		if pr.ParseErrors > 0 {
			continue
		}
		info, err := os.Stat(toReparse[i].Path)
		if err == nil {
			_ = cache.SaveLog(toReparse[i].Vehicle, toReparse[i].Path, pr.Entries, info.ModTime().UnixNano(), info.Size())
		}
	}

	return result, nil
}

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "fburn")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "fburn")
}

// CachePath returns the full path to the cache database.
func CachePath() string {
	return filepath.Join(CacheDir(), "entries.db")
}
