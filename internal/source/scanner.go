package source

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScanDir lists the vehicle logs (*.csv) directly under dataDir. The vehicle
// name is the file name without extension. A missing directory yields no
// files and no error.
func ScanDir(dataDir string) ([]DiscoveredFile, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var files []DiscoveredFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		// dot-files are in-flight atomic writes
		if strings.HasPrefix(name, ".") || !strings.EqualFold(filepath.Ext(name), ".csv") {
			continue
		}
		files = append(files, DiscoveredFile{
			Path:    filepath.Join(dataDir, name),
			Vehicle: strings.TrimSuffix(name, filepath.Ext(name)),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Vehicle < files[j].Vehicle })
	return files, nil
}

// VehiclePath returns the log path for a vehicle inside dataDir.
func VehiclePath(dataDir, vehicle string) string {
	return filepath.Join(dataDir, vehicle+".csv")
}

// CountVehicles returns the number of unique vehicles in a set of discovered files.
func CountVehicles(files []DiscoveredFile) int {
	seen := make(map[string]struct{})
	for _, f := range files {
		seen[strings.ToLower(f.Vehicle)] = struct{}{}
	}
	return len(seen)
}
