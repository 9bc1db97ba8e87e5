package source

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoVehicle means no log matches the requested vehicle.
	ErrNoVehicle = errors.New("no matching vehicle log")
	// ErrAmbiguousVehicle means the request matches more than one log.
	ErrAmbiguousVehicle = errors.New("vehicle matches several logs")
)

// MatchVehicle reports whether a vehicle name passes the --vehicle filter,
// a case-insensitive substring.
func MatchVehicle(vehicle, filter string) bool {
	return strings.Contains(strings.ToLower(vehicle), strings.ToLower(filter))
}

// ResolveVehicle picks the single log a write applies to. An empty query
// needs exactly one log. Otherwise a case-insensitive exact name wins over
// substring matches, and the substring must match only one log.
func ResolveVehicle(files []DiscoveredFile, query string) (DiscoveredFile, error) {
	var matches []DiscoveredFile
	for _, f := range files {
		if query != "" && strings.EqualFold(f.Vehicle, query) {
			return f, nil
		}
		if MatchVehicle(f.Vehicle, query) {
			matches = append(matches, f)
		}
	}

	switch len(matches) {
	case 0:
		return DiscoveredFile{}, ErrNoVehicle
	case 1:
		return matches[0], nil
	}
	names := make([]string, len(matches))
	for i, f := range matches {
		names[i] = f.Vehicle
	}
	return DiscoveredFile{}, fmt.Errorf("%w: %s", ErrAmbiguousVehicle, strings.Join(names, ", "))
}
