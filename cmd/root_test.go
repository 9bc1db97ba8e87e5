package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/theirongolddev/fburn/internal/source"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withVehicleFlags(t *testing.T, dir, vehicle string) {
	t.Helper()
	oldDir, oldVehicle := flagDataDir, flagVehicle
	flagDataDir, flagVehicle = dir, vehicle
	t.Cleanup(func() { flagDataDir, flagVehicle = oldDir, oldVehicle })
}

func TestOpenVehicleLog_MatchesExistingLog(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, source.WriteFile(filepath.Join(dir, "Swift.csv"), nil))

	for _, query := range []string{"swift", "SWI"} {
		withVehicleFlags(t, dir, query)
		book, err := openVehicleLog(true)
		require.NoError(t, err, query)
		assert.Equal(t, filepath.Join(dir, "Swift.csv"), book.Path())
		assert.Equal(t, "Swift", book.Vehicle())
	}

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, files, 1, "no second log created")
}

func TestOpenVehicleLog_CreatesOnlyWhenNothingMatches(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, source.WriteFile(filepath.Join(dir, "Swift.csv"), nil))
	withVehicleFlags(t, dir, "activa")

	_, err := openVehicleLog(false)
	assert.ErrorIs(t, err, source.ErrNoVehicle)

	book, err := openVehicleLog(true)
	require.NoError(t, err)
	assert.Equal(t, source.VehiclePath(dir, "activa"), book.Path())
	assert.FileExists(t, book.Path())
}

func TestOpenVehicleLog_Ambiguous(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, source.WriteFile(filepath.Join(dir, "swift.csv"), nil))
	require.NoError(t, source.WriteFile(filepath.Join(dir, "swift-old.csv"), nil))

	withVehicleFlags(t, dir, "")
	_, err := openVehicleLog(true)
	assert.ErrorIs(t, err, source.ErrAmbiguousVehicle)

	withVehicleFlags(t, dir, "wif")
	_, err = openVehicleLog(true)
	assert.ErrorIs(t, err, source.ErrAmbiguousVehicle)

	withVehicleFlags(t, dir, "swift")
	book, err := openVehicleLog(false)
	require.NoError(t, err)
	assert.Equal(t, "swift", book.Vehicle())
}
