package logbook

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/fburn/internal/model"
	"github.com/theirongolddev/fburn/internal/source"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func openBook(t *testing.T) *Book {
	t.Helper()
	b, bad, err := Open(filepath.Join(t.TempDir(), "swift.csv"), "swift")
	require.NoError(t, err)
	require.Zero(t, bad)
	b.Now = func() time.Time { return fixedNow }
	return b
}

func fill(odo float64, full bool) FuelInput {
	return FuelInput{
		Date:         time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		DriveProfile: model.ProfileCity,
		ACMode:       model.ACMixed,
		LitersAdded:  20,
		CostPerLiter: 103.5,
		FullTank:     full,
		Odometer:     odo,
	}
}

func TestOpenCreatesLog(t *testing.T) {
	b := openBook(t)
	_, err := os.Stat(b.Path())
	require.NoError(t, err)
	assert.Empty(t, b.Entries())
	assert.Equal(t, "swift", b.Vehicle())
}

func TestAddFuelAssignsIDsAndPersists(t *testing.T) {
	b := openBook(t)

	first, err := b.AddFuel(fill(1000, true))
	require.NoError(t, err)
	second, err := b.AddFuel(fill(1400, false))
	require.NoError(t, err)

	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 2, second.ID)
	assert.Equal(t, fixedNow, second.CreatedAt)
	assert.Equal(t, 1400.0, b.MaxOdometer())

	reopened, _, err := Open(b.Path(), "swift")
	require.NoError(t, err)
	got := reopened.Entries()
	require.Len(t, got, 2)
	assert.Equal(t, 1400.0, got[1].Odometer)
	assert.True(t, got[0].FullTank)
}

func TestAddFuelRejectsNonIncreasingOdometer(t *testing.T) {
	b := openBook(t)
	_, err := b.AddFuel(fill(1000, true))
	require.NoError(t, err)

	for _, odo := range []float64{1000, 999} {
		_, err = b.AddFuel(fill(odo, true))
		assert.True(t, errors.Is(err, ErrOdometerNotIncreasing), "odometer %v: %v", odo, err)
	}
	assert.Len(t, b.Entries(), 1)
}

func TestAddFuelFirstEntryMayStartAtZero(t *testing.T) {
	b := openBook(t)
	_, err := b.AddFuel(fill(0, true))
	assert.NoError(t, err)
}

func TestAddFuelValidation(t *testing.T) {
	b := openBook(t)

	tests := []struct {
		name string
		edit func(*FuelInput)
	}{
		{"missing date", func(in *FuelInput) { in.Date = time.Time{} }},
		{"unknown profile", func(in *FuelInput) { in.DriveProfile = "Offroad" }},
		{"unknown ac mode", func(in *FuelInput) { in.ACMode = "Max" }},
		{"negative liters", func(in *FuelInput) { in.LitersAdded = -1 }},
		{"negative price", func(in *FuelInput) { in.CostPerLiter = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := fill(500, true)
			tt.edit(&in)
			_, err := b.AddFuel(in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestUpdateTransit(t *testing.T) {
	b := openBook(t)
	_, err := b.AddFuel(fill(1000, true))
	require.NoError(t, err)

	e, err := b.UpdateTransit(1, TransitInput{StateToll: 120, PrivateToll: 40, ServiceCost: 2500, ServiceDesc: "tyres"})
	require.NoError(t, err)
	assert.Equal(t, 160.0, e.TollCost())
	assert.Equal(t, fixedNow, e.EditedAt)

	res := source.ParseFile(source.DiscoveredFile{Path: b.Path(), Vehicle: "swift"})
	require.NoError(t, res.Err)
	require.Len(t, res.Entries, 1)
	assert.Equal(t, "tyres", res.Entries[0].ServiceDesc)
	assert.True(t, res.Entries[0].Edited())
}

func TestUpdateTransitErrors(t *testing.T) {
	b := openBook(t)
	_, err := b.AddFuel(fill(1000, true))
	require.NoError(t, err)

	_, err = b.UpdateTransit(42, TransitInput{})
	assert.ErrorIs(t, err, ErrEntryNotFound)

	_, err = b.UpdateTransit(1, TransitInput{StateToll: -5})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestEntriesReturnsCopy(t *testing.T) {
	b := openBook(t)
	_, err := b.AddFuel(fill(1000, true))
	require.NoError(t, err)

	got := b.Entries()
	got[0].Odometer = 1
	assert.Equal(t, 1000.0, b.Entries()[0].Odometer)
}
