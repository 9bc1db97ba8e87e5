package pipeline

import (
	"testing"
	"time"

	"github.com/theirongolddev/fburn/internal/estimator"
	"github.com/theirongolddev/fburn/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultParams(string) estimator.Params { return estimator.DefaultParams() }

func TestSummarize(t *testing.T) {
	entries := swiftLog()
	entries[1].StateToll = 150
	entries[2].PrivateToll = 40
	entries[3].ServiceCost = 1200

	s := Summarize("swift", entries, estimator.DefaultParams(), Fastag{TotalTrips: 200, Cost: 3000})

	assert.Equal(t, 4, s.Entries)
	assert.InDelta(t, 22.5, s.Efficiency, 1e-9)
	// 35 L at the last full tank, +5 L, -150 km at 22.5 km/L
	assert.InDelta(t, 40-150/22.5, s.FuelLevel, 1e-9)
	assert.InDelta(t, (40-150/22.5)*22.5, s.DistanceToEmpty, 1e-9)
	assert.False(t, s.Fallback)
	assert.Equal(t, 3, s.FullTankCount)
	assert.Equal(t, 2, s.SampleCount)

	assert.Equal(t, 1050.0, s.TotalDistance)
	assert.Equal(t, 75.0, s.TotalLiters)
	assert.InDelta(t, 3000+2000+2200+550, s.FuelCost, 1e-9)
	assert.Equal(t, 150.0, s.StateToll)
	assert.Equal(t, 40.0, s.PrivateToll)
	assert.Equal(t, 1200.0, s.ServiceCost)
	assert.Equal(t, 1, s.FastagTrips)
	assert.InDelta(t, 15, s.FastagCost, 1e-9)
	assert.InDelta(t, 7750+150+40+1200+15, s.TotalCost, 1e-9)
	assert.True(t, s.HasCostPerKm)
	assert.InDelta(t, s.TotalCost/1050, s.CostPerKm, 1e-9)
	assert.Equal(t, "2025-01-03", s.FirstDate.Format("2006-01-02"))
	assert.Equal(t, "2025-02-15", s.LastDate.Format("2006-01-02"))
}

func TestSummarizeDrainsAfterPartialFill(t *testing.T) {
	entries := swiftLog()
	entries[3].Odometer = 2350 // 450 km since the last full tank

	s := Summarize("swift", entries, estimator.DefaultParams(), Fastag{})
	assert.InDelta(t, 35+5-450/22.5, s.FuelLevel, 1e-9)
	assert.InDelta(t, s.FuelLevel*22.5, s.DistanceToEmpty, 1e-9)
}

func TestSummarizeFallback(t *testing.T) {
	entries := []model.Entry{mkEntry("swift", 1, "2025-01-03", 1000, 30, 100, true)}

	s := Summarize("swift", entries, estimator.DefaultParams(), Fastag{})
	assert.True(t, s.Fallback)
	assert.Equal(t, 15.0, s.Efficiency)
	assert.False(t, s.HasCostPerKm, "single reading covers no distance")
}

func TestSummarizeOrdersByOdometer(t *testing.T) {
	entries := swiftLog()
	shuffled := []model.Entry{entries[2], entries[0], entries[3], entries[1]}

	want := Summarize("swift", entries, estimator.DefaultParams(), Fastag{})
	got := Summarize("swift", shuffled, estimator.DefaultParams(), Fastag{})
	assert.Equal(t, want, got)
}

func TestAggregateVehicles(t *testing.T) {
	entries := append(swiftLog(),
		mkEntry("activa", 1, "2025-01-10", 300, 5, 100, true),
		mkEntry("activa", 2, "2025-01-25", 525, 5, 100, true),
	)

	params := func(v string) estimator.Params {
		p := estimator.DefaultParams()
		if v == "activa" {
			p.TankCapacity = 5.3
		}
		return p
	}

	stats := AggregateVehicles(entries, params, Fastag{})
	require.Len(t, stats, 2)
	assert.Equal(t, "activa", stats[0].Vehicle)
	assert.InDelta(t, 45, stats[0].Efficiency, 1e-9)
	assert.Equal(t, 5.3, stats[0].TankCapacity)
	assert.Equal(t, "swift", stats[1].Vehicle)
}

func TestGroupByVehicleOrdersEntries(t *testing.T) {
	entries := []model.Entry{
		mkEntry("b", 2, "2025-01-02", 200, 1, 1, true),
		mkEntry("a", 1, "2025-01-01", 50, 1, 1, true),
		mkEntry("b", 1, "2025-01-01", 100, 1, 1, true),
		mkEntry("b", 3, "2025-01-02", 200, 1, 1, false),
	}

	logs := GroupByVehicle(entries)
	require.Len(t, logs, 2)
	assert.Equal(t, "a", logs[0].Vehicle)

	var ids []int
	for _, e := range logs[1].Entries {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []int{1, 2, 3}, ids)
}

func TestAggregateMonths(t *testing.T) {
	since := time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC)
	until := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	months := AggregateMonths(swiftLog(), since, until)
	require.Len(t, months, 3)

	assert.Equal(t, "2025-02", months[0].Month.Format("2006-01"))
	assert.Equal(t, 2, months[0].Fills)
	assert.Equal(t, 650.0, months[0].Distance)
	assert.InDelta(t, 2200+550, months[0].FuelCost, 1e-9)

	assert.Equal(t, "2025-01", months[1].Month.Format("2006-01"))
	assert.Equal(t, 400.0, months[1].Distance)

	assert.Equal(t, "2024-12", months[2].Month.Format("2006-01"))
	assert.Zero(t, months[2].Fills)
}

func TestAggregateProfiles(t *testing.T) {
	entries := swiftLog()
	entries[2].DriveProfile = model.ProfileHighway
	entries[2].ACMode = model.ACNone

	profiles := AggregateProfiles(entries)
	require.Len(t, profiles, 2)

	// equal sample counts: higher efficiency first
	assert.Equal(t, model.ProfileHighway, profiles[0].DriveProfile)
	assert.InDelta(t, 25, profiles[0].Efficiency, 1e-9)
	assert.InDelta(t, 50, profiles[0].SharePercent, 1e-9)
	assert.Equal(t, model.ProfileCity, profiles[1].DriveProfile)
	assert.InDelta(t, 20, profiles[1].Efficiency, 1e-9)
}

func TestFilterByTime(t *testing.T) {
	since := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)
	until := time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC)

	got := FilterByTime(swiftLog(), since, until)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].ID)
	assert.Equal(t, 3, got[1].ID)

	assert.Len(t, FilterByTime(swiftLog(), time.Time{}, time.Time{}), 4)
}

func TestFilterByVehicle(t *testing.T) {
	entries := append(swiftLog(), mkEntry("Activa-125", 1, "2025-01-10", 300, 5, 100, true))
	assert.Len(t, FilterByVehicle(entries, "activa"), 1)
	assert.Len(t, FilterByVehicle(entries, "SWI"), 4)
	assert.Empty(t, FilterByVehicle(entries, "city"))
}
