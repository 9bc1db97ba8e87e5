package estimator

import (
	"math"
	"testing"

	"github.com/theirongolddev/fburn/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func full(odo, liters float64) model.FuelEvent {
	return model.FuelEvent{Odometer: odo, LitersAdded: liters, FullTank: true}
}

func partial(odo, liters float64) model.FuelEvent {
	return model.FuelEvent{Odometer: odo, LitersAdded: liters}
}

func TestAverageEfficiency(t *testing.T) {
	p := DefaultParams()

	tests := []struct {
		name   string
		events []model.FuelEvent
		want   float64
	}{
		{"empty history", nil, 15},
		{"single full tank", []model.FuelEvent{full(0, 30)}, 15},
		{"only partial fills", []model.FuelEvent{partial(0, 10), partial(200, 10)}, 15},
		{"one interval", []model.FuelEvent{full(0, 30), full(400, 20)}, 20},
		{"partials between anchors ignored", []model.FuelEvent{
			full(0, 30), partial(150, 5), full(400, 20),
		}, 20},
		{"zero distance sample kept", []model.FuelEvent{
			full(0, 30), full(0, 10), full(400, 20),
		}, 10},
		{"zero fuel sample skipped", []model.FuelEvent{
			full(0, 30), full(400, 0), full(800, 20),
		}, 20},
		{"all samples skipped", []model.FuelEvent{full(0, 30), full(400, 0)}, 15},
		{"equal weighting", []model.FuelEvent{
			full(0, 30), full(100, 10), full(400, 10),
		}, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, AverageEfficiency(tt.events, p), 1e-9)
		})
	}
}

func TestAverageEfficiencyOptions(t *testing.T) {
	events := []model.FuelEvent{full(0, 30), full(100, 10), full(400, 10)}

	p := DefaultParams()
	p.Weighting = ByDistance
	assert.InDelta(t, 25, AverageEfficiency(events, p), 1e-9)

	p = DefaultParams()
	p.RecentIntervals = 1
	assert.InDelta(t, 30, AverageEfficiency(events, p), 1e-9)

	// All-zero distances cannot be distance-weighted.
	p = DefaultParams()
	p.Weighting = ByDistance
	assert.InDelta(t, 0, AverageEfficiency([]model.FuelEvent{full(0, 10), full(0, 10)}, p), 1e-9)
}

func TestCurrentFuelLevel(t *testing.T) {
	p := DefaultParams()

	tests := []struct {
		name   string
		events []model.FuelEvent
		want   float64
	}{
		{"empty history", nil, 0},
		{"no full tank", []model.FuelEvent{partial(0, 20), partial(100, 5)}, 0},
		{"ends on full tank", []model.FuelEvent{full(0, 30), full(400, 20)}, 35},
		{"driven after last full tank", []model.FuelEvent{
			full(0, 30), full(400, 20), partial(600, 5),
		}, 30},
		{"clamped at capacity", []model.FuelEvent{
			full(0, 30), full(400, 20), partial(500, 1000),
		}, 35},
		{"clamped at zero", []model.FuelEvent{
			full(0, 30), full(400, 20), partial(2000, 1),
		}, 0},
		{"single full tank uses default efficiency", []model.FuelEvent{
			full(0, 30), partial(150, 0),
		}, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CurrentFuelLevel(tt.events, p), 1e-9)
		})
	}
}

func TestCurrentFuelLevelDegenerateEfficiency(t *testing.T) {
	// Every interval has zero distance, so the mean efficiency is 0.
	events := []model.FuelEvent{full(0, 10), full(0, 10), partial(100, 0)}
	level := CurrentFuelLevel(events, DefaultParams())
	assert.False(t, math.IsNaN(level))
	assert.Equal(t, 0.0, level)

	atAnchor := []model.FuelEvent{full(0, 10), full(0, 10)}
	assert.Equal(t, 35.0, CurrentFuelLevel(atAnchor, DefaultParams()))
}

func TestDistanceToEmpty(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, 0.0, DistanceToEmpty(nil, p))
	assert.InDelta(t, 525, DistanceToEmpty([]model.FuelEvent{full(0, 30)}, p), 1e-9)
	assert.InDelta(t, 700, DistanceToEmpty([]model.FuelEvent{full(0, 30), full(400, 20)}, p), 1e-9)
	assert.InDelta(t, 600, DistanceToEmpty([]model.FuelEvent{
		full(0, 30), full(400, 20), partial(600, 5),
	}, p), 1e-9)
}

func TestEstimateMatchesStandaloneFunctions(t *testing.T) {
	p := DefaultParams()
	events := []model.FuelEvent{
		full(0, 30), partial(120, 8), full(410, 22), full(800, 19), partial(950, 4),
	}

	r := Estimate(events, p)
	assert.InDelta(t, AverageEfficiency(events, p), r.Efficiency, 1e-12)
	assert.InDelta(t, CurrentFuelLevel(events, p), r.FuelLevel, 1e-12)
	assert.InDelta(t, DistanceToEmpty(events, p), r.DistanceToEmpty, 1e-12)
	assert.Equal(t, 3, r.FullTankCount)
	assert.Equal(t, 2, r.SampleCount)
	assert.False(t, r.Fallback)

	assert.True(t, Estimate([]model.FuelEvent{full(0, 30)}, p).Fallback)
}

func TestEstimateIsIdempotent(t *testing.T) {
	p := DefaultParams()
	events := []model.FuelEvent{full(0, 30), partial(200, 10), full(520, 25)}
	snapshot := append([]model.FuelEvent(nil), events...)

	first := Estimate(events, p)
	second := Estimate(events, p)
	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, events, "input must not be mutated")
}

func TestOutOfOrderOdometerDoesNotPanic(t *testing.T) {
	p := DefaultParams()
	events := []model.FuelEvent{full(500, 30), full(100, 20), partial(50, 5), full(300, 0)}

	require.NotPanics(t, func() {
		r := Estimate(events, p)
		assert.False(t, math.IsNaN(r.Efficiency))
		assert.False(t, math.IsNaN(r.FuelLevel))
		assert.GreaterOrEqual(t, r.FuelLevel, 0.0)
		assert.LessOrEqual(t, r.FuelLevel, p.TankCapacity)
	})
}

func TestSamples(t *testing.T) {
	events := []model.FuelEvent{full(0, 30), partial(100, 5), full(400, 20), full(400, 0)}
	samples := Samples(events)
	require.Len(t, samples, 2)

	assert.Equal(t, 400.0, samples[0].Distance)
	assert.InDelta(t, 20, samples[0].Efficiency, 1e-9)
	assert.True(t, samples[0].Valid)

	assert.Equal(t, 0.0, samples[1].Distance)
	assert.False(t, samples[1].Valid)
}

func TestOrder(t *testing.T) {
	events := []model.FuelEvent{
		{Seq: 3, Odometer: 200},
		{Seq: 2, Odometer: 100},
		{Seq: 1, Odometer: 200},
	}
	ordered := Order(events)
	require.Len(t, ordered, 3)
	assert.Equal(t, []int{2, 1, 3}, []int{ordered[0].Seq, ordered[1].Seq, ordered[2].Seq})
	assert.Equal(t, 3, events[0].Seq, "input must not be reordered")

	assert.True(t, Before(model.FuelEvent{Seq: 9, Odometer: 100}, model.FuelEvent{Seq: 1, Odometer: 101}))
	assert.True(t, Before(model.FuelEvent{Seq: 1, Odometer: 100}, model.FuelEvent{Seq: 2, Odometer: 100}))
	assert.False(t, Before(model.FuelEvent{Seq: 2, Odometer: 100}, model.FuelEvent{Seq: 2, Odometer: 100}))
}

func TestGaugeCells(t *testing.T) {
	assert.Equal(t, 5, GaugeCells(17.5, 35, 10))
	assert.Equal(t, 10, GaugeCells(35, 35, 10))
	assert.Equal(t, 9, GaugeCells(34.9, 35, 10))
	assert.Equal(t, 0, GaugeCells(0, 35, 10))
	assert.Equal(t, 0, GaugeCells(10, 0, 10))
}

func TestParseWeighting(t *testing.T) {
	assert.Equal(t, ByDistance, ParseWeighting("distance"))
	assert.Equal(t, Equal, ParseWeighting("equal"))
	assert.Equal(t, Equal, ParseWeighting("bogus"))
	assert.Equal(t, "distance", ByDistance.String())
}

func FuzzEstimate(f *testing.F) {
	f.Add(0.0, 30.0, true, 400.0, 20.0, true, 600.0, 5.0, false)
	f.Add(100.0, 0.0, true, 50.0, 0.0, true, 0.0, 1000.0, false)

	f.Fuzz(func(t *testing.T, o1, l1 float64, f1 bool, o2, l2 float64, f2 bool, o3, l3 float64, f3 bool) {
		for _, v := range []float64{o1, l1, o2, l2, o3, l3} {
			if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > 1e9 {
				t.Skip()
			}
		}
		p := DefaultParams()
		events := []model.FuelEvent{
			{Odometer: o1, LitersAdded: l1, FullTank: f1},
			{Odometer: o2, LitersAdded: l2, FullTank: f2},
			{Odometer: o3, LitersAdded: l3, FullTank: f3},
		}
		level := CurrentFuelLevel(events, p)
		if math.IsNaN(level) || level < 0 || level > p.TankCapacity {
			t.Fatalf("fuel level %v outside [0, %v]", level, p.TankCapacity)
		}
	})
}

func BenchmarkEstimate(b *testing.B) {
	events := make([]model.FuelEvent, 0, 1000)
	for i := 0; i < 1000; i++ {
		events = append(events, model.FuelEvent{
			Seq:         i,
			Odometer:    float64(i * 180),
			LitersAdded: 12,
			FullTank:    i%3 == 0,
		})
	}
	p := DefaultParams()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Estimate(events, p)
	}
}
