// Package estimator derives fuel economy, remaining fuel and range from a
// vehicle's refueling history.
//
// Every function is pure: it reads an in-memory snapshot of events and keeps
// no state between calls. Events must be ordered by odometer (see Order and
// Before).
// The functions never fail; short or empty histories fall back to the
// configured defaults.
package estimator

import (
	"math"
	"sort"

	"github.com/theirongolddev/fburn/internal/model"

	"gonum.org/v1/gonum/stat"
)

// Weighting selects how interval samples are averaged.
type Weighting int

const (
	// Equal gives every full-tank interval the same weight.
	Equal Weighting = iota
	// ByDistance weights each interval by the distance driven in it.
	ByDistance
)

// ParseWeighting maps a config value to a Weighting. Unknown values are Equal.
func ParseWeighting(s string) Weighting {
	if s == "distance" {
		return ByDistance
	}
	return Equal
}

func (w Weighting) String() string {
	if w == ByDistance {
		return "distance"
	}
	return "equal"
}

// Params configures the estimator.
type Params struct {
	TankCapacity      float64 // liters
	DefaultEfficiency float64 // km/L used until two full tanks exist
	Weighting         Weighting
	RecentIntervals   int // 0 averages every interval
}

// DefaultParams returns the stock configuration: 35 L tank, 15 km/L default.
func DefaultParams() Params {
	return Params{
		TankCapacity:      35,
		DefaultEfficiency: 15,
		Weighting:         Equal,
	}
}

// Sample is the efficiency observed between two consecutive full-tank events.
type Sample struct {
	FromOdometer float64
	ToOdometer   float64
	Distance     float64
	Liters       float64
	Efficiency   float64
	Valid        bool // false when the closing fill recorded no fuel
	To           model.FuelEvent
}

// Result bundles the three estimates computed from one snapshot.
type Result struct {
	Efficiency      float64
	FuelLevel       float64
	DistanceToEmpty float64
	FullTankCount   int
	SampleCount     int
	Fallback        bool
}

// Before reports whether a precedes b in history order: by odometer, ties
// broken by Seq.
func Before(a, b model.FuelEvent) bool {
	if a.Odometer != b.Odometer {
		return a.Odometer < b.Odometer
	}
	return a.Seq < b.Seq
}

// Order returns a copy of events sorted with Before.
func Order(events []model.FuelEvent) []model.FuelEvent {
	out := make([]model.FuelEvent, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool { return Before(out[i], out[j]) })
	return out
}

// Samples lists every interval between consecutive full-tank events.
func Samples(events []model.FuelEvent) []Sample {
	var prev *model.FuelEvent
	var out []Sample
	for i := range events {
		ev := events[i]
		if !ev.FullTank {
			continue
		}
		if prev != nil {
			s := Sample{
				FromOdometer: prev.Odometer,
				ToOdometer:   ev.Odometer,
				Distance:     ev.Odometer - prev.Odometer,
				Liters:       ev.LitersAdded,
				To:           ev,
			}
			if s.Liters > 0 {
				s.Efficiency = s.Distance / s.Liters
				s.Valid = true
			}
			out = append(out, s)
		}
		prev = &events[i]
	}
	return out
}

// AverageEfficiency returns the mean km/L over full-tank intervals, or
// p.DefaultEfficiency when fewer than two full tanks or no usable interval
// exist. Intervals whose closing fill added no fuel are skipped; intervals
// with zero distance count as 0 km/L.
func AverageEfficiency(events []model.FuelEvent, p Params) float64 {
	eff, _ := averageEfficiency(events, p)
	return eff
}

func averageEfficiency(events []model.FuelEvent, p Params) (float64, int) {
	var values, weights []float64
	for _, s := range Samples(events) {
		if !s.Valid {
			continue
		}
		values = append(values, s.Efficiency)
		weights = append(weights, s.Distance)
	}
	if len(values) == 0 {
		return p.DefaultEfficiency, 0
	}

	if p.RecentIntervals > 0 && len(values) > p.RecentIntervals {
		values = values[len(values)-p.RecentIntervals:]
		weights = weights[len(weights)-p.RecentIntervals:]
	}

	if p.Weighting == ByDistance {
		var total float64
		for _, w := range weights {
			total += w
		}
		// gonum rejects an all-zero weight vector with NaN; fall back to equal.
		if total > 0 && !hasNegative(weights) {
			return stat.Mean(values, weights), len(values)
		}
	}
	return stat.Mean(values, nil), len(values)
}

func hasNegative(xs []float64) bool {
	for _, x := range xs {
		if x < 0 {
			return true
		}
	}
	return false
}

// CurrentFuelLevel estimates the liters in the tank after the last event.
// It assumes a full tank at the most recent full-tank event, adds every
// later fill and subtracts the distance driven divided by the average
// efficiency. The result is clamped to [0, p.TankCapacity]; 0 when no
// full-tank event exists.
func CurrentFuelLevel(events []model.FuelEvent, p Params) float64 {
	return fuelLevel(events, p, AverageEfficiency(events, p))
}

func fuelLevel(events []model.FuelEvent, p Params, eff float64) float64 {
	last := -1
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].FullTank {
			last = i
			break
		}
	}
	if last < 0 {
		return 0
	}

	level := p.TankCapacity
	for i := last + 1; i < len(events); i++ {
		level += events[i].LitersAdded
		level -= consumed(events[i].Odometer-events[i-1].Odometer, eff)
	}
	return clamp(level, 0, p.TankCapacity)
}

// consumed converts a distance to liters. A non-positive efficiency means
// the history cannot support an estimate, so any forward distance empties
// the tank.
func consumed(distance, eff float64) float64 {
	if distance == 0 {
		return 0
	}
	if eff <= 0 || math.IsNaN(eff) {
		if distance > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return distance / eff
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// DistanceToEmpty estimates the remaining range in km.
func DistanceToEmpty(events []model.FuelEvent, p Params) float64 {
	return Estimate(events, p).DistanceToEmpty
}

// Estimate computes efficiency once and derives level and range from it.
func Estimate(events []model.FuelEvent, p Params) Result {
	full := 0
	for _, ev := range events {
		if ev.FullTank {
			full++
		}
	}

	eff, n := averageEfficiency(events, p)
	level := fuelLevel(events, p, eff)
	return Result{
		Efficiency:      eff,
		FuelLevel:       level,
		DistanceToEmpty: level * eff,
		FullTankCount:   full,
		SampleCount:     n,
		Fallback:        n == 0,
	}
}

// GaugeCells converts a fuel level to the number of filled cells in a gauge
// of the given width.
func GaugeCells(level, capacity float64, cells int) int {
	if capacity <= 0 || cells <= 0 {
		return 0
	}
	n := int(level / capacity * float64(cells))
	if n < 0 {
		return 0
	}
	if n > cells {
		return cells
	}
	return n
}
