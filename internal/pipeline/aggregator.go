// Package pipeline orchestrates log loading, caching and metric aggregation.
package pipeline

import (
	"sort"
	"time"

	"github.com/theirongolddev/fburn/internal/estimator"
	"github.com/theirongolddev/fburn/internal/model"
	"github.com/theirongolddev/fburn/internal/source"
)

// ParamsFunc resolves estimator parameters for a vehicle.
type ParamsFunc func(vehicle string) estimator.Params

// VehicleLog is one vehicle's entries in odometer order.
type VehicleLog struct {
	Vehicle string
	Entries []model.Entry
}

// OrderEntries returns a copy in the estimator's history order (odometer,
// then entry ID).
func OrderEntries(entries []model.Entry) []model.Entry {
	out := make([]model.Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		return estimator.Before(out[i].FuelEvent(), out[j].FuelEvent())
	})
	return out
}

// GroupByVehicle splits entries per vehicle, sorted by vehicle name, each
// log in odometer order.
func GroupByVehicle(entries []model.Entry) []VehicleLog {
	byVehicle := make(map[string][]model.Entry)
	for _, e := range entries {
		byVehicle[e.Vehicle] = append(byVehicle[e.Vehicle], e)
	}

	logs := make([]VehicleLog, 0, len(byVehicle))
	for v, es := range byVehicle {
		logs = append(logs, VehicleLog{Vehicle: v, Entries: OrderEntries(es)})
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].Vehicle < logs[j].Vehicle })
	return logs
}

// Summarize computes dashboard metrics for one vehicle. The estimates use
// the whole history; pass a time-filtered slice only for cost reporting.
func Summarize(vehicle string, entries []model.Entry, p estimator.Params, fastag Fastag) model.SummaryStats {
	ordered := OrderEntries(entries)
	est := estimator.Estimate(model.FuelEvents(ordered), p)
	costs := AggregateCostBreakdown(ordered, fastag)

	stats := model.SummaryStats{
		Vehicle:         vehicle,
		Entries:         len(ordered),
		Efficiency:      est.Efficiency,
		FuelLevel:       est.FuelLevel,
		TankCapacity:    p.TankCapacity,
		DistanceToEmpty: est.DistanceToEmpty,
		Fallback:        est.Fallback,
		FullTankCount:   est.FullTankCount,
		SampleCount:     est.SampleCount,
		TotalDistance:   costs.TotalDistance,
		TotalCost:       costs.Total,
		CostPerKm:       costs.CostPerKm,
		HasCostPerKm:    costs.HasCostPerKm,
	}

	for _, c := range costs.Categories {
		switch c.Name {
		case CategoryFuel:
			stats.FuelCost = c.Amount
		case CategoryStateToll:
			stats.StateToll = c.Amount
		case CategoryPrivateToll:
			stats.PrivateToll = c.Amount
		case CategoryService:
			stats.ServiceCost = c.Amount
		case CategoryFastag:
			stats.FastagCost = c.Amount
		}
	}

	for _, e := range ordered {
		stats.TotalLiters += e.LitersAdded
		if e.StateToll > 0 {
			stats.FastagTrips++
		}
		if stats.FirstDate.IsZero() || e.Date.Before(stats.FirstDate) {
			stats.FirstDate = e.Date
		}
		if e.Date.After(stats.LastDate) {
			stats.LastDate = e.Date
		}
	}
	return stats
}

// AggregateVehicles returns one summary per vehicle, sorted by name.
func AggregateVehicles(entries []model.Entry, params ParamsFunc, fastag Fastag) []model.SummaryStats {
	logs := GroupByVehicle(entries)
	out := make([]model.SummaryStats, 0, len(logs))
	for _, l := range logs {
		out = append(out, Summarize(l.Vehicle, l.Entries, params(l.Vehicle), fastag))
	}
	return out
}

// EntryDistances maps each entry to the distance driven since the previous
// entry of the same vehicle. The first entry of a vehicle covers 0 km.
func EntryDistances(entries []model.Entry) map[EntryKey]float64 {
	dist := make(map[EntryKey]float64, len(entries))
	for _, l := range GroupByVehicle(entries) {
		for i, e := range l.Entries {
			d := 0.0
			if i > 0 {
				d = e.Odometer - l.Entries[i-1].Odometer
			}
			dist[EntryKey{Vehicle: e.Vehicle, ID: e.ID}] = d
		}
	}
	return dist
}

// EntryKey identifies an entry across vehicles.
type EntryKey struct {
	Vehicle string
	ID      int
}

// AggregateMonths computes per-calendar-month spend within [since, until),
// newest first. Months without entries are included with zero values.
// Distances are computed over the full history before filtering.
func AggregateMonths(entries []model.Entry, since, until time.Time) []model.MonthlyStats {
	dist := EntryDistances(entries)
	filtered := FilterByTime(entries, since, until)

	monthMap := make(map[string]*model.MonthlyStats)
	for _, e := range filtered {
		month := monthStart(e.Date)
		key := month.Format("2006-01")
		ms, ok := monthMap[key]
		if !ok {
			ms = &model.MonthlyStats{Month: month}
			monthMap[key] = ms
		}
		ms.Fills++
		ms.Liters += e.LitersAdded
		ms.Distance += dist[EntryKey{Vehicle: e.Vehicle, ID: e.ID}]
		ms.FuelCost += e.FuelCost()
		ms.TollCost += e.TollCost()
		ms.ServiceCost += e.ServiceCost
	}

	if !since.IsZero() && !until.IsZero() {
		for m := monthStart(since); m.Before(until); m = m.AddDate(0, 1, 0) {
			key := m.Format("2006-01")
			if _, ok := monthMap[key]; !ok {
				monthMap[key] = &model.MonthlyStats{Month: m}
			}
		}
	}

	months := make([]model.MonthlyStats, 0, len(monthMap))
	for _, ms := range monthMap {
		ms.TotalCost = ms.FuelCost + ms.TollCost + ms.ServiceCost
		months = append(months, *ms)
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].Month.After(months[j].Month)
	})
	return months
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// AggregateProfiles groups full-tank interval efficiencies by the drive
// profile and AC mode recorded on the fill that closed each interval.
// Groups are sorted by sample count, then efficiency.
func AggregateProfiles(entries []model.Entry) []model.ProfileStats {
	type group struct {
		stats model.ProfileStats
		sum   float64
	}
	groups := make(map[[2]string]*group)
	total := 0

	for _, l := range GroupByVehicle(entries) {
		byID := make(map[int]model.Entry, len(l.Entries))
		for _, e := range l.Entries {
			byID[e.ID] = e
		}
		for _, s := range estimator.Samples(model.FuelEvents(l.Entries)) {
			if !s.Valid {
				continue
			}
			closing := byID[s.To.Seq]
			key := [2]string{closing.DriveProfile, closing.ACMode}
			g, ok := groups[key]
			if !ok {
				g = &group{stats: model.ProfileStats{DriveProfile: closing.DriveProfile, ACMode: closing.ACMode}}
				groups[key] = g
			}
			g.stats.Samples++
			g.stats.Distance += s.Distance
			g.sum += s.Efficiency
			total++
		}
	}

	out := make([]model.ProfileStats, 0, len(groups))
	for _, g := range groups {
		g.stats.Efficiency = g.sum / float64(g.stats.Samples)
		if total > 0 {
			g.stats.SharePercent = float64(g.stats.Samples) / float64(total) * 100
		}
		out = append(out, g.stats)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Samples != out[j].Samples {
			return out[i].Samples > out[j].Samples
		}
		return out[i].Efficiency > out[j].Efficiency
	})
	return out
}

// FilterByTime returns entries whose date falls within [since, until).
// A zero bound is open.
func FilterByTime(entries []model.Entry, since, until time.Time) []model.Entry {
	if since.IsZero() && until.IsZero() {
		return entries
	}

	var result []model.Entry
	for _, e := range entries {
		if !since.IsZero() && e.Date.Before(since) {
			continue
		}
		if !until.IsZero() && !e.Date.Before(until) {
			continue
		}
		result = append(result, e)
	}
	return result
}

// FilterByVehicle returns entries whose vehicle contains the substring.
func FilterByVehicle(entries []model.Entry, vehicle string) []model.Entry {
	var result []model.Entry
	for _, e := range entries {
		if source.MatchVehicle(e.Vehicle, vehicle) {
			result = append(result, e)
		}
	}
	return result
}
