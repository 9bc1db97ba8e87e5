package pipeline

import (
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fburn/internal/model"
)

// Cost category names, in display order.
const (
	CategoryFuel        = "Fuel"
	CategoryStateToll   = "State tolls"
	CategoryPrivateToll = "Private tolls"
	CategoryService     = "Service"
	CategoryFastag      = "FASTag"
)

// Fastag describes the prepaid toll tag whose price is spread over a fixed
// number of state-toll trips.
type Fastag struct {
	TotalTrips int
	Cost       float64
}

// Amortized returns the share of the tag's price consumed by trips.
func (f Fastag) Amortized(trips int) decimal.Decimal {
	if f.TotalTrips <= 0 || trips <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(trips)).
		Div(decimal.NewFromInt(int64(f.TotalTrips))).
		Mul(decimal.NewFromFloat(f.Cost))
}

// AggregateCostBreakdown splits running cost by category. Every entry with
// a state toll counts as one FASTag trip. Cost per km is only reported when
// the logs cover a positive distance (max minus min odometer per vehicle).
func AggregateCostBreakdown(entries []model.Entry, fastag Fastag) model.CostBreakdown {
	var fuel, state, private, service decimal.Decimal
	trips := 0

	for _, e := range entries {
		fuel = fuel.Add(decimal.NewFromFloat(e.LitersAdded).Mul(decimal.NewFromFloat(e.CostPerLiter)))
		state = state.Add(decimal.NewFromFloat(e.StateToll))
		private = private.Add(decimal.NewFromFloat(e.PrivateToll))
		service = service.Add(decimal.NewFromFloat(e.ServiceCost))
		if e.StateToll > 0 {
			trips++
		}
	}
	tag := fastag.Amortized(trips)

	amounts := []struct {
		name   string
		amount decimal.Decimal
	}{
		{CategoryFuel, fuel},
		{CategoryStateToll, state},
		{CategoryPrivateToll, private},
		{CategoryService, service},
		{CategoryFastag, tag},
	}

	total := decimal.Sum(fuel, state, private, service, tag)
	out := model.CostBreakdown{
		Total:         total.InexactFloat64(),
		TotalDistance: totalDistance(entries),
	}
	for _, a := range amounts {
		c := model.CostCategory{Name: a.name, Amount: a.amount.InexactFloat64()}
		if total.IsPositive() {
			c.SharePercent = a.amount.Div(total).Mul(decimal.NewFromInt(100)).InexactFloat64()
		}
		out.Categories = append(out.Categories, c)
	}

	if out.TotalDistance > 0 {
		out.CostPerKm = total.Div(decimal.NewFromFloat(out.TotalDistance)).InexactFloat64()
		out.HasCostPerKm = true
	}
	return out
}

func totalDistance(entries []model.Entry) float64 {
	type span struct{ lo, hi float64 }
	spans := make(map[string]*span)
	for _, e := range entries {
		s, ok := spans[e.Vehicle]
		if !ok {
			spans[e.Vehicle] = &span{lo: e.Odometer, hi: e.Odometer}
			continue
		}
		s.lo = min(s.lo, e.Odometer)
		s.hi = max(s.hi, e.Odometer)
	}

	var d float64
	for _, s := range spans {
		d += s.hi - s.lo
	}
	return d
}
