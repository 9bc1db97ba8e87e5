package daemon

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors updated on every poll.
type Metrics struct {
	fuelLevel  *prometheus.GaugeVec
	dte        *prometheus.GaugeVec
	efficiency *prometheus.GaugeVec
	costPerKm  *prometheus.GaugeVec
	polls      *prometheus.CounterVec
}

// NewMetrics registers the daemon collectors on reg. If the collectors are
// already registered, the existing ones are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		fuelLevel: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "fburn_fuel_level_liters",
			Help: "Estimated fuel remaining in the tank",
		}, []string{"vehicle"}),
		dte: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "fburn_distance_to_empty_km",
			Help: "Estimated range on the remaining fuel",
		}, []string{"vehicle"}),
		efficiency: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "fburn_efficiency_kmpl",
			Help: "Average fuel economy between full tanks",
		}, []string{"vehicle"}),
		costPerKm: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "fburn_cost_per_km",
			Help: "Total running cost divided by distance driven",
		}, []string{"vehicle"}),
		polls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fburn_polls_total",
			Help: "Number of log polls by result",
		}, []string{"result"}),
	}

	var err error
	if m.fuelLevel, err = registerGauge(reg, m.fuelLevel); err != nil {
		return nil, err
	}
	if m.dte, err = registerGauge(reg, m.dte); err != nil {
		return nil, err
	}
	if m.efficiency, err = registerGauge(reg, m.efficiency); err != nil {
		return nil, err
	}
	if m.costPerKm, err = registerGauge(reg, m.costPerKm); err != nil {
		return nil, err
	}
	if err := reg.Register(m.polls); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, err
		}
		m.polls = are.ExistingCollector.(*prometheus.CounterVec)
	}
	return m, nil
}

func registerGauge(reg prometheus.Registerer, g *prometheus.GaugeVec) (*prometheus.GaugeVec, error) {
	if err := reg.Register(g); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector.(*prometheus.GaugeVec), nil
		}
		return nil, err
	}
	return g, nil
}

// observe replaces the per-vehicle gauges with the snapshot values.
// Vehicles that disappeared from the logs are dropped.
func (m *Metrics) observe(snap Snapshot) {
	m.fuelLevel.Reset()
	m.dte.Reset()
	m.efficiency.Reset()
	m.costPerKm.Reset()

	for _, v := range snap.Vehicles {
		m.fuelLevel.WithLabelValues(v.Vehicle).Set(v.FuelLevelL)
		m.dte.WithLabelValues(v.Vehicle).Set(v.DistanceToEmpty)
		m.efficiency.WithLabelValues(v.Vehicle).Set(v.EfficiencyKmpl)
		if v.CostPerKm > 0 {
			m.costPerKm.WithLabelValues(v.Vehicle).Set(v.CostPerKm)
		}
	}
}
