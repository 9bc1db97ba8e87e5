package model

import "time"

// SummaryStats holds the dashboard metrics for one vehicle.
type SummaryStats struct {
	Vehicle string
	Entries int

	Efficiency      float64 // km/L
	FuelLevel       float64 // liters
	TankCapacity    float64
	DistanceToEmpty float64 // km
	Fallback        bool    // efficiency is the configured default
	FullTankCount   int
	SampleCount     int

	TotalDistance float64
	TotalLiters   float64
	FuelCost      float64
	StateToll     float64
	PrivateToll   float64
	ServiceCost   float64
	FastagTrips   int
	FastagCost    float64
	TotalCost     float64
	CostPerKm     float64
	HasCostPerKm  bool

	FirstDate time.Time
	LastDate  time.Time
}

// MonthlyStats holds spend and consumption for one calendar month.
type MonthlyStats struct {
	Month       time.Time
	Fills       int
	Liters      float64
	Distance    float64
	FuelCost    float64
	TollCost    float64
	ServiceCost float64
	TotalCost   float64
}

// ProfileStats holds efficiency samples grouped by driving conditions.
type ProfileStats struct {
	DriveProfile string
	ACMode       string
	Samples      int
	Efficiency   float64
	Distance     float64
	SharePercent float64
}

// CostCategory is one line of a cost breakdown.
type CostCategory struct {
	Name         string
	Amount       float64
	SharePercent float64
}

// CostBreakdown splits the running cost of a vehicle by category.
type CostBreakdown struct {
	Categories    []CostCategory
	Total         float64
	TotalDistance float64
	CostPerKm     float64
	HasCostPerKm  bool
}
