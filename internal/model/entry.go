// Package model defines domain types for fburn fuel logs and metrics.
package model

import "time"

// Drive profiles recorded with each fill-up.
const (
	ProfileCity    = "City"
	ProfileHighway = "Highway"
)

// Air-conditioning usage recorded with each fill-up.
const (
	ACMostly = "Mostly AC"
	ACMixed  = "Mixed"
	ACNone   = "No AC"
)

// DriveProfiles lists the accepted Drive_Profile values.
var DriveProfiles = []string{ProfileCity, ProfileHighway}

// ACModes lists the accepted AC_Mode values.
var ACModes = []string{ACMostly, ACMixed, ACNone}

// FuelEvent is one refueling observation as seen by the estimator.
type FuelEvent struct {
	Seq         int // tie-breaker for equal odometer readings
	Date        time.Time
	Odometer    float64
	LitersAdded float64
	FullTank    bool
}

// Entry is one row of a vehicle log: a fill-up plus any transit and
// maintenance costs attached to it afterwards.
type Entry struct {
	ID           int
	Vehicle      string
	FilePath     string
	Date         time.Time
	DriveProfile string
	ACMode       string

	LitersAdded  float64
	CostPerLiter float64
	FullTank     bool
	Odometer     float64

	StateToll   float64
	PrivateToll float64
	ServiceCost float64
	ServiceDesc string

	CreatedAt time.Time
	EditedAt  time.Time
}

// FuelEvent projects the entry onto the estimator's input.
func (e Entry) FuelEvent() FuelEvent {
	return FuelEvent{
		Seq:         e.ID,
		Date:        e.Date,
		Odometer:    e.Odometer,
		LitersAdded: e.LitersAdded,
		FullTank:    e.FullTank,
	}
}

// FuelCost is the amount paid at the pump for this entry.
func (e Entry) FuelCost() float64 {
	return e.LitersAdded * e.CostPerLiter
}

// TollCost is the sum of state and private tolls.
func (e Entry) TollCost() float64 {
	return e.StateToll + e.PrivateToll
}

// Edited reports whether transit or maintenance data was attached later.
func (e Entry) Edited() bool {
	return !e.EditedAt.IsZero()
}

// FuelEvents projects a slice of entries, preserving order.
func FuelEvents(entries []Entry) []FuelEvent {
	events := make([]FuelEvent, len(entries))
	for i, e := range entries {
		events[i] = e.FuelEvent()
	}
	return events
}
