// Package source discovers, parses and writes per-vehicle CSV fuel logs.
package source

// Columns is the header every log file starts with.
var Columns = []string{
	"Entry_ID",
	"Date",
	"Drive_Profile",
	"AC_Mode",
	"Liters_Added",
	"Cost_per_Liter",
	"Full_Tank",
	"Odometer",
	"State_Toll",
	"Private_Toll",
	"Service_Cost",
	"Service_Desc",
	"Timestamp_Created",
	"Timestamp_Edited",
}

const (
	colID = iota
	colDate
	colDriveProfile
	colACMode
	colLiters
	colCostPerLiter
	colFullTank
	colOdometer
	colStateToll
	colPrivateToll
	colServiceCost
	colServiceDesc
	colCreated
	colEdited
)

// DateLayout is the format of the Date column.
const DateLayout = "2006-01-02"

// DiscoveredFile represents one vehicle log found on disk.
type DiscoveredFile struct {
	Path    string
	Vehicle string
}
