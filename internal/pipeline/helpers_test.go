package pipeline

import (
	"time"

	"github.com/theirongolddev/fburn/internal/model"
)

func mkEntry(vehicle string, id int, date string, odo, liters, price float64, full bool) model.Entry {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return model.Entry{
		ID:           id,
		Vehicle:      vehicle,
		Date:         d,
		DriveProfile: model.ProfileCity,
		ACMode:       model.ACMixed,
		Odometer:     odo,
		LitersAdded:  liters,
		CostPerLiter: price,
		FullTank:     full,
	}
}

// swiftLog: two full-tank intervals of 20 and 25 km/L, then 150 km on a
// partial fill.
func swiftLog() []model.Entry {
	return []model.Entry{
		mkEntry("swift", 1, "2025-01-03", 1000, 30, 100, true),
		mkEntry("swift", 2, "2025-01-20", 1400, 20, 100, true),
		mkEntry("swift", 3, "2025-02-08", 1900, 20, 110, true),
		mkEntry("swift", 4, "2025-02-15", 2050, 5, 110, false),
	}
}
