package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/fburn/internal/cli"
	"github.com/theirongolddev/fburn/internal/config"
	"github.com/theirongolddev/fburn/internal/logbook"
	"github.com/theirongolddev/fburn/internal/model"
	"github.com/theirongolddev/fburn/internal/pipeline"
	"github.com/theirongolddev/fburn/internal/source"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a fill-up",
	Example: `  fburn add --odometer 15230 --liters 31.4 --price 104.2 --full
  fburn add -v scooter --odometer 8120 --liters 4 --price 104 --profile Highway --ac "No AC"`,
	RunE: runAdd,
}

var (
	addOdometer float64
	addLiters   float64
	addPrice    float64
	addFull     bool
	addDate     string
	addProfile  string
	addAC       string
)

func init() {
	addCmd.Flags().Float64Var(&addOdometer, "odometer", 0, "Odometer reading in km")
	addCmd.Flags().Float64Var(&addLiters, "liters", 0, "Liters added")
	addCmd.Flags().Float64Var(&addPrice, "price", 0, "Cost per liter")
	addCmd.Flags().BoolVar(&addFull, "full", false, "Filled to the automatic cutoff")
	addCmd.Flags().StringVar(&addDate, "date", "", "Fill date YYYY-MM-DD (default today)")
	addCmd.Flags().StringVar(&addProfile, "profile", model.ProfileCity, "Drive profile: City or Highway")
	addCmd.Flags().StringVar(&addAC, "ac", model.ACMixed, "AC usage: Mostly AC, Mixed or No AC")
	_ = addCmd.MarkFlagRequired("odometer")
	rootCmd.AddCommand(addCmd)
}

func runAdd(_ *cobra.Command, _ []string) error {
	date := time.Now()
	if addDate != "" {
		var err error
		if date, err = time.Parse(source.DateLayout, addDate); err != nil {
			return fmt.Errorf("parsing --date: %w", err)
		}
	}
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	book, err := openVehicleLog(true)
	if err != nil {
		return err
	}

	e, err := book.AddFuel(logbook.FuelInput{
		Date:         date,
		DriveProfile: addProfile,
		ACMode:       addAC,
		LitersAdded:  addLiters,
		CostPerLiter: addPrice,
		FullTank:     addFull,
		Odometer:     addOdometer,
	})
	if err != nil {
		return err
	}

	vehicle := book.Vehicle()
	fmt.Printf("\n  Saved entry #%d for %s: %s at %s km",
		e.ID, vehicle, cli.FormatLiters(e.LitersAdded), cli.FormatOdometer(e.Odometer))
	if e.FullTank {
		fmt.Print(" (full tank)")
	}
	fmt.Println()

	s := pipeline.Summarize(vehicle, book.Entries(), config.EstimatorParams(cfg, vehicle), fastag())
	fmt.Printf("  %s  %s to empty\n",
		cli.RenderFuelGauge(s.FuelLevel, s.TankCapacity), cli.FormatKm(s.DistanceToEmpty))
	return nil
}
