package cmd

import (
	"fmt"

	"github.com/theirongolddev/fburn/internal/cli"
	"github.com/theirongolddev/fburn/internal/config"
	"github.com/theirongolddev/fburn/internal/pipeline"

	"github.com/spf13/cobra"
)

var vehiclesCmd = &cobra.Command{
	Use:   "vehicles",
	Short: "Compare vehicles side by side",
	RunE:  runVehicles,
}

func init() {
	rootCmd.AddCommand(vehiclesCmd)
}

func runVehicles(_ *cobra.Command, _ []string) error {
	result, err := loadData()
	if err != nil {
		return err
	}
	filtered, _, _ := applyFilters(result.Entries)
	if len(filtered) == 0 {
		noEntries()
		return nil
	}

	stats := pipeline.AggregateVehicles(filtered, config.ParamsFunc(cfg), fastag())

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("VEHICLES  %d", len(stats))))
	fmt.Println()

	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		cpk := "-"
		if s.HasCostPerKm {
			cpk = cli.FormatRate(s.CostPerKm)
		}
		rows = append(rows, []string{
			s.Vehicle,
			cli.FormatNumber(int64(s.Entries)),
			cli.FormatEfficiency(s.Efficiency),
			cli.FormatLiters(s.FuelLevel),
			cli.FormatKm(s.DistanceToEmpty),
			cli.FormatKm(s.TotalDistance),
			cli.FormatMoney(s.TotalCost),
			cpk,
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Vehicle", "Entries", "Economy", "Fuel", "Range", "Logged", "Spent", "Per km"},
		Rows:    rows,
	}))
	return nil
}
