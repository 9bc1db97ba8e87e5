package cmd

import (
	"fmt"

	"github.com/theirongolddev/fburn/internal/cli"
	"github.com/theirongolddev/fburn/internal/config"
	"github.com/theirongolddev/fburn/internal/model"
	"github.com/theirongolddev/fburn/internal/pipeline"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Fuel economy, fuel remaining, range and running cost per vehicle",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	result, err := loadData()
	if err != nil {
		return err
	}

	filtered, _, _ := applyFilters(result.Entries)
	if len(filtered) == 0 {
		noEntries()
		return nil
	}

	for _, s := range pipeline.AggregateVehicles(filtered, config.ParamsFunc(cfg), fastag()) {
		printSummary(s)
	}
	return nil
}

func printSummary(s model.SummaryStats) {
	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("%s  %d entries", s.Vehicle, s.Entries)))
	fmt.Println()

	efficiency := cli.FormatEfficiency(s.Efficiency)
	if s.Fallback {
		efficiency += "  (default, needs 2 full tanks)"
	}
	costPerKm := "-"
	if s.HasCostPerKm {
		costPerKm = cli.FormatRate(s.CostPerKm)
	}

	rows := [][]string{
		{"Efficiency", efficiency},
		{"Fuel remaining", cli.RenderFuelGauge(s.FuelLevel, s.TankCapacity)},
		{"Distance to empty", cli.FormatKm(s.DistanceToEmpty)},
		cli.Separator,
		{"Distance logged", cli.FormatKm(s.TotalDistance)},
		{"Fuel bought", cli.FormatLiters(s.TotalLiters)},
		{"Fuel cost", cli.FormatMoney(s.FuelCost)},
		{"Tolls", cli.FormatMoney(s.StateToll + s.PrivateToll)},
		{"Service", cli.FormatMoney(s.ServiceCost)},
		{"FASTag", fmt.Sprintf("%s  (%d trips)", cli.FormatMoney(s.FastagCost), s.FastagTrips)},
		cli.Separator,
		{"Total cost", cli.FormatMoney(s.TotalCost)},
		{"Cost per km", costPerKm},
		{"Period", cli.FormatDate(s.FirstDate) + " to " + cli.FormatDate(s.LastDate)},
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))
}
