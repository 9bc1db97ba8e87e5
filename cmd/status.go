package cmd

import (
	"fmt"

	"github.com/theirongolddev/fburn/internal/cli"
	"github.com/theirongolddev/fburn/internal/config"
	"github.com/theirongolddev/fburn/internal/pipeline"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "One line per vehicle: fuel gauge and range",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, _ []string) error {
	flagQuiet = true
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
	width := 0
	for _, s := range stats {
		width = max(width, len(s.Vehicle))
	}

	for _, s := range stats {
		line := fmt.Sprintf("  %-*s  %s  %s  %s",
			width, s.Vehicle,
			cli.RenderFuelGauge(s.FuelLevel, s.TankCapacity),
			cli.FormatKm(s.DistanceToEmpty),
			cli.FormatEfficiency(s.Efficiency),
		)
		if s.Fallback {
			line += cli.Muted("  (default economy)")
		}
		fmt.Println(line)
	}
	return nil
}
