package cmd

import (
	"fmt"

	"github.com/theirongolddev/fburn/internal/cli"
	"github.com/theirongolddev/fburn/internal/pipeline"

	"github.com/spf13/cobra"
)

var costsCmd = &cobra.Command{
	Use:   "costs",
	Short: "Running cost breakdown and cost per km",
	Long: "Split spend into fuel, state tolls, private tolls, service and the amortized\n" +
		"FASTag price. Use --days 0 for the whole history.",
	RunE: runCosts,
}

func init() {
	rootCmd.AddCommand(costsCmd)
}

func runCosts(_ *cobra.Command, _ []string) error {
	result, err := loadData()
	if err != nil {
		return err
	}
	filtered, since, until := applyFilters(result.Entries)
	title := fmt.Sprintf("RUNNING COSTS  Last %dd", flagDays)
	if flagDays > 0 {
		filtered = pipeline.FilterByTime(filtered, since, until)
	} else {
		title = "RUNNING COSTS  All time"
	}
	if len(filtered) == 0 {
		fmt.Println("\n  No entries in the selected period.")
		return nil
	}

	b := pipeline.AggregateCostBreakdown(filtered, fastag())

	fmt.Println()
	fmt.Println(cli.RenderTitle(title))
	fmt.Println()

	rows := make([][]string, 0, len(b.Categories)+4)
	for _, c := range b.Categories {
		rows = append(rows, []string{c.Name, cli.FormatMoney(c.Amount), cli.FormatPercent(c.SharePercent)})
	}
	rows = append(rows, cli.Separator)
	rows = append(rows, []string{"Total", cli.FormatMoney(b.Total), ""})
	rows = append(rows, []string{"Distance", cli.FormatKm(b.TotalDistance), ""})
	if b.HasCostPerKm {
		rows = append(rows, []string{"Cost per km", cli.FormatRate(b.CostPerKm), ""})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Category", "Amount", "Share"},
		Rows:    rows,
	}))

	if !b.HasCostPerKm {
		fmt.Println(cli.Muted("  Cost per km needs at least two odometer readings."))
	}
	return nil
}
