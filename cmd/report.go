package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/fburn/internal/cli"
	"github.com/theirongolddev/fburn/internal/pipeline"
	"github.com/theirongolddev/fburn/internal/source"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Entries and totals for a date range (up to one year)",
	Example: `  fburn report --from 2025-01-01 --to 2025-03-31
  fburn report -v swift --from 2025-04-01`,
	RunE: runReport,
}

var (
	reportFrom string
	reportTo   string
)

func init() {
	reportCmd.Flags().StringVar(&reportFrom, "from", "", "Start date YYYY-MM-DD (default: --days ago)")
	reportCmd.Flags().StringVar(&reportTo, "to", "", "End date YYYY-MM-DD, inclusive (default today)")
	rootCmd.AddCommand(reportCmd)
}

func runReport(_ *cobra.Command, _ []string) error {
	result, err := loadData()
	if err != nil {
		return err
	}
	filtered, since, until := applyFilters(result.Entries)

	start, end := since, until.AddDate(0, 0, -1)
	if reportFrom == "" && end.Sub(start) > pipeline.MaxReportDays*24*time.Hour {
		start = end.AddDate(0, 0, -pipeline.MaxReportDays)
	}
	if reportFrom != "" {
		if start, err = time.Parse(source.DateLayout, reportFrom); err != nil {
			return fmt.Errorf("parsing --from: %w", err)
		}
	}
	if reportTo != "" {
		if end, err = time.Parse(source.DateLayout, reportTo); err != nil {
			return fmt.Errorf("parsing --to: %w", err)
		}
	}

	entries, err := pipeline.FilterReport(filtered, start, end)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("REPORT  %s to %s", cli.FormatDate(start), cli.FormatDate(end))))
	fmt.Println()

	if len(entries) == 0 {
		fmt.Println("  No entries in this range.")
		return nil
	}

	rows := make([][]string, 0, len(entries)+3)
	var liters, fuel, tolls, service float64
	for _, e := range entries {
		liters += e.LitersAdded
		fuel += e.FuelCost()
		tolls += e.TollCost()
		service += e.ServiceCost
		rows = append(rows, []string{
			cli.FormatDate(e.Date),
			e.Vehicle,
			fmt.Sprintf("#%d", e.ID),
			cli.FormatOdometer(e.Odometer),
			cli.FormatLiters(e.LitersAdded),
			cli.FormatMoney(e.FuelCost()),
			cli.FormatMoney(e.TollCost()),
			cli.FormatMoney(e.ServiceCost),
			e.ServiceDesc,
		})
	}
	rows = append(rows, cli.Separator, []string{
		"Total", "", "", "",
		cli.FormatLiters(liters),
		cli.FormatMoney(fuel),
		cli.FormatMoney(tolls),
		cli.FormatMoney(service),
		"",
	})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Date", "Vehicle", "ID", "Odometer", "Liters", "Fuel", "Tolls", "Service", "Notes"},
		Rows:    rows,
	}))

	b := pipeline.AggregateCostBreakdown(entries, fastag())
	if b.HasCostPerKm {
		fmt.Printf("  %s over %s, %s\n", cli.FormatMoney(b.Total), cli.FormatKm(b.TotalDistance), cli.FormatRate(b.CostPerKm))
	}
	return nil
}
