package cmd

import (
	"fmt"

	"github.com/theirongolddev/fburn/internal/cli"
	"github.com/theirongolddev/fburn/internal/pipeline"

	"github.com/spf13/cobra"
)

var monthlyCmd = &cobra.Command{
	Use:   "monthly",
	Short: "Monthly fuel, toll and service spend",
	RunE:  runMonthly,
}

func init() {
	rootCmd.AddCommand(monthlyCmd)
}

func runMonthly(_ *cobra.Command, _ []string) error {
	result, err := loadData()
	if err != nil {
		return err
	}
	filtered, since, until := applyFilters(result.Entries)
	if len(filtered) == 0 {
		noEntries()
		return nil
	}
	if flagDays < 365 && !rootCmd.PersistentFlags().Changed("days") {
		since = until.AddDate(-1, 0, 0)
	}

	months := pipeline.AggregateMonths(filtered, since, until)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("MONTHLY SPEND  since %s", cli.FormatDate(since))))
	fmt.Println()

	rows := make([][]string, 0, len(months)+2)
	var total float64
	for _, m := range months {
		total += m.TotalCost
		rows = append(rows, []string{
			cli.FormatMonth(m.Month),
			cli.FormatNumber(int64(m.Fills)),
			cli.FormatLiters(m.Liters),
			cli.FormatKm(m.Distance),
			cli.FormatMoney(m.FuelCost),
			cli.FormatMoney(m.TollCost),
			cli.FormatMoney(m.ServiceCost),
			cli.FormatMoney(m.TotalCost),
		})
	}
	rows = append(rows, cli.Separator, []string{"Total", "", "", "", "", "", "", cli.FormatMoney(total)})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Month", "Fills", "Fuel", "Distance", "Fuel cost", "Tolls", "Service", "Total"},
		Rows:    rows,
	}))
	return nil
}
