package cmd

import (
	"fmt"

	"github.com/theirongolddev/fburn/internal/cli"
	"github.com/theirongolddev/fburn/internal/estimator"
	"github.com/theirongolddev/fburn/internal/model"
	"github.com/theirongolddev/fburn/internal/pipeline"

	"github.com/spf13/cobra"
)

var fillsCmd = &cobra.Command{
	Use:   "fills",
	Short: "Fill-up history with per-interval fuel economy",
	RunE:  runFills,
}

var fillsLimit int

func init() {
	fillsCmd.Flags().IntVarP(&fillsLimit, "limit", "l", 20, "Number of entries to show per vehicle")
	rootCmd.AddCommand(fillsCmd)
}

func runFills(_ *cobra.Command, _ []string) error {
	result, err := loadData()
	if err != nil {
		return err
	}
	filtered, _, _ := applyFilters(result.Entries)
	if len(filtered) == 0 {
		noEntries()
		return nil
	}

	for _, l := range pipeline.GroupByVehicle(filtered) {
		printFills(l)
	}
	return nil
}

func printFills(l pipeline.VehicleLog) {
	// economy of the interval each full-tank entry closes
	economy := make(map[int]estimator.Sample)
	for _, s := range estimator.Samples(model.FuelEvents(l.Entries)) {
		economy[s.To.Seq] = s
	}

	entries := l.Entries
	if fillsLimit > 0 && len(entries) > fillsLimit {
		entries = entries[len(entries)-fillsLimit:]
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("FILLS  %s (showing %d of %d)", l.Vehicle, len(entries), len(l.Entries))))
	fmt.Println()

	rows := make([][]string, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		full := ""
		if e.FullTank {
			full = "full"
		}
		kmpl := ""
		if s, ok := economy[e.ID]; ok {
			if s.Valid {
				kmpl = cli.FormatEfficiency(s.Efficiency)
			} else {
				kmpl = "n/a"
			}
		}
		rows = append(rows, []string{
			fmt.Sprintf("#%d", e.ID),
			cli.FormatDate(e.Date),
			cli.FormatOdometer(e.Odometer),
			cli.FormatLiters(e.LitersAdded),
			full,
			cli.FormatMoney(e.FuelCost()),
			kmpl,
			e.DriveProfile + " / " + e.ACMode,
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"ID", "Date", "Odometer", "Liters", "Tank", "Cost", "Economy", "Conditions"},
		Rows:    rows,
	}))
}
