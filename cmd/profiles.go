package cmd

import (
	"fmt"

	"github.com/theirongolddev/fburn/internal/cli"
	"github.com/theirongolddev/fburn/internal/pipeline"

	"github.com/spf13/cobra"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Fuel economy by drive profile and AC usage",
	RunE:  runProfiles,
}

func init() {
	rootCmd.AddCommand(profilesCmd)
}

func runProfiles(_ *cobra.Command, _ []string) error {
	result, err := loadData()
	if err != nil {
		return err
	}
	filtered, _, _ := applyFilters(result.Entries)

	profiles := pipeline.AggregateProfiles(filtered)
	if len(profiles) == 0 {
		fmt.Println("\n  Not enough full-tank fills to measure economy yet.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("ECONOMY BY CONDITIONS"))
	fmt.Println()

	rows := make([][]string, 0, len(profiles))
	for _, p := range profiles {
		rows = append(rows, []string{
			p.DriveProfile + " / " + p.ACMode,
			cli.FormatEfficiency(p.Efficiency),
			cli.FormatNumber(int64(p.Samples)),
			cli.FormatKm(p.Distance),
			cli.FormatPercent(p.SharePercent),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Conditions", "Economy", "Tanks", "Distance", "Share"},
		Rows:    rows,
	}))
	return nil
}
