package cmd

import (
	"fmt"
	"strconv"

	"github.com/theirongolddev/fburn/internal/cli"
	"github.com/theirongolddev/fburn/internal/logbook"

	"github.com/spf13/cobra"
)

var transitCmd = &cobra.Command{
	Use:   "transit <entry-id>",
	Short: "Attach tolls and service costs to an entry",
	Long: "Set the state toll, private toll and service cost of an existing entry.\n" +
		"Unspecified amounts keep their current value.",
	Args: cobra.ExactArgs(1),
	RunE: runTransit,
}

var (
	transitStateToll   float64
	transitPrivateToll float64
	transitService     float64
	transitDesc        string
)

func init() {
	transitCmd.Flags().Float64Var(&transitStateToll, "state-toll", 0, "State toll paid (counts as one FASTag trip)")
	transitCmd.Flags().Float64Var(&transitPrivateToll, "private-toll", 0, "Private toll paid")
	transitCmd.Flags().Float64Var(&transitService, "service", 0, "Service or maintenance cost")
	transitCmd.Flags().StringVar(&transitDesc, "desc", "", "Service description")
	rootCmd.AddCommand(transitCmd)
}

func runTransit(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("entry id %q is not a number", args[0])
	}

	book, err := openVehicleLog(false)
	if err != nil {
		return err
	}

	in := logbook.TransitInput{}
	for _, e := range book.Entries() {
		if e.ID == id {
			in = logbook.TransitInput{
				StateToll:   e.StateToll,
				PrivateToll: e.PrivateToll,
				ServiceCost: e.ServiceCost,
				ServiceDesc: e.ServiceDesc,
			}
			break
		}
	}
	flags := cmd.Flags()
	if flags.Changed("state-toll") {
		in.StateToll = transitStateToll
	}
	if flags.Changed("private-toll") {
		in.PrivateToll = transitPrivateToll
	}
	if flags.Changed("service") {
		in.ServiceCost = transitService
	}
	if flags.Changed("desc") {
		in.ServiceDesc = transitDesc
	}

	e, err := book.UpdateTransit(id, in)
	if err != nil {
		return err
	}

	fmt.Printf("\n  Updated entry #%d for %s: tolls %s, service %s\n",
		e.ID, book.Vehicle(), cli.FormatMoney(e.TollCost()), cli.FormatMoney(e.ServiceCost))
	return nil
}
