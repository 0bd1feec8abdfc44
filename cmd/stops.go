package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var stopsTrip string

var stopsCmd = &cobra.Command{
	Use:   "stops",
	Short: "List stops and their observation counts",
	RunE:  runStops,
}

func init() {
	stopsCmd.Flags().StringVar(&stopsTrip, "trip", "", "restrict the listing to one trip")
	rootCmd.AddCommand(stopsCmd)
}

func runStops(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	pred, err := buildPredictor(cfg)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "TRIP\tSTOP\tDIRECTION\tOBSERVATIONS")
	for _, p := range pred.Index().Partitions() {
		if stopsTrip != "" && p.TripID != stopsTrip {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", p.TripID, p.StopID, p.Direction, p.Observations)
	}
	return w.Flush()
}
