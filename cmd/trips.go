package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ridepulse/eta/api/trips"
)

var tripsCmd = &cobra.Command{
	Use:   "trips",
	Short: "List the trips in the dataset",
	RunE:  runTrips,
}

func init() {
	rootCmd.AddCommand(tripsCmd)
}

func runTrips(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	pred, err := buildPredictor(cfg)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "TRIP\tDIRECTIONS\tSTOPS\tOBSERVATIONS")
	for _, t := range trips.Summarize(pred.Index().Partitions()) {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\n",
			t.TripID, strings.Join(t.Directions, ","), t.Stops, t.Observations)
	}
	return w.Flush()
}
