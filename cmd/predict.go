package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ridepulse/eta/core/predictor"
)

var (
	predictTrip      string
	predictStop      string
	predictDirection string
	predictAt        string
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict the arrival time at a stop",
	RunE:  runPredict,
}

func init() {
	predictCmd.Flags().StringVar(&predictTrip, "trip", "", "trip identifier")
	predictCmd.Flags().StringVar(&predictStop, "stop", "", "stop identifier")
	predictCmd.Flags().StringVar(&predictDirection, "direction", "", "direction of travel (defaults to the latest observed)")
	predictCmd.Flags().StringVar(&predictAt, "at", "", "reference time, RFC 3339 (defaults to now)")
	_ = predictCmd.MarkFlagRequired("trip")
	_ = predictCmd.MarkFlagRequired("stop")
	rootCmd.AddCommand(predictCmd)
}

func runPredict(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	var ref time.Time
	if predictAt != "" {
		if ref, err = time.Parse(time.RFC3339, predictAt); err != nil {
			return fmt.Errorf("parse --at: %w", err)
		}
	}
	pred, err := buildPredictor(cfg)
	if err != nil {
		return err
	}
	p, err := pred.Predict(predictor.Query{
		TripID:    predictTrip,
		StopID:    predictStop,
		Direction: predictDirection,
		Reference: ref,
	})
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}
