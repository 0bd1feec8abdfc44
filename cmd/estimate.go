package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ridepulse/eta/pkg/export"
)

var estimateOutput string

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate every trip, stop and direction partition",
	RunE:  runEstimate,
}

func init() {
	estimateCmd.Flags().StringVarP(&estimateOutput, "output", "o", "", "write results to a file (.csv or .json)")
	rootCmd.AddCommand(estimateCmd)
}

func runEstimate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	pred, err := buildPredictor(cfg)
	if err != nil {
		return err
	}
	entries, err := pred.EstimateAll()
	if err != nil {
		return err
	}
	if estimateOutput == "" {
		return export.WriteJSON(cmd.OutOrStdout(), entries)
	}
	f, err := os.Create(estimateOutput)
	if err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(estimateOutput), ".csv") {
		err = export.WriteCSV(f, entries)
	} else {
		err = export.WriteJSON(f, entries)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
