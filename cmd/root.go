package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ridepulse/eta/config"
	"github.com/ridepulse/eta/core/dataset"
	"github.com/ridepulse/eta/core/predictor"
	"github.com/ridepulse/eta/infra/ingest"
	"github.com/ridepulse/eta/infra/logger"
)

var (
	cfgPath     string
	datasetPath string
)

var rootCmd = &cobra.Command{
	Use:   "eta",
	Short: "Historical arrival time estimator",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
	rootCmd.PersistentFlags().StringVar(&datasetPath, "dataset", "", "override the configured dataset path")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if datasetPath != "" {
		cfg.Dataset.Path = datasetPath
	}
	return cfg, nil
}

// buildPredictor loads the dataset once and builds a predictor over it.
// One-shot commands use this instead of the full service so they do not
// open MQTT connections or metrics listeners.
func buildPredictor(cfg *config.Config) (*predictor.Predictor, error) {
	if err := cfg.Dataset.Validate(); err != nil {
		return nil, err
	}
	reader, err := ingest.NewReader(cfg.Dataset.Location, cfg.Dataset.Strict)
	if err != nil {
		return nil, fmt.Errorf("ingest reader: %w", err)
	}
	obs, rowErrs, err := reader.Load(cfg.Dataset.Path)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	if len(rowErrs) > 0 {
		logger.New("cmd").Warnf("dataset %s: %d rows rejected", cfg.Dataset.Path, len(rowErrs))
	}
	snap, err := dataset.NewSnapshot(obs)
	if err != nil {
		return nil, err
	}
	return predictor.New(snap, cfg.Predictor.Core()), nil
}
