package config

import "fmt"

// DatasetConfig locates the historical arrival archive.
type DatasetConfig struct {
	// Path is the CSV file holding the arrival observations.
	Path string `json:"path"`
	// Location names the IANA time zone the clock columns are read in.
	// Empty means local time.
	Location string `json:"location"`
	// Strict fails the load on the first malformed row instead of
	// skipping it.
	Strict bool `json:"strict"`
}

// Validate checks mandatory fields. Called by consumers that need a
// dataset, not by Load, so commands may inject the path via flags.
func (c DatasetConfig) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("dataset path is required")
	}
	return nil
}
