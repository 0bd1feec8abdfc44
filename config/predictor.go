package config

import (
	"fmt"
	"time"

	"github.com/ridepulse/eta/core/estimate"
	"github.com/ridepulse/eta/core/pattern"
	"github.com/ridepulse/eta/core/predictor"
)

// PredictorConfig tunes the pattern index and the interval computation.
// Zero values fall back to the core defaults.
type PredictorConfig struct {
	// BucketMinutes is the width of the time-of-day buckets.
	BucketMinutes int `json:"bucket_minutes"`
	// MinSamples is the sample size the fallback ladder targets.
	MinSamples int `json:"min_samples"`
	// ConfidenceLevel is the coverage probability of the interval.
	ConfidenceLevel float64 `json:"confidence_level"`
	// MinUncertaintySeconds bounds the interval half-width from below
	// when dispersion cannot be estimated.
	MinUncertaintySeconds float64 `json:"min_uncertainty_seconds"`
}

// Core converts the section into the predictor configuration.
func (c PredictorConfig) Core() predictor.Config {
	return predictor.Config{
		Pattern: pattern.Config{
			BucketWidth: time.Duration(c.BucketMinutes) * time.Minute,
			MinSamples:  c.MinSamples,
		},
		Estimate: estimate.Config{
			ConfidenceLevel: c.ConfidenceLevel,
			MinUncertainty:  c.MinUncertaintySeconds,
		},
	}.WithDefaults()
}

// Validate rejects values the core would silently replace.
func (c PredictorConfig) Validate() error {
	if c.BucketMinutes < 0 {
		return fmt.Errorf("bucket_minutes must not be negative")
	}
	if c.MinSamples < 0 {
		return fmt.Errorf("min_samples must not be negative")
	}
	if c.ConfidenceLevel < 0 || c.ConfidenceLevel >= 1 {
		return fmt.Errorf("confidence_level must be in (0, 1)")
	}
	if c.MinUncertaintySeconds < 0 {
		return fmt.Errorf("min_uncertainty_seconds must not be negative")
	}
	return nil
}
