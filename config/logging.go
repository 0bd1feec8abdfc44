package config

import (
	"fmt"

	"github.com/ridepulse/eta/core/factory"
)

// LoggingConfig defines settings for prediction log storage and rotation.
type LoggingConfig struct {
	// Backend selects the log store type: "nop", "jsonl", "rotating" or
	// "sqlite".
	Backend string `json:"backend"`
	// Path is the file location of the log store.
	Path string `json:"path"`
	// MaxSizeMB triggers rotation when the file exceeds this size in megabytes.
	MaxSizeMB int `json:"max_size_mb"`
	// MaxBackups limits the number of rotated files to keep.
	MaxBackups int `json:"max_backups"`
	// MaxAgeDays removes rotated files older than this number of days.
	MaxAgeDays int `json:"max_age_days"`
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "jsonl"
	}
	if c.Path == "" && c.Backend != "nop" {
		c.Path = "predictions.jsonl"
	}
}

// Validate checks mandatory fields.
func (c LoggingConfig) Validate() error {
	switch c.Backend {
	case "nop", "jsonl", "rotating", "sqlite":
	default:
		return fmt.Errorf("unknown backend %s", c.Backend)
	}
	if c.Backend != "nop" && c.Path == "" {
		return fmt.Errorf("path is required")
	}
	return nil
}

// ModuleConfig converts the section into the predlog factory form.
func (c LoggingConfig) ModuleConfig() factory.ModuleConfig {
	return factory.ModuleConfig{
		Type: c.Backend,
		Conf: map[string]any{
			"path":         c.Path,
			"max_size_mb":  c.MaxSizeMB,
			"max_backups":  c.MaxBackups,
			"max_age_days": c.MaxAgeDays,
		},
	}
}
