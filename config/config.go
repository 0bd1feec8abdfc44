package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/ridepulse/eta/core/metrics"
	"github.com/ridepulse/eta/infra/mqtt"
)

// Config is the root configuration of the estimator service.
type Config struct {
	Dataset   DatasetConfig   `json:"dataset"`
	Predictor PredictorConfig `json:"predictor"`
	MQTT      mqtt.Config     `json:"mqtt"`
	Metrics   metrics.Config  `json:"metrics"`
	Logging   LoggingConfig   `json:"logging"`
	API       APIConfig       `json:"api"`
}

// Load reads the configuration file at path, applies ETA_* environment
// overrides (ETA_API__ADDRESS=... sets api.address) and validates the
// result.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("ETA_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "eta_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Logging.SetDefaults()
	cfg.API.SetDefaults()
	if err := cfg.Predictor.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Logging.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
