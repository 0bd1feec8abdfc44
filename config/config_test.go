package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `dataset:
  path: "arrivals.csv"
  location: "Asia/Colombo"
predictor:
  bucket_minutes: 15
  min_samples: 3
  confidence_level: 0.9
mqtt:
  broker: "tcp://localhost:1883"
  client_id: "eta"
  topic_prefix: "transit/eta"
  qos: 1
  retain: true
metrics:
  sinks:
    - type: "nop"
logging:
  backend: "rotating"
  path: "predictions.jsonl"
  max_size_mb: 10
api:
  address: ":8085"
  prometheus_address: ":2112"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"dataset.path", cfg.Dataset.Path, "arrivals.csv"},
		{"dataset.location", cfg.Dataset.Location, "Asia/Colombo"},
		{"predictor.bucket_minutes", cfg.Predictor.BucketMinutes, 15},
		{"predictor.min_samples", cfg.Predictor.MinSamples, 3},
		{"predictor.confidence_level", cfg.Predictor.ConfidenceLevel, 0.9},
		{"mqtt.broker", cfg.MQTT.Broker, "tcp://localhost:1883"},
		{"mqtt.client_id", cfg.MQTT.ClientID, "eta"},
		{"mqtt.topic_prefix", cfg.MQTT.TopicPrefix, "transit/eta"},
		{"mqtt.qos", cfg.MQTT.QoS, byte(1)},
		{"mqtt.retain", cfg.MQTT.Retain, true},
		{"metrics_sink", len(cfg.Metrics.Sinks) == 1 && cfg.Metrics.Sinks[0].Type == "nop", true},
		{"logging.backend", cfg.Logging.Backend, "rotating"},
		{"logging.max_size_mb", cfg.Logging.MaxSizeMB, 10},
		{"api.address", cfg.API.Address, ":8085"},
		{"api.prometheus_address", cfg.API.PrometheusAddress, ":2112"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `dataset:
  path: "arrivals.csv"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Logging.Backend != "jsonl" || cfg.Logging.Path != "predictions.jsonl" {
		t.Errorf("logging defaults not applied: %+v", cfg.Logging)
	}
	if cfg.API.Address != ":8080" {
		t.Errorf("api default not applied: %+v", cfg.API)
	}
	core := cfg.Predictor.Core()
	if core.Pattern.BucketWidth != 30*time.Minute || core.Pattern.MinSamples != 5 {
		t.Errorf("pattern defaults not applied: %+v", core.Pattern)
	}
	if core.Estimate.ConfidenceLevel != 0.95 || core.Estimate.MinUncertainty != 60 {
		t.Errorf("estimate defaults not applied: %+v", core.Estimate)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("ETA_API__ADDRESS", ":9999")
	path := writeConfig(t, `dataset:
  path: "arrivals.csv"
api:
  address: ":8080"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.API.Address != ":9999" {
		t.Errorf("env override not applied: %s", cfg.API.Address)
	}
}

func TestLoadRejectsBadBackend(t *testing.T) {
	path := writeConfig(t, `logging:
  backend: "carrier-pigeon"
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestLoadRejectsBadConfidence(t *testing.T) {
	path := writeConfig(t, `predictor:
  confidence_level: 1.5
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for confidence level outside (0, 1)")
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("x = 1"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestPredictorCoreMapping(t *testing.T) {
	c := PredictorConfig{BucketMinutes: 15, MinSamples: 2, ConfidenceLevel: 0.9, MinUncertaintySeconds: 45}
	core := c.Core()
	if core.Pattern.BucketWidth != 15*time.Minute {
		t.Errorf("bucket width = %v", core.Pattern.BucketWidth)
	}
	if core.Pattern.MinSamples != 2 {
		t.Errorf("min samples = %d", core.Pattern.MinSamples)
	}
	if core.Estimate.ConfidenceLevel != 0.9 || core.Estimate.MinUncertainty != 45 {
		t.Errorf("estimate mapping: %+v", core.Estimate)
	}
}

func TestLoggingModuleConfig(t *testing.T) {
	c := LoggingConfig{Backend: "rotating", Path: "p.jsonl", MaxSizeMB: 5, MaxBackups: 2, MaxAgeDays: 7}
	mc := c.ModuleConfig()
	if mc.Type != "rotating" {
		t.Errorf("type = %s", mc.Type)
	}
	if mc.Conf["path"] != "p.jsonl" || mc.Conf["max_size_mb"] != 5 {
		t.Errorf("conf = %+v", mc.Conf)
	}
}
