package metrics

import (
	"time"

	"github.com/ridepulse/eta/core/model"
)

// PredictionResult represents a served prediction request to be
// recorded by observability sinks.
type PredictionResult struct {
	TripID        string
	StopID        string
	Direction     string
	Fallback      model.FallbackLevel
	SampleSize    int
	OffsetSeconds float64
	MarginSeconds float64
	LowConfidence bool
	Failed        bool
	Duration      time.Duration
	Time          time.Time
}

// MetricsSink records prediction results for observability purposes.
type MetricsSink interface {
	RecordPrediction(res PredictionResult) error
}

// DatasetLoadEvent captures data about a snapshot load or reload.
type DatasetLoadEvent struct {
	SnapshotID string
	Rows       int
	Trips      int
	Stops      int
	Component  string
	Time       time.Time
}

// DatasetLoadRecorder records snapshot loads.
type DatasetLoadRecorder interface {
	RecordDatasetLoad(ev DatasetLoadEvent) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordPrediction(PredictionResult) error { return nil }

// Ensure NopSink implements DatasetLoadRecorder.
func (NopSink) RecordDatasetLoad(DatasetLoadEvent) error { return nil }
