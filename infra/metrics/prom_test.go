package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/ridepulse/eta/core/metrics"
	"github.com/ridepulse/eta/core/model"
)

func TestPromSinkRecordPrediction(t *testing.T) {
	reg := prometheus.NewRegistry()
	sinkIf, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	sink, ok := sinkIf.(*PromSink)
	if !ok {
		t.Fatalf("expected PromSink")
	}
	res := coremetrics.PredictionResult{
		TripID:        "1",
		StopID:        "114",
		Direction:     "UP",
		Fallback:      model.FallbackPartition,
		SampleSize:    3,
		OffsetSeconds: 2100,
		MarginSeconds: 60,
		LowConfidence: true,
		Duration:      150 * time.Millisecond,
		Time:          time.Now(),
	}
	if err := sink.RecordPrediction(res); err != nil {
		t.Fatalf("record error: %v", err)
	}

	expected := `
# HELP prediction_events_total Total number of prediction requests served
# TYPE prediction_events_total counter
prediction_events_total{fallback="partition",outcome="low_confidence",trip_id="1"} 1
`
	if err := testutil.CollectAndCompare(sink.events, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}

	if c := testutil.CollectAndCount(sink.latency); c == 0 {
		t.Errorf("latency not recorded")
	}

	// record a dataset load and verify gauge value
	if err := sink.RecordDatasetLoad(coremetrics.DatasetLoadEvent{Rows: 393}); err != nil {
		t.Fatalf("dataset load error: %v", err)
	}
	expectedRows := `
# HELP dataset_rows_total Number of arrival observations in the active dataset snapshot
# TYPE dataset_rows_total gauge
dataset_rows_total 393
`
	if err := testutil.CollectAndCompare(sink.rows, strings.NewReader(expectedRows)); err != nil {
		t.Errorf("unexpected rows metric: %v", err)
	}
}

func TestPromSinkOutcomeLabel(t *testing.T) {
	cases := []struct {
		res  coremetrics.PredictionResult
		want string
	}{
		{coremetrics.PredictionResult{}, "ok"},
		{coremetrics.PredictionResult{LowConfidence: true}, "low_confidence"},
		{coremetrics.PredictionResult{Failed: true, LowConfidence: true}, "failed"},
	}
	for _, c := range cases {
		if got := outcomeLabel(c.res); got != c.want {
			t.Errorf("outcomeLabel(%+v) = %q, want %q", c.res, got, c.want)
		}
	}
}

func TestPromSinkDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromSinkWithRegistry(reg); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	// Registering twice on the same registry must reuse the collectors.
	if _, err := NewPromSinkWithRegistry(reg); err != nil {
		t.Fatalf("second registration: %v", err)
	}
}
