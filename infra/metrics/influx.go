package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/ridepulse/eta/core/metrics"
	"github.com/ridepulse/eta/infra/logger"
)

// InfluxSink writes prediction events to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordPrediction writes the prediction result as a line protocol point.
func (s *InfluxSink) RecordPrediction(res coremetrics.PredictionResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("prediction_event").
		AddTag("trip_id", res.TripID).
		AddTag("stop_id", res.StopID).
		AddTag("direction", res.Direction).
		AddTag("fallback", res.Fallback.String()).
		AddTag("low_confidence", strconv.FormatBool(res.LowConfidence)).
		AddTag("failed", strconv.FormatBool(res.Failed)).
		AddTag("component", "predictor").
		AddField("offset_seconds", round3(res.OffsetSeconds)).
		AddField("margin_seconds", round3(res.MarginSeconds)).
		AddField("sample_size", res.SampleSize).
		AddField("latency_ms", round3(res.Duration.Seconds()*1000)).
		SetTime(res.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordDatasetLoad persists the result of a snapshot load.
func (s *InfluxSink) RecordDatasetLoad(ev coremetrics.DatasetLoadEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("dataset_load_event").
		AddTag("snapshot_id", ev.SnapshotID).
		AddTag("component", ev.Component).
		AddField("rows", ev.Rows).
		AddField("trips", ev.Trips).
		AddField("stops", ev.Stops).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close shuts down the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
