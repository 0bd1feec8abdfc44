package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/ridepulse/eta/core/metrics"
)

// PromSink records prediction events in Prometheus metrics.
type PromSink struct {
	events  *prometheus.CounterVec
	latency *prometheus.HistogramVec
	rows    prometheus.Gauge
}

// NewPromSink registers prediction metrics on the default Prometheus registerer.
// The Prometheus server should be started separately.
func NewPromSink() (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "prediction_events_total",
		Help: "Total number of prediction requests served",
	}, []string{"trip_id", "fallback", "outcome"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "prediction_latency_seconds",
		Help:    "Time spent computing a prediction",
		Buckets: prometheus.DefBuckets,
	}, []string{"trip_id", "fallback", "outcome"})
	rows := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dataset_rows_total",
		Help: "Number of arrival observations in the active dataset snapshot",
	})

	if err := reg.Register(events); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			events = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(latency); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			latency = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(rows); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			rows = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}

	return &PromSink{events: events, latency: latency, rows: rows}, nil
}

// RecordPrediction increments the event counter and observes compute latency.
func (s *PromSink) RecordPrediction(res coremetrics.PredictionResult) error {
	outcome := outcomeLabel(res)
	fallback := res.Fallback.String()
	s.events.WithLabelValues(res.TripID, fallback, outcome).Inc()
	s.latency.WithLabelValues(res.TripID, fallback, outcome).Observe(res.Duration.Seconds())
	return nil
}

// RecordDatasetLoad sets the gauge to the row count of the loaded snapshot.
func (s *PromSink) RecordDatasetLoad(ev coremetrics.DatasetLoadEvent) error {
	if s.rows != nil {
		s.rows.Set(float64(ev.Rows))
	}
	return nil
}

func outcomeLabel(res coremetrics.PredictionResult) string {
	switch {
	case res.Failed:
		return "failed"
	case res.LowConfidence:
		return "low_confidence"
	default:
		return "ok"
	}
}
