package metrics

// MultiSink fans prediction events out to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordPrediction forwards the result to all sinks, returning the
// first error encountered.
func (m *MultiSink) RecordPrediction(res PredictionResult) error {
	for _, s := range m.Sinks {
		if err := s.RecordPrediction(res); err != nil {
			return err
		}
	}
	return nil
}

// RecordDatasetLoad forwards load events to sinks that support them.
func (m *MultiSink) RecordDatasetLoad(ev DatasetLoadEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(DatasetLoadRecorder); ok {
			if err := rec.RecordDatasetLoad(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close closes sinks that hold external connections.
func (m *MultiSink) Close() error {
	for _, s := range m.Sinks {
		if c, ok := s.(interface{ Close() error }); ok {
			if err := c.Close(); err != nil {
				return err
			}
		}
	}
	return nil
}
