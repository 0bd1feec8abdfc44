// Package app wires the estimator together: dataset loading, the
// predictor lifecycle, event fan-out to the observability sinks and
// the HTTP API.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/ridepulse/eta/api/predictions"
	apilog "github.com/ridepulse/eta/api/predlog"
	"github.com/ridepulse/eta/api/trips"
	"github.com/ridepulse/eta/config"
	"github.com/ridepulse/eta/core/dataset"
	"github.com/ridepulse/eta/core/events"
	coremetrics "github.com/ridepulse/eta/core/metrics"
	"github.com/ridepulse/eta/core/model"
	"github.com/ridepulse/eta/core/pattern"
	"github.com/ridepulse/eta/core/predictor"
	"github.com/ridepulse/eta/core/predlog"
	"github.com/ridepulse/eta/infra/ingest"
	"github.com/ridepulse/eta/infra/logger"
	_ "github.com/ridepulse/eta/infra/metrics" // register metrics sink backends
	"github.com/ridepulse/eta/infra/mqtt"
	"github.com/ridepulse/eta/internal/eventbus"
	promsrv "github.com/ridepulse/eta/metrics"
)

// Service orchestrates the predictor, its observability sinks and the
// HTTP API. All prediction outcomes flow through the internal event
// bus; the metrics sink, the prediction log and the MQTT publisher are
// bus subscribers, so a slow sink never stalls a request.
type Service struct {
	cfg    *config.Config
	log    logger.Logger
	reader *ingest.Reader
	holder *predictor.Holder

	predictions *eventbus.TypedBus[events.PredictionEvent]
	reloads     *eventbus.TypedBus[events.ReloadEvent]

	sink      coremetrics.MetricsSink
	store     predlog.Store
	publisher mqtt.Publisher

	wg sync.WaitGroup
}

// New creates a Service from the configuration and performs the
// initial dataset load.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")
	if err := cfg.Dataset.Validate(); err != nil {
		return nil, err
	}
	reader, err := ingest.NewReader(cfg.Dataset.Location, cfg.Dataset.Strict)
	if err != nil {
		return nil, fmt.Errorf("ingest reader: %w", err)
	}

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	store, err := predlog.NewStore(cfg.Logging.ModuleConfig())
	if err != nil {
		return nil, fmt.Errorf("prediction log: %w", err)
	}

	var publisher mqtt.Publisher
	if cfg.MQTT.Broker != "" {
		pub, err := mqtt.NewPahoPublisher(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		publisher = pub
	}

	svc := &Service{
		cfg:         cfg,
		log:         logg,
		reader:      reader,
		predictions: eventbus.NewTyped[events.PredictionEvent](),
		reloads:     eventbus.NewTyped[events.ReloadEvent](),
		sink:        sink,
		store:       store,
		publisher:   publisher,
	}
	svc.startForwarder()
	if err := svc.load(""); err != nil {
		svc.Close()
		return nil, err
	}
	return svc, nil
}

// load builds a snapshot from the configured dataset path and installs
// a predictor over it. previous carries the snapshot id being replaced,
// empty on the first load.
func (s *Service) load(previous string) error {
	obs, rowErrs, err := s.reader.Load(s.cfg.Dataset.Path)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	if len(rowErrs) > 0 {
		s.log.Warnf("dataset %s: %d rows rejected", s.cfg.Dataset.Path, len(rowErrs))
	}
	snap, err := dataset.NewSnapshot(obs)
	if err != nil {
		return fmt.Errorf("build snapshot: %w", err)
	}
	pred := predictor.New(snap, s.cfg.Predictor.Core())
	if s.holder == nil {
		s.holder = predictor.NewHolder(pred)
	} else {
		s.holder.Swap(pred)
	}

	ov := snap.Overview()
	s.log.Infof("dataset loaded: %d rows, %d trips, %d stops", ov.Rows, ov.Trips, ov.Stops)
	s.reloads.Publish(events.ReloadEvent{Overview: ov, Previous: previous, Time: time.Now()})
	if rec, ok := s.sink.(coremetrics.DatasetLoadRecorder); ok {
		ev := coremetrics.DatasetLoadEvent{
			SnapshotID: ov.SnapshotID,
			Rows:       ov.Rows,
			Trips:      ov.Trips,
			Stops:      ov.Stops,
			Component:  "loader",
			Time:       time.Now(),
		}
		if err := rec.RecordDatasetLoad(ev); err != nil {
			s.log.Errorf("metrics sink: %v", err)
		}
	}
	return nil
}

// Reload builds a fresh snapshot from the dataset path and swaps it
// in. In-flight queries finish on the snapshot they started with.
func (s *Service) Reload() error {
	prev := s.holder.Current().Snapshot().ID()
	return s.load(prev)
}

// Predict serves one query against the active snapshot and publishes
// the outcome on the internal event bus. source names the surface that
// served the request, e.g. "api" or "cli".
func (s *Service) Predict(q predictor.Query, source string) (model.Prediction, error) {
	start := time.Now()
	pred, err := s.holder.Current().Predict(q)
	ev := events.PredictionEvent{
		TripID:   q.TripID,
		StopID:   q.StopID,
		Source:   source,
		Duration: time.Since(start),
		Time:     time.Now(),
	}
	if err != nil {
		ev.Err = err.Error()
	} else {
		ev.Prediction = pred
	}
	s.predictions.Publish(ev)
	return pred, err
}

// Partitions lists the partitions of the active snapshot.
func (s *Service) Partitions() []pattern.Partition {
	return s.holder.Current().Index().Partitions()
}

// Predictor returns the active predictor.
func (s *Service) Predictor() *predictor.Predictor { return s.holder.Current() }

// Overview returns the summary of the active snapshot.
func (s *Service) Overview() dataset.Overview {
	return s.holder.Current().Snapshot().Overview()
}

// Predictions exposes the prediction event stream.
func (s *Service) Predictions() *eventbus.TypedBus[events.PredictionEvent] {
	return s.predictions
}

// Reloads exposes the reload event stream.
func (s *Service) Reloads() *eventbus.TypedBus[events.ReloadEvent] {
	return s.reloads
}

// startForwarder subscribes the metrics sink, the prediction log and
// the MQTT publisher to the prediction event stream.
func (s *Service) startForwarder() {
	ch := s.predictions.Subscribe()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for ev := range ch {
			s.record(ev)
		}
	}()
}

func (s *Service) record(ev events.PredictionEvent) {
	res := coremetrics.PredictionResult{
		TripID:        ev.TripID,
		StopID:        ev.StopID,
		Direction:     ev.Prediction.Direction,
		Fallback:      ev.Prediction.Fallback,
		SampleSize:    ev.Prediction.SampleSize,
		OffsetSeconds: ev.Prediction.OffsetSeconds,
		MarginSeconds: ev.Prediction.OffsetSeconds - ev.Prediction.LowSeconds,
		LowConfidence: ev.Prediction.LowConfidence,
		Failed:        ev.Failed(),
		Duration:      ev.Duration,
		Time:          ev.Time,
	}
	if err := s.sink.RecordPrediction(res); err != nil {
		s.log.Errorf("metrics sink: %v", err)
	}

	rec := predlog.Record{
		Timestamp:  ev.Time,
		TripID:     ev.TripID,
		StopID:     ev.StopID,
		Source:     ev.Source,
		Prediction: ev.Prediction,
		Err:        ev.Err,
		DurationMS: float64(ev.Duration) / float64(time.Millisecond),
	}
	if err := s.store.Append(context.Background(), rec); err != nil {
		s.log.Errorf("prediction log: %v", err)
	}

	if s.publisher != nil && !ev.Failed() {
		if err := s.publisher.PublishPrediction(ev.Prediction); err != nil {
			s.log.Errorf("mqtt publish: %v", err)
		}
	}
}

// Handler assembles the HTTP API.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /api/predictions", predictions.NewHandler(s))
	mux.Handle("GET /api/trips", trips.NewTripsHandler(s))
	mux.Handle("GET /api/trips/{trip}/stops", trips.NewStopsHandler(s))
	mux.Handle("GET /api/predictions/log", apilog.NewLogHandler(s.store, s.cfg.API.Token))
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.Overview()); err != nil {
		s.log.Errorf("encode health: %v", err)
	}
}

// Run serves the HTTP API and blocks until the context is cancelled.
// SIGHUP triggers a dataset reload without dropping in-flight queries.
func (s *Service) Run(ctx context.Context) error {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				if err := s.Reload(); err != nil {
					s.log.Errorf("reload: %v", err)
				}
			}
		}
	}()

	if addr := s.cfg.API.PrometheusAddress; addr != "" {
		go func() {
			if err := promsrv.StartPromServer(ctx, addr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	srv := &http.Server{Addr: s.cfg.API.Address, Handler: s.Handler()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("api shutdown: %v", err)
		}
	}()
	s.log.Infof("serving api on %s", s.cfg.API.Address)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close drains the event bus and releases the service resources.
func (s *Service) Close() error {
	s.predictions.Close()
	s.reloads.Close()
	s.wg.Wait()

	var firstErr error
	if s.publisher != nil {
		s.publisher.Close()
	}
	if err := s.store.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if c, ok := s.sink.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
