package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridepulse/eta/config"
	"github.com/ridepulse/eta/core/model"
	"github.com/ridepulse/eta/core/predictor"
	"github.com/ridepulse/eta/core/predlog"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Dataset.Path = filepath.Join("testdata", "arrivals.csv")
	cfg.Predictor.MinSamples = 2
	cfg.Logging.Backend = "nop"
	cfg.API.SetDefaults()
	return cfg
}

func newTestService(t *testing.T, cfg *config.Config) *Service {
	t.Helper()
	svc, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func TestServicePredict(t *testing.T) {
	svc := newTestService(t, testConfig(t))
	sub := svc.Predictions().Subscribe()

	ref := time.Date(2021, 10, 22, 6, 5, 0, 0, time.Local)
	pred, err := svc.Predict(predictor.Query{TripID: "1", StopID: "114", Reference: ref}, "test")
	require.NoError(t, err)

	assert.InDelta(t, 2100, pred.OffsetSeconds, 1e-9)
	assert.Equal(t, model.FallbackNone, pred.Fallback)
	assert.Equal(t, 3, pred.SampleSize)
	assert.False(t, pred.LowConfidence)
	assert.Equal(t, ref.Add(2100*time.Second), pred.Arrival)

	select {
	case ev := <-sub:
		assert.Equal(t, "1", ev.TripID)
		assert.Equal(t, "test", ev.Source)
		assert.False(t, ev.Failed())
	case <-time.After(time.Second):
		t.Fatal("no prediction event published")
	}
}

func TestServicePredictUnknownTrip(t *testing.T) {
	svc := newTestService(t, testConfig(t))
	sub := svc.Predictions().Subscribe()

	_, err := svc.Predict(predictor.Query{TripID: "99", StopID: "114"}, "test")
	require.Error(t, err)

	select {
	case ev := <-sub:
		assert.True(t, ev.Failed())
		assert.NotEmpty(t, ev.Err)
	case <-time.After(time.Second):
		t.Fatal("no prediction event published")
	}
}

func TestServiceReload(t *testing.T) {
	svc := newTestService(t, testConfig(t))
	before := svc.Overview().SnapshotID
	sub := svc.Reloads().Subscribe()

	require.NoError(t, svc.Reload())
	after := svc.Overview().SnapshotID
	assert.NotEqual(t, before, after)

	select {
	case ev := <-sub:
		assert.Equal(t, before, ev.Previous)
		assert.Equal(t, after, ev.Overview.SnapshotID)
	case <-time.After(time.Second):
		t.Fatal("no reload event published")
	}
}

func TestServiceHandler(t *testing.T) {
	svc := newTestService(t, testConfig(t))
	srv := httptest.NewServer(svc.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/predictions?trip=1&stop=114")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pred model.Prediction
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pred))
	assert.Equal(t, "1", pred.TripID)
	assert.Equal(t, "UP", pred.Direction)

	resp, err = http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var health struct {
		Rows  int `json:"rows"`
		Trips int `json:"trips"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, 6, health.Rows)
	assert.Equal(t, 1, health.Trips)

	resp, err = http.Get(srv.URL + "/api/trips/1/stops")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stops []struct {
		StopID string `json:"stop_id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stops))
	assert.Len(t, stops, 2)
}

func TestServicePredictionLogged(t *testing.T) {
	cfg := testConfig(t)
	cfg.Logging.Backend = "jsonl"
	cfg.Logging.Path = filepath.Join(t.TempDir(), "predictions.jsonl")
	svc := newTestService(t, cfg)
	srv := httptest.NewServer(svc.Handler())
	defer srv.Close()

	_, err := svc.Predict(predictor.Query{TripID: "1", StopID: "114"}, "cli")
	require.NoError(t, err)

	// The log append happens on the bus subscriber, so poll for it.
	deadline := time.Now().Add(2 * time.Second)
	for {
		resp, err := http.Get(srv.URL + "/api/predictions/log?trip=1")
		require.NoError(t, err)
		var recs []predlog.Record
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&recs))
		resp.Body.Close()
		if len(recs) == 1 {
			assert.Equal(t, "cli", recs[0].Source)
			assert.Equal(t, "114", recs[0].StopID)
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected 1 logged prediction, got %d", len(recs))
		}
		time.Sleep(10 * time.Millisecond)
	}
}
