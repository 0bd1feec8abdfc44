package trips

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ridepulse/eta/core/pattern"
)

type fakeCatalog struct{ parts []pattern.Partition }

func (f fakeCatalog) Partitions() []pattern.Partition { return f.parts }

func sampleCatalog() fakeCatalog {
	return fakeCatalog{parts: []pattern.Partition{
		{TripID: "1", StopID: "101", Direction: "UP", Observations: 5},
		{TripID: "1", StopID: "114", Direction: "UP", Observations: 5},
		{TripID: "1", StopID: "114", Direction: "DOWN", Observations: 2},
		{TripID: "2", StopID: "101", Direction: "UP", Observations: 3},
	}}
}

func TestTripsHandler(t *testing.T) {
	h := NewTripsHandler(sampleCatalog())
	req := httptest.NewRequest("GET", "/api/trips", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var out []TripSummary
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 trips, got %d", len(out))
	}
	first := out[0]
	if first.TripID != "1" || first.Stops != 2 || first.Observations != 12 {
		t.Fatalf("unexpected summary: %+v", first)
	}
	if len(first.Directions) != 2 || first.Directions[0] != "DOWN" || first.Directions[1] != "UP" {
		t.Fatalf("directions not sorted: %+v", first.Directions)
	}
}

func TestStopsHandler(t *testing.T) {
	mux := http.NewServeMux()
	mux.Handle("GET /api/trips/{trip}/stops", NewStopsHandler(sampleCatalog()))

	req := httptest.NewRequest("GET", "/api/trips/1/stops", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var out []StopSummary
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 stops, got %d", len(out))
	}
}

func TestStopsHandlerUnknownTrip(t *testing.T) {
	mux := http.NewServeMux()
	mux.Handle("GET /api/trips/{trip}/stops", NewStopsHandler(sampleCatalog()))

	req := httptest.NewRequest("GET", "/api/trips/9/stops", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}
