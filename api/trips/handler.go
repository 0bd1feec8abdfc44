package trips

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/ridepulse/eta/core/pattern"
)

// Catalog lists the partitions of the active dataset snapshot.
type Catalog interface {
	Partitions() []pattern.Partition
}

// TripSummary aggregates the partitions of one trip.
type TripSummary struct {
	TripID       string   `json:"trip_id"`
	Directions   []string `json:"directions"`
	Stops        int      `json:"stops"`
	Observations int      `json:"observations"`
}

// StopSummary describes one served stop of a trip.
type StopSummary struct {
	StopID       string `json:"stop_id"`
	Direction    string `json:"direction"`
	Observations int    `json:"observations"`
}

// NewTripsHandler returns an HTTP handler listing known trips via
// GET /api/trips.
func NewTripsHandler(cat Catalog) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(Summarize(cat.Partitions())); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

// NewStopsHandler returns an HTTP handler listing the stops of one trip.
// It must be registered on a pattern carrying a {trip} path value, such
// as "GET /api/trips/{trip}/stops".
func NewStopsHandler(cat Catalog) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		trip := r.PathValue("trip")
		if trip == "" {
			http.Error(w, "trip is required", http.StatusBadRequest)
			return
		}
		var stops []StopSummary
		for _, p := range cat.Partitions() {
			if p.TripID != trip {
				continue
			}
			stops = append(stops, StopSummary{StopID: p.StopID, Direction: p.Direction, Observations: p.Observations})
		}
		if len(stops) == 0 {
			http.Error(w, "unknown trip", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(stops); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

// Summarize folds partitions into per-trip summaries, sorted by trip.
func Summarize(parts []pattern.Partition) []TripSummary {
	type agg struct {
		directions map[string]struct{}
		stops      map[string]struct{}
		obs        int
	}
	byTrip := make(map[string]*agg)
	var order []string
	for _, p := range parts {
		a, ok := byTrip[p.TripID]
		if !ok {
			a = &agg{directions: make(map[string]struct{}), stops: make(map[string]struct{})}
			byTrip[p.TripID] = a
			order = append(order, p.TripID)
		}
		a.directions[p.Direction] = struct{}{}
		a.stops[p.StopID] = struct{}{}
		a.obs += p.Observations
	}
	sort.Strings(order)
	out := make([]TripSummary, 0, len(order))
	for _, trip := range order {
		a := byTrip[trip]
		dirs := make([]string, 0, len(a.directions))
		for d := range a.directions {
			dirs = append(dirs, d)
		}
		sort.Strings(dirs)
		out = append(out, TripSummary{
			TripID:       trip,
			Directions:   dirs,
			Stops:        len(a.stops),
			Observations: a.obs,
		})
	}
	return out
}
