package dataset

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ridepulse/eta/core/model"
)

// Snapshot is an immutable view over a set of validated observations.
// Construction groups observations into trip instances, anchors every
// record to its instance start and precomputes lookup tables. A
// snapshot is never mutated after NewSnapshot returns, so any number
// of concurrent readers may share it without coordination. Reloading
// a dataset means building a new snapshot and swapping the reference.
type Snapshot struct {
	id       string
	loadedAt time.Time

	records []Record
	starts  map[instanceKey]time.Time
	trips   map[string]int
	stops   map[string]int
	latest  map[[2]string]Record

	overview Overview
}

// Overview summarises a loaded snapshot for diagnostics.
type Overview struct {
	SnapshotID string    `json:"snapshot_id"`
	LoadedAt   time.Time `json:"loaded_at"`
	Rows       int       `json:"rows"`
	Trips      int       `json:"trips"`
	Instances  int       `json:"trip_instances"`
	Stops      int       `json:"stops"`
	Directions int       `json:"directions"`
	Devices    int       `json:"devices"`
	FirstDate  time.Time `json:"first_date"`
	LastDate   time.Time `json:"last_date"`
}

// NewSnapshot builds an immutable snapshot from the given observations.
// Every observation must already satisfy model.Observation.Validate;
// a violation is a programming error in the ingestion layer and fails
// construction immediately.
func NewSnapshot(observations []model.Observation) (*Snapshot, error) {
	for i, o := range observations {
		if err := o.Validate(); err != nil {
			return nil, fmt.Errorf("observation %d: %w", i, err)
		}
	}

	instances := make(map[instanceKey][]model.Observation)
	for _, o := range observations {
		k := keyOf(o)
		instances[k] = append(instances[k], o)
	}

	s := &Snapshot{
		id:       uuid.NewString(),
		loadedAt: time.Now(),
		records:  make([]Record, 0, len(observations)),
		starts:   make(map[instanceKey]time.Time, len(instances)),
		trips:    make(map[string]int),
		stops:    make(map[string]int),
		latest:   make(map[[2]string]Record),
	}

	keys := make([]instanceKey, 0, len(instances))
	for k := range instances {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.trip != b.trip {
			return a.trip < b.trip
		}
		if a.date != b.date {
			return a.date < b.date
		}
		return a.direction < b.direction
	})

	directions := make(map[string]struct{})
	devices := make(map[string]struct{})
	var first, last time.Time

	for _, k := range keys {
		obs := instances[k]
		sort.SliceStable(obs, func(i, j int) bool {
			return obs[i].Arrival.Before(obs[j].Arrival)
		})
		anchor := obs[0].Arrival
		s.starts[k] = anchor
		for seq, o := range obs {
			rec := Record{
				Observation:   o,
				Anchor:        anchor,
				OffsetSeconds: o.Arrival.Sub(anchor).Seconds(),
				Sequence:      seq,
			}
			s.records = append(s.records, rec)
			s.trips[o.TripID]++
			s.stops[o.StopID]++
			directions[o.Direction] = struct{}{}
			if o.DeviceID != "" {
				devices[o.DeviceID] = struct{}{}
			}
			lk := [2]string{o.TripID, o.StopID}
			if prev, ok := s.latest[lk]; !ok || o.Arrival.After(prev.Arrival) {
				s.latest[lk] = rec
			}
			if first.IsZero() || o.Arrival.Before(first) {
				first = o.Arrival
			}
			if o.Arrival.After(last) {
				last = o.Arrival
			}
		}
	}

	s.overview = Overview{
		SnapshotID: s.id,
		LoadedAt:   s.loadedAt,
		Rows:       len(s.records),
		Trips:      len(s.trips),
		Instances:  len(instances),
		Stops:      len(s.stops),
		Directions: len(directions),
		Devices:    len(devices),
		FirstDate:  first,
		LastDate:   last,
	}
	return s, nil
}

// ID returns the unique identifier assigned to this snapshot.
func (s *Snapshot) ID() string { return s.id }

// LoadedAt returns the time the snapshot was built.
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

// Len returns the number of records in the snapshot.
func (s *Snapshot) Len() int { return len(s.records) }

// Records returns a copy of the enriched records, ordered by trip,
// service date, direction and arrival time.
func (s *Snapshot) Records() []Record {
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Overview returns summary statistics for the snapshot.
func (s *Snapshot) Overview() Overview { return s.overview }

// TripKnown reports whether the trip appears anywhere in the snapshot.
func (s *Snapshot) TripKnown(tripID string) bool {
	return s.trips[tripID] > 0
}

// StopKnown reports whether the stop appears anywhere in the snapshot.
func (s *Snapshot) StopKnown(stopID string) bool {
	return s.stops[stopID] > 0
}

// Start returns the observed start of the given trip on the given
// service date. When the trip ran in several directions that day the
// earliest start wins.
func (s *Snapshot) Start(tripID string, date time.Time) (time.Time, bool) {
	y, m, d := date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, date.Location()).Format("2006-01-02")
	var best time.Time
	for k, anchor := range s.starts {
		if k.trip != tripID || k.date != day {
			continue
		}
		if best.IsZero() || anchor.Before(best) {
			best = anchor
		}
	}
	return best, !best.IsZero()
}

// LatestDirection returns the direction of the most recent observation
// for the given trip and stop.
func (s *Snapshot) LatestDirection(tripID, stopID string) (string, bool) {
	rec, ok := s.latest[[2]string{tripID, stopID}]
	if !ok {
		return "", false
	}
	return rec.Direction, true
}
