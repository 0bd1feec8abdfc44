package pattern

import (
	"errors"
	"sort"
	"time"

	"github.com/ridepulse/eta/core/dataset"
	"github.com/ridepulse/eta/core/model"
)

// ErrNotFound reports that a (trip, stop, direction) combination was
// never observed together in the dataset.
var ErrNotFound = errors.New("no observations for trip, stop and direction")

// Config controls index granularity and the fallback ladder.
type Config struct {
	// BucketWidth is the width of the time-of-day buckets used to
	// group comparable trip instances. Defaults to 30 minutes.
	BucketWidth time.Duration
	// MinSamples is the sample size the fallback ladder tries to
	// reach before relaxing further. Defaults to 5.
	MinSamples int
}

// WithDefaults fills unset fields with their default values.
func (c Config) WithDefaults() Config {
	if c.BucketWidth <= 0 {
		c.BucketWidth = 30 * time.Minute
	}
	if c.MinSamples <= 0 {
		c.MinSamples = 5
	}
	return c
}

// Key identifies a partition together with the temporal context of a
// query.
type Key struct {
	TripID    string
	StopID    string
	Direction string
	Context   model.TripContext
}

// Sample is the outcome of a ladder query: the matched records plus
// how much context had to be relaxed to gather them.
type Sample struct {
	Records  []dataset.Record
	Fallback model.FallbackLevel
	// Short is set when even the whole partition holds fewer records
	// than the configured minimum.
	Short bool
}

type entry struct {
	rec dataset.Record
	ctx model.TripContext
}

type partKey struct {
	trip, stop, dir string
}

// Index groups snapshot records by (trip, stop, direction) and answers
// context queries through a fixed relaxation ladder. It is immutable
// after construction and safe for concurrent readers.
type Index struct {
	cfg        Config
	partitions map[partKey][]entry
}

// NewIndex builds an index over the given records. Records keep the
// order they arrive in, so equal inputs produce equal query results.
func NewIndex(records []dataset.Record, cfg Config) *Index {
	cfg = cfg.WithDefaults()
	ix := &Index{
		cfg:        cfg,
		partitions: make(map[partKey][]entry),
	}
	for _, r := range records {
		k := partKey{trip: r.TripID, stop: r.StopID, dir: r.Direction}
		ix.partitions[k] = append(ix.partitions[k], entry{
			rec: r,
			ctx: r.Context(cfg.BucketWidth),
		})
	}
	return ix
}

// Config returns the configuration the index was built with.
func (ix *Index) Config() Config { return ix.cfg }

// KeyAt derives the pattern key for a query against this index. The
// context is taken from the reference time using the index bucket
// width.
func (ix *Index) KeyAt(tripID, stopID, direction string, ref time.Time) Key {
	return Key{
		TripID:    tripID,
		StopID:    stopID,
		Direction: direction,
		Context:   model.ContextAt(ref, ix.cfg.BucketWidth),
	}
}

// ladder is the ordered list of relaxation levels tried in turn. Each
// level matches a record context against the query context; the first
// level yielding enough records wins.
var ladder = []struct {
	level model.FallbackLevel
	match func(rec, query model.TripContext) bool
}{
	{model.FallbackNone, func(r, q model.TripContext) bool {
		return r.Day == q.Day && r.Bucket == q.Bucket
	}},
	{model.FallbackDayClass, func(r, q model.TripContext) bool {
		return r.Class() == q.Class() && r.Bucket == q.Bucket
	}},
	{model.FallbackTimeOnly, func(r, q model.TripContext) bool {
		return r.Bucket == q.Bucket
	}},
	{model.FallbackPartition, func(r, q model.TripContext) bool {
		return true
	}},
}

// Query walks the fallback ladder for the given key and returns the
// first sample that reaches the configured minimum size. When even the
// whole partition is smaller than the minimum, the partition itself is
// returned with Short set. An empty partition yields ErrNotFound.
func (ix *Index) Query(k Key) (Sample, error) {
	part, ok := ix.partitions[partKey{trip: k.TripID, stop: k.StopID, dir: k.Direction}]
	if !ok || len(part) == 0 {
		return Sample{}, ErrNotFound
	}
	for _, step := range ladder {
		matched := make([]dataset.Record, 0, len(part))
		for _, e := range part {
			if step.match(e.ctx, k.Context) {
				matched = append(matched, e.rec)
			}
		}
		if len(matched) >= ix.cfg.MinSamples {
			return Sample{Records: matched, Fallback: step.level}, nil
		}
		if step.level == model.FallbackPartition {
			return Sample{Records: matched, Fallback: step.level, Short: true}, nil
		}
	}
	// The partition level matches everything, so this is unreachable.
	return Sample{}, ErrNotFound
}

// PartitionRecords returns the records of a single partition, in
// index order. Batch estimation uses this to score whole partitions
// without going through the ladder.
func (ix *Index) PartitionRecords(tripID, stopID, direction string) ([]dataset.Record, error) {
	part, ok := ix.partitions[partKey{trip: tripID, stop: stopID, dir: direction}]
	if !ok || len(part) == 0 {
		return nil, ErrNotFound
	}
	recs := make([]dataset.Record, len(part))
	for i, e := range part {
		recs[i] = e.rec
	}
	return recs, nil
}

// Partition describes one (trip, stop, direction) group and its size.
type Partition struct {
	TripID       string `json:"trip_id"`
	StopID       string `json:"stop_id"`
	Direction    string `json:"direction"`
	Observations int    `json:"observations"`
}

// Partitions enumerates every known partition ordered by trip, stop
// and direction. Listing surfaces are built on top of this so they do
// not duplicate the grouping logic.
func (ix *Index) Partitions() []Partition {
	out := make([]Partition, 0, len(ix.partitions))
	for k, part := range ix.partitions {
		out = append(out, Partition{
			TripID:       k.trip,
			StopID:       k.stop,
			Direction:    k.dir,
			Observations: len(part),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.TripID != b.TripID {
			return a.TripID < b.TripID
		}
		if a.StopID != b.StopID {
			return a.StopID < b.StopID
		}
		return a.Direction < b.Direction
	})
	return out
}
