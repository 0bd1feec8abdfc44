package predictor

import (
	"fmt"
	"time"

	"github.com/ridepulse/eta/core/dataset"
	"github.com/ridepulse/eta/core/estimate"
	"github.com/ridepulse/eta/core/model"
	"github.com/ridepulse/eta/core/pattern"
)

// Query is a single arrival request. Direction and Reference are
// optional: an empty direction resolves to the latest observed
// direction for the trip and stop, a zero reference resolves to the
// current time.
type Query struct {
	TripID    string
	StopID    string
	Direction string
	Reference time.Time
}

// Config bundles the knobs of the prediction pipeline.
type Config struct {
	Pattern  pattern.Config
	Estimate estimate.Config
}

// WithDefaults fills unset fields of both sections.
func (c Config) WithDefaults() Config {
	c.Pattern = c.Pattern.WithDefaults()
	c.Estimate = c.Estimate.WithDefaults()
	return c
}

// Predictor answers arrival queries against one immutable dataset
// snapshot. It holds no mutable state, so a single instance serves any
// number of concurrent callers. Reloading a dataset means building a
// new Predictor and swapping it in through a Holder.
type Predictor struct {
	snap *dataset.Snapshot
	ix   *pattern.Index
	cfg  Config

	now func() time.Time
}

// New builds a predictor over the given snapshot.
func New(snap *dataset.Snapshot, cfg Config) *Predictor {
	cfg = cfg.WithDefaults()
	return &Predictor{
		snap: snap,
		ix:   pattern.NewIndex(snap.Records(), cfg.Pattern),
		cfg:  cfg,
		now:  time.Now,
	}
}

// Snapshot returns the snapshot the predictor was built over.
func (p *Predictor) Snapshot() *dataset.Snapshot { return p.snap }

// Index returns the pattern index for listing surfaces.
func (p *Predictor) Index() *pattern.Index { return p.ix }

// Config returns the normalized configuration.
func (p *Predictor) Config() Config { return p.cfg }

// Predict resolves the query into a temporal context, walks the
// fallback ladder and turns the matched sample into a prediction.
//
// The anchor is the observed start of the trip on the reference date
// when the dataset contains one, and the reference time itself
// otherwise. Offsets are measured from that anchor and the pattern
// context is derived from it, so asking about a historical date
// reproduces that day's traffic conditions.
func (p *Predictor) Predict(q Query) (model.Prediction, error) {
	if q.TripID == "" {
		return model.Prediction{}, fmt.Errorf("trip id is required")
	}
	if q.StopID == "" {
		return model.Prediction{}, fmt.Errorf("stop id is required")
	}

	ref := q.Reference
	if ref.IsZero() {
		ref = p.now()
	}

	if !p.snap.TripKnown(q.TripID) {
		return model.Prediction{}, fmt.Errorf("trip %q: %w", q.TripID, pattern.ErrNotFound)
	}

	dir := q.Direction
	if dir == "" {
		var ok bool
		if dir, ok = p.snap.LatestDirection(q.TripID, q.StopID); !ok {
			return model.Prediction{}, fmt.Errorf("stop %q on trip %q: %w",
				q.StopID, q.TripID, pattern.ErrNotFound)
		}
	}

	anchor := ref
	if start, ok := p.snap.Start(q.TripID, ref); ok {
		anchor = start
	}

	sample, err := p.ix.Query(p.ix.KeyAt(q.TripID, q.StopID, dir, anchor))
	if err != nil {
		return model.Prediction{}, fmt.Errorf("trip %q stop %q direction %q: %w",
			q.TripID, q.StopID, dir, err)
	}

	est, err := estimate.FromSample(sample.Records, p.cfg.Estimate)
	if err != nil {
		return model.Prediction{}, err
	}

	pred := model.Prediction{
		TripID:    q.TripID,
		StopID:    q.StopID,
		Direction: dir,

		OffsetSeconds: est.OffsetSeconds,
		LowSeconds:    est.OffsetSeconds - est.MarginSeconds,
		HighSeconds:   est.OffsetSeconds + est.MarginSeconds,

		Anchor:      anchor,
		Arrival:     anchor.Add(secs(est.OffsetSeconds)),
		ArrivalLow:  anchor.Add(secs(est.OffsetSeconds - est.MarginSeconds)),
		ArrivalHigh: anchor.Add(secs(est.OffsetSeconds + est.MarginSeconds)),

		DwellSeconds: est.DwellSeconds,
		StdDev:       est.StdDev,

		SampleSize: est.SampleSize,
		Outliers:   est.Outliers,
		Fallback:   sample.Fallback,
		Confidence: p.cfg.Estimate.ConfidenceLevel,
		LowConfidence: sample.Fallback != model.FallbackNone || sample.Short ||
			est.FilterSkipped || est.SampleSize == 1,

		GeneratedAt: p.now(),
	}
	return pred, nil
}

func secs(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}
