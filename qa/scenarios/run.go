package scenarios

import (
	"testing"
	"time"

	"github.com/ridepulse/eta/core/dataset"
	"github.com/ridepulse/eta/core/model"
	"github.com/ridepulse/eta/core/pattern"
	"github.com/ridepulse/eta/core/predictor"
)

const offsetTolerance = 1e-6

// RunScenario builds a predictor from the scenario observations and
// checks every query against its expected outcome.
func RunScenario(t *testing.T, sc *Scenario) {
	loc := time.Local
	if sc.Location != "" {
		var err error
		if loc, err = time.LoadLocation(sc.Location); err != nil {
			t.Fatalf("location %s: %v", sc.Location, err)
		}
	}

	obs := make([]model.Observation, len(sc.Observations))
	for i, def := range sc.Observations {
		o, err := def.ToModel(loc)
		if err != nil {
			t.Fatalf("observation %d: %v", i, err)
		}
		obs[i] = o
	}
	snap, err := dataset.NewSnapshot(obs)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	pred := predictor.New(snap, predictor.Config{
		Pattern: pattern.Config{
			BucketWidth: time.Duration(sc.BucketMinutes) * time.Minute,
			MinSamples:  sc.MinSamples,
		},
	})

	for _, q := range sc.Queries {
		var ref time.Time
		if q.At != "" {
			if ref, err = time.ParseInLocation(timeLayout, q.At, loc); err != nil {
				t.Fatalf("query at %q: %v", q.At, err)
			}
		}
		p, err := pred.Predict(predictor.Query{
			TripID:    q.Trip,
			StopID:    q.Stop,
			Direction: q.Direction,
			Reference: ref,
		})
		if q.Error {
			if err == nil {
				t.Errorf("scenario %s query %s/%s expected an error", sc.Name, q.Trip, q.Stop)
			}
			continue
		}
		if err != nil {
			t.Errorf("scenario %s query %s/%s: %v", sc.Name, q.Trip, q.Stop, err)
			continue
		}
		if diff := p.OffsetSeconds - q.Expected.OffsetSeconds; diff > offsetTolerance || diff < -offsetTolerance {
			t.Errorf("scenario %s query %s/%s offset %v, want %v",
				sc.Name, q.Trip, q.Stop, p.OffsetSeconds, q.Expected.OffsetSeconds)
		}
		if want := parseFallback(q.Expected.Fallback); p.Fallback != want {
			t.Errorf("scenario %s query %s/%s fallback %s, want %s",
				sc.Name, q.Trip, q.Stop, p.Fallback, want)
		}
		if p.LowConfidence != q.Expected.LowConfidence {
			t.Errorf("scenario %s query %s/%s low confidence %v, want %v",
				sc.Name, q.Trip, q.Stop, p.LowConfidence, q.Expected.LowConfidence)
		}
		if q.Expected.SampleSize != 0 && p.SampleSize != q.Expected.SampleSize {
			t.Errorf("scenario %s query %s/%s sample size %d, want %d",
				sc.Name, q.Trip, q.Stop, p.SampleSize, q.Expected.SampleSize)
		}
	}
}
