package estimate

import (
	"errors"
	"math"
	"testing"

	"github.com/ridepulse/eta/core/dataset"
	"github.com/ridepulse/eta/core/model"
)

func sample(offsets ...float64) []dataset.Record {
	recs := make([]dataset.Record, len(offsets))
	for i, off := range offsets {
		recs[i] = dataset.Record{
			Observation:   model.Observation{TripID: "1", StopID: "114", Direction: "1", DwellSeconds: 12},
			OffsetSeconds: off,
		}
	}
	return recs
}

func TestFromSampleThreeObservations(t *testing.T) {
	est, err := FromSample(sample(2040, 2100, 2160), Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if est.OffsetSeconds != 2100 {
		t.Fatalf("expected mean 2100 got %v", est.OffsetSeconds)
	}
	if math.Abs(est.StdDev-60) > 1e-9 {
		t.Fatalf("expected stddev 60 got %v", est.StdDev)
	}
	// t(0.975, 2 df) = 4.302653, margin = t * 60 / sqrt(3).
	if math.Abs(est.MarginSeconds-149.048) > 1e-2 {
		t.Fatalf("expected margin near 149.048 got %v", est.MarginSeconds)
	}
	if est.SampleSize != 3 || est.Outliers != 0 || est.FilterSkipped {
		t.Fatalf("unexpected sample accounting: %+v", est)
	}
	if est.DwellSeconds != 12 {
		t.Fatalf("expected mean dwell 12 got %v", est.DwellSeconds)
	}
}

func TestFromSampleRemovesOutliers(t *testing.T) {
	est, err := FromSample(sample(2000, 2010, 2020, 2030, 99999), Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if est.Outliers != 1 {
		t.Fatalf("expected 1 outlier removed got %d", est.Outliers)
	}
	if est.SampleSize != 4 {
		t.Fatalf("expected 4 survivors got %d", est.SampleSize)
	}
	if est.OffsetSeconds != 2015 {
		t.Fatalf("expected mean 2015 got %v", est.OffsetSeconds)
	}
	if est.FilterSkipped {
		t.Fatal("filter should not be skipped")
	}
}

func TestFromSampleSingleObservation(t *testing.T) {
	est, err := FromSample(sample(1800), Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if est.SampleSize != 1 {
		t.Fatalf("expected sample size 1 got %d", est.SampleSize)
	}
	if est.MarginSeconds != 60 {
		t.Fatalf("expected minimum uncertainty 60 got %v", est.MarginSeconds)
	}
	if est.StdDev != 0 {
		t.Fatalf("expected zero stddev got %v", est.StdDev)
	}
	if est.OffsetSeconds != 1800 {
		t.Fatalf("expected offset 1800 got %v", est.OffsetSeconds)
	}
}

func TestFromSampleEmpty(t *testing.T) {
	_, err := FromSample(nil, Config{})
	if !errors.Is(err, ErrEmptySample) {
		t.Fatalf("expected ErrEmptySample got %v", err)
	}
}

func TestFromSampleMonotonicConfidence(t *testing.T) {
	recs := sample(2040, 2100, 2160, 2080, 2120)
	low, err := FromSample(recs, Config{ConfidenceLevel: 0.90})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	high, err := FromSample(recs, Config{ConfidenceLevel: 0.99})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if high.MarginSeconds <= low.MarginSeconds {
		t.Fatalf("99%% margin %v should exceed 90%% margin %v",
			high.MarginSeconds, low.MarginSeconds)
	}
}

func TestCriticalValueSwitchesAtThirty(t *testing.T) {
	offsets := make([]float64, 0, 30)
	for i := 0; i < 15; i++ {
		offsets = append(offsets, 2090, 2110)
	}

	est, err := FromSample(sample(offsets...), Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	crit := est.MarginSeconds / (est.StdDev / math.Sqrt(30))
	if math.Abs(crit-1.95996) > 1e-3 {
		t.Fatalf("expected normal critical value for n=30, got %v", crit)
	}

	est, err = FromSample(sample(offsets[:29]...), Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	crit = est.MarginSeconds / (est.StdDev / math.Sqrt(29))
	if math.Abs(crit-2.04841) > 1e-3 {
		t.Fatalf("expected t critical value for n=29, got %v", crit)
	}
}

func TestFromSampleIdenticalOffsets(t *testing.T) {
	est, err := FromSample(sample(2100, 2100, 2100, 2100, 2100), Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if est.StdDev != 0 || est.MarginSeconds != 0 {
		t.Fatalf("expected degenerate margin for identical offsets: %+v", est)
	}
	if est.OffsetSeconds != 2100 || est.SampleSize != 5 {
		t.Fatalf("unexpected estimate: %+v", est)
	}
}
