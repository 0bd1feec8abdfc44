package estimate

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/ridepulse/eta/core/dataset"
)

// ErrEmptySample reports a contract violation: the pattern index
// guarantees a non-empty sample, so an empty one is a programming
// error, not a data condition.
var ErrEmptySample = errors.New("empty sample")

// Config controls interval computation.
type Config struct {
	// ConfidenceLevel is the coverage probability of the interval.
	// Defaults to 0.95.
	ConfidenceLevel float64
	// MinUncertainty is the half-width, in seconds, used when
	// dispersion cannot be estimated from the sample. Defaults to 60.
	MinUncertainty float64
}

// WithDefaults fills unset fields with their default values.
func (c Config) WithDefaults() Config {
	if c.ConfidenceLevel <= 0 || c.ConfidenceLevel >= 1 {
		c.ConfidenceLevel = 0.95
	}
	if c.MinUncertainty <= 0 {
		c.MinUncertainty = 60
	}
	return c
}

// Estimate is the numeric core of a prediction: a point estimate in
// offset space plus a symmetric uncertainty margin.
type Estimate struct {
	OffsetSeconds float64 // mean arrival offset of the surviving records
	MarginSeconds float64 // half-width of the confidence interval
	StdDev        float64 // sample standard deviation of the offsets
	DwellSeconds  float64 // mean dwell of the surviving records

	SampleSize    int  // records used after outlier filtering
	Outliers      int  // records removed by the IQR rule
	FilterSkipped bool // filtering skipped because it would halve the sample
}

// FromSample computes an estimate over the given records. Offsets
// outside [Q1-1.5*IQR, Q3+1.5*IQR] are discarded first; when that rule
// would remove more than half the records it is skipped instead and
// FilterSkipped is set. The interval uses a normal critical value for
// samples of 30 or more and a Student's t value below that. A single
// surviving record cannot carry dispersion, so its margin degenerates
// to the configured minimum uncertainty.
func FromSample(records []dataset.Record, cfg Config) (Estimate, error) {
	if len(records) == 0 {
		return Estimate{}, ErrEmptySample
	}
	cfg = cfg.WithDefaults()

	offsets := make([]float64, len(records))
	dwells := make([]float64, len(records))
	for i, r := range records {
		offsets[i] = r.OffsetSeconds
		dwells[i] = r.DwellSeconds
	}

	kept, skipped := survivors(offsets)
	survOff := make([]float64, 0, len(kept))
	survDwell := make([]float64, 0, len(kept))
	for _, i := range kept {
		survOff = append(survOff, offsets[i])
		survDwell = append(survDwell, dwells[i])
	}

	est := Estimate{
		SampleSize:    len(survOff),
		Outliers:      len(offsets) - len(survOff),
		FilterSkipped: skipped,
		OffsetSeconds: stat.Mean(survOff, nil),
		DwellSeconds:  stat.Mean(survDwell, nil),
	}
	if len(survOff) == 1 {
		est.MarginSeconds = cfg.MinUncertainty
		return est, nil
	}

	est.StdDev = stat.StdDev(survOff, nil)
	est.MarginSeconds = critical(len(survOff), cfg.ConfidenceLevel) *
		est.StdDev / math.Sqrt(float64(len(survOff)))
	return est, nil
}

// survivors applies the interquartile-range rule and returns the
// indices of records to keep. The rule is skipped when it would remove
// more than half the sample.
func survivors(offsets []float64) (kept []int, skipped bool) {
	if len(offsets) < 2 {
		return []int{0}, false
	}
	sorted := make([]float64, len(offsets))
	copy(sorted, offsets)
	sort.Float64s(sorted)

	q1 := stat.Quantile(0.25, stat.LinInterp, sorted, nil)
	q3 := stat.Quantile(0.75, stat.LinInterp, sorted, nil)
	iqr := q3 - q1
	lo, hi := q1-1.5*iqr, q3+1.5*iqr

	kept = make([]int, 0, len(offsets))
	for i, v := range offsets {
		if v >= lo && v <= hi {
			kept = append(kept, i)
		}
	}
	if removed := len(offsets) - len(kept); removed*2 > len(offsets) {
		kept = kept[:0]
		for i := range offsets {
			kept = append(kept, i)
		}
		return kept, true
	}
	return kept, false
}

// critical returns the two-sided critical value for the given sample
// size and confidence level.
func critical(n int, level float64) float64 {
	p := 1 - (1-level)/2
	if n >= 30 {
		return distuv.UnitNormal.Quantile(p)
	}
	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 1)}
	return t.Quantile(p)
}
