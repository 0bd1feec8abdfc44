package predictor

import (
	"github.com/ridepulse/eta/core/estimate"
	"github.com/ridepulse/eta/core/pattern"
)

// PartitionEstimate pairs a partition with the estimate computed over
// all of its records. Batch surfaces export these as tabular results.
type PartitionEstimate struct {
	Partition pattern.Partition `json:"partition"`

	OffsetSeconds float64 `json:"offset_seconds"`
	MarginSeconds float64 `json:"margin_seconds"`
	StdDev        float64 `json:"std_dev_seconds"`
	DwellSeconds  float64 `json:"expected_dwell_seconds"`
	SampleSize    int     `json:"sample_size"`
	Outliers      int     `json:"outliers_removed"`
}

// EstimateAll scores every partition of the snapshot using its full
// record set, ordered by trip, stop and direction. Queries that need
// context sensitivity should use Predict instead; this is the bulk
// view an operator exports to a report.
func (p *Predictor) EstimateAll() ([]PartitionEstimate, error) {
	parts := p.ix.Partitions()
	out := make([]PartitionEstimate, 0, len(parts))
	for _, part := range parts {
		recs, err := p.ix.PartitionRecords(part.TripID, part.StopID, part.Direction)
		if err != nil {
			return nil, err
		}
		est, err := estimate.FromSample(recs, p.cfg.Estimate)
		if err != nil {
			return nil, err
		}
		out = append(out, PartitionEstimate{
			Partition:     part,
			OffsetSeconds: est.OffsetSeconds,
			MarginSeconds: est.MarginSeconds,
			StdDev:        est.StdDev,
			DwellSeconds:  est.DwellSeconds,
			SampleSize:    est.SampleSize,
			Outliers:      est.Outliers,
		})
	}
	return out, nil
}
