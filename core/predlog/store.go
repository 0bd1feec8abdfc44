package predlog

import (
	"context"
	"time"

	"github.com/ridepulse/eta/core/model"
)

// Record captures one answered prediction request.
type Record struct {
	Timestamp  time.Time        `json:"timestamp"`
	TripID     string           `json:"trip_id"`
	StopID     string           `json:"stop_id"`
	Source     string           `json:"source"`
	Prediction model.Prediction `json:"prediction"`
	Err        string           `json:"error,omitempty"`
	DurationMS float64          `json:"duration_ms"`
}

// Query defines filters for retrieving records.
type Query struct {
	Start             time.Time
	End               time.Time
	TripID            string
	StopID            string
	LowConfidenceOnly bool
}

func (q Query) matches(r Record) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.TripID != "" && r.TripID != q.TripID {
		return false
	}
	if q.StopID != "" && r.StopID != q.StopID {
		return false
	}
	if q.LowConfidenceOnly && !r.Prediction.LowConfidence && r.Err == "" {
		return false
	}
	return true
}

// Store persists Records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

// NopStore discards records. Used when no prediction log is configured.
type NopStore struct{}

func (NopStore) Append(context.Context, Record) error { return nil }

func (NopStore) Query(context.Context, Query) ([]Record, error) { return nil, nil }

func (NopStore) Close() error { return nil }
