// Package events defines the estimator events emitted on the internal
// event bus.
//
// Available event types:
//   - PredictionEvent: a prediction request was answered or rejected
//   - ReloadEvent: a dataset snapshot was loaded or replaced
package events

import (
	"time"

	"github.com/ridepulse/eta/core/dataset"
	"github.com/ridepulse/eta/core/model"
)

// PredictionEvent is published after every prediction request. Err is
// empty on success; on failure Prediction holds its zero value.
type PredictionEvent struct {
	TripID     string
	StopID     string
	Prediction model.Prediction
	Err        string
	Source     string // surface that served the request, e.g. "api" or "cli"
	Duration   time.Duration
	Time       time.Time
}

// Failed reports whether the request ended in an error.
func (e PredictionEvent) Failed() bool { return e.Err != "" }

// ReloadEvent is published when a snapshot is installed, including the
// initial load.
type ReloadEvent struct {
	Overview dataset.Overview
	Previous string // previous snapshot id, empty on first load
	Time     time.Time
}
