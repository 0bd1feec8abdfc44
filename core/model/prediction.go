package model

import "time"

// Prediction is the outcome of a single arrival estimate. Offsets are
// measured in seconds from the start of the trip instance. Absolute
// timestamps are filled in only when an anchor was known for the
// query; they stay zero otherwise.
type Prediction struct {
	TripID    string `json:"trip_id"`
	StopID    string `json:"stop_id"`
	Direction string `json:"direction"`

	OffsetSeconds float64 `json:"offset_seconds"`
	LowSeconds    float64 `json:"interval_low_seconds"`
	HighSeconds   float64 `json:"interval_high_seconds"`

	Anchor      time.Time `json:"anchor"`
	Arrival     time.Time `json:"arrival"`
	ArrivalLow  time.Time `json:"arrival_low"`
	ArrivalHigh time.Time `json:"arrival_high"`

	DwellSeconds float64 `json:"expected_dwell_seconds"`
	StdDev       float64 `json:"std_dev_seconds"`

	SampleSize    int           `json:"sample_size"`
	Outliers      int           `json:"outliers_removed"`
	Fallback      FallbackLevel `json:"fallback_level"`
	Confidence    float64       `json:"confidence_level"`
	LowConfidence bool          `json:"low_confidence"`

	GeneratedAt time.Time `json:"generated_at"`
}

// Anchored reports whether the prediction carries absolute timestamps.
func (p Prediction) Anchored() bool {
	return !p.Anchor.IsZero()
}

// WidthSeconds returns the width of the prediction interval.
func (p Prediction) WidthSeconds() float64 {
	return p.HighSeconds - p.LowSeconds
}
