package model

import (
	"fmt"
	"time"
)

// Observation is a single historical stop visit: one vehicle on one
// trip instance arriving at and departing from one stop.
type Observation struct {
	TripID    string
	StopID    string
	Direction string
	DeviceID  string

	Arrival      time.Time // wall-clock arrival at the stop
	Departure    time.Time // wall-clock departure from the stop
	DwellSeconds float64   // time spent serving the stop, in seconds
}

// Validate checks that the observation is usable for pattern matching.
// Identifiers must be present and the timestamps must be ordered.
func (o Observation) Validate() error {
	if o.TripID == "" {
		return fmt.Errorf("trip id must not be empty")
	}
	if o.StopID == "" {
		return fmt.Errorf("stop id must not be empty")
	}
	if o.Arrival.IsZero() {
		return fmt.Errorf("arrival time must be set")
	}
	if !o.Departure.IsZero() && o.Departure.Before(o.Arrival) {
		return fmt.Errorf("departure %s precedes arrival %s",
			o.Departure.Format(time.RFC3339), o.Arrival.Format(time.RFC3339))
	}
	if o.DwellSeconds < 0 {
		return fmt.Errorf("dwell seconds must not be negative")
	}
	return nil
}

// ServiceDate returns the calendar day the observation belongs to,
// truncated to midnight in the arrival's location.
func (o Observation) ServiceDate() time.Time {
	y, m, d := o.Arrival.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, o.Arrival.Location())
}
