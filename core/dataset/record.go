package dataset

import (
	"time"

	"github.com/ridepulse/eta/core/model"
)

// Record is an Observation enriched with its position inside the trip
// instance it was recorded on. A trip instance is one run of a trip:
// same trip id, same service date, same direction.
type Record struct {
	model.Observation

	Anchor        time.Time // first arrival of the trip instance
	OffsetSeconds float64   // arrival relative to Anchor, in seconds
	Sequence      int       // zero-based stop position within the instance
}

// Context returns the trip context of the record's instance, derived
// from its anchor.
func (r Record) Context(bucket time.Duration) model.TripContext {
	return model.ContextAt(r.Anchor, bucket)
}

type instanceKey struct {
	trip      string
	date      string
	direction string
}

func keyOf(o model.Observation) instanceKey {
	return instanceKey{
		trip:      o.TripID,
		date:      o.ServiceDate().Format("2006-01-02"),
		direction: o.Direction,
	}
}
