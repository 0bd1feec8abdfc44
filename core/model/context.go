package model

import "time"

// DayClass groups days of the week for relaxed pattern matching.
type DayClass int

const (
	Weekday DayClass = iota
	Weekend
)

// ClassOf maps a weekday to its day class.
func ClassOf(d time.Weekday) DayClass {
	if d == time.Saturday || d == time.Sunday {
		return Weekend
	}
	return Weekday
}

// String returns a human-readable representation of the day class.
func (c DayClass) String() string {
	switch c {
	case Weekday:
		return "weekday"
	case Weekend:
		return "weekend"
	default:
		return "unknown"
	}
}

// TripContext captures when a trip instance runs: the day of week and
// the time-of-day bucket of its reference timestamp. Two instances
// with equal contexts are considered comparable traffic conditions.
type TripContext struct {
	Day    time.Weekday
	Bucket int
}

// Class returns the day class of the context.
func (c TripContext) Class() DayClass {
	return ClassOf(c.Day)
}

// ContextAt derives the trip context from a reference timestamp.
// Buckets index the day in slices of the given width starting at
// midnight; a non-positive width falls back to one hour.
func ContextAt(ref time.Time, width time.Duration) TripContext {
	if width <= 0 {
		width = time.Hour
	}
	minutes := ref.Hour()*60 + ref.Minute()
	return TripContext{
		Day:    ref.Weekday(),
		Bucket: minutes / int(width.Minutes()),
	}
}
