package model

// FallbackLevel records how far pattern matching had to relax its
// predicate before enough observations matched. Lower is stricter.
type FallbackLevel int

const (
	// FallbackNone matches the exact day of week and time bucket.
	FallbackNone FallbackLevel = iota
	// FallbackDayClass relaxes the day to its weekday/weekend class.
	FallbackDayClass
	// FallbackTimeOnly keeps the time bucket and ignores the day.
	FallbackTimeOnly
	// FallbackPartition uses every observation for the trip, stop and
	// direction regardless of context.
	FallbackPartition
)

// String returns a human-readable representation of the fallback level.
func (l FallbackLevel) String() string {
	switch l {
	case FallbackNone:
		return "exact"
	case FallbackDayClass:
		return "day_class"
	case FallbackTimeOnly:
		return "time_only"
	case FallbackPartition:
		return "partition"
	default:
		return "unknown"
	}
}
