package scenarios

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ridepulse/eta/core/model"
)

const timeLayout = "2006-01-02 15:04:05"

// ObservationDef is one historical stop visit in scenario form. Times
// are a calendar date plus a wall clock so files stay readable.
type ObservationDef struct {
	Trip      string  `yaml:"trip"`
	Stop      string  `yaml:"stop"`
	Direction string  `yaml:"direction"`
	Date      string  `yaml:"date"`
	Arrival   string  `yaml:"arrival"`
	Dwell     float64 `yaml:"dwell_seconds,omitempty"`
}

func (o ObservationDef) ToModel(loc *time.Location) (model.Observation, error) {
	at, err := time.ParseInLocation(timeLayout, o.Date+" "+o.Arrival, loc)
	if err != nil {
		return model.Observation{}, err
	}
	return model.Observation{
		TripID:       o.Trip,
		StopID:       o.Stop,
		Direction:    o.Direction,
		Arrival:      at,
		DwellSeconds: o.Dwell,
	}, nil
}

// Expected describes the asserted outcome of one query.
type Expected struct {
	OffsetSeconds float64 `yaml:"offset_seconds"`
	Fallback      string  `yaml:"fallback"`
	LowConfidence bool    `yaml:"low_confidence"`
	SampleSize    int     `yaml:"sample_size,omitempty"`
}

// QueryDef is one prediction request plus its expected outcome. Error
// queries assert rejection instead of an estimate.
type QueryDef struct {
	Trip      string   `yaml:"trip"`
	Stop      string   `yaml:"stop"`
	Direction string   `yaml:"direction,omitempty"`
	At        string   `yaml:"at"`
	Error     bool     `yaml:"error,omitempty"`
	Expected  Expected `yaml:"expected"`
}

type Scenario struct {
	Name          string           `yaml:"name"`
	Description   string           `yaml:"description,omitempty"`
	Location      string           `yaml:"location,omitempty"`
	BucketMinutes int              `yaml:"bucket_minutes,omitempty"`
	MinSamples    int              `yaml:"min_samples,omitempty"`
	Observations  []ObservationDef `yaml:"observations"`
	Queries       []QueryDef       `yaml:"queries"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

func parseFallback(s string) model.FallbackLevel {
	switch s {
	case "exact":
		return model.FallbackNone
	case "day_class":
		return model.FallbackDayClass
	case "time_only":
		return model.FallbackTimeOnly
	case "partition":
		return model.FallbackPartition
	default:
		return model.FallbackNone
	}
}
