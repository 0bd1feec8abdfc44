package main

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// Row is one generated stop visit in dataset column order.
type Row struct {
	TripID    string
	DeviceID  string
	Direction string
	StopID    string
	Date      string
	Arrival   time.Time
	Departure time.Time
	Dwell     float64
}

// Generator produces synthetic arrival histories. Travel and dwell
// times are drawn from normal distributions around the configured
// means; weekends scale travel by the weekend factor.
type Generator struct {
	cfg Config
	rng *rand.Rand
	loc *time.Location
}

// NewGenerator seeds the generator from the configuration. A zero seed
// uses the clock.
func NewGenerator(cfg Config, loc *time.Location) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(seed)), loc: loc}
}

// Generate produces rows for every trip on every service day, ordered
// by day, trip and stop sequence.
func (g *Generator) Generate() ([]Row, error) {
	start, err := time.ParseInLocation("2006-01-02", g.cfg.StartDate, g.loc)
	if err != nil {
		return nil, fmt.Errorf("parse start date: %w", err)
	}
	first, err := time.Parse("15:04:05", g.cfg.FirstRun)
	if err != nil {
		return nil, fmt.Errorf("parse first run: %w", err)
	}

	var rows []Row
	for d := 0; d < g.cfg.Days; d++ {
		day := start.AddDate(0, 0, d)
		factor := 1.0
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			factor = g.cfg.WeekendFactor
		}
		for t := 0; t < g.cfg.Trips; t++ {
			dep := time.Date(day.Year(), day.Month(), day.Day(),
				first.Hour(), first.Minute(), first.Second(), 0, g.loc).
				Add(time.Duration(t) * g.cfg.Stagger)
			rows = append(rows, g.run(t, dep, "UP", false, factor)...)
			if g.cfg.ReturnRuns {
				// Return runs leave two hours after the outbound one.
				rows = append(rows, g.run(t, dep.Add(2*time.Hour), "DOWN", true, factor)...)
			}
		}
	}
	return rows, nil
}

// run generates one trip instance. reverse walks the stop sequence
// backwards for return runs.
func (g *Generator) run(trip int, dep time.Time, direction string, reverse bool, factor float64) []Row {
	rows := make([]Row, 0, g.cfg.StopsPerTrip)
	tripID := fmt.Sprintf("%d", trip+1)
	device := fmt.Sprintf("bus-%03d", trip+1)
	at := dep
	for s := 0; s < g.cfg.StopsPerTrip; s++ {
		stop := s
		if reverse {
			stop = g.cfg.StopsPerTrip - 1 - s
		}
		if s > 0 {
			travel := (g.cfg.TravelSeconds + g.rng.NormFloat64()*g.cfg.TravelJitter) * factor
			if travel < 1 {
				travel = 1
			}
			at = at.Add(time.Duration(travel * float64(time.Second)))
		}
		// Whole seconds keep the dwell column consistent with the
		// second-resolution clocks in the CSV.
		dwell := math.Round(g.cfg.DwellSeconds + g.rng.NormFloat64()*g.cfg.DwellJitter)
		if dwell < 0 {
			dwell = 0
		}
		rows = append(rows, Row{
			TripID:    tripID,
			DeviceID:  device,
			Direction: direction,
			StopID:    fmt.Sprintf("%d", 100+stop+1),
			Date:      at.Format("2006-01-02"),
			Arrival:   at,
			Departure: at.Add(time.Duration(dwell) * time.Second),
			Dwell:     dwell,
		})
		at = at.Add(time.Duration(dwell) * time.Second)
	}
	return rows
}
