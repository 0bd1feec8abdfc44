package main

import (
	"fmt"
	"time"
)

// Config holds the generator parameters.
type Config struct {
	Output        string
	Trips         int
	StopsPerTrip  int
	Days          int
	StartDate     string
	FirstRun      string
	Stagger       time.Duration
	TravelSeconds float64
	TravelJitter  float64
	DwellSeconds  float64
	DwellJitter   float64
	WeekendFactor float64
	ReturnRuns    bool
	Location      string
	Seed          int64
	Verbose       bool
}

func (c *Config) Validate() error {
	if c.Output == "" {
		return fmt.Errorf("output path is required")
	}
	if c.Trips <= 0 || c.Days <= 0 {
		return fmt.Errorf("trips and days must be positive")
	}
	if c.StopsPerTrip < 2 {
		return fmt.Errorf("a trip needs at least two stops")
	}
	if c.TravelSeconds <= 0 {
		return fmt.Errorf("travel seconds must be positive")
	}
	if c.WeekendFactor <= 0 {
		c.WeekendFactor = 1
	}
	return nil
}
