// Command simulator generates synthetic arrival histories for feeding
// the estimator in demos and load tests. The output uses the same CSV
// schema the ingestion layer reads.
package main

import (
	"encoding/csv"
	"flag"
	"io"
	"log"
	"os"
	"strconv"
	"time"
)

func main() {
	cfg := parseFlags()
	if err := (&cfg).Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	loc := time.Local
	if cfg.Location != "" {
		var err error
		if loc, err = time.LoadLocation(cfg.Location); err != nil {
			log.Fatalf("location: %v", err)
		}
	}

	rows, err := NewGenerator(cfg, loc).Generate()
	if err != nil {
		log.Fatalf("generate: %v", err)
	}

	f, err := os.Create(cfg.Output)
	if err != nil {
		log.Fatalf("create output: %v", err)
	}
	if err := writeCSV(f, rows); err != nil {
		log.Fatalf("write output: %v", err)
	}
	if err := f.Close(); err != nil {
		log.Fatalf("close output: %v", err)
	}
	if cfg.Verbose {
		log.Printf("wrote %d rows to %s", len(rows), cfg.Output)
	}
}

func parseFlags() Config {
	var cfg Config
	flag.StringVar(&cfg.Output, "output", "arrivals.csv", "output CSV path")
	flag.IntVar(&cfg.Trips, "trips", 3, "number of trips")
	flag.IntVar(&cfg.StopsPerTrip, "stops", 12, "stops per trip")
	flag.IntVar(&cfg.Days, "days", 28, "service days to generate")
	flag.StringVar(&cfg.StartDate, "start-date", "2021-10-01", "first service date")
	flag.StringVar(&cfg.FirstRun, "first-run", "06:00:00", "departure clock of the first run")
	flag.DurationVar(&cfg.Stagger, "stagger", 10*time.Minute, "departure stagger between trips")
	flag.Float64Var(&cfg.TravelSeconds, "travel", 180, "mean travel seconds between stops")
	flag.Float64Var(&cfg.TravelJitter, "travel-jitter", 20, "travel time standard deviation")
	flag.Float64Var(&cfg.DwellSeconds, "dwell", 12, "mean dwell seconds")
	flag.Float64Var(&cfg.DwellJitter, "dwell-jitter", 4, "dwell standard deviation")
	flag.Float64Var(&cfg.WeekendFactor, "weekend-factor", 0.85, "weekend travel time factor")
	flag.BoolVar(&cfg.ReturnRuns, "return-runs", false, "generate afternoon return runs")
	flag.StringVar(&cfg.Location, "location", "", "IANA time zone of the service (defaults to local)")
	flag.Int64Var(&cfg.Seed, "seed", 0, "random seed (0 seeds from the clock)")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "enable progress logging")
	flag.Parse()
	return cfg
}

func writeCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	header := []string{
		"trip_id", "deviceid", "direction", "bus_stop",
		"date", "arrival_time", "departure_time", "dwell_time_in_seconds",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.TripID,
			r.DeviceID,
			r.Direction,
			r.StopID,
			r.Date,
			r.Arrival.Format("15:04:05"),
			r.Departure.Format("15:04:05"),
			strconv.FormatFloat(r.Dwell, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
