package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ridepulse/eta/core/model"
	"github.com/ridepulse/eta/infra/logger"
)

// Column names of the arrival archive export.
const (
	colTrip      = "trip_id"
	colDevice    = "deviceid"
	colDirection = "direction"
	colStop      = "bus_stop"
	colDate      = "date"
	colArrival   = "arrival_time"
	colDeparture = "departure_time"
	colDwell     = "dwell_time_in_seconds"
)

const timestampLayout = "2006-01-02 15:04:05"

// dwellTolerance absorbs rounding between the dwell column and the
// departure/arrival difference, in seconds.
const dwellTolerance = 1.5

// ErrNoValidRows is returned when a file yields no usable observation.
var ErrNoValidRows = errors.New("no valid observations in file")

// RowError reports a CSV line rejected during ingestion.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

func (e RowError) Unwrap() error { return e.Err }

// row carries one CSV line before conversion to a model.Observation.
type row struct {
	TripID    string `validate:"required"`
	DeviceID  string `validate:"required"`
	Direction string `validate:"required"`
	StopID    string `validate:"required"`
	Date      string `validate:"required,datetime=2006-01-02"`
	Arrival   string `validate:"required,datetime=15:04:05"`
	Departure string `validate:"omitempty,datetime=15:04:05"`
	Dwell     string `validate:"omitempty,numeric"`
}

// Reader loads historical arrival observations from the CSV export of the
// vehicle location archive.
type Reader struct {
	loc      *time.Location
	strict   bool
	validate *validator.Validate
	log      logger.Logger
}

// NewReader builds a reader parsing clock times in the named location.
// An empty location means local time. In strict mode the first bad row
// fails the load; otherwise bad rows are logged and skipped.
func NewReader(location string, strict bool) (*Reader, error) {
	loc := time.Local
	if location != "" {
		var err error
		loc, err = time.LoadLocation(location)
		if err != nil {
			return nil, fmt.Errorf("load location %q: %w", location, err)
		}
	}
	return &Reader{
		loc:      loc,
		strict:   strict,
		validate: validator.New(),
		log:      logger.New("ingest"),
	}, nil
}

// Load reads observations from the CSV file at path.
func (r *Reader) Load(path string) ([]model.Observation, []RowError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = f.Close() }()
	return r.Read(f)
}

// Read parses CSV content. Malformed rows are collected as RowErrors and
// skipped; the load fails when no row survives.
func (r *Reader) Read(src io.Reader) ([]model.Observation, []RowError, error) {
	cr := csv.NewReader(src)
	cr.TrimLeadingSpace = true
	head, err := cr.Read()
	if err == io.EOF {
		return nil, nil, ErrNoValidRows
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := headerIndex(head)
	if err != nil {
		return nil, nil, err
	}

	var (
		obs     []model.Observation
		rowErrs []RowError
		line    = 1
	)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err == nil {
			var o model.Observation
			if o, err = r.convert(record, cols); err == nil {
				obs = append(obs, o)
				continue
			}
		}
		re := RowError{Line: line, Err: err}
		if r.strict {
			return nil, []RowError{re}, re
		}
		rowErrs = append(rowErrs, re)
	}
	if len(obs) == 0 {
		return nil, rowErrs, fmt.Errorf("%d rows rejected: %w", len(rowErrs), ErrNoValidRows)
	}
	for _, re := range rowErrs {
		r.log.Warnf("skipping %v", re)
	}
	return obs, rowErrs, nil
}

func headerIndex(head []string) (map[string]int, error) {
	idx := make(map[string]int, len(head))
	for i, h := range head {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	var missing []string
	for _, c := range []string{colTrip, colDevice, colDirection, colStop, colDate, colArrival, colDeparture, colDwell} {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

func (r *Reader) convert(record []string, cols map[string]int) (model.Observation, error) {
	get := func(name string) string {
		i := cols[name]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	raw := row{
		TripID:    get(colTrip),
		DeviceID:  get(colDevice),
		Direction: get(colDirection),
		StopID:    get(colStop),
		Date:      get(colDate),
		Arrival:   get(colArrival),
		Departure: get(colDeparture),
		Dwell:     get(colDwell),
	}
	if err := r.validate.Struct(raw); err != nil {
		return model.Observation{}, err
	}
	arrival, err := time.ParseInLocation(timestampLayout, raw.Date+" "+raw.Arrival, r.loc)
	if err != nil {
		return model.Observation{}, fmt.Errorf("arrival: %w", err)
	}
	var departure time.Time
	if raw.Departure != "" {
		departure, err = time.ParseInLocation(timestampLayout, raw.Date+" "+raw.Departure, r.loc)
		if err != nil {
			return model.Observation{}, fmt.Errorf("departure: %w", err)
		}
		if departure.Before(arrival) {
			return model.Observation{}, fmt.Errorf("departure %s before arrival %s", raw.Departure, raw.Arrival)
		}
	}
	dwell := math.NaN()
	if raw.Dwell != "" {
		dwell, err = strconv.ParseFloat(raw.Dwell, 64)
		if err != nil {
			return model.Observation{}, fmt.Errorf("dwell: %w", err)
		}
		if dwell < 0 {
			return model.Observation{}, fmt.Errorf("negative dwell %v", dwell)
		}
	}
	// Reconcile the dwell column against the departure/arrival gap.
	if !departure.IsZero() {
		measured := departure.Sub(arrival).Seconds()
		switch {
		case math.IsNaN(dwell):
			dwell = measured
		case math.Abs(dwell-measured) > dwellTolerance:
			return model.Observation{}, fmt.Errorf("dwell %v disagrees with departure-arrival gap %v", dwell, measured)
		}
	} else if math.IsNaN(dwell) {
		dwell = 0
	}

	o := model.Observation{
		TripID:       raw.TripID,
		StopID:       raw.StopID,
		Direction:    raw.Direction,
		DeviceID:     raw.DeviceID,
		Arrival:      arrival,
		Departure:    departure,
		DwellSeconds: dwell,
	}
	if err := o.Validate(); err != nil {
		return model.Observation{}, err
	}
	return o, nil
}
