package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/ridepulse/eta/core/predictor"
)

// WriteJSON writes the partition estimates to w as a JSON array.
func WriteJSON(w io.Writer, entries []predictor.PartitionEstimate) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

// WriteCSV writes the partition estimates to w in CSV format with a
// header row. Offsets and margins are emitted with full precision so
// downstream tooling can round as it sees fit.
func WriteCSV(w io.Writer, entries []predictor.PartitionEstimate) error {
	cw := csv.NewWriter(w)
	header := []string{
		"trip_id",
		"stop_id",
		"direction",
		"observations",
		"offset_seconds",
		"margin_seconds",
		"std_dev_seconds",
		"expected_dwell_seconds",
		"sample_size",
		"outliers_removed",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, e := range entries {
		rec := []string{
			e.Partition.TripID,
			e.Partition.StopID,
			e.Partition.Direction,
			strconv.Itoa(e.Partition.Observations),
			strconv.FormatFloat(e.OffsetSeconds, 'f', -1, 64),
			strconv.FormatFloat(e.MarginSeconds, 'f', -1, 64),
			strconv.FormatFloat(e.StdDev, 'f', -1, 64),
			strconv.FormatFloat(e.DwellSeconds, 'f', -1, 64),
			strconv.Itoa(e.SampleSize),
			strconv.Itoa(e.Outliers),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
