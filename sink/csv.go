// Package sink provides transition-record sinks: semicolon-separated CSV
// files, an embedded SQLite store, and an in-process broadcast hub feeding
// live consumers such as the websocket server.
package sink

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"fleetsim/model"
)

// csvHeader is the column order log consumers rely on.
var csvHeader = []string{
	"clock_time", "object_type", "uuid", "itinerary_id",
	"from_state", "to_state", "lon", "lat", "details",
}

// CSVRecorder appends one semicolon-separated line per transition to a file.
type CSVRecorder struct {
	f *os.File
	w *csv.Writer
}

// NewCSVRecorder creates (truncating) the log file and writes the header.
func NewCSVRecorder(path string) (*CSVRecorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create transition log: %w", err)
	}
	w := csv.NewWriter(f)
	w.Comma = ';'
	if err := w.Write(csvHeader); err != nil {
		f.Close()
		return nil, fmt.Errorf("write transition log header: %w", err)
	}
	return &CSVRecorder{f: f, w: w}, nil
}

func (c *CSVRecorder) Record(t model.Transition) {
	details := ""
	if len(t.Details) > 0 {
		if b, err := json.Marshal(t.Details); err == nil {
			details = string(b)
		}
	}
	// Write errors surface on Close via the writer's sticky error.
	c.w.Write([]string{
		strconv.Itoa(t.ClockTime),
		t.ObjectType,
		t.ID,
		t.ItineraryID,
		t.FromState,
		t.ToState,
		strconv.FormatFloat(t.Lon, 'f', -1, 64),
		strconv.FormatFloat(t.Lat, 'f', -1, 64),
		details,
	})
}

// Close flushes buffered records and closes the file.
func (c *CSVRecorder) Close() error {
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		c.f.Close()
		return fmt.Errorf("flush transition log: %w", err)
	}
	return c.f.Close()
}
