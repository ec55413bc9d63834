package sink

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"fleetsim/model"
)

func TestCSVRecorderWritesSemicolonRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transitions.csv")
	rec, err := NewCSVRecorder(path)
	if err != nil {
		t.Fatalf("NewCSVRecorder: %v", err)
	}

	rec.Record(model.Transition{
		ClockTime:   3,
		ObjectType:  "booking",
		ID:          "b-1",
		ItineraryID: "it-1",
		FromState:   "pending",
		ToState:     "matched",
		Lon:         13.405,
		Lat:         52.52,
	})
	rec.Record(model.Transition{
		ClockTime:  4,
		ObjectType: "vehicle",
		ID:         "v-1",
		FromState:  "moving_to",
		ToState:    "idling",
		Lon:        13.41,
		Lat:        52.51,
		Details:    map[string]any{"trip_duration": 2},
	})
	if err := rec.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.Comma = ';'
	rows, err := r.ReadAll()
	if err != nil {
		t.Fatalf("read log: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "clock_time" || rows[0][8] != "details" {
		t.Fatalf("unexpected header: %v", rows[0])
	}
	got := rows[1]
	want := []string{"3", "booking", "b-1", "it-1", "pending", "matched", "13.405", "52.52", ""}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("column %d = %q, want %q", i, got[i], want[i])
		}
	}
	if rows[2][8] != `{"trip_duration":2}` {
		t.Fatalf("unexpected details column: %q", rows[2][8])
	}
}

func TestBroadcastRecorderDeliversAndDrops(t *testing.T) {
	b := NewBroadcastRecorder()
	ch := b.Subscribe()

	b.Record(model.Transition{ObjectType: "vehicle", ToState: "idling"})
	select {
	case got := <-ch:
		if got.ToState != "idling" {
			t.Fatalf("unexpected record: %+v", got)
		}
	default:
		t.Fatal("expected a record on the subscriber channel")
	}

	// Overfill the buffer: extra records are dropped, the recorder never blocks.
	for i := 0; i < 2048; i++ {
		b.Record(model.Transition{ClockTime: i, ObjectType: "vehicle"})
	}
	if got := len(ch); got != 1024 {
		t.Fatalf("expected a full buffer of 1024, got %d", got)
	}

	b.Unsubscribe(ch)
	// Drain then observe closure.
	for range ch {
	}
	b.Record(model.Transition{ObjectType: "vehicle"}) // no subscribers left, must not panic
}
