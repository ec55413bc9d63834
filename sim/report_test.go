package sim

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fleetsim/model"
)

func TestBuildReportAggregatesTransitions(t *testing.T) {
	clock := model.DefaultClock()

	transitions := []model.Transition{
		{ClockTime: 0, ObjectType: "vehicle", ID: "v1", FromState: "offline", ToState: "idling"},
		{ClockTime: 0, ObjectType: "vehicle", ID: "v2", FromState: "offline", ToState: "idling"},

		{ClockTime: 0, ObjectType: "booking", ID: "b1", FromState: "", ToState: "pending"},
		{ClockTime: 3, ObjectType: "booking", ID: "b1", FromState: "waiting_pickup", ToState: "pickup"},
		{ClockTime: 7, ObjectType: "booking", ID: "b1", FromState: "waiting_dropoff", ToState: "dropoff"},
		{ClockTime: 7, ObjectType: "booking", ID: "b1", FromState: "dropoff", ToState: "complete"},

		{ClockTime: 1, ObjectType: "booking", ID: "b2", FromState: "", ToState: "pending"},
		{ClockTime: 12, ObjectType: "booking", ID: "b2", FromState: "pending", ToState: "expired"},

		{ClockTime: 5, ObjectType: "vehicle", ID: "v1", FromState: "moving_to", ToState: "idling",
			Details: map[string]any{"trip_distance": 2.5, "trip_duration": 3}},
		{ClockTime: 9, ObjectType: "vehicle", ID: "v1", FromState: "moving_to", ToState: "idling",
			Details: map[string]any{"trip_distance": 4.0, "trip_duration": 4}},
	}

	r := BuildReport(transitions, clock)
	if r.NumVehicles != 2 {
		t.Fatalf("expected 2 vehicles, got %d", r.NumVehicles)
	}
	if r.Created != 2 || r.Pickups != 1 || r.Dropoffs != 1 || r.Expired != 1 {
		t.Fatalf("unexpected counts: %+v", r)
	}
	if r.PickupRate != 50 {
		t.Fatalf("expected 50%% pickup rate, got %v", r.PickupRate)
	}
	if want := clock.ClockTimeToSeconds(3); r.AvgWaitingTime != want {
		t.Fatalf("expected waiting time %v s, got %v", want, r.AvgWaitingTime)
	}
	if want := clock.ClockTimeToSeconds(4); r.AvgTripTime != want {
		t.Fatalf("expected trip time %v s, got %v", want, r.AvgTripTime)
	}
	if r.TotalDistance != 6.5 {
		t.Fatalf("expected 6.5 km total, got %v", r.TotalDistance)
	}
}

func TestBuildReportEmpty(t *testing.T) {
	r := BuildReport(nil, model.DefaultClock())
	if r.Created != 0 || r.PickupRate != 0 || r.AvgWaitingTime != 0 {
		t.Fatalf("expected zero report, got %+v", r)
	}
}

func TestReportWriteCSVAppendsWithHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	r := Report{NumVehicles: 3, Created: 10, Pickups: 8, Dropoffs: 7, Expired: 2, PickupRate: 80}

	if err := r.WriteCSV(path); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if err := r.WriteCSV(path); err != nil {
		t.Fatalf("second WriteCSV: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "timestamp,num_vehicles") {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], ",3,10,8,7,2,80.00,") {
		t.Fatalf("unexpected row: %q", lines[1])
	}
}
