package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"fleetsim/model"
	"fleetsim/router"
	"fleetsim/sim"
	"fleetsim/sink"
)

func newTestServer(t *testing.T) (*Server, *model.MemoryRecorder) {
	t.Helper()
	clock := model.DefaultClock()
	rec := model.NewMemoryRecorder()
	r := router.NewGridRouter(clock)
	fleet := model.NewFleet(clock, r)
	if err := fleet.Infleet(model.NewVehicle(clock, rec), model.NewGridPosition(1, 2)); err != nil {
		t.Fatalf("Infleet: %v", err)
	}

	ctx := sim.Context{
		Clock:      clock,
		Fleet:      fleet,
		Bookings:   model.NewBookingService(clock, 10),
		Dispatcher: model.NewDispatcher(),
	}
	matcher, err := sim.NewGreedyMatcher(ctx, r, 60)
	if err != nil {
		t.Fatalf("NewGreedyMatcher: %v", err)
	}

	stream := sink.NewBroadcastRecorder()
	return New(ctx, sim.NewSimulator(ctx, matcher), nil, rec, stream, Options{Addr: ":0"}), rec
}

func TestHandleHealth(t *testing.T) {
	s, _ := newTestServer(t)

	w := httptest.NewRecorder()
	s.handleHealth(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestHandleStateReflectsSnapshot(t *testing.T) {
	s, _ := newTestServer(t)
	s.snapshot(true)

	w := httptest.NewRecorder()
	s.handleState(w, httptest.NewRequest(http.MethodGet, "/api/state", nil))

	var state stateView
	if err := json.Unmarshal(w.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !state.Running {
		t.Fatal("expected running snapshot")
	}
	if len(state.Vehicles) != 1 {
		t.Fatalf("expected 1 vehicle, got %d", len(state.Vehicles))
	}
	v := state.Vehicles[0]
	if v.State != "idling" || v.Lon != 1 || v.Lat != 2 {
		t.Fatalf("unexpected vehicle view: %+v", v)
	}
}

func TestHandleMetricsBuildsReport(t *testing.T) {
	s, rec := newTestServer(t)

	// An extra booking lifecycle in the log shows up in the metrics.
	rec.Record(model.Transition{ClockTime: 0, ObjectType: "booking", ID: "b-1", ToState: "pending"})
	rec.Record(model.Transition{ClockTime: 2, ObjectType: "booking", ID: "b-1", ToState: "pickup"})
	s.snapshot(true)

	w := httptest.NewRecorder()
	s.handleMetrics(w, httptest.NewRequest(http.MethodGet, "/api/metrics", nil))

	var report sim.Report
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.Created != 1 || report.Pickups != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.NumVehicles != 1 {
		t.Fatalf("expected the infleeted vehicle counted, got %d", report.NumVehicles)
	}
}
