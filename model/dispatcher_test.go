package model

import (
	"errors"
	"testing"
)

func TestDispatcherAssignsAndPrunes(t *testing.T) {
	clock := DefaultClock()
	d := NewDispatcher()
	at := NewGridPosition(0, 0)
	v := newTestVehicle(t, clock, NopRecorder{}, at)
	b := newTestBooking(clock, NopRecorder{}, at, at)

	it := BasicBookingItinerary(clock.Now(), v, b, NoETA, NoETA)

	if got := d.GetItinerary(v); got != nil {
		t.Fatalf("expected no itinerary before dispatch, got %v", got)
	}
	// Everything is colocated so the whole itinerary completes in one step
	// and the assignment is pruned.
	if err := d.Step([]*Itinerary{it}); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if !b.IsComplete() {
		t.Fatalf("expected booking complete, got %s", b.State())
	}
	if got := d.GetItinerary(v); got != nil {
		t.Fatalf("expected completed itinerary pruned, got %v", got)
	}
	if len(d.Itineraries()) != 0 {
		t.Fatalf("expected no active itineraries, got %d", len(d.Itineraries()))
	}
}

func TestDispatcherRejectsBusyVehicle(t *testing.T) {
	clock := DefaultClock()
	d := NewDispatcher()
	v := newTestVehicle(t, clock, NopRecorder{}, NewGridPosition(0, 0))
	b := newTestBooking(clock, NopRecorder{}, NewGridPosition(5, 0), NewGridPosition(9, 0))

	if err := d.Dispatch(BasicBookingItinerary(clock.Now(), v, b, NoETA, NoETA)); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	b2 := newTestBooking(clock, NopRecorder{}, NewGridPosition(1, 0), NewGridPosition(2, 0))
	err := d.Dispatch(BasicBookingItinerary(clock.Now(), v, b2, NoETA, NoETA))
	if !errors.Is(err, ErrVehicleBusy) {
		t.Fatalf("expected ErrVehicleBusy, got %v", err)
	}
}

func TestDispatcherCancelItinerary(t *testing.T) {
	clock := DefaultClock()
	d := NewDispatcher()
	v := newTestVehicle(t, clock, NopRecorder{}, NewGridPosition(0, 0))
	b := newTestBooking(clock, NopRecorder{}, NewGridPosition(5, 0), NewGridPosition(9, 0))

	if err := d.CancelItinerary(v); !errors.Is(err, ErrNoItinerary) {
		t.Fatalf("expected ErrNoItinerary, got %v", err)
	}

	it := BasicBookingItinerary(clock.Now(), v, b, NoETA, NoETA)
	if err := d.Step([]*Itinerary{it}); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if !v.IsMoving() {
		t.Fatal("vehicle should be en route after the first step")
	}

	if err := d.CancelItinerary(v); err != nil {
		t.Fatalf("CancelItinerary: %v", err)
	}
	if !v.IsOffline() {
		t.Fatalf("expected vehicle stopped, got %s", v.State())
	}
	if got := d.GetItinerary(v); got != nil {
		t.Fatalf("expected assignment removed, got %v", got)
	}
}

func TestDispatcherStepRunsInAssignmentOrder(t *testing.T) {
	clock := DefaultClock()
	rec := NewMemoryRecorder()
	d := NewDispatcher()
	at := NewGridPosition(0, 0)

	v1 := newTestVehicle(t, clock, NopRecorder{}, at)
	v2 := newTestVehicle(t, clock, NopRecorder{}, at)
	b1 := newTestBooking(clock, rec, at, at)
	b2 := newTestBooking(clock, rec, at, at)

	its := []*Itinerary{
		BasicBookingItinerary(clock.Now(), v1, b1, NoETA, NoETA),
		BasicBookingItinerary(clock.Now(), v2, b2, NoETA, NoETA),
	}
	if err := d.Step(its); err != nil {
		t.Fatalf("Step: %v", err)
	}

	// Completion records must come out in dispatch order.
	var completed []string
	for _, tr := range rec.Transitions {
		if tr.ToState == "complete" {
			completed = append(completed, tr.ID)
		}
	}
	if len(completed) != 2 || completed[0] != b1.ID || completed[1] != b2.ID {
		t.Fatalf("unexpected completion order: %v", completed)
	}
}
