package model

import (
	"github.com/google/uuid"
)

// BookingState is a stage of a trip request's lifecycle.
type BookingState string

const (
	BookingPending            BookingState = "pending"
	BookingMatched            BookingState = "matched"
	BookingWaitingPickup      BookingState = "waiting_pickup"
	BookingPickup             BookingState = "pickup"
	BookingWaitingDropoff     BookingState = "waiting_dropoff"
	BookingDropoff            BookingState = "dropoff"
	BookingComplete           BookingState = "complete"
	BookingExpired            BookingState = "expired"
	BookingCustomerCanceled   BookingState = "customer_canceled"
	BookingDispatcherCanceled BookingState = "dispatcher_canceled"
)

// bookingSources maps each target state to the source states allowed to
// reach it. Transitions are strictly forward along the lifecycle graph;
// expiry is reachable only from pending.
var bookingSources = map[BookingState][]BookingState{
	BookingMatched:            {BookingPending},
	BookingWaitingPickup:      {BookingMatched},
	BookingPickup:             {BookingWaitingPickup},
	BookingWaitingDropoff:     {BookingPickup},
	BookingDropoff:            {BookingWaitingDropoff},
	BookingComplete:           {BookingDropoff},
	BookingExpired:            {BookingPending},
	BookingCustomerCanceled:   {BookingPending, BookingMatched, BookingWaitingPickup},
	BookingDispatcherCanceled: {BookingPending, BookingMatched, BookingWaitingPickup},
}

// Booking is one customer trip request and its lifecycle state machine:
//
//	pending -> matched -> waiting_pickup -> pickup
//	        -> waiting_dropoff -> dropoff -> complete
//
// with side exits to expired (from pending only) and the two cancellation
// states. Invoking a setter whose required source state does not match the
// current state fails with InvalidTransitionError.
type Booking struct {
	ID          string
	Pickup      Position
	Dropoff     Position
	Seats       int
	Preferences map[string]string
	CreatedAt   int

	clock *Clock
	rec   Recorder
	state BookingState
}

// NewBooking creates a pending booking and records its creation.
func NewBooking(clock *Clock, rec Recorder, pickup, dropoff Position, seats int, preferences map[string]string) *Booking {
	b := &Booking{
		ID:          uuid.NewString(),
		Pickup:      pickup,
		Dropoff:     dropoff,
		Seats:       seats,
		Preferences: preferences,
		CreatedAt:   clock.Now(),
		clock:       clock,
		rec:         rec,
		state:       BookingPending,
	}
	dlon, dlat := dropoff.Coords()
	b.emit("", BookingPending, nil, map[string]any{
		"dropoff_lon": dlon,
		"dropoff_lat": dlat,
		"seats":       seats,
	})
	return b
}

// State returns the current lifecycle state.
func (b *Booking) State() BookingState { return b.state }

func (b *Booking) IsPending() bool            { return b.state == BookingPending }
func (b *Booking) IsMatched() bool            { return b.state == BookingMatched }
func (b *Booking) IsWaitingPickup() bool      { return b.state == BookingWaitingPickup }
func (b *Booking) IsPickup() bool             { return b.state == BookingPickup }
func (b *Booking) IsWaitingDropoff() bool     { return b.state == BookingWaitingDropoff }
func (b *Booking) IsDropoff() bool            { return b.state == BookingDropoff }
func (b *Booking) IsComplete() bool           { return b.state == BookingComplete }
func (b *Booking) IsExpired() bool            { return b.state == BookingExpired }
func (b *Booking) IsCustomerCanceled() bool   { return b.state == BookingCustomerCanceled }
func (b *Booking) IsDispatcherCanceled() bool { return b.state == BookingDispatcherCanceled }

func (b *Booking) SetMatched(itinerary *Itinerary) error {
	return b.transition(BookingMatched, itinerary)
}

func (b *Booking) SetWaitingPickup(itinerary *Itinerary) error {
	return b.transition(BookingWaitingPickup, itinerary)
}

func (b *Booking) SetPickup(itinerary *Itinerary) error {
	return b.transition(BookingPickup, itinerary)
}

func (b *Booking) SetWaitingDropoff(itinerary *Itinerary) error {
	return b.transition(BookingWaitingDropoff, itinerary)
}

func (b *Booking) SetDropoff(itinerary *Itinerary) error {
	return b.transition(BookingDropoff, itinerary)
}

func (b *Booking) SetComplete(itinerary *Itinerary) error {
	return b.transition(BookingComplete, itinerary)
}

// SetExpired marks an unmatched booking as timed out.
func (b *Booking) SetExpired() error { return b.transition(BookingExpired, nil) }

func (b *Booking) SetCustomerCanceled(itinerary *Itinerary) error {
	return b.transition(BookingCustomerCanceled, itinerary)
}

func (b *Booking) SetDispatcherCanceled(itinerary *Itinerary) error {
	return b.transition(BookingDispatcherCanceled, itinerary)
}

func (b *Booking) transition(to BookingState, itinerary *Itinerary) error {
	allowed := false
	for _, src := range bookingSources[to] {
		if b.state == src {
			allowed = true
			break
		}
	}
	if !allowed {
		return &InvalidTransitionError{ObjectType: "booking", ID: b.ID,
			From: string(b.state), To: string(to)}
	}
	from := b.state
	b.state = to
	b.emit(from, to, itinerary, nil)
	return nil
}

// logPosition is the booking's current relevant position for observability:
// the pickup position before the dropoff phase, the dropoff position at and
// after it.
func (b *Booking) logPosition(state BookingState) Position {
	if state == BookingDropoff || state == BookingComplete {
		return b.Dropoff
	}
	return b.Pickup
}

func (b *Booking) emit(from, to BookingState, itinerary *Itinerary, details map[string]any) {
	itineraryID := ""
	if itinerary != nil {
		itineraryID = itinerary.ID
	}
	lon, lat := b.logPosition(to).Coords()
	record(b.rec, Transition{
		ClockTime:   b.clock.Now(),
		ObjectType:  "booking",
		ID:          b.ID,
		ItineraryID: itineraryID,
		FromState:   string(from),
		ToState:     string(to),
		Lon:         lon,
		Lat:         lat,
		Details:     details,
	})
}
