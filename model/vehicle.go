package model

import (
	"fmt"

	"github.com/google/uuid"
)

// VehicleState is a behavioral state of a vehicle.
type VehicleState string

const (
	VehicleOffline  VehicleState = "offline"
	VehicleIdling   VehicleState = "idling"
	VehicleMovingTo VehicleState = "moving_to"
)

// StopReason explains why a vehicle is taken offline.
type StopReason string

const (
	// StopReasonSystem is the simulation-level stop used at teardown. It is
	// always allowed, including mid-trip.
	StopReasonSystem StopReason = "stop"
	// StopReasonOffDuty is a voluntary stop; disallowed mid-trip.
	StopReasonOffDuty StopReason = "off_duty"
)

// Vehicle is the behavioral state machine wrapped around a VehicleEngine.
// The engine does the physical math; the vehicle derives its public state
// from engine motion status and emits a transition record per state change.
//
// A vehicle is created offline and becomes idling once an engine is
// installed, exactly once.
type Vehicle struct {
	ID string

	clock *Clock
	rec   Recorder

	engine *VehicleEngine
	state  VehicleState

	createdAt int
}

// NewVehicle creates an offline vehicle without an engine.
func NewVehicle(clock *Clock, rec Recorder) *Vehicle {
	return &Vehicle{
		ID:        uuid.NewString(),
		clock:     clock,
		rec:       rec,
		state:     VehicleOffline,
		createdAt: clock.Now(),
	}
}

// State returns the current behavioral state.
func (v *Vehicle) State() VehicleState { return v.state }

// CreatedAt returns the clock time the vehicle was created.
func (v *Vehicle) CreatedAt() int { return v.createdAt }

// Engine returns the installed engine, nil before installation.
func (v *Vehicle) Engine() *VehicleEngine { return v.engine }

// IsOffline reports whether the vehicle is out of the fleet.
func (v *Vehicle) IsOffline() bool { return v.state == VehicleOffline }

// IsIdling reports whether the vehicle is online and standing still.
func (v *Vehicle) IsIdling() bool { return v.state == VehicleIdling }

// IsMoving reports whether the engine is mid-trip.
func (v *Vehicle) IsMoving() bool { return v.engine != nil && v.engine.IsMoving() }

// Position returns the vehicle's live position, nil before an engine is
// installed.
func (v *Vehicle) Position() Position {
	if v.engine == nil {
		return nil
	}
	return v.engine.CurrentPosition()
}

// Destination returns the active trip destination, nil when not moving.
func (v *Vehicle) Destination() Position {
	if v.engine == nil {
		return nil
	}
	return v.engine.Destination()
}

// ETA returns the engine's time of arrival (the current time when idle).
func (v *Vehicle) ETA() (int, error) {
	if v.engine == nil {
		return 0, ErrNoEngine
	}
	return v.engine.ETA(), nil
}

// InstallEngine gives the vehicle its engine and brings it online. Installing
// twice is an error.
func (v *Vehicle) InstallEngine(engine *VehicleEngine) error {
	if v.engine != nil {
		return ErrEngineInstalled
	}
	v.engine = engine
	v.setState(VehicleIdling, "", nil)
	return nil
}

// MoveTo sends the vehicle toward a destination, reroute included: a moving
// vehicle commits its current approximate position and starts a new route.
// Calling it again with the destination already being traveled to is a no-op.
func (v *Vehicle) MoveTo(destination Position, itinerary *Itinerary) error {
	if v.engine == nil {
		return ErrNoEngine
	}
	if v.state == VehicleOffline {
		return fmt.Errorf("cannot move an offline vehicle (id=%s)", v.ID)
	}
	if d := v.engine.Destination(); d != nil {
		if v.engine.IsMoving() && d.Equal(destination) {
			return nil
		}
		v.engine.EndMove()
	}
	if err := v.engine.StartMove(destination); err != nil {
		return err
	}

	itineraryID := ""
	if itinerary != nil {
		itineraryID = itinerary.ID
	}
	if v.engine.IsMoving() {
		if v.state != VehicleMovingTo {
			lon, lat := destination.Coords()
			v.setState(VehicleMovingTo, itineraryID, map[string]any{
				"dest_lon": lon,
				"dest_lat": lat,
				"eta":      v.engine.ETA(),
			})
		}
	} else if v.state != VehicleIdling {
		v.setState(VehicleIdling, itineraryID, nil)
	}
	return nil
}

// Step advances the vehicle by one tick: when the engine has finished its
// route but the vehicle still reads moving_to, the trip is committed and the
// vehicle returns to idling.
func (v *Vehicle) Step() error {
	if v.engine == nil {
		return ErrNoEngine
	}
	if v.state == VehicleMovingTo && !v.engine.IsMoving() {
		details := map[string]any{}
		if r := v.engine.Route(); r != nil {
			details["trip_duration"] = r.Duration()
			details["trip_distance"] = r.Distance()
		}
		v.engine.EndMove()
		v.setState(VehicleIdling, "", details)
	}
	return nil
}

// Stop forces the vehicle offline. Stopping mid-trip is only allowed for the
// system-level reason; the in-flight trip is committed at its current
// approximate position.
func (v *Vehicle) Stop(reason StopReason) error {
	if v.engine == nil {
		return ErrNoEngine
	}
	if v.state == VehicleOffline {
		return &InvalidTransitionError{ObjectType: "vehicle", ID: v.ID,
			From: string(v.state), To: string(VehicleOffline)}
	}
	if v.engine.IsMoving() && reason != StopReasonSystem {
		return fmt.Errorf("cannot stop mid-trip for reason %q (id=%s)", reason, v.ID)
	}
	v.engine.EndMove()
	v.setState(VehicleOffline, "", map[string]any{"reason": string(reason)})
	return nil
}

func (v *Vehicle) setState(to VehicleState, itineraryID string, details map[string]any) {
	from := v.state
	v.state = to

	var lon, lat float64
	if pos := v.Position(); pos != nil {
		lon, lat = pos.Coords()
	}
	record(v.rec, Transition{
		ClockTime:   v.clock.Now(),
		ObjectType:  "vehicle",
		ID:          v.ID,
		ItineraryID: itineraryID,
		FromState:   string(from),
		ToState:     string(to),
		Lon:         lon,
		Lat:         lat,
		Details:     details,
	})
}
