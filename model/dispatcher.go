package model

import "fmt"

// Dispatcher owns the active vehicle -> itinerary assignments, at most one
// itinerary per vehicle, and executes one step of job progress for every
// assignment per tick.
type Dispatcher struct {
	itineraries map[*Vehicle]*Itinerary
	// order keeps assignment insertion order so that a tick is deterministic.
	order []*Vehicle
}

// NewDispatcher creates a dispatcher with no assignments.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{itineraries: make(map[*Vehicle]*Itinerary)}
}

// Dispatch registers an itinerary for its vehicle. Dispatching over a vehicle
// whose current itinerary still has jobs to complete is an error: matchers
// treat "no itinerary" as the availability signal, so a correct matcher never
// reassigns a busy vehicle. Replacing an assignment requires an explicit
// CancelItinerary first.
func (d *Dispatcher) Dispatch(itinerary *Itinerary) error {
	if prev, ok := d.itineraries[itinerary.Vehicle]; ok && !prev.IsCompleted() {
		return fmt.Errorf("%w (vehicle=%s)", ErrVehicleBusy, itinerary.Vehicle.ID)
	}
	if _, ok := d.itineraries[itinerary.Vehicle]; !ok {
		d.order = append(d.order, itinerary.Vehicle)
	}
	d.itineraries[itinerary.Vehicle] = itinerary
	return nil
}

// GetItinerary returns the active itinerary of a vehicle, nil when the
// vehicle is unassigned. This is the sole signal matchers use to determine
// vehicle availability.
func (d *Dispatcher) GetItinerary(vehicle *Vehicle) *Itinerary {
	return d.itineraries[vehicle]
}

// Itineraries returns the active itineraries in assignment order.
func (d *Dispatcher) Itineraries() []*Itinerary {
	out := make([]*Itinerary, 0, len(d.order))
	for _, v := range d.order {
		if it, ok := d.itineraries[v]; ok {
			out = append(out, it)
		}
	}
	return out
}

// CancelItinerary force-stops a vehicle and removes its assignment.
// Cancellation is synchronous and immediate.
func (d *Dispatcher) CancelItinerary(vehicle *Vehicle) error {
	if _, ok := d.itineraries[vehicle]; !ok {
		return fmt.Errorf("%w (vehicle=%s)", ErrNoItinerary, vehicle.ID)
	}
	if err := vehicle.Stop(StopReasonSystem); err != nil {
		return err
	}
	d.remove(vehicle)
	return nil
}

// Step absorbs newly formed itineraries, then runs one DoJob cascade followed
// by UpdateNextBookings for every assignment, in assignment order, and
// finally retires the itineraries that completed.
//
// Fleet.Step must have run earlier in the same tick, and Clock.Tick must run
// after; any other order produces off-by-one position and state readings.
func (d *Dispatcher) Step(newItineraries []*Itinerary) error {
	for _, it := range newItineraries {
		if err := d.Dispatch(it); err != nil {
			return err
		}
	}

	for _, vehicle := range d.order {
		itinerary, ok := d.itineraries[vehicle]
		if !ok {
			continue
		}
		if err := DoJob(itinerary); err != nil {
			return err
		}
		if err := UpdateNextBookings(itinerary); err != nil {
			return err
		}
	}

	for _, vehicle := range append([]*Vehicle(nil), d.order...) {
		if it, ok := d.itineraries[vehicle]; ok && it.IsCompleted() {
			d.remove(vehicle)
		}
	}
	return nil
}

func (d *Dispatcher) remove(vehicle *Vehicle) {
	delete(d.itineraries, vehicle)
	for i, v := range d.order {
		if v == vehicle {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}
