package model

import "fmt"

// Fleet is the registry of vehicles in a simulation. Infleeting a vehicle
// gives it an engine at a starting position and brings it online.
type Fleet struct {
	clock  *Clock
	router Router

	vehicles map[string]*Vehicle
	order    []string
}

// NewFleet creates an empty fleet whose engines route with the given router.
func NewFleet(clock *Clock, router Router) *Fleet {
	return &Fleet{clock: clock, router: router, vehicles: make(map[string]*Vehicle)}
}

// Infleet installs an engine at the given position and registers the vehicle.
func (f *Fleet) Infleet(vehicle *Vehicle, position Position) error {
	engine := NewVehicleEngine(position, f.router, f.clock)
	if err := vehicle.InstallEngine(engine); err != nil {
		return err
	}
	f.vehicles[vehicle.ID] = vehicle
	f.order = append(f.order, vehicle.ID)
	return nil
}

// GetVehicle looks a vehicle up by id.
func (f *Fleet) GetVehicle(id string) (*Vehicle, error) {
	v, ok := f.vehicles[id]
	if !ok {
		return nil, fmt.Errorf("unknown vehicle %q", id)
	}
	return v, nil
}

// GetOnlineVehicles returns the vehicles currently in the fleet, in infleet
// order.
func (f *Fleet) GetOnlineVehicles() []*Vehicle {
	out := make([]*Vehicle, 0, len(f.order))
	for _, id := range f.order {
		if v := f.vehicles[id]; !v.IsOffline() {
			out = append(out, v)
		}
	}
	return out
}

// Step advances every vehicle's engine by one tick.
func (f *Fleet) Step() error {
	for _, id := range f.order {
		if err := f.vehicles[id].Step(); err != nil {
			return err
		}
	}
	return nil
}

// StopVehicles takes every non-idling vehicle offline; used at simulation
// teardown.
func (f *Fleet) StopVehicles() error {
	for _, id := range f.order {
		v := f.vehicles[id]
		if !v.IsIdling() && !v.IsOffline() {
			if err := v.Stop(StopReasonSystem); err != nil {
				return err
			}
		}
	}
	return nil
}
