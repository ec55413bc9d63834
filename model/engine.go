package model

import "fmt"

// VehicleEngine owns a vehicle's physical position and in-flight route. Every
// time StartMove is called it asks the router for a route and IsMoving stays
// true until the end of that route.
//
// The engine's route is the ground truth used to move the vehicle. It is not
// necessarily the same route a matcher or dispatcher reasoned about.
type VehicleEngine struct {
	router Router
	clock  *Clock

	// position is valid only when the vehicle has arrived or was stopped;
	// use CurrentPosition for the live value.
	position Position
	route    Route
}

// NewVehicleEngine creates an engine idle at the given position.
func NewVehicleEngine(position Position, router Router, clock *Clock) *VehicleEngine {
	return &VehicleEngine{position: position, router: router, clock: clock}
}

// StartMove sends the engine toward a destination. It fails when the engine
// is already moving or has no known position. A route whose duration rounds
// to zero is absorbed immediately: no route is retained and the engine stays
// idle where it is.
func (e *VehicleEngine) StartMove(destination Position) error {
	if e.route != nil {
		return ErrEngineMoving
	}
	if e.position == nil {
		return fmt.Errorf("cannot move engine: %w", ErrUnknownPosition)
	}
	route, err := e.router.CalculateRoute(e.CurrentPosition(), destination)
	if err != nil {
		return fmt.Errorf("calculate route: %w", err)
	}
	if route.Duration() > 0 {
		e.route = route
	}
	return nil
}

// EndMove commits a finished or aborted trip: the stored position is
// snapshotted from the route (exact destination if arrived, interpolated
// otherwise) and the route is cleared. It must be called before a new
// StartMove is issued.
func (e *VehicleEngine) EndMove() {
	if e.route != nil {
		if !e.IsMoving() {
			e.position = e.route.Destination()
		} else {
			e.position = e.route.ApproximatePosition(e.Now())
		}
	}
	e.route = nil
}

// Destination returns the active route's destination, nil when idle.
func (e *VehicleEngine) Destination() Position {
	if e.route != nil {
		return e.route.Destination()
	}
	return nil
}

// Route returns the active route, nil when idle.
func (e *VehicleEngine) Route() Route { return e.route }

// ETA returns the arrival time of the active route, or the current time when
// the engine is not moving ("already there").
func (e *VehicleEngine) ETA() int {
	if e.route != nil {
		return ArrivalTime(e.route)
	}
	return e.Now()
}

// IsMoving reports whether the engine is still mid-trip.
func (e *VehicleEngine) IsMoving() bool { return e.ETA() > e.Now() }

// CurrentPosition returns the live position: approximated along the route
// while en-route, the committed position otherwise.
func (e *VehicleEngine) CurrentPosition() Position {
	if e.route != nil && !e.position.Equal(e.route.Destination()) {
		return e.route.ApproximatePosition(e.Now())
	}
	return e.position
}

// Now returns the engine clock's current time.
func (e *VehicleEngine) Now() int { return e.clock.Now() }
