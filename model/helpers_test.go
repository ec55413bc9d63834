package model

import "math"

// stubRoute reports the origin until arrival and the destination from the
// arrival tick on. Good enough for state machine tests, which only care
// about arrival timing, not intermediate interpolation.
type stubRoute struct {
	createdAt   int
	duration    int
	origin      Position
	destination Position
}

func (r *stubRoute) CreatedAt() int        { return r.createdAt }
func (r *stubRoute) Duration() int         { return r.duration }
func (r *stubRoute) Distance() float64     { return r.origin.Distance(r.destination) }
func (r *stubRoute) Origin() Position      { return r.origin }
func (r *stubRoute) Destination() Position { return r.destination }
func (r *stubRoute) Waypoints() []Position { return []Position{r.origin, r.destination} }

func (r *stubRoute) ApproximatePosition(atTime int) Position {
	if atTime >= r.createdAt+r.duration {
		return r.destination
	}
	return r.origin
}

func (r *stubRoute) TraveledDistance(atTime int) float64 {
	if r.duration <= 0 {
		return 0
	}
	frac := float64(atTime-r.createdAt) / float64(r.duration)
	return r.Distance() * math.Max(0, math.Min(1, frac))
}

func (r *stubRoute) Restamp(createdAt int) Route {
	c := *r
	c.createdAt = createdAt
	return &c
}

// stubRouter travels one distance unit per tick, so grid positions give
// exact control over trip durations. Same-cell trips produce zero-duration
// routes.
type stubRouter struct {
	clock *Clock
}

func (r *stubRouter) MapMatch(position Position) Position { return position }

func (r *stubRouter) CalculateRoute(origin, destination Position) (Route, error) {
	d, _ := r.EstimateDuration(origin, destination)
	return &stubRoute{
		createdAt:   r.clock.Now(),
		duration:    d,
		origin:      origin,
		destination: destination,
	}, nil
}

func (r *stubRouter) EstimateDuration(origin, destination Position) (int, error) {
	return int(math.Ceil(origin.Distance(destination))), nil
}

func (r *stubRouter) CalculateDistanceMatrix(sources, destinations []Position, travelTime bool) ([][]float64, error) {
	matrix := make([][]float64, len(sources))
	for i, src := range sources {
		row := make([]float64, len(destinations))
		for j, dst := range destinations {
			if travelTime {
				d, _ := r.EstimateDuration(src, dst)
				row[j] = float64(d)
			} else {
				row[j] = src.Distance(dst)
			}
		}
		matrix[i] = row
	}
	return matrix, nil
}

// newTestVehicle wires a vehicle with an engine at the given cell.
func newTestVehicle(t interface{ Fatalf(string, ...any) }, clock *Clock, rec Recorder, at Position) *Vehicle {
	v := NewVehicle(clock, rec)
	engine := NewVehicleEngine(at, &stubRouter{clock: clock}, clock)
	if err := v.InstallEngine(engine); err != nil {
		t.Fatalf("install engine: %v", err)
	}
	return v
}

func newTestBooking(clock *Clock, rec Recorder, pickup, dropoff Position) *Booking {
	return NewBooking(clock, rec, pickup, dropoff, 1, nil)
}
