package model

// Route is a precomputed path between two positions, immutable once created.
// Durations are in clock time; distances use the position metric of the
// underlying coordinate system.
//
// A route with Duration() == 0 has exactly one waypoint and reports its
// destination for any query time.
type Route interface {
	// CreatedAt is the clock time the route was issued; travel is assumed to
	// start immediately after creation.
	CreatedAt() int
	// Duration is the travel time in clock time units, rounded up from any
	// fractional estimate.
	Duration() int
	// Distance is the total path length.
	Distance() float64
	Origin() Position
	Destination() Position
	Waypoints() []Position

	// ApproximatePosition returns the position on the route at the given
	// clock time. It is monotonic in time and clamps to the destination for
	// any time at or beyond the arrival time.
	ApproximatePosition(atTime int) Position
	// TraveledDistance returns the distance covered by atTime, proportional
	// to the elapsed fraction of the route duration.
	TraveledDistance(atTime int) float64

	// Restamp returns a copy of the route re-issued at a new creation time.
	// Used by caching routers to reuse a path computed earlier.
	Restamp(createdAt int) Route
}

// ArrivalTime returns the clock time a route's travel finishes.
func ArrivalTime(r Route) int { return r.CreatedAt() + r.Duration() }

// Router produces routes between positions. Implementations must be
// deterministic for a given origin, destination and clock time so that
// simulation runs are reproducible.
type Router interface {
	// CalculateRoute computes the path a vehicle will actually follow.
	CalculateRoute(origin, destination Position) (Route, error)
	// EstimateDuration returns the travel time in clock time units.
	EstimateDuration(origin, destination Position) (int, error)
	// MapMatch snaps a raw position onto the routable coordinate system.
	MapMatch(position Position) Position
	// CalculateDistanceMatrix returns a len(sources) x len(destinations)
	// matrix of travel times in clock time units when travelTime is true,
	// or of metric distances otherwise.
	CalculateDistanceMatrix(sources, destinations []Position, travelTime bool) ([][]float64, error)
}
