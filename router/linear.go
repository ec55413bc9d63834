// Package router provides the routing backends consumed by vehicle engines
// and matchers: straight-line geographic routing, grid routing, and a
// memoizing wrapper. All routers are deterministic for a fixed origin,
// destination and clock time.
package router

import (
	"fmt"

	"fleetsim/model"
)

// LinearRouter calculates routes as straight lines with haversine distances,
// a "bee line" between origin and destination at a constant speed.
type LinearRouter struct {
	clock *model.Clock
	// SpeedKmph is the constant vehicle speed used for duration estimates.
	SpeedKmph float64
}

// NewLinearRouter creates a straight-line router with the given speed.
func NewLinearRouter(clock *model.Clock, speedKmph float64) *LinearRouter {
	return &LinearRouter{clock: clock, SpeedKmph: speedKmph}
}

// MapMatch returns the position unchanged apart from coordinate rounding;
// a straight-line world has no road network to snap to.
func (r *LinearRouter) MapMatch(position model.Position) model.Position {
	lon, lat := position.Coords()
	return model.NewGeoPosition(lon, lat)
}

// CalculateRoute builds a route with one waypoint per tick of travel along
// the straight line from origin to destination.
func (r *LinearRouter) CalculateRoute(origin, destination model.Position) (model.Route, error) {
	duration, err := r.EstimateDuration(origin, destination)
	if err != nil {
		return nil, err
	}

	olon, olat := origin.Coords()
	dlon, dlat := destination.Coords()

	waypoints := make([]model.Position, duration+1)
	for i := 0; i <= duration; i++ {
		frac := 0.0
		if duration > 0 {
			frac = float64(i) / float64(duration)
		}
		waypoints[i] = model.NewGeoPosition(olon+(dlon-olon)*frac, olat+(dlat-olat)*frac)
	}

	return NewLineRoute(r.clock.Now(), waypoints, duration, origin.Distance(destination), origin, destination), nil
}

// EstimateDuration returns the straight-line travel time in clock time units,
// rounded up.
func (r *LinearRouter) EstimateDuration(origin, destination model.Position) (int, error) {
	if r.SpeedKmph <= 0 {
		return 0, fmt.Errorf("linear router speed must be positive, got %v", r.SpeedKmph)
	}
	travelMins := origin.Distance(destination) / r.SpeedKmph * 60
	return r.clock.TimeToClockTime(travelMins, model.Minutes)
}

// CalculateDistanceMatrix returns travel times in clock time units when
// travelTime is set, haversine kilometres otherwise.
func (r *LinearRouter) CalculateDistanceMatrix(sources, destinations []model.Position, travelTime bool) ([][]float64, error) {
	matrix := make([][]float64, len(sources))
	for i, src := range sources {
		row := make([]float64, len(destinations))
		for j, dst := range destinations {
			if travelTime {
				d, err := r.EstimateDuration(src, dst)
				if err != nil {
					return nil, err
				}
				row[j] = float64(d)
			} else {
				row[j] = src.Distance(dst)
			}
		}
		matrix[i] = row
	}
	return matrix, nil
}
