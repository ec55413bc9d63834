package router

import "fleetsim/model"

// LineRoute is a geographic route interpolated along its waypoints. Position
// approximation locates the correct segment by fraction of total path length,
// not by waypoint count, so unevenly spaced waypoints interpolate correctly.
type LineRoute struct {
	createdAt   int
	waypoints   []model.Position
	duration    int
	distance    float64
	origin      model.Position
	destination model.Position

	segmentDistance []float64
}

// NewLineRoute builds a route over the given waypoints. A route going nowhere
// must have exactly one waypoint and a duration of zero. The origin and
// destination are the requested endpoints; due to map matching they can
// differ from the first and last waypoints.
func NewLineRoute(createdAt int, waypoints []model.Position, duration int, distance float64, origin, destination model.Position) *LineRoute {
	segs := make([]float64, 0, len(waypoints))
	for i := 1; i < len(waypoints); i++ {
		segs = append(segs, waypoints[i-1].Distance(waypoints[i]))
	}
	return &LineRoute{
		createdAt:       createdAt,
		waypoints:       waypoints,
		duration:        duration,
		distance:        distance,
		origin:          origin,
		destination:     destination,
		segmentDistance: segs,
	}
}

func (r *LineRoute) CreatedAt() int              { return r.createdAt }
func (r *LineRoute) Duration() int               { return r.duration }
func (r *LineRoute) Distance() float64           { return r.distance }
func (r *LineRoute) Origin() model.Position      { return r.origin }
func (r *LineRoute) Destination() model.Position { return r.destination }
func (r *LineRoute) Waypoints() []model.Position { return r.waypoints }

// ApproximatePosition interpolates the on-route position at a clock time,
// clamping to the destination at and beyond arrival.
func (r *LineRoute) ApproximatePosition(atTime int) model.Position {
	if r.duration <= 0 || len(r.waypoints) <= 1 {
		return r.destination
	}
	pcnt := elapsedFraction(atTime, r.createdAt, r.duration)
	x, y := interpolateAlong(pcnt, r.waypoints, r.segmentDistance)
	return model.NewGeoPosition(x, y)
}

// TraveledDistance returns the distance covered by atTime, proportional to
// the elapsed fraction of the duration.
func (r *LineRoute) TraveledDistance(atTime int) float64 {
	if r.duration <= 0 {
		return 0
	}
	return r.distance * elapsedFraction(atTime, r.createdAt, r.duration)
}

// Restamp returns a copy of the route issued at a new clock time.
func (r *LineRoute) Restamp(createdAt int) model.Route {
	c := *r
	c.createdAt = createdAt
	return &c
}

func elapsedFraction(atTime, createdAt, duration int) float64 {
	pcnt := float64(atTime-createdAt) / float64(duration)
	if pcnt < 0 {
		return 0
	}
	if pcnt > 1 {
		return 1
	}
	return pcnt
}

// interpolateAlong finds the coordinates at pcnt of the total path length.
// The segment containing the target distance is located through accumulated
// per-segment distances, then the position within it is linear.
func interpolateAlong(pcnt float64, points []model.Position, segDist []float64) (float64, float64) {
	total := 0.0
	for _, d := range segDist {
		total += d
	}
	target := total * pcnt

	acc := 0.0
	idx := len(segDist) - 1
	for i, d := range segDist {
		if acc+d >= target {
			idx = i
			break
		}
		acc += d
	}

	x1, y1 := points[idx].Coords()
	x2, y2 := points[idx+1].Coords()

	frac := 0.0
	if segDist[idx] > 0 {
		frac = (target - acc) / segDist[idx]
		if frac > 1 {
			frac = 1
		}
	}
	return x1 + (x2-x1)*frac, y1 + (y2-y1)*frac
}
