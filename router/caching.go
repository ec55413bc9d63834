package router

import (
	"fmt"

	"fleetsim/model"
)

// CachingRouter memoizes the results of an underlying router: routes,
// duration estimates and map matches keyed by coordinates. Cached routes are
// restamped with the current clock time on every hit, so a route computed
// earlier can be reused as if it were issued now.
type CachingRouter struct {
	inner model.Router
	clock *model.Clock

	routes    map[string]model.Route
	durations map[string]int
	matched   map[string]model.Position
}

// NewCachingRouter wraps a router with memoization.
func NewCachingRouter(inner model.Router, clock *model.Clock) *CachingRouter {
	return &CachingRouter{
		inner:     inner,
		clock:     clock,
		routes:    make(map[string]model.Route),
		durations: make(map[string]int),
		matched:   make(map[string]model.Position),
	}
}

func posKey(p model.Position) string {
	x, y := p.Coords()
	return fmt.Sprintf("%v,%v", x, y)
}

func pairKey(a, b model.Position) string { return posKey(a) + "|" + posKey(b) }

func (r *CachingRouter) MapMatch(position model.Position) model.Position {
	key := posKey(position)
	if p, ok := r.matched[key]; ok {
		return p
	}
	p := r.inner.MapMatch(position)
	r.matched[key] = p
	return p
}

func (r *CachingRouter) CalculateRoute(origin, destination model.Position) (model.Route, error) {
	key := pairKey(origin, destination)
	if route, ok := r.routes[key]; ok {
		return route.Restamp(r.clock.Now()), nil
	}
	route, err := r.inner.CalculateRoute(origin, destination)
	if err != nil {
		return nil, err
	}
	r.routes[key] = route
	return route, nil
}

func (r *CachingRouter) EstimateDuration(origin, destination model.Position) (int, error) {
	key := pairKey(origin, destination)
	if d, ok := r.durations[key]; ok {
		return d, nil
	}
	d, err := r.inner.EstimateDuration(origin, destination)
	if err != nil {
		return 0, err
	}
	r.durations[key] = d
	return d, nil
}

// CalculateDistanceMatrix fills as much of the matrix as possible from the
// duration cache and asks the underlying router only for the missing rows.
// Non-travel-time matrices bypass the cache entirely.
func (r *CachingRouter) CalculateDistanceMatrix(sources, destinations []model.Position, travelTime bool) ([][]float64, error) {
	if !travelTime {
		return r.inner.CalculateDistanceMatrix(sources, destinations, travelTime)
	}

	matrix := make([][]float64, len(sources))
	var missing []int
	for i, src := range sources {
		row := make([]float64, len(destinations))
		complete := true
		for j, dst := range destinations {
			if d, ok := r.durations[pairKey(src, dst)]; ok {
				row[j] = float64(d)
			} else {
				complete = false
				break
			}
		}
		if complete {
			matrix[i] = row
		} else {
			missing = append(missing, i)
		}
	}

	if len(missing) > 0 {
		missingSources := make([]model.Position, len(missing))
		for k, i := range missing {
			missingSources[k] = sources[i]
		}
		computed, err := r.inner.CalculateDistanceMatrix(missingSources, destinations, true)
		if err != nil {
			return nil, err
		}
		for k, i := range missing {
			matrix[i] = computed[k]
			for j, dst := range destinations {
				r.durations[pairKey(sources[i], dst)] = int(computed[k][j])
			}
		}
	}

	return matrix, nil
}
