package router

import (
	"fmt"

	"fleetsim/model"
)

// GridRouter routes across a rectangular grid world with Manhattan paths:
// first along the x axis, then along the y axis, one cell per tick.
type GridRouter struct {
	clock *model.Clock
}

// NewGridRouter creates a Manhattan grid router.
func NewGridRouter(clock *model.Clock) *GridRouter {
	return &GridRouter{clock: clock}
}

// MapMatch returns the cell unchanged; every cell is routable.
func (r *GridRouter) MapMatch(position model.Position) model.Position { return position }

// CalculateRoute walks from origin to destination one cell per tick.
func (r *GridRouter) CalculateRoute(origin, destination model.Position) (model.Route, error) {
	o, ok := origin.(model.GridPosition)
	if !ok {
		return nil, fmt.Errorf("grid router needs grid positions, got %T", origin)
	}
	d, ok := destination.(model.GridPosition)
	if !ok {
		return nil, fmt.Errorf("grid router needs grid positions, got %T", destination)
	}

	cells := []model.Position{o}
	cur := o
	for cur.X != d.X {
		cur.X += sign(d.X - cur.X)
		cells = append(cells, cur)
	}
	for cur.Y != d.Y {
		cur.Y += sign(d.Y - cur.Y)
		cells = append(cells, cur)
	}

	// Speed is one cell per tick so duration and distance are equal.
	return NewCellRoute(r.clock.Now(), cells, o, d), nil
}

// EstimateDuration returns the Manhattan distance in ticks.
func (r *GridRouter) EstimateDuration(origin, destination model.Position) (int, error) {
	return int(origin.Distance(destination)), nil
}

// CalculateDistanceMatrix returns Manhattan distances; with one cell per tick
// the travel-time and distance matrices are identical.
func (r *GridRouter) CalculateDistanceMatrix(sources, destinations []model.Position, travelTime bool) ([][]float64, error) {
	matrix := make([][]float64, len(sources))
	for i, src := range sources {
		row := make([]float64, len(destinations))
		for j, dst := range destinations {
			row[j] = src.Distance(dst)
		}
		matrix[i] = row
	}
	return matrix, nil
}

func sign(v int) int {
	if v < 0 {
		return -1
	}
	return 1
}

// CellRoute moves through grid cells one waypoint per tick.
type CellRoute struct {
	createdAt   int
	cells       []model.Position
	origin      model.Position
	destination model.Position
}

// NewCellRoute builds a cell-per-tick route over the given cells.
func NewCellRoute(createdAt int, cells []model.Position, origin, destination model.Position) *CellRoute {
	return &CellRoute{createdAt: createdAt, cells: cells, origin: origin, destination: destination}
}

func (r *CellRoute) CreatedAt() int              { return r.createdAt }
func (r *CellRoute) Duration() int               { return len(r.cells) - 1 }
func (r *CellRoute) Distance() float64           { return float64(len(r.cells) - 1) }
func (r *CellRoute) Origin() model.Position      { return r.origin }
func (r *CellRoute) Destination() model.Position { return r.destination }
func (r *CellRoute) Waypoints() []model.Position { return r.cells }

// ApproximatePosition returns the cell reached at a clock time, clamping to
// the destination beyond arrival.
func (r *CellRoute) ApproximatePosition(atTime int) model.Position {
	idx := atTime - r.createdAt
	if idx < 0 {
		idx = 0
	}
	if idx >= len(r.cells) {
		return r.destination
	}
	return r.cells[idx]
}

// TraveledDistance is the Manhattan distance from the origin to the current
// cell; along an L-shaped path it grows monotonically.
func (r *CellRoute) TraveledDistance(atTime int) float64 {
	return r.ApproximatePosition(atTime).Distance(r.origin)
}

// Restamp returns a copy of the route issued at a new clock time.
func (r *CellRoute) Restamp(createdAt int) model.Route {
	c := *r
	c.createdAt = createdAt
	return &c
}
