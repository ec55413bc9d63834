package sim

import (
	"fmt"

	"fleetsim/model"
	"fleetsim/router"
)

// GreedyMatcher matches bookings in FIFO order, oldest first, each to the
// closest idle vehicle by estimated travel time. Bookings whose closest
// vehicle is beyond the search radius stay pending for a later tick.
type GreedyMatcher struct {
	ctx    Context
	router model.Router

	// searchRadius is the maximum pickup ETA in clock time units.
	searchRadius int
}

// NewGreedyMatcher creates a matcher with a search radius given in real-world
// minutes. The router is wrapped with caching since the same origin/pickup
// pairs recur across ticks.
func NewGreedyMatcher(ctx Context, r model.Router, searchRadiusMins float64) (*GreedyMatcher, error) {
	radius, err := ctx.Clock.TimeToClockTime(searchRadiusMins, model.Minutes)
	if err != nil {
		return nil, err
	}
	return &GreedyMatcher{
		ctx:          ctx,
		router:       router.NewCachingRouter(r, ctx.Clock),
		searchRadius: radius,
	}, nil
}

func (m *GreedyMatcher) Step() ([]*model.Itinerary, error) {
	bookings := m.ctx.Bookings.GetPendingBookings()
	vehicles := m.IdlingVehicles()

	var itineraries []*model.Itinerary
	for _, booking := range bookings {
		if len(vehicles) == 0 {
			break
		}
		idx, eta, err := m.closestVehicle(booking, vehicles)
		if err != nil {
			return nil, err
		}
		if eta > m.searchRadius {
			continue
		}

		vehicle := vehicles[idx]
		vehicles = append(vehicles[:idx], vehicles[idx+1:]...)

		now := m.ctx.Clock.Now()
		dropoffETA, err := m.router.EstimateDuration(booking.Pickup, booking.Dropoff)
		if err != nil {
			return nil, err
		}
		itineraries = append(itineraries,
			model.BasicBookingItinerary(now, vehicle, booking, now+eta, now+eta+dropoffETA))
	}
	return itineraries, nil
}

// IdlingVehicles returns the online vehicles without an itinerary.
func (m *GreedyMatcher) IdlingVehicles() []*model.Vehicle {
	var idle []*model.Vehicle
	for _, v := range m.ctx.Fleet.GetOnlineVehicles() {
		if m.ctx.Dispatcher.GetItinerary(v) == nil {
			idle = append(idle, v)
		}
	}
	return idle
}

func (m *GreedyMatcher) closestVehicle(booking *model.Booking, vehicles []*model.Vehicle) (int, int, error) {
	positions := make([]model.Position, len(vehicles))
	for i, v := range vehicles {
		positions[i] = v.Position()
	}

	matrix, err := m.router.CalculateDistanceMatrix(positions, []model.Position{booking.Pickup}, true)
	if err != nil {
		return 0, 0, err
	}
	if len(matrix) != len(vehicles) {
		return 0, 0, fmt.Errorf("distance matrix has %d rows for %d vehicles", len(matrix), len(vehicles))
	}

	best := 0
	for i := range matrix {
		if matrix[i][0] < matrix[best][0] {
			best = i
		}
	}
	return best, int(matrix[best][0]), nil
}
