// Package sim wires the simulation kernel together: the per-tick driver
// loop, demand sources, matching strategies, and end-of-run reporting.
package sim

import (
	"fmt"
	"log"

	"fleetsim/model"
)

// Context bundles the entities every simulation run needs.
type Context struct {
	Clock      *model.Clock
	Fleet      *model.Fleet
	Bookings   *model.BookingService
	Dispatcher *model.Dispatcher
}

// Demand produces the trip requests arriving at each tick.
type Demand interface {
	// Next returns the bookings created at the current clock time.
	Next() []*model.Booking
}

// Matcher converts pending bookings and idle vehicles into new itineraries
// once per tick.
type Matcher interface {
	Step() ([]*model.Itinerary, error)
}

// Simulator runs a simulation step by step by calling the Step functions of
// each entity in a fixed order. The order matters: demand is injected, stale
// bookings expire, vehicle engines advance, the matcher forms itineraries,
// the dispatcher executes job progress, and only then does the clock tick.
// Any other order produces off-by-one position and state readings.
type Simulator struct {
	ctx     Context
	matcher Matcher

	// AfterTick, when set, is called at the end of every tick with the tick
	// number just completed. Used for pacing and live snapshots.
	AfterTick func(tick int)
}

// NewSimulator creates a simulator over a context and a matching strategy.
func NewSimulator(ctx Context, matcher Matcher) *Simulator {
	return &Simulator{ctx: ctx, matcher: matcher}
}

// Simulate runs for durationMins of simulated real time, converted to a
// number of clock ticks, and stops all vehicles at the end.
func (s *Simulator) Simulate(demand Demand, durationMins float64) error {
	steps, err := s.ctx.Clock.TimeToClockTime(durationMins, model.Minutes)
	if err != nil {
		return err
	}
	log.Printf("simulation: %d steps", steps)

	for i := 0; i < steps; i++ {
		if err := s.Step(demand); err != nil {
			return fmt.Errorf("at tick %d: %w", s.ctx.Clock.Now(), err)
		}
		if s.AfterTick != nil {
			s.AfterTick(i)
		}
	}

	return s.ctx.Fleet.StopVehicles()
}

// Step executes exactly one tick of the simulation protocol.
func (s *Simulator) Step(demand Demand) error {
	if err := s.ctx.Bookings.AddBookings(demand.Next()); err != nil {
		return err
	}
	if err := s.ctx.Bookings.Step(); err != nil {
		return err
	}
	if err := s.ctx.Fleet.Step(); err != nil {
		return err
	}

	itineraries, err := s.matcher.Step()
	if err != nil {
		return err
	}
	if err := s.ctx.Dispatcher.Step(itineraries); err != nil {
		return err
	}

	s.ctx.Clock.Tick()
	return nil
}
