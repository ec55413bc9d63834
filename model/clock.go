package model

import (
	"fmt"
	"math"
	"time"
)

// TimeUnit is a real-world unit of time understood by the Clock.
type TimeUnit string

const (
	Seconds TimeUnit = "s"
	Minutes TimeUnit = "m"
	Hours   TimeUnit = "h"
)

// unitsPerHour maps a time unit to how many of it fit in one hour.
var unitsPerHour = map[TimeUnit]float64{
	Seconds: 3600,
	Minutes: 60,
	Hours:   1,
}

// SupportedTimeUnits lists the units a Clock accepts.
func SupportedTimeUnits() []TimeUnit {
	return []TimeUnit{Seconds, Minutes, Hours}
}

// Clock governs time in a simulation. Clock time is a discrete, non-negative
// tick counter; one tick corresponds to timeStep timeUnit's of real time.
// Every duration and ETA in the simulation is expressed in clock time.
type Clock struct {
	clockTime int
	timeStep  int
	timeUnit  TimeUnit
	unit      float64 // units per hour for timeUnit

	startingTime time.Time
	hasStart     bool
}

// NewClock creates a clock stepping by timeStep units of timeUnit per tick.
func NewClock(timeStep int, timeUnit TimeUnit) (*Clock, error) {
	unit, ok := unitsPerHour[timeUnit]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTimeUnit, timeUnit)
	}
	if timeStep <= 0 {
		return nil, fmt.Errorf("time step must be positive, got %d", timeStep)
	}
	return &Clock{timeStep: timeStep, timeUnit: timeUnit, unit: unit}, nil
}

// DefaultClock returns a clock ticking one minute at a time.
func DefaultClock() *Clock {
	c, _ := NewClock(1, Minutes)
	return c
}

// SetStartingTime fixes the real-world time that corresponds to clock time 0.
func (c *Clock) SetStartingTime(t time.Time) { c.startingTime, c.hasStart = t, true }

// Now returns the current clock time.
func (c *Clock) Now() int { return c.clockTime }

// Tick advances the clock by exactly one step.
func (c *Clock) Tick() { c.clockTime++ }

// SetClockTime overwrites the tick counter.
func (c *Clock) SetClockTime(t int) { c.clockTime = t }

// Reset sets the tick counter back to zero.
func (c *Clock) Reset() { c.clockTime = 0 }

// TimeStep returns the number of time units per tick.
func (c *Clock) TimeStep() int { return c.timeStep }

// TimeUnit returns the clock's time unit.
func (c *Clock) TimeUnit() TimeUnit { return c.timeUnit }

// TimeToClockTime converts an amount of time expressed in fromUnit into clock
// time. Clock time is discrete so the result is always rounded up: partial
// ticks over-count rather than under-count.
func (c *Clock) TimeToClockTime(amount float64, fromUnit TimeUnit) (int, error) {
	unit, ok := unitsPerHour[fromUnit]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownTimeUnit, fromUnit)
	}
	t := amount / unit * c.unit
	return int(math.Ceil(t / float64(c.timeStep))), nil
}

// ClockTimeToSeconds converts clock time into real seconds. The conversion is
// exact; zero converts to zero without unit scaling.
func (c *Clock) ClockTimeToSeconds(clockTime int) float64 {
	if clockTime == 0 {
		return 0
	}
	return float64(clockTime) * float64(c.timeStep) * unitsPerHour[Seconds] / c.unit
}

// ToDatetime maps a clock time onto the configured starting time. It fails
// when no starting time was configured.
func (c *Clock) ToDatetime(clockTime int) (time.Time, error) {
	if !c.hasStart {
		return time.Time{}, fmt.Errorf("clock has no starting time configured")
	}
	secs := c.ClockTimeToSeconds(clockTime)
	return c.startingTime.Add(time.Duration(secs * float64(time.Second))), nil
}

// NowDatetime maps the current clock time onto the configured starting time.
func (c *Clock) NowDatetime() (time.Time, error) { return c.ToDatetime(c.clockTime) }
