package model

import (
	"errors"
	"fmt"
)

// Sentinel errors for kernel precondition violations. All of them signal
// programmer errors in the matcher/dispatcher composition, not recoverable
// runtime conditions: a simulation run aborts at the offending tick.
var (
	ErrUnknownTimeUnit = errors.New("unknown time unit")
	ErrEngineMoving    = errors.New("engine is already moving")
	ErrUnknownPosition = errors.New("unknown current position")
	ErrNoEngine        = errors.New("vehicle has no engine installed")
	ErrEngineInstalled = errors.New("vehicle engine already installed")
	ErrNotCurrentJob   = errors.New("cannot complete job which is not current")
	ErrUnknownJob      = errors.New("unknown job kind")
	ErrNotImplemented  = errors.New("not implemented")
	ErrVehicleBusy     = errors.New("vehicle already has an active itinerary")
	ErrNoItinerary     = errors.New("vehicle has no itinerary")
)

// InvalidTransitionError reports a state-machine transition attempted from a
// state that does not permit it.
type InvalidTransitionError struct {
	ObjectType string
	ID         string
	From       string
	To         string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid %s transition %s -> %s (id=%s)", e.ObjectType, e.From, e.To, e.ID)
}
