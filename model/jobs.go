package model

import (
	"fmt"

	"github.com/google/uuid"
)

// NoETA marks a job without advisory arrival metadata.
const NoETA = -1

// JobKind is the closed set of itinerary step kinds.
type JobKind int

const (
	JobMoveTo JobKind = iota
	JobPickup
	JobDropoff
	JobWait
)

func (k JobKind) String() string {
	switch k {
	case JobMoveTo:
		return "move_to"
	case JobPickup:
		return "pickup"
	case JobDropoff:
		return "dropoff"
	case JobWait:
		return "wait"
	default:
		return fmt.Sprintf("job(%d)", int(k))
	}
}

// Job is one atomic step within an itinerary. Exactly the fields relevant to
// its kind are set: Destination for move_to, Booking for pickup/dropoff,
// Duration for wait.
//
// ETA is advisory metadata only, kept for logging and estimation; actual
// timing is always derived from the engine and its route.
type Job struct {
	ID          string
	ItineraryID string
	Kind        JobKind

	Destination Position
	Booking     *Booking
	Duration    int
	ETA         int
}

// NewMoveToJob creates a move step toward a destination.
func NewMoveToJob(destination Position, eta int) *Job {
	return &Job{ID: uuid.NewString(), Kind: JobMoveTo, Destination: destination, ETA: eta}
}

// NewPickupJob creates a zero-duration pickup step for a booking.
func NewPickupJob(booking *Booking, eta int) *Job {
	return &Job{ID: uuid.NewString(), Kind: JobPickup, Booking: booking, ETA: eta}
}

// NewDropoffJob creates a zero-duration dropoff step for a booking.
func NewDropoffJob(booking *Booking, eta int) *Job {
	return &Job{ID: uuid.NewString(), Kind: JobDropoff, Booking: booking, ETA: eta}
}

// NewWaitJob creates a wait step. Wait execution is not implemented yet.
func NewWaitJob(duration, eta int) *Job {
	return &Job{ID: uuid.NewString(), Kind: JobWait, Duration: duration, ETA: eta}
}

func (j *Job) String() string {
	return fmt.Sprintf("Job %s (id=%s)", j.Kind, j.ID)
}
