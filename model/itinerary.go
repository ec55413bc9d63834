package model

import (
	"fmt"

	"github.com/google/uuid"
)

// Itinerary is an ordered job queue bound to exactly one vehicle:
//
//	[next jobs] -> current job -> [completed jobs]
//
// Jobs complete strictly in FIFO order.
type Itinerary struct {
	ID        string
	Vehicle   *Vehicle
	CreatedAt int

	current   *Job
	next      []*Job
	completed []*Job
}

// NewItinerary creates an empty itinerary for a vehicle.
func NewItinerary(createdAt int, vehicle *Vehicle) *Itinerary {
	return &Itinerary{ID: uuid.NewString(), Vehicle: vehicle, CreatedAt: createdAt}
}

// MoveTo appends a job moving the vehicle to destination. The eta is only an
// estimate used for logging; pass NoETA when unknown.
func (it *Itinerary) MoveTo(destination Position, eta int) *Job {
	job, _ := it.AddJob(NewMoveToJob(destination, eta))
	return job
}

// Pickup appends a pickup job for a booking.
func (it *Itinerary) Pickup(booking *Booking, eta int) *Job {
	job, _ := it.AddJob(NewPickupJob(booking, eta))
	return job
}

// Dropoff appends a dropoff job for a booking.
func (it *Itinerary) Dropoff(booking *Booking, eta int) *Job {
	job, _ := it.AddJob(NewDropoffJob(booking, eta))
	return job
}

// Wait appends a wait job.
func (it *Itinerary) Wait(duration, eta int) *Job {
	job, _ := it.AddJob(NewWaitJob(duration, eta))
	return job
}

// AddJob inserts a pre-built job: it becomes the current job when there is
// none, otherwise it is queued after the existing ones.
func (it *Itinerary) AddJob(job *Job) (*Job, error) {
	if job == nil {
		return nil, fmt.Errorf("cannot add a nil job")
	}
	switch job.Kind {
	case JobMoveTo, JobPickup, JobDropoff, JobWait:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownJob, int(job.Kind))
	}
	job.ItineraryID = it.ID
	if it.current == nil {
		it.current = job
	} else {
		it.next = append(it.next, job)
	}
	return job, nil
}

// JobComplete moves the current job to the completed history and promotes the
// head of the queue. Completing any job other than the current one fails.
func (it *Itinerary) JobComplete(job *Job) error {
	if job != it.current {
		return ErrNotCurrentJob
	}
	it.completed = append(it.completed, job)
	it.current = nil
	if len(it.next) > 0 {
		it.current = it.next[0]
		it.next = it.next[1:]
	}
	return nil
}

// CurrentJob returns the job being executed, nil when the itinerary is done.
func (it *Itinerary) CurrentJob() *Job { return it.current }

// NextJobs returns the queued jobs after the current one.
func (it *Itinerary) NextJobs() []*Job { return it.next }

// CompletedJobs returns the completed history in completion order.
func (it *Itinerary) CompletedJobs() []*Job { return it.completed }

// JobsToComplete returns the current job followed by the queued ones; empty
// when there is no current job.
func (it *Itinerary) JobsToComplete() []*Job {
	if it.current == nil {
		return nil
	}
	jobs := make([]*Job, 0, 1+len(it.next))
	jobs = append(jobs, it.current)
	return append(jobs, it.next...)
}

// IsCompleted reports whether no jobs remain.
func (it *Itinerary) IsCompleted() bool { return len(it.JobsToComplete()) == 0 }
