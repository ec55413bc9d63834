package model

import "fmt"

// DoJob executes one tick of progress for an itinerary. Pickups and dropoffs
// are zero-duration and always complete within the tick they are reached;
// move_to is the only job that may span ticks, completing once the engine
// reports arrival. Completing a job cascades into the next one in the same
// tick, so "arrive, then pick up" happens within one call.
//
// The cascade is a bounded loop rather than recursion: an itinerary can
// complete at most len(JobsToComplete()) jobs in one tick.
func DoJob(itinerary *Itinerary) error {
	for bound := len(itinerary.JobsToComplete()); bound >= 0; bound-- {
		job := itinerary.CurrentJob()
		if job == nil {
			return nil
		}

		switch job.Kind {
		case JobPickup:
			done, err := pickupBooking(job.Booking, itinerary)
			if err != nil {
				return err
			}
			if !done {
				return nil
			}

		case JobDropoff:
			done, err := dropoffBooking(job.Booking, itinerary)
			if err != nil {
				return err
			}
			if !done {
				return nil
			}

		case JobMoveTo:
			// A vehicle that is not moving after the move call has arrived,
			// so the job is done.
			moving, err := moveVehicle(itinerary)
			if err != nil {
				return err
			}
			if moving {
				return nil
			}

		case JobWait:
			return fmt.Errorf("wait job execution: %w", ErrNotImplemented)

		default:
			return fmt.Errorf("%w: %s", ErrUnknownJob, job)
		}

		if err := itinerary.JobComplete(job); err != nil {
			return err
		}
	}
	return nil
}

// moveVehicle continues the itinerary's current move_to job and reports
// whether the vehicle is still moving afterwards.
func moveVehicle(itinerary *Itinerary) (bool, error) {
	job := itinerary.CurrentJob()
	if job == nil {
		return false, fmt.Errorf("current job cannot be nil")
	}
	vehicle := itinerary.Vehicle
	if err := vehicle.MoveTo(job.Destination, itinerary); err != nil {
		return false, err
	}
	return vehicle.IsMoving(), nil
}

// pickupBooking drives a booking to the pickup state, cascading through any
// intermediate states not yet pre-staged by UpdateNextBookings. Returns true
// iff the booking ends up in pickup.
func pickupBooking(booking *Booking, itinerary *Itinerary) (bool, error) {
	if booking.IsPending() {
		// Pickup is the first step of the itinerary; otherwise
		// UpdateNextBookings has already matched the booking.
		if err := booking.SetMatched(itinerary); err != nil {
			return false, err
		}
	}

	switch {
	case booking.IsMatched():
		if err := booking.SetWaitingPickup(itinerary); err != nil {
			return false, err
		}
		if err := booking.SetPickup(itinerary); err != nil {
			return false, err
		}
	case booking.IsWaitingPickup():
		if err := booking.SetPickup(itinerary); err != nil {
			return false, err
		}
	case booking.IsCustomerCanceled(), booking.IsDispatcherCanceled():
		// Recovery from a canceled booking mid-itinerary is an unresolved
		// design gap; surface it instead of guessing.
		return false, fmt.Errorf("pickup of canceled booking %s: %w", booking.ID, ErrNotImplemented)
	default:
		return false, fmt.Errorf("invalid state for pickup: %s (booking=%s)", booking.State(), booking.ID)
	}

	return booking.IsPickup(), nil
}

// dropoffBooking drives a booking to completion. Returns true iff the booking
// ends up complete.
func dropoffBooking(booking *Booking, itinerary *Itinerary) (bool, error) {
	switch {
	case booking.IsWaitingDropoff():
		if err := booking.SetDropoff(itinerary); err != nil {
			return false, err
		}
		if err := booking.SetComplete(itinerary); err != nil {
			return false, err
		}
	case booking.IsPickup():
		if err := booking.SetWaitingDropoff(itinerary); err != nil {
			return false, err
		}
		if err := booking.SetDropoff(itinerary); err != nil {
			return false, err
		}
		if err := booking.SetComplete(itinerary); err != nil {
			return false, err
		}
	default:
		return false, fmt.Errorf("invalid state for dropoff: %s (booking=%s)", booking.State(), booking.ID)
	}

	return booking.IsComplete(), nil
}

// UpdateNextBookings pre-stages the bookings behind jobs after the current
// one, one step ahead of actual execution: a pending booking behind a future
// pickup becomes matched and waiting for pickup; a picked-up booking behind a
// future dropoff becomes waiting for dropoff. Observers then see bookings
// committed to a vehicle slot before the vehicle physically arrives, while
// DoJob still performs the real completion work.
func UpdateNextBookings(itinerary *Itinerary) error {
	for _, job := range itinerary.NextJobs() {
		switch job.Kind {
		case JobPickup:
			if job.Booking.IsPending() {
				if err := job.Booking.SetMatched(itinerary); err != nil {
					return err
				}
				if err := job.Booking.SetWaitingPickup(itinerary); err != nil {
					return err
				}
			}
		case JobDropoff:
			if job.Booking.IsPickup() {
				if err := job.Booking.SetWaitingDropoff(itinerary); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
