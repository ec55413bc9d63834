package model

// BasicBookingItinerary builds the simplest single-passenger itinerary: one
// vehicle moves to the pickup, picks the customer up, moves to the dropoff
// and drops them off. The etas are advisory; pass NoETA when unknown.
func BasicBookingItinerary(currentTime int, vehicle *Vehicle, booking *Booking, pickupETA, dropoffETA int) *Itinerary {
	itinerary := NewItinerary(currentTime, vehicle)

	itinerary.MoveTo(booking.Pickup, pickupETA)
	itinerary.Pickup(booking, pickupETA)

	itinerary.MoveTo(booking.Dropoff, dropoffETA)
	itinerary.Dropoff(booking, dropoffETA)

	return itinerary
}
