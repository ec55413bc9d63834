package model

import "fmt"

// BookingService queues pending bookings and expires the ones that stay
// unmatched past a timeout. Expiry is a per-tick comparison, not a timer.
type BookingService struct {
	clock          *Clock
	maxPendingTime int

	all     []*Booking
	pending map[string]*Booking
	// pendingOrder keeps arrival order so expiry sweeps are deterministic.
	pendingOrder []string
	addedAt      map[string]int
}

// NewBookingService creates a service expiring bookings that stay pending
// longer than maxPendingTime clock time units.
func NewBookingService(clock *Clock, maxPendingTime int) *BookingService {
	return &BookingService{
		clock:          clock,
		maxPendingTime: maxPendingTime,
		pending:        make(map[string]*Booking),
		addedAt:        make(map[string]int),
	}
}

// AddBooking queues a new trip request. Only pending bookings are accepted.
func (s *BookingService) AddBooking(booking *Booking) error {
	if !booking.IsPending() {
		return fmt.Errorf("booking %s is not pending (state=%s)", booking.ID, booking.State())
	}
	s.all = append(s.all, booking)
	s.pending[booking.ID] = booking
	s.pendingOrder = append(s.pendingOrder, booking.ID)
	s.addedAt[booking.ID] = s.clock.Now()
	return nil
}

// AddBookings queues a batch of trip requests.
func (s *BookingService) AddBookings(bookings []*Booking) error {
	for _, b := range bookings {
		if err := s.AddBooking(b); err != nil {
			return err
		}
	}
	return nil
}

// GetPendingBookings returns the unmatched bookings in arrival order.
func (s *BookingService) GetPendingBookings() []*Booking {
	out := make([]*Booking, 0, len(s.pendingOrder))
	for _, id := range s.pendingOrder {
		if b, ok := s.pending[id]; ok {
			out = append(out, b)
		}
	}
	return out
}

// Step drops bookings that left the pending state and expires the ones that
// overstayed the pending timeout.
func (s *BookingService) Step() error {
	now := s.clock.Now()
	remaining := s.pendingOrder[:0]

	for _, id := range s.pendingOrder {
		booking, ok := s.pending[id]
		if !ok {
			continue
		}
		if !booking.IsPending() {
			delete(s.pending, id)
			continue
		}
		if added, ok := s.addedAt[id]; ok && added+s.maxPendingTime < now {
			if err := booking.SetExpired(); err != nil {
				return err
			}
			delete(s.pending, id)
			continue
		}
		remaining = append(remaining, id)
	}

	s.pendingOrder = remaining
	return nil
}
