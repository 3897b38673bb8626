package bookingclient

import (
	"github.com/cineverse/booking-platform/internal/domain"
	"github.com/shopspring/decimal"
)

// MaxSeatsPerBooking caps how many seats one selection may hold.
const MaxSeatsPerBooking = 2

// Selection is the client-local ordered set of chosen seat ids. It never
// grows beyond its limit and never admits a seat whose last-known status is
// not available. Toggling causes no remote calls.
type Selection struct {
	limit int
	seats []string
}

func NewSelection() *Selection {
	return &Selection{limit: MaxSeatsPerBooking}
}

// Toggle flips a seat's membership. A seat already in the selection is
// always removed, whatever its current status. Adding requires the seat to
// be available and the selection to have room; otherwise the toggle is a
// silent no-op.
func (s *Selection) Toggle(seat Seat) {
	if i := s.indexOf(seat.ID); i >= 0 {
		s.seats = append(s.seats[:i], s.seats[i+1:]...)
		return
	}

	if seat.Status != domain.SeatAvailable {
		return
	}

	if len(s.seats) >= s.limit {
		return
	}

	s.seats = append(s.seats, seat.ID)
}

func (s *Selection) Contains(seatID string) bool {
	return s.indexOf(seatID) >= 0
}

func (s *Selection) Count() int {
	return len(s.seats)
}

// Seats returns the selected seat ids in the order they were chosen.
func (s *Selection) Seats() []string {
	out := make([]string, len(s.seats))
	copy(out, s.seats)

	return out
}

func (s *Selection) Clear() {
	s.seats = s.seats[:0]
}

// Amount computes the total price for the selection at a per-seat price.
func (s *Selection) Amount(pricePerSeat decimal.Decimal) decimal.Decimal {
	return pricePerSeat.Mul(decimal.NewFromInt(int64(len(s.seats))))
}

func (s *Selection) indexOf(seatID string) int {
	for i, id := range s.seats {
		if id == seatID {
			return i
		}
	}

	return -1
}
