// Package bookingclient implements the seat-selection-and-checkout protocol a
// booking front end drives against the platform's HTTP API: seat grid state,
// bounded seat selection, the atomic lock request, the payment countdown and
// the checkout session confirmation handoff.
package bookingclient

import (
	"fmt"

	"github.com/cineverse/booking-platform/api"
	"github.com/cineverse/booking-platform/internal/domain"
	"github.com/shopspring/decimal"
)

// Auditorium layout. Row letters skip "I" to avoid confusion with "1" on
// printed tickets.
const (
	RowLetters  = "ABCDEFGHJKLMN"
	SeatsPerRow = 18
)

// Seat is the per-seat view model: static geometry merged with the last
// fetched remote status. Status is only a cache; the lock endpoint is the
// sole authority.
type Seat struct {
	ID     string
	Row    byte
	Number int
	Price  decimal.Decimal
	Status domain.SeatStatus
}

// Grid holds every seat of the auditorium in layout order.
type Grid struct {
	seats []Seat
	index map[string]int
}

// NewGrid builds the full grid for a show, overlaying the remote status
// records. Seats absent from the records are available; records for seat ids
// outside the layout are ignored. Neither case is an error.
func NewGrid(price decimal.Decimal, records []api.SeatStatusRecord) *Grid {
	g := &Grid{
		seats: make([]Seat, 0, len(RowLetters)*SeatsPerRow),
		index: make(map[string]int, len(RowLetters)*SeatsPerRow),
	}

	for i := 0; i < len(RowLetters); i++ {
		row := RowLetters[i]
		for n := 1; n <= SeatsPerRow; n++ {
			id := SeatID(row, n)
			g.index[id] = len(g.seats)
			g.seats = append(g.seats, Seat{
				ID:     id,
				Row:    row,
				Number: n,
				Price:  price,
				Status: domain.SeatAvailable,
			})
		}
	}

	for _, rec := range records {
		i, ok := g.index[rec.Seat]
		if !ok {
			continue
		}

		g.seats[i].Status = domain.SeatStatus(rec.Status)
	}

	return g
}

// Seat returns the seat with the given id, or false when the id is not part
// of the layout.
func (g *Grid) Seat(id string) (Seat, bool) {
	i, ok := g.index[id]
	if !ok {
		return Seat{}, false
	}

	return g.seats[i], true
}

// Seats returns all seats in layout order (row by row, ascending numbers).
func (g *Grid) Seats() []Seat {
	out := make([]Seat, len(g.seats))
	copy(out, g.seats)

	return out
}

// SeatID formats a row letter and seat number as a canonical id like "A01".
func SeatID(row byte, number int) string {
	return fmt.Sprintf("%c%02d", row, number)
}
