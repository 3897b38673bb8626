package bookingclient

import (
	"testing"

	"github.com/cineverse/booking-platform/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func availableSeat(id string) Seat {
	return Seat{ID: id, Status: domain.SeatAvailable}
}

func TestSelectionToggle(t *testing.T) {
	t.Run("adds available seats up to the limit and silently ignores extras", func(t *testing.T) {
		sel := NewSelection()

		sel.Toggle(availableSeat("A01"))
		sel.Toggle(availableSeat("A02"))
		sel.Toggle(availableSeat("A03"))

		assert.Equal(t, MaxSeatsPerBooking, sel.Count())
		assert.Equal(t, []string{"A01", "A02"}, sel.Seats())
		assert.False(t, sel.Contains("A03"))
	})

	t.Run("never admits a seat that is not available", func(t *testing.T) {
		sel := NewSelection()

		sel.Toggle(Seat{ID: "A01", Status: domain.SeatSold})
		sel.Toggle(Seat{ID: "A02", Status: domain.SeatLocked})

		assert.Zero(t, sel.Count())
	})

	t.Run("always removes an already selected seat, regardless of status", func(t *testing.T) {
		sel := NewSelection()

		sel.Toggle(availableSeat("A01"))
		assert.True(t, sel.Contains("A01"))

		// A refresh may have flipped the seat to sold while it stayed selected.
		sel.Toggle(Seat{ID: "A01", Status: domain.SeatSold})

		assert.False(t, sel.Contains("A01"))
		assert.Zero(t, sel.Count())
	})

	t.Run("preserves selection order", func(t *testing.T) {
		sel := NewSelection()

		sel.Toggle(availableSeat("B02"))
		sel.Toggle(availableSeat("A01"))

		assert.Equal(t, []string{"B02", "A01"}, sel.Seats())
	})
}

func TestSelectionAmount(t *testing.T) {
	sel := NewSelection()
	price := decimal.NewFromInt(200)

	assert.True(t, sel.Amount(price).IsZero())

	sel.Toggle(availableSeat("A01"))
	sel.Toggle(availableSeat("A02"))

	assert.True(t, sel.Amount(price).Equal(decimal.NewFromInt(400)))
}

func TestSelectionClear(t *testing.T) {
	sel := NewSelection()

	sel.Toggle(availableSeat("A01"))
	sel.Clear()

	assert.Zero(t, sel.Count())
}
