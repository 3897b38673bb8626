package bookingclient

import (
	"testing"

	"github.com/cineverse/booking-platform/api"
	"github.com/cineverse/booking-platform/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGrid(t *testing.T) {
	price := decimal.NewFromInt(200)

	t.Run("builds the full layout with every seat available by default", func(t *testing.T) {
		grid := NewGrid(price, nil)

		seats := grid.Seats()
		require.Len(t, seats, len(RowLetters)*SeatsPerRow)

		assert.Equal(t, "A01", seats[0].ID)
		assert.Equal(t, "N18", seats[len(seats)-1].ID)

		for _, seat := range seats {
			assert.Equal(t, domain.SeatAvailable, seat.Status)
			assert.True(t, seat.Price.Equal(price))
		}
	})

	t.Run("overlays remote statuses and defaults absent seats to available", func(t *testing.T) {
		grid := NewGrid(price, []api.SeatStatusRecord{
			{Seat: "A01", Status: "sold"},
			{Seat: "B05", Status: "locked"},
		})

		a01, ok := grid.Seat("A01")
		require.True(t, ok)
		assert.Equal(t, domain.SeatSold, a01.Status)

		b05, ok := grid.Seat("B05")
		require.True(t, ok)
		assert.Equal(t, domain.SeatLocked, b05.Status)

		a02, ok := grid.Seat("A02")
		require.True(t, ok)
		assert.Equal(t, domain.SeatAvailable, a02.Status)
	})

	t.Run("ignores records for seats outside the layout", func(t *testing.T) {
		grid := NewGrid(price, []api.SeatStatusRecord{
			{Seat: "Z99", Status: "sold"},
			{Seat: "I01", Status: "sold"},
		})

		for _, seat := range grid.Seats() {
			assert.Equal(t, domain.SeatAvailable, seat.Status)
		}

		_, ok := grid.Seat("Z99")
		assert.False(t, ok)
	})

	t.Run("layout skips row I", func(t *testing.T) {
		grid := NewGrid(price, nil)

		_, ok := grid.Seat("I01")
		assert.False(t, ok)

		_, ok = grid.Seat("J01")
		assert.True(t, ok)
	})
}

func TestSeatID(t *testing.T) {
	assert.Equal(t, "A01", SeatID('A', 1))
	assert.Equal(t, "N18", SeatID('N', 18))
}
