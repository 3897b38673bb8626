package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
)

type Booking struct {
	ID                int
	UserID            int
	ShowID            int
	TheatreID         int
	MovieID           string
	SeatNumbers       []string
	Amount            decimal.Decimal
	Status            BookingStatus
	CheckoutSessionID string
	BookingTime       time.Time
}

type BookingRepository interface {
	// Create completes the pending payment for the booking's checkout session
	// and inserts the booking in a single transaction.
	Create(ctx context.Context, booking *Booking) error
	GetByCheckoutSessionId(ctx context.Context, checkoutSessionID string) (*Booking, error)
	// GetSoldSeatsByShowId returns the seat numbers of all confirmed bookings
	// for a show.
	GetSoldSeatsByShowId(ctx context.Context, showID int) ([]string, error)
	GetBookingsByUserId(ctx context.Context, userID int) ([]Booking, error)
}
