package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// Show identifies a single screening. Shows are immutable from the booking
// flow's perspective; pricing is per seat.
type Show struct {
	ID          int
	MovieID     string
	MovieName   string
	TheatreID   int
	TheatreName string
	ShowDate    string
	ShowTime    string
	Price       decimal.Decimal
}

type ShowRepository interface {
	GetById(ctx context.Context, id int) (*Show, error)
}
