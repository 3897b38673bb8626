package domain

import (
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
)

// PaymentProvider abstracts the external payment gateway. CheckoutDetails
// carries everything needed to build the hosted payment page line items.
type PaymentProvider interface {
	CreateCheckoutSession(details CheckoutDetails) (*stripe.CheckoutSession, error)
	RetrieveCheckoutSession(checkoutSessionID string) (*stripe.CheckoutSession, error)
}

type CheckoutDetails struct {
	UserID      int
	UserEmail   string
	ShowID      int
	MovieName   string
	TheatreName string
	ShowTime    string
	SeatNumbers []string
	Amount      decimal.Decimal
}
