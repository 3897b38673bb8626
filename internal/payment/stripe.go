package payment

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cineverse/booking-platform/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
)

type StripePaymentProvider struct {
	successUrl string
	failureUrl string
}

func NewStripePaymentProvider(successUrl, failureUrl string) *StripePaymentProvider {
	return &StripePaymentProvider{
		successUrl: successUrl,
		failureUrl: failureUrl,
	}
}

func (s *StripePaymentProvider) CreateCheckoutSession(details domain.CheckoutDetails) (*stripe.CheckoutSession, error) {
	seatCount := int64(len(details.SeatNumbers))
	if seatCount == 0 {
		return nil, fmt.Errorf("checkout requires at least one seat")
	}

	perSeat := details.Amount.Div(decimal.NewFromInt(seatCount))
	unitAmount := perSeat.Mul(decimal.NewFromInt(100)).IntPart()

	lineItem := &stripe.CheckoutSessionLineItemParams{
		PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency:   stripe.String(string(stripe.CurrencyINR)),
			UnitAmount: stripe.Int64(unitAmount),
			ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
				Name: stripe.String(fmt.Sprintf("🎬 %s - Seats %s", details.MovieName, strings.Join(details.SeatNumbers, ", "))),
				Description: stripe.String(fmt.Sprintf(
					"Theatre: %s • Showtime: %s",
					details.TheatreName,
					details.ShowTime,
				)),
			},
		},
		Quantity: stripe.Int64(seatCount),
	}

	params := &stripe.CheckoutSessionParams{
		LineItems: []*stripe.CheckoutSessionLineItemParams{lineItem},
		Mode:      stripe.String(string(stripe.CheckoutSessionModePayment)),
		// The success URL carries the checkout session id back to the client,
		// which exchanges it for a ticket via confirm-session.
		SuccessURL: stripe.String(s.successUrl + "?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(s.failureUrl),
		Metadata: map[string]string{
			"user_id":      strconv.Itoa(details.UserID),
			"show_id":      strconv.Itoa(details.ShowID),
			"seat_numbers": strings.Join(details.SeatNumbers, ","),
			"movie_name":   details.MovieName,
			"show_time":    details.ShowTime,
			"amount":       details.Amount.String(),
		},
		CustomerEmail:     &details.UserEmail,
		ClientReferenceID: stripe.String(strconv.Itoa(details.UserID)),
	}

	return session.New(params)
}

func (s *StripePaymentProvider) RetrieveCheckoutSession(checkoutSessionID string) (*stripe.CheckoutSession, error) {
	return session.Get(checkoutSessionID, nil)
}
