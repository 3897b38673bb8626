package mocks

import (
	"github.com/cineverse/booking-platform/internal/domain"
	"github.com/stretchr/testify/mock"
	"github.com/stripe/stripe-go/v82"
)

type MockPaymentProvider struct {
	mock.Mock
	domain.PaymentProvider
}

func (m *MockPaymentProvider) CreateCheckoutSession(details domain.CheckoutDetails) (*stripe.CheckoutSession, error) {
	args := m.Called(details)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.CheckoutSession), args.Error(1)
}

func (m *MockPaymentProvider) RetrieveCheckoutSession(checkoutSessionID string) (*stripe.CheckoutSession, error) {
	args := m.Called(checkoutSessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.CheckoutSession), args.Error(1)
}
