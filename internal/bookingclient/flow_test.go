package bookingclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/cineverse/booking-platform/api"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) {
	json.NewDecoder(r.Body).Decode(v)
}

// fakeAPI is an in-process stand-in for the booking service, with call
// counters so tests can assert which requests the flow did and did not make.
type fakeAPI struct {
	mu sync.Mutex

	totalCalls      int
	seatStatusCalls int
	lockCalls       int
	lookupCalls     int
	createCalls     int
	confirmCalls    int

	seatRecords []api.SeatStatusRecord
	rejectLock  bool
	failConfirm bool
}

func (f *fakeAPI) handler() http.Handler {
	r := chi.NewRouter()

	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			f.mu.Lock()
			f.totalCalls++
			f.mu.Unlock()

			next.ServeHTTP(w, req)
		})
	})

	r.Get("/api/shows/{id}", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, api.ShowResponse{
			Id:          1,
			MovieName:   "Avenger",
			TheatreName: "Galaxy Cinema",
			ShowDate:    "2026-09-05",
			ShowTime:    "18:30",
			Price:       decimal.NewFromInt(200),
		})
	})

	r.Get("/api/bookings/seat-status/{showId}", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		f.seatStatusCalls++
		records := f.seatRecords
		f.mu.Unlock()

		if records == nil {
			records = []api.SeatStatusRecord{}
		}

		writeJSON(w, http.StatusOK, records)
	})

	r.Post("/api/bookings/lock", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		f.lockCalls++
		reject := f.rejectLock
		f.mu.Unlock()

		if reject {
			writeJSON(w, http.StatusConflict, api.ErrorResponse{
				Message:   "some of the selected seats are already locked",
				Timestamp: time.Now(),
			})
			return
		}

		var input api.LockRequest
		readJSON(req, &input)

		writeJSON(w, http.StatusOK, api.LockResponse{
			ShowID:      input.ShowID,
			SeatNumbers: input.SeatNumbers,
			ExpiresAt:   time.Now().Add(10 * time.Minute),
		})
	})

	r.Get("/api/auth/user/{username}", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		f.lookupCalls++
		f.mu.Unlock()

		writeJSON(w, http.StatusOK, api.UserLookupResponse{Id: 1})
	})

	r.Post("/api/payments/create-checkout-session", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		f.createCalls++
		f.mu.Unlock()

		writeJSON(w, http.StatusOK, api.CreateCheckoutSessionResponse{
			Url: "https://checkout.stripe.test/cs_test_123",
		})
	})

	r.Post("/api/payments/confirm-session", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		f.confirmCalls++
		fail := f.failConfirm
		f.mu.Unlock()

		if fail {
			writeJSON(w, http.StatusInternalServerError, api.ErrorResponse{
				Message:   "The server encountered a problem and could not process your request",
				Timestamp: time.Now(),
			})
			return
		}

		writeJSON(w, http.StatusOK, api.TicketResponse{
			BookingID:   1,
			MovieName:   "Avenger",
			ShowTime:    "18:30",
			SeatNumbers: []string{"A01", "A02"},
			Amount:      decimal.NewFromInt(400),
		})
	})

	return r
}

func (f *fakeAPI) counts() (total, seatStatus, lock, lookup, create, confirm int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.totalCalls, f.seatStatusCalls, f.lockCalls, f.lookupCalls, f.createCalls, f.confirmCalls
}

type CheckoutFlowTestSuite struct {
	suite.Suite
	api    *fakeAPI
	server *httptest.Server
	store  *MemorySessionStore
	client *Client
}

func (s *CheckoutFlowTestSuite) SetupTest() {
	s.api = &fakeAPI{}
	s.server = httptest.NewServer(s.api.handler())

	s.store = NewMemorySessionStore()
	s.Require().NoError(s.store.Save(Session{
		Token:    "test-token",
		UserID:   1,
		Username: "filmbuff",
		Phone:    "5551234567",
	}))

	s.client = NewClient(s.server.URL, s.store)
}

func (s *CheckoutFlowTestSuite) TearDownTest() {
	s.server.Close()
}

func TestCheckoutFlowSuite(t *testing.T) {
	suite.Run(t, new(CheckoutFlowTestSuite))
}

func (s *CheckoutFlowTestSuite) newCheckoutWithSelection() *Checkout {
	checkout, err := NewCheckout(context.Background(), s.client, s.store, 1)
	s.Require().NoError(err)

	checkout.ToggleSeat("A01")
	checkout.ToggleSeat("A02")
	s.Require().Equal(2, checkout.Selection().Count())

	return checkout
}

func (s *CheckoutFlowTestSuite) TestProceedToPaymentSuccess() {
	checkout := s.newCheckoutWithSelection()

	payment, err := checkout.ProceedToPayment(context.Background())
	s.Require().NoError(err)

	s.Equal(1, payment.UserID)
	s.Equal([]string{"A01", "A02"}, payment.Seats)
	s.True(payment.Amount.Equal(decimal.NewFromInt(400)))
	s.True(checkout.CanPay())

	_, _, lock, _, _, _ := s.api.counts()
	s.Equal(1, lock)
}

func (s *CheckoutFlowTestSuite) TestProceedToPaymentNothingSelected() {
	checkout, err := NewCheckout(context.Background(), s.client, s.store, 1)
	s.Require().NoError(err)

	_, err = checkout.ProceedToPayment(context.Background())
	s.ErrorIs(err, ErrNothingSelected)

	_, _, lock, _, _, _ := s.api.counts()
	s.Zero(lock)
}

func (s *CheckoutFlowTestSuite) TestProceedToPaymentLockRejected() {
	checkout := s.newCheckoutWithSelection()
	s.api.rejectLock = true

	_, err := checkout.ProceedToPayment(context.Background())
	s.ErrorIs(err, ErrSeatLockRejected)

	// The selection stays intact, a fresh status fetch happened and the
	// payment window never opened.
	s.Equal([]string{"A01", "A02"}, checkout.Selection().Seats())
	s.False(checkout.CanPay())

	_, seatStatus, lock, _, _, _ := s.api.counts()
	s.Equal(1, lock, "a rejected lock must not be retried")
	s.Equal(2, seatStatus, "one fetch on entry, one forced refresh after rejection")
}

func (s *CheckoutFlowTestSuite) TestResolveUserIDFallsBackToLookup() {
	s.Require().NoError(s.store.Save(Session{
		Token:    "test-token",
		Username: "filmbuff",
	}))

	checkout := s.newCheckoutWithSelection()

	payment, err := checkout.ProceedToPayment(context.Background())
	s.Require().NoError(err)
	s.Equal(1, payment.UserID)

	_, _, _, lookup, _, _ := s.api.counts()
	s.Equal(1, lookup)

	session, err := s.store.Load()
	s.Require().NoError(err)
	s.Equal(1, session.UserID, "resolved id is saved back to the session")
}

func (s *CheckoutFlowTestSuite) TestCountdownExpiryRedirectsExactlyOnce() {
	checkout := s.newCheckoutWithSelection()

	_, err := checkout.ProceedToPayment(context.Background())
	s.Require().NoError(err)

	redirects := 0
	for i := 0; i < PaymentWindowSeconds; i++ {
		if checkout.Tick() {
			redirects++
		}
	}

	s.Equal(1, redirects)
	s.False(checkout.CanPay())

	for i := 0; i < 10; i++ {
		s.False(checkout.Tick())
	}

	_, err = checkout.Pay(context.Background())
	s.ErrorIs(err, ErrPaymentWindowExpired)

	_, _, _, _, create, _ := s.api.counts()
	s.Zero(create, "no checkout session may be created after expiry")
}

func (s *CheckoutFlowTestSuite) TestPaySuccess() {
	checkout := s.newCheckoutWithSelection()

	_, err := checkout.ProceedToPayment(context.Background())
	s.Require().NoError(err)

	url, err := checkout.Pay(context.Background())
	s.Require().NoError(err)
	s.Equal("https://checkout.stripe.test/cs_test_123", url)
}

func (s *CheckoutFlowTestSuite) TestConfirmReturnWithoutSessionID() {
	checkout := s.newCheckoutWithSelection()

	before, _, _, _, _, _ := s.api.counts()

	_, err := checkout.ConfirmReturn(context.Background(), "https://app.cineverse.test/payment-success")
	s.ErrorIs(err, ErrMissingSessionID)

	after, _, _, _, _, _ := s.api.counts()
	s.Equal(before, after, "a missing session_id must not trigger any request")
}

func (s *CheckoutFlowTestSuite) TestConfirmReturnSuccess() {
	checkout := s.newCheckoutWithSelection()

	ticket, err := checkout.ConfirmReturn(context.Background(), "https://app.cineverse.test/payment-success?session_id=cs_test_123")
	s.Require().NoError(err)

	view := NewTicketView(*ticket)
	s.Equal(1, view.BookingID)
	s.Equal("Avenger", view.MovieName)
	s.Equal("18:30", view.ShowTime)
	s.Equal([]string{"A01", "A02"}, view.SeatNumbers)
	s.Equal("₹400.00", view.Amount)
}

func (s *CheckoutFlowTestSuite) TestConfirmReturnFailureIsTerminal() {
	checkout := s.newCheckoutWithSelection()
	s.api.failConfirm = true

	_, err := checkout.ConfirmReturn(context.Background(), "https://app.cineverse.test/payment-success?session_id=cs_test_123")
	s.ErrorIs(err, ErrConfirmationFailed)

	_, _, _, _, _, confirm := s.api.counts()
	s.Equal(1, confirm, "a failed confirmation must not be retried")
}

func (s *CheckoutFlowTestSuite) TestRefreshSeatStatusPreservesSelection() {
	checkout := s.newCheckoutWithSelection()

	s.api.mu.Lock()
	s.api.seatRecords = []api.SeatStatusRecord{{Seat: "A01", Status: "locked"}}
	s.api.mu.Unlock()

	s.Require().NoError(checkout.RefreshSeatStatus(context.Background()))

	seat, ok := checkout.Grid().Seat("A01")
	s.Require().True(ok)
	s.Equal("locked", string(seat.Status))

	// No automatic pruning: the now-unavailable seat stays selected until
	// the user toggles it out.
	s.Equal([]string{"A01", "A02"}, checkout.Selection().Seats())
}
