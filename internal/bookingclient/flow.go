package bookingclient

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/cineverse/booking-platform/api"
	"github.com/shopspring/decimal"
)

var (
	ErrNothingSelected  = errors.New("no seats selected")
	ErrNotAuthenticated = errors.New("no authenticated user in session")
	// ErrSeatLockRejected means the lock request was refused, usually because
	// another user got the seats first. The selection is kept and the seat
	// grid is refreshed; the user resolves the conflict manually.
	ErrSeatLockRejected     = errors.New("seat lock rejected")
	ErrPaymentWindowExpired = errors.New("payment window expired")
	// ErrMissingSessionID is terminal: the return URL carried no checkout
	// session id, so there is nothing to confirm and no call is made.
	ErrMissingSessionID = errors.New("missing session_id in return URL")
	// ErrConfirmationFailed is terminal: payment may already be captured, so
	// retrying could double-book. The user is directed to support instead.
	ErrConfirmationFailed = errors.New("booking confirmation failed, contact support")
)

// PaymentContext is the transient state carried from seat selection into the
// payment step. It is never persisted; countdown expiry discards it.
type PaymentContext struct {
	UserID    int
	Show      api.ShowResponse
	Seats     []string
	Amount    decimal.Decimal
	ExpiresAt time.Time
}

// Checkout drives one booking attempt for one show: fetch the grid, select
// seats, lock them, pay within the countdown window and confirm the ticket
// on return. A Checkout is single-threaded by contract, like the front end
// it models; only the CountdownTimer wrapper introduces concurrency.
type Checkout struct {
	client    *Client
	store     SessionStore
	show      api.ShowResponse
	grid      *Grid
	selection *Selection
	countdown *Countdown
	payment   *PaymentContext
}

// NewCheckout loads the show and its current seat status and starts with an
// empty selection.
func NewCheckout(ctx context.Context, client *Client, store SessionStore, showID int) (*Checkout, error) {
	show, err := client.GetShow(ctx, showID)
	if err != nil {
		return nil, err
	}

	records, err := client.SeatStatus(ctx, showID)
	if err != nil {
		return nil, err
	}

	return &Checkout{
		client:    client,
		store:     store,
		show:      *show,
		grid:      NewGrid(show.Price, records),
		selection: NewSelection(),
	}, nil
}

func (c *Checkout) Show() api.ShowResponse {
	return c.show
}

func (c *Checkout) Grid() *Grid {
	return c.grid
}

func (c *Checkout) Selection() *Selection {
	return c.selection
}

// ToggleSeat flips the selection state of a seat by id. Ids outside the
// layout are ignored.
func (c *Checkout) ToggleSeat(seatID string) {
	seat, ok := c.grid.Seat(seatID)
	if !ok {
		return
	}

	c.selection.Toggle(seat)
}

// RefreshSeatStatus refetches the authoritative seat status and rebuilds the
// grid. The selection is left untouched even if some of its seats are no
// longer available.
func (c *Checkout) RefreshSeatStatus(ctx context.Context) error {
	records, err := c.client.SeatStatus(ctx, c.show.Id)
	if err != nil {
		return err
	}

	c.grid = NewGrid(c.show.Price, records)

	return nil
}

// ProceedToPayment locks the selected seats and, on success, opens the
// payment window. On any rejection it refreshes the seat grid, keeps the
// selection and returns ErrSeatLockRejected; the caller must not navigate
// to payment. The lock request is issued exactly once, with no retry.
func (c *Checkout) ProceedToPayment(ctx context.Context) (*PaymentContext, error) {
	if c.selection.Count() == 0 {
		return nil, ErrNothingSelected
	}

	userID, err := c.resolveUserID(ctx)
	if err != nil {
		return nil, err
	}

	lockReq := api.LockRequest{
		UserID:      userID,
		ShowID:      c.show.Id,
		SeatNumbers: c.selection.Seats(),
	}

	lock, err := c.client.LockSeats(ctx, lockReq)
	if err != nil {
		if refreshErr := c.RefreshSeatStatus(ctx); refreshErr != nil {
			return nil, fmt.Errorf("%w: %s (status refresh also failed: %s)", ErrSeatLockRejected, err, refreshErr)
		}

		return nil, fmt.Errorf("%w: %s", ErrSeatLockRejected, err)
	}

	c.payment = &PaymentContext{
		UserID:    userID,
		Show:      c.show,
		Seats:     c.selection.Seats(),
		Amount:    c.selection.Amount(c.show.Price),
		ExpiresAt: lock.ExpiresAt,
	}
	c.countdown = NewCountdown(PaymentWindowSeconds)

	return c.payment, nil
}

// Tick advances the payment countdown by one second. It returns true exactly
// once, on expiry, which is the caller's cue to redirect back to seat
// selection. Expiry discards the payment context; no unlock call is made,
// the server's lock TTL handles release.
func (c *Checkout) Tick() bool {
	if c.countdown == nil {
		return false
	}

	expiredNow := c.countdown.Tick()
	if expiredNow {
		c.payment = nil
	}

	return expiredNow
}

// CanPay reports whether the pay action is currently allowed.
func (c *Checkout) CanPay() bool {
	return c.payment != nil && c.countdown != nil && !c.countdown.Expired()
}

// Pay creates the checkout session and returns the hosted payment page URL
// for the caller to redirect to. The countdown is checked synchronously
// here, closing the race between a just-expired timer and a pending click.
func (c *Checkout) Pay(ctx context.Context) (string, error) {
	if !c.CanPay() {
		return "", ErrPaymentWindowExpired
	}

	session, err := c.store.Load()
	if err != nil {
		return "", err
	}

	req := api.CreateCheckoutSessionRequest{
		UserID:    c.payment.UserID,
		ShowID:    c.show.Id,
		Amount:    c.payment.Amount,
		Seats:     c.payment.Seats,
		UserName:  session.Username,
		UserPhone: session.Phone,
		MovieName: c.show.MovieName,
		ShowTime:  c.show.ShowTime,
	}

	return c.client.CreateCheckoutSession(ctx, req)
}

// ConfirmReturn handles the redirect back from the payment provider. A
// return URL without a session_id is a terminal error and causes no network
// call. A failed confirmation is also terminal and never retried, since the
// payment may already be captured.
func (c *Checkout) ConfirmReturn(ctx context.Context, returnURL string) (*api.TicketResponse, error) {
	u, err := url.Parse(returnURL)
	if err != nil {
		return nil, ErrMissingSessionID
	}

	sessionID := u.Query().Get("session_id")
	if sessionID == "" {
		return nil, ErrMissingSessionID
	}

	ticket, err := c.client.ConfirmSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrConfirmationFailed, err)
	}

	return ticket, nil
}

// resolveUserID returns the acting user's id from the session, falling back
// to the lookup-by-username endpoint for sessions that predate the id field.
func (c *Checkout) resolveUserID(ctx context.Context) (int, error) {
	session, err := c.store.Load()
	if err != nil {
		return 0, err
	}

	if session.UserID > 0 {
		return session.UserID, nil
	}

	if session.Username == "" {
		return 0, ErrNotAuthenticated
	}

	userID, err := c.client.LookupUserID(ctx, session.Username)
	if err != nil {
		return 0, err
	}

	session.UserID = userID
	if err := c.store.Save(session); err != nil {
		return 0, err
	}

	return userID, nil
}
