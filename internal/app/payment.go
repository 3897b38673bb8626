package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/cineverse/booking-platform/api"
	"github.com/cineverse/booking-platform/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
)

// CreateCheckoutSessionHandler creates a hosted payment page for the user's
// locked seats. The caller must hold a valid lock on every seat it wants to
// pay for; expired or foreign locks reject the request so the payment page
// can never be reached for seats the user no longer owns.
func (app *Application) CreateCheckoutSessionHandler(w http.ResponseWriter, r *http.Request) {
	var input api.CreateCheckoutSessionRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	userID := app.contextGetUserId(r)
	if input.UserID != userID {
		app.forbiddenResponse(w, r)
		return
	}

	err = app.verifySeatLockOwnership(r.Context(), input.ShowID, userID, input.Seats)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSeatNotOwned):
			app.editConflictResponseWithErr(w, r, fmt.Errorf("your seat locks have expired or belong to another user, please reselect seats"))
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	user, err := app.userRepo.GetById(r.Context(), userID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	show, err := app.showRepo.GetById(r.Context(), input.ShowID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponseWithErr(w, r, fmt.Errorf("show not found"))
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	details := domain.CheckoutDetails{
		UserID:      user.ID,
		UserEmail:   user.Email,
		ShowID:      show.ID,
		MovieName:   show.MovieName,
		TheatreName: show.TheatreName,
		ShowTime:    show.ShowTime,
		SeatNumbers: input.Seats,
		Amount:      input.Amount,
	}

	sess, err := app.paymentProvider.CreateCheckoutSession(details)
	if err != nil {
		app.serverErrorResponse(w, r, fmt.Errorf("failed to create checkout session: %w", err))
		return
	}

	payment := &domain.Payment{
		UserID:            user.ID,
		ShowID:            show.ID,
		CheckoutSessionId: sess.ID,
		Amount:            input.Amount,
		Currency:          string(stripe.CurrencyINR),
		Status:            domain.PaymentStatusPending,
	}

	err = app.paymentRepo.Create(r.Context(), payment)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.CreateCheckoutSessionResponse{Url: sess.URL}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// ConfirmSessionHandler exchanges a checkout session id for a confirmed
// ticket. It is idempotent: confirming the same session twice returns the
// booking created the first time rather than an error, so a client that
// reloads the success page still ends up with its ticket.
func (app *Application) ConfirmSessionHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	var input api.ConfirmSessionRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	sess, err := app.paymentProvider.RetrieveCheckoutSession(input.SessionID)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("checkout session couldn't be retrieved"))
		return
	}

	payment, err := app.paymentRepo.GetByCheckoutSessionId(r.Context(), input.SessionID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponseWithErr(w, r, fmt.Errorf("no payment found for this checkout session"))
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	if sess.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		updateErr := app.paymentRepo.UpdateStatus(r.Context(), input.SessionID, domain.PaymentStatusCanceled, "payment not completed")
		if updateErr != nil {
			logger.Error("failed to mark payment as canceled", "error", updateErr)
		}

		app.errorResponse(w, r, http.StatusPaymentRequired, domain.ErrPaymentNotCompleted.Error())
		return
	}

	meta, err := parseCheckoutMetadata(sess.Metadata)
	if err != nil {
		app.serverErrorResponse(w, r, fmt.Errorf("malformed checkout session metadata: %w", err))
		return
	}

	if meta.userID != app.contextGetUserId(r) {
		app.forbiddenResponse(w, r)
		return
	}

	show, err := app.showRepo.GetById(r.Context(), meta.showID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	booking := &domain.Booking{
		UserID:            meta.userID,
		ShowID:            show.ID,
		TheatreID:         show.TheatreID,
		MovieID:           show.MovieID,
		SeatNumbers:       meta.seatNumbers,
		Amount:            payment.Amount,
		Status:            domain.BookingConfirmed,
		CheckoutSessionID: input.SessionID,
	}

	err = app.bookingRepo.Create(r.Context(), booking)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateBooking):
			existing, getErr := app.bookingRepo.GetByCheckoutSessionId(r.Context(), input.SessionID)
			if getErr != nil {
				app.serverErrorResponse(w, r, getErr)
				return
			}

			booking = existing
		default:
			app.serverErrorResponse(w, r, err)
			return
		}
	} else {
		err = app.releaseSeatLocks(r.Context(), show.ID, meta.seatNumbers)
		if err != nil {
			// Locks will fall out on their own at TTL expiry.
			logger.Error("failed to release seat locks after booking", "error", err)
		}

		app.sendTicketEmail(booking, meta)
	}

	resp := api.TicketResponse{
		BookingID:   booking.ID,
		MovieName:   meta.movieName,
		ShowTime:    meta.showTime,
		SeatNumbers: booking.SeatNumbers,
		Amount:      booking.Amount,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) verifySeatLockOwnership(ctx context.Context, showID, userID int, seatNumbers []string) error {
	owner := strconv.Itoa(userID)

	for _, seat := range seatNumbers {
		val, err := app.redis.Get(ctx, seatLockKey(showID, seat)).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return domain.ErrSeatNotOwned
			}

			return err
		}

		if val != owner {
			return domain.ErrSeatNotOwned
		}
	}

	return nil
}

func (app *Application) sendTicketEmail(booking *domain.Booking, meta checkoutMetadata) {
	app.background(func() {
		user, err := app.userRepo.GetById(context.Background(), booking.UserID)
		if err != nil {
			app.logger.Error("failed to load user for ticket email", "error", err)
			return
		}

		data := map[string]any{
			"UserName":  user.Username,
			"BookingID": booking.ID,
			"MovieName": meta.movieName,
			"ShowTime":  meta.showTime,
			"Seats":     strings.Join(booking.SeatNumbers, ", "),
			"Amount":    booking.Amount.StringFixed(2),
		}

		err = app.mailer.Send(user.Email, "ticket_confirmation.tmpl", data)
		if err != nil {
			app.logger.Error("failed to send ticket confirmation email", "error", err)
		}
	})
}

type checkoutMetadata struct {
	userID      int
	showID      int
	seatNumbers []string
	movieName   string
	showTime    string
	amount      decimal.Decimal
}

func parseCheckoutMetadata(m map[string]string) (checkoutMetadata, error) {
	var meta checkoutMetadata

	userID, err := strconv.Atoi(m["user_id"])
	if err != nil {
		return meta, fmt.Errorf("invalid user_id %q", m["user_id"])
	}

	showID, err := strconv.Atoi(m["show_id"])
	if err != nil {
		return meta, fmt.Errorf("invalid show_id %q", m["show_id"])
	}

	if m["seat_numbers"] == "" {
		return meta, fmt.Errorf("missing seat_numbers")
	}

	amount, err := decimal.NewFromString(m["amount"])
	if err != nil {
		return meta, fmt.Errorf("invalid amount %q", m["amount"])
	}

	meta.userID = userID
	meta.showID = showID
	meta.seatNumbers = strings.Split(m["seat_numbers"], ",")
	meta.movieName = m["movie_name"]
	meta.showTime = m["show_time"]
	meta.amount = amount

	return meta, nil
}
