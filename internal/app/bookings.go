package app

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/cineverse/booking-platform/api"
	"github.com/go-chi/chi/v5"
)

func (app *Application) GetUserBookingsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "userId"))
	if err != nil || userID < 1 {
		app.badRequestResponse(w, r, fmt.Errorf("user ID must be a positive integer"))
		return
	}

	if userID != app.contextGetUserId(r) {
		app.forbiddenResponse(w, r)
		return
	}

	bookings, err := app.bookingRepo.GetBookingsByUserId(r.Context(), userID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := make([]api.BookingSummary, len(bookings))
	for i, b := range bookings {
		resp[i] = api.BookingSummary{
			BookingID:   b.ID,
			ShowID:      b.ShowID,
			SeatNumbers: b.SeatNumbers,
			Amount:      b.Amount,
			Status:      string(b.Status),
			BookingTime: b.BookingTime,
		}
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
