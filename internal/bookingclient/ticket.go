package bookingclient

import (
	"github.com/cineverse/booking-platform/api"
	"github.com/shopspring/decimal"
)

// TicketView is the confirmed ticket as rendered to the user. Fields are
// copied verbatim from the confirmation response; only the amount is
// formatted as currency.
type TicketView struct {
	BookingID   int
	MovieName   string
	ShowTime    string
	SeatNumbers []string
	Amount      string
}

func NewTicketView(t api.TicketResponse) TicketView {
	return TicketView{
		BookingID:   t.BookingID,
		MovieName:   t.MovieName,
		ShowTime:    t.ShowTime,
		SeatNumbers: t.SeatNumbers,
		Amount:      FormatAmount(t.Amount),
	}
}

// FormatAmount renders a rupee amount like "₹400.00".
func FormatAmount(amount decimal.Decimal) string {
	return "₹" + amount.StringFixed(2)
}
