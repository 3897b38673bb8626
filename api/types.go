// Package api holds the request and response types of the booking platform's
// public HTTP surface. The shapes mirror the wire contracts consumed by the
// booking client in internal/bookingclient.
package api

import (
	"time"

	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	RequestId        string            `json:"requestId,omitempty"`
	Timestamp        time.Time         `json:"timestamp"`
	ValidationErrors []ValidationError `json:"validationErrors"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

// SeatStatusRecord is one element of the seat-status response. Seats missing
// from the list are implicitly available; clients must not treat absence as
// an error.
type SeatStatusRecord struct {
	Seat   string `json:"seat"`
	Status string `json:"status"`
}

type SeatStatusResponse []SeatStatusRecord

type LockRequest struct {
	UserID      int      `json:"userId" validate:"required,gt=0"`
	ShowID      int      `json:"showId" validate:"required,gt=0"`
	SeatNumbers []string `json:"seatNumbers" validate:"required,min=1,max=10,dive,seat_number"`
}

type LockResponse struct {
	ShowID      int       `json:"showId"`
	SeatNumbers []string  `json:"seatNumbers"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type ShowResponse struct {
	Id          int             `json:"id"`
	MovieName   string          `json:"movieName"`
	TheatreName string          `json:"theatreName"`
	ShowDate    string          `json:"showDate"`
	ShowTime    string          `json:"showTime"`
	Price       decimal.Decimal `json:"price"`
}

type CreateCheckoutSessionRequest struct {
	UserID    int             `json:"userId" validate:"required,gt=0"`
	ShowID    int             `json:"showId" validate:"required,gt=0"`
	Amount    decimal.Decimal `json:"amount" validate:"required"`
	Seats     []string        `json:"seats" validate:"required,min=1,max=10,dive,seat_number"`
	UserName  string          `json:"userName"`
	UserPhone string          `json:"userPhone"`
	MovieName string          `json:"movieName"`
	ShowTime  string          `json:"showTime"`
}

type CreateCheckoutSessionResponse struct {
	Url string `json:"url"`
}

type ConfirmSessionRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
}

// TicketResponse is the confirmed booking returned by confirm-session. The
// client renders these fields verbatim, formatting only the amount.
type TicketResponse struct {
	BookingID   int             `json:"bookingId"`
	MovieName   string          `json:"movieName"`
	ShowTime    string          `json:"showTime"`
	SeatNumbers []string        `json:"seatNumbers"`
	Amount      decimal.Decimal `json:"amount"`
}

type BookingSummary struct {
	BookingID   int             `json:"bookingId"`
	ShowID      int             `json:"showId"`
	SeatNumbers []string        `json:"seatNumbers"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
	BookingTime time.Time       `json:"bookingTime"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	UserID   int    `json:"userId"`
	Username string `json:"username"`
}

type UserLookupResponse struct {
	Id int `json:"id"`
}
