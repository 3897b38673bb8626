package domain

import "errors"

var (
	ErrRecordNotFound      = errors.New("record not found")
	ErrSeatAlreadyLocked   = errors.New("seat(s) are already locked or booked")
	ErrSeatNotOwned        = errors.New("a selected seat is not locked by the requesting user")
	ErrPaymentNotCompleted = errors.New("payment has not been completed for this session")
	ErrDuplicateBooking    = errors.New("a booking already exists for this checkout session")
	ErrInvalidCredentials  = errors.New("invalid username or password")
)
