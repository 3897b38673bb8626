package repository

import (
	"context"
	"errors"

	"github.com/cineverse/booking-platform/internal/domain"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresBookingRepository struct {
	db *pgxpool.Pool
}

func NewPostgresBookingRepository(db *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{
		db: db,
	}
}

func (p *PostgresBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			UPDATE payments
			SET status = 'completed', payment_date = NOW()
			WHERE checkout_session_id = $1
		`

		_, err := tx.Exec(ctx, query, booking.CheckoutSessionID)
		if err != nil {
			return err
		}

		query = `
			INSERT INTO bookings (
				user_id,
				show_id,
				theatre_id,
				movie_id,
				seat_numbers,
				amount,
				status,
				checkout_session_id
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id, booking_time
		`

		return tx.QueryRow(
			ctx,
			query,
			booking.UserID,
			booking.ShowID,
			booking.TheatreID,
			booking.MovieID,
			booking.SeatNumbers,
			booking.Amount,
			booking.Status,
			booking.CheckoutSessionID,
		).Scan(&booking.ID, &booking.BookingTime)
	})

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return domain.ErrDuplicateBooking
	}

	return err
}

func (p *PostgresBookingRepository) GetByCheckoutSessionId(
	ctx context.Context,
	checkoutSessionID string) (*domain.Booking, error) {

	query := `
		SELECT id, user_id, show_id, theatre_id, movie_id, seat_numbers, amount, status, checkout_session_id, booking_time
		FROM bookings
		WHERE checkout_session_id = $1
	`

	var booking domain.Booking

	err := p.db.QueryRow(ctx, query, checkoutSessionID).Scan(
		&booking.ID,
		&booking.UserID,
		&booking.ShowID,
		&booking.TheatreID,
		&booking.MovieID,
		&booking.SeatNumbers,
		&booking.Amount,
		&booking.Status,
		&booking.CheckoutSessionID,
		&booking.BookingTime,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &booking, nil
}

func (p *PostgresBookingRepository) GetSoldSeatsByShowId(ctx context.Context, showID int) ([]string, error) {
	query := `
		SELECT UNNEST(seat_numbers)
		FROM bookings
		WHERE show_id = $1 AND status = 'CONFIRMED'
	`

	rows, err := p.db.Query(ctx, query, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	soldSeats := make([]string, 0)

	for rows.Next() {
		var seat string

		if err = rows.Scan(&seat); err != nil {
			return nil, err
		}

		soldSeats = append(soldSeats, seat)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return soldSeats, nil
}

func (p *PostgresBookingRepository) GetBookingsByUserId(ctx context.Context, userID int) ([]domain.Booking, error) {
	query := `
		SELECT id, user_id, show_id, theatre_id, movie_id, seat_numbers, amount, status, checkout_session_id, booking_time
		FROM bookings
		WHERE user_id = $1
		ORDER BY booking_time DESC
	`

	rows, err := p.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)

	for rows.Next() {
		var booking domain.Booking

		err = rows.Scan(
			&booking.ID,
			&booking.UserID,
			&booking.ShowID,
			&booking.TheatreID,
			&booking.MovieID,
			&booking.SeatNumbers,
			&booking.Amount,
			&booking.Status,
			&booking.CheckoutSessionID,
			&booking.BookingTime,
		)
		if err != nil {
			return nil, err
		}

		bookings = append(bookings, booking)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return bookings, nil
}

func runInTx(ctx context.Context, db *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	var txOptions pgx.TxOptions

	tx, err := db.BeginTx(ctx, txOptions)
	if err != nil {
		return err
	}

	err = fn(tx)
	if err == nil {
		return tx.Commit(ctx)
	}

	rollbackErr := tx.Rollback(ctx)
	if rollbackErr != nil {
		return errors.Join(err, rollbackErr)
	}

	return err
}
