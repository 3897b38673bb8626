package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cineverse/booking-platform/api"
	"github.com/cineverse/booking-platform/internal/domain"
	"github.com/redis/go-redis/v9"
)

const seatLockTTL = 10 * time.Minute

var lockSeatsScript = redis.NewScript(`
    -- KEYS = seat lock keys (e.g., seat_lock:123:A01, seat_lock:123:A02 etc.)
    -- ARGV = [userId, ttl]

    for i=1, #KEYS do
        if redis.call("EXISTS", KEYS[i]) == 1 then
            return {err = "seat already locked"} -- Return an error indicator
        end
    end

    for i=1, #KEYS do
        redis.call("SET", KEYS[i], ARGV[1], "EX", ARGV[2])
    end

    return "OK"
`)

// LockSeatsHandler provisionally reserves all requested seats in one atomic
// step. Either every seat is locked for the user or none is. This is the
// only point where exactly-once reservation semantics are attempted; clients
// never retry a rejected lock.
func (app *Application) LockSeatsHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	var input api.LockRequest

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

	if input.UserID != app.contextGetUserId(r) {
		app.forbiddenResponse(w, r)
		return
	}

	soldSeats, err := app.bookingRepo.GetSoldSeatsByShowId(r.Context(), input.ShowID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	soldSet := make(map[string]bool, len(soldSeats))
	for _, seat := range soldSeats {
		soldSet[seat] = true
	}

	for _, seat := range input.SeatNumbers {
		if soldSet[seat] {
			logger.Warn("lock conflict: user selected an already booked seat", "seat", seat)
			app.editConflictResponseWithErr(w, r, fmt.Errorf("some of the selected seats are already booked"))
			return
		}
	}

	err = app.tryLockSeats(r.Context(), input.SeatNumbers, input.ShowID, input.UserID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSeatAlreadyLocked):
			logger.Warn("lock conflict due to race condition: user selected an already locked seat")
			app.editConflictResponseWithErr(w, r, fmt.Errorf("some of the selected seats are already locked"))
		default:
			app.serverErrorResponse(w, r, fmt.Errorf("seats couldn't be acquired: %w", err))
		}

		return
	}

	err = app.trackLockedSeats(r.Context(), input.ShowID, input.SeatNumbers)
	if err != nil {
		app.rollbackSeatLocks(r.Context(), input.ShowID, input.SeatNumbers)
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.LockResponse{
		ShowID:      input.ShowID,
		SeatNumbers: input.SeatNumbers,
		ExpiresAt:   time.Now().Add(seatLockTTL),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) tryLockSeats(ctx context.Context, seatNumbers []string, showID, userID int) error {
	keys := make([]string, len(seatNumbers))
	for i, seat := range seatNumbers {
		keys[i] = seatLockKey(showID, seat)
	}

	err := lockSeatsScript.Run(ctx, app.redis, keys, userID, int(seatLockTTL.Seconds())).Err()
	if err != nil {
		if redis.HasErrorPrefix(err, "seat already locked") {
			return domain.ErrSeatAlreadyLocked
		}

		return err
	}

	return nil
}

// trackLockedSeats registers the seats in the show's lock set so seat-status
// reads can discover them without scanning the whole keyspace.
func (app *Application) trackLockedSeats(ctx context.Context, showID int, seatNumbers []string) error {
	members := make([]interface{}, len(seatNumbers))
	for i, seat := range seatNumbers {
		members[i] = seat
	}

	return app.redis.SAdd(ctx, seatSetKey(showID), members...).Err()
}

func (app *Application) rollbackSeatLocks(ctx context.Context, showID int, seatNumbers []string) {
	lockKeys := make([]string, len(seatNumbers))
	members := make([]interface{}, len(seatNumbers))

	for i, seat := range seatNumbers {
		lockKeys[i] = seatLockKey(showID, seat)
		members[i] = seat
	}

	pipe := app.redis.TxPipeline()
	pipe.Del(ctx, lockKeys...)
	pipe.SRem(ctx, seatSetKey(showID), members...)

	_, err := pipe.Exec(ctx)
	if err != nil {
		app.logger.Error("failed to rollback seat locks", "error", err)
		return
	}
}

// releaseSeatLocks removes the locks after a booking is confirmed. The
// client never issues an explicit unlock; expiry or confirmation are the
// only paths out.
func (app *Application) releaseSeatLocks(ctx context.Context, showID int, seatNumbers []string) error {
	lockKeys := make([]string, len(seatNumbers))
	members := make([]interface{}, len(seatNumbers))

	for i, seat := range seatNumbers {
		lockKeys[i] = seatLockKey(showID, seat)
		members[i] = seat
	}

	pipe := app.redis.TxPipeline()
	pipe.Del(ctx, lockKeys...)
	pipe.SRem(ctx, seatSetKey(showID), members...)

	_, err := pipe.Exec(ctx)

	return err
}

func seatLockKey(showID int, seatNumber string) string {
	return fmt.Sprintf("seat_lock:%d:%s", showID, seatNumber)
}

func seatSetKey(showID int) string {
	return fmt.Sprintf("seat_locks:%d", showID)
}
