package app

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"github.com/cineverse/booking-platform/api"
	"github.com/cineverse/booking-platform/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
)

// Redis Lua script to clean up expired seat locks and return currently valid locked seat numbers.
var filterValidSeatLocks = redis.NewScript(`
	local setKey = KEYS[1]
	local showId = ARGV[1]
	local cursor = "0"
	local batchSize = 100
	local expiredSeats = {}
	local validSeats = {}

	repeat
		local result = redis.call("SSCAN", setKey, cursor, "COUNT", batchSize)
		cursor = result[1]
		local seats = result[2]

		for _, seat in ipairs(seats) do
			local lockKey = "seat_lock:" .. showId .. ":" .. seat
			if redis.call("EXISTS", lockKey) == 0 then
				table.insert(expiredSeats, seat)
			else
				table.insert(validSeats, seat)
			end
		end
	until cursor == "0"

	if #expiredSeats > 0 then
		redis.call("SREM", setKey, unpack(expiredSeats))
	end

	return validSeats
`)

// GetSeatStatusHandler reports the non-available seats of a show. Seats
// absent from the response are available; clients rely on that default.
func (app *Application) GetSeatStatusHandler(w http.ResponseWriter, r *http.Request) {
	showID, err := strconv.Atoi(chi.URLParam(r, "showId"))
	if err != nil || showID < 1 {
		app.badRequestResponse(w, r, fmt.Errorf("show ID must be a positive integer"))
		return
	}

	soldSeats, err := app.bookingRepo.GetSoldSeatsByShowId(r.Context(), showID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	lockedSeats, err := app.validLockedSeats(r.Context(), showID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := toSeatStatusResponse(soldSeats, lockedSeats)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) validLockedSeats(ctx context.Context, showID int) ([]string, error) {
	cmd := filterValidSeatLocks.Run(ctx, app.redis, []string{seatSetKey(showID)}, showID)
	lockedSeats, err := cmd.StringSlice()
	if err != nil {
		return nil, fmt.Errorf("failed to run filterValidSeatLocks script: %w", err)
	}

	return lockedSeats, nil
}

func toSeatStatusResponse(soldSeats, lockedSeats []string) api.SeatStatusResponse {
	statuses := make(map[string]domain.SeatStatus, len(soldSeats)+len(lockedSeats))

	for _, seat := range lockedSeats {
		statuses[seat] = domain.SeatLocked
	}

	// Sold wins over a stale lock for the same seat.
	for _, seat := range soldSeats {
		statuses[seat] = domain.SeatSold
	}

	resp := make(api.SeatStatusResponse, 0, len(statuses))
	for seat, status := range statuses {
		resp = append(resp, api.SeatStatusRecord{Seat: seat, Status: string(status)})
	}

	sort.Slice(resp, func(i, j int) bool { return resp[i].Seat < resp[j].Seat })

	return resp
}
