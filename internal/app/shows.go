package app

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/cineverse/booking-platform/api"
	"github.com/cineverse/booking-platform/internal/domain"
	"github.com/go-chi/chi/v5"
)

func (app *Application) GetShowHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		app.badRequestResponse(w, r, fmt.Errorf("show ID must be a positive integer"))
		return
	}

	show, err := app.showRepo.GetById(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	resp := api.ShowResponse{
		Id:          show.ID,
		MovieName:   show.MovieName,
		TheatreName: show.TheatreName,
		ShowDate:    show.ShowDate,
		ShowTime:    show.ShowTime,
		Price:       show.Price,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
