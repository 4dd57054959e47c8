package app

import (
	"errors"
	"net/http"

	"github.com/moviehub/catalog-service/api"
	"github.com/moviehub/catalog-service/internal/domain"
)

func (app *application) GetGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := app.genreRepo.GetAll(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := make([]api.GenreResponse, len(genres))
	for i, genre := range genres {
		resp[i] = api.GenreResponse{Id: genre.ID, Name: genre.Name}
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) GetGenre(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "genreId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	genre, err := app.genreRepo.GetById(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.writeJSON(w, http.StatusOK, api.GenreResponse{Id: genre.ID, Name: genre.Name}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) CreateGenre(w http.ResponseWriter, r *http.Request) {
	var input api.CreateGenreRequest

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

	genre := domain.Genre{Name: input.Name}

	err = app.genreRepo.Create(r.Context(), &genre)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateGenre):
			app.conflictResponse(w, r, domain.ErrDuplicateGenre.Error())
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.writeJSON(w, http.StatusCreated, api.GenreResponse{Id: genre.ID, Name: genre.Name}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) UpdateGenre(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "genreId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.UpdateGenreRequest

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	genre, err := app.genreRepo.GetById(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	genre.Name = input.Name

	err = app.genreRepo.Update(r.Context(), genre)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEditConflict):
			app.conflictResponse(w, r, domain.ErrEditConflict.Error())
		case errors.Is(err, domain.ErrDuplicateGenre):
			app.conflictResponse(w, r, domain.ErrDuplicateGenre.Error())
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.writeJSON(w, http.StatusOK, api.GenreResponse{Id: genre.ID, Name: genre.Name}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) DeleteGenre(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "genreId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.genreRepo.Delete(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
