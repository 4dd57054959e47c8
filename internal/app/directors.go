package app

import (
	"errors"
	"net/http"

	"github.com/moviehub/catalog-service/api"
	"github.com/moviehub/catalog-service/internal/domain"
)

func (app *application) GetDirectors(w http.ResponseWriter, r *http.Request) {
	directors, err := app.directorRepo.GetAll(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := make([]api.DirectorResponse, len(directors))
	for i, director := range directors {
		resp[i] = toDirectorResponse(director)
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) GetDirector(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "directorId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	director, err := app.directorRepo.GetById(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.writeJSON(w, http.StatusOK, toDirectorResponse(director), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) CreateDirector(w http.ResponseWriter, r *http.Request) {
	var input api.CreateDirectorRequest

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

	director := domain.Director{
		Name:        input.Name,
		DateOfBirth: input.DateOfBirth,
		Nationality: input.Nationality,
	}

	err = app.directorRepo.Create(r.Context(), &director)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, toDirectorResponse(&director), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) UpdateDirector(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "directorId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.UpdateDirectorRequest

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

	director, err := app.directorRepo.GetById(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	if input.Name != nil {
		director.Name = *input.Name
	}
	if input.DateOfBirth != nil {
		director.DateOfBirth = *input.DateOfBirth
	}
	if input.Nationality != nil {
		director.Nationality = *input.Nationality
	}

	err = app.directorRepo.Update(r.Context(), director)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEditConflict):
			app.conflictResponse(w, r, domain.ErrEditConflict.Error())
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.writeJSON(w, http.StatusOK, toDirectorResponse(director), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) DeleteDirector(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "directorId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.directorRepo.Delete(r.Context(), id)
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

func toDirectorResponse(director *domain.Director) api.DirectorResponse {
	return api.DirectorResponse{
		Id:          director.ID,
		Name:        director.Name,
		DateOfBirth: director.DateOfBirth,
		Nationality: director.Nationality,
	}
}
