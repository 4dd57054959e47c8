package app

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/moviehub/catalog-service/api"
	"github.com/moviehub/catalog-service/internal/domain"
)

func (app *application) GetMovies(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := domain.MovieFilter{
		Title:  query.Get("title"),
		Order:  query["order"],
		Cursor: query.Get("cursor"),
		// UserID stays zero for anonymous callers; the like status is
		// only joined in for an authenticated session.
		UserID: app.sessionManager.GetInt(r.Context(), SessionKeyUserId.String()),
	}

	if pageSize := query.Get("pageSize"); pageSize != "" {
		n, err := strconv.Atoi(pageSize)
		if err != nil || n < 1 || n > 100 {
			app.badRequestResponse(w, r, errors.New("pageSize must be a number between 1 and 100"))
			return
		}
		filter.PageSize = n
	}

	movies, nextCursor, err := app.movieRepo.GetAll(r.Context(), filter)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCursor), errors.Is(err, domain.ErrInvalidSort):
			app.badRequestResponse(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	resp := api.MovieListResponse{
		Movies:     toMovieSummaries(movies),
		NextCursor: nextCursor,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) GetRecentMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := app.recentMovies.Find(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toMovieSummaries(movies), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) GetMovie(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "movieId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	movie, err := app.movieRepo.GetById(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.writeJSON(w, http.StatusOK, toMovieResponse(movie), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var input api.CreateMovieRequest

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

	tempPath := filepath.Join(app.config.media.tempDir, input.MovieFileName)
	finalPath := filepath.Join(app.config.media.movieDir, input.MovieFileName)

	movie, err := app.movieRepo.Create(r.Context(), domain.CreateMovieInput{
		Title:         input.Title,
		Detail:        input.Detail,
		DirectorID:    input.DirectorId,
		GenreIDs:      input.GenreIds,
		CreatorID:     app.contextGetUserId(r),
		MovieFilePath: finalPath,
	}, func() error {
		// Runs inside the transaction scope: a failed move rolls the
		// inserts back, a failed commit leaves no claimed file behind.
		return os.Rename(tempPath, finalPath)
	})

	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		case errors.Is(err, domain.ErrDuplicateTitle):
			app.conflictResponse(w, r, domain.ErrDuplicateTitle.Error())
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.writeJSON(w, http.StatusCreated, toMovieResponse(movie), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "movieId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.UpdateMovieRequest

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

	movie, err := app.movieRepo.Update(r.Context(), id, domain.UpdateMovieInput{
		Title:      input.Title,
		Detail:     input.Detail,
		DirectorID: input.DirectorId,
		GenreIDs:   input.GenreIds,
	})

	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		case errors.Is(err, domain.ErrDuplicateTitle):
			app.conflictResponse(w, r, domain.ErrDuplicateTitle.Error())
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.writeJSON(w, http.StatusOK, toMovieResponse(movie), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "movieId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	deletedId, err := app.movieRepo.Delete(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.writeJSON(w, http.StatusOK, api.DeleteMovieResponse{Id: deletedId}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) LikeMovie(w http.ResponseWriter, r *http.Request) {
	app.toggleMovieLike(w, r, true)
}

func (app *application) DislikeMovie(w http.ResponseWriter, r *http.Request) {
	app.toggleMovieLike(w, r, false)
}

func (app *application) toggleMovieLike(w http.ResponseWriter, r *http.Request, isLike bool) {
	movieId, err := app.readIDParam(r, "movieId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	status, err := app.likeRepo.Toggle(r.Context(), movieId, app.contextGetUserId(r), isLike)
	if err != nil {
		switch {
		// An unresolved movie id is a client error here, unlike the
		// NotFound used for direct lookups.
		case errors.Is(err, domain.ErrMovieNotFound):
			app.badRequestResponse(w, r, err)
		case errors.Is(err, domain.ErrUserNotFound):
			app.unauthorizedAccessResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.writeJSON(w, http.StatusOK, api.LikeStatusResponse{IsLike: status}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toMovieSummaries(movies []*domain.Movie) []api.MovieSummary {
	summaries := make([]api.MovieSummary, len(movies))

	for i, movie := range movies {
		summaries[i] = api.MovieSummary{
			Id:           movie.ID,
			Title:        movie.Title,
			LikeCount:    movie.LikeCount,
			DislikeCount: movie.DislikeCount,
			CreatedAt:    movie.CreatedAt,
			MyLike:       movie.MyLike,
		}
	}

	return summaries
}

func toMovieResponse(movie *domain.Movie) api.MovieResponse {
	if movie == nil {
		return api.MovieResponse{}
	}

	return api.MovieResponse{
		Id:            movie.ID,
		Title:         movie.Title,
		Detail:        movie.Detail.Description,
		MovieFilePath: movie.MovieFilePath,
		LikeCount:     movie.LikeCount,
		DislikeCount:  movie.DislikeCount,
		Director:      toDirectorResponse(&movie.Director),
		Genres:        toGenreResponses(movie.Genres),
		Creator: api.UserSummary{
			Id:    movie.Creator.ID,
			Email: movie.Creator.Email,
		},
		CreatedAt: movie.CreatedAt,
		UpdatedAt: movie.UpdatedAt,
	}
}

func toGenreResponses(genres []domain.Genre) []api.GenreResponse {
	out := make([]api.GenreResponse, len(genres))
	for i, genre := range genres {
		out[i] = api.GenreResponse{Id: genre.ID, Name: genre.Name}
	}

	return out
}
