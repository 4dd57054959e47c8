package domain

import "errors"

var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrDuplicateTitle    = errors.New("a movie with this title already exists")
	ErrDuplicateGenre    = errors.New("a genre with this name already exists")
	ErrUserAlreadyExists = errors.New("user already exists with this email")
	ErrMovieNotFound     = errors.New("movie does not exist")
	ErrUserNotFound      = errors.New("user does not exist")
	ErrEditConflict      = errors.New("edit conflict")
	ErrInvalidCursor     = errors.New("invalid pagination cursor")
	ErrInvalidSort       = errors.New("invalid sort specification")
)
