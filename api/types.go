// Package api holds the request and response types of the HTTP layer.
// Every response is an explicit projection: the fields listed here are
// the only fields that ever leave the service, so there is no
// reflection-driven field hiding anywhere.
package api

import "time"

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

type DirectorResponse struct {
	Id          int       `json:"id"`
	Name        string    `json:"name"`
	DateOfBirth time.Time `json:"dateOfBirth"`
	Nationality string    `json:"nationality"`
}

type GenreResponse struct {
	Id   int    `json:"id"`
	Name string `json:"name"`
}

type UserSummary struct {
	Id    int    `json:"id"`
	Email string `json:"email"`
}

type MovieResponse struct {
	Id            int              `json:"id"`
	Title         string           `json:"title"`
	Detail        string           `json:"detail"`
	MovieFilePath string           `json:"movieFilePath"`
	LikeCount     int              `json:"likeCount"`
	DislikeCount  int              `json:"dislikeCount"`
	Director      DirectorResponse `json:"director"`
	Genres        []GenreResponse  `json:"genres"`
	Creator       UserSummary      `json:"creator"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// MovieSummary is the list projection. MyLike is only present when the
// request carried an authenticated user.
type MovieSummary struct {
	Id           int       `json:"id"`
	Title        string    `json:"title"`
	LikeCount    int       `json:"likeCount"`
	DislikeCount int       `json:"dislikeCount"`
	CreatedAt    time.Time `json:"createdAt"`
	MyLike       *bool     `json:"myLike,omitempty"`
}

type MovieListResponse struct {
	Movies     []MovieSummary `json:"movies"`
	NextCursor *string        `json:"nextCursor"`
}

type CreateMovieRequest struct {
	Title         string `json:"title" validate:"required"`
	Detail        string `json:"detail" validate:"required"`
	DirectorId    int    `json:"directorId" validate:"required,gt=0"`
	GenreIds      []int  `json:"genreIds" validate:"required,min=1,dive,gt=0"`
	MovieFileName string `json:"movieFileName" validate:"required"`
}

type UpdateMovieRequest struct {
	Title      *string `json:"title" validate:"omitempty,min=1"`
	Detail     *string `json:"detail" validate:"omitempty,min=1"`
	DirectorId *int    `json:"directorId" validate:"omitempty,gt=0"`
	GenreIds   []int   `json:"genreIds" validate:"omitempty,min=1,dive,gt=0"`
}

type DeleteMovieResponse struct {
	Id int `json:"id"`
}

// LikeStatusResponse carries the tri-state like status: true when
// liked, false when disliked, null when no opinion is recorded.
type LikeStatusResponse struct {
	IsLike *bool `json:"isLike"`
}

type CreateDirectorRequest struct {
	Name        string    `json:"name" validate:"required"`
	DateOfBirth time.Time `json:"dateOfBirth" validate:"required"`
	Nationality string    `json:"nationality" validate:"required"`
}

type UpdateDirectorRequest struct {
	Name        *string    `json:"name" validate:"omitempty,min=1"`
	DateOfBirth *time.Time `json:"dateOfBirth"`
	Nationality *string    `json:"nationality" validate:"omitempty,min=1"`
}

type CreateGenreRequest struct {
	Name string `json:"name" validate:"required"`
}

type UpdateGenreRequest struct {
	Name string `json:"name" validate:"required"`
}

type UserResponse struct {
	Id        int       `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type RegisterUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
