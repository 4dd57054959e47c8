package domain

import (
	"context"
	"time"
)

// Movie is the aggregate root. Detail is exclusively owned: it is
// created and deleted in the same transaction as the movie row.
// LikeCount and DislikeCount are derived from movie_user_likes by a
// periodic recomputation and may lag the per-user rows.
type Movie struct {
	ID            int
	Title         string
	MovieFilePath string
	LikeCount     int
	DislikeCount  int
	Detail        MovieDetail
	Director      Director
	Genres        []Genre
	Creator       User
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Version       int

	// MyLike holds the acting user's like status on list queries:
	// true liked, false disliked, nil no record (or anonymous caller).
	MyLike *bool
}

type MovieDetail struct {
	ID          int
	Description string
}

type CreateMovieInput struct {
	Title         string
	Detail        string
	DirectorID    int
	GenreIDs      []int
	CreatorID     int
	MovieFilePath string
}

// UpdateMovieInput carries PATCH semantics: nil fields are left
// untouched, a non-nil GenreIDs replaces the genre set exactly.
type UpdateMovieInput struct {
	Title      *string
	Detail     *string
	DirectorID *int
	GenreIDs   []int
}

type MovieFilter struct {
	Title    string
	Order    []string
	Cursor   string
	PageSize int

	// UserID of the acting user, or zero for anonymous callers. When
	// set, each returned movie carries its MyLike status.
	UserID int
}

// MovieSortColumns maps the sortable columns of the movie listing to
// the SQL type cursor values are cast to. Anything else in an order
// spec is rejected before it gets near a query.
var MovieSortColumns = map[string]string{
	"id":            "int",
	"title":         "text",
	"like_count":    "int",
	"dislike_count": "int",
	"created_at":    "timestamptz",
}

type MovieRepository interface {
	GetAll(ctx context.Context, filter MovieFilter) ([]*Movie, *string, error)
	GetById(ctx context.Context, id int) (*Movie, error)
	GetRecent(ctx context.Context, limit int) ([]*Movie, error)
	Create(ctx context.Context, input CreateMovieInput, moveFile func() error) (*Movie, error)
	Update(ctx context.Context, id int, input UpdateMovieInput) (*Movie, error)
	Delete(ctx context.Context, id int) (int, error)
}

type MovieLikeRepository interface {
	Toggle(ctx context.Context, movieID, userID int, isLike bool) (*bool, error)
	RecomputeCounts(ctx context.Context) error
}
