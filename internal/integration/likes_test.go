package integration_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/moviehub/catalog-service/internal/domain"
)

func (s *MovieTestSuite) TestToggleLifecycle() {
	ctx := context.Background()

	admin := s.createUser(domain.RoleAdmin)
	viewer := s.createUser(domain.RoleUser)
	director := s.createDirector()
	genre := s.createGenre()

	movie := s.createMovie("Movie "+uuid.NewString(), admin, director, genre)

	// A first like records a liked status.
	status, err := s.likeRepo.Toggle(ctx, movie.ID, viewer.ID, true)
	s.Require().NoError(err)
	s.Require().NotNil(status)
	s.True(*status)

	// Repeating the same reaction removes the record.
	status, err = s.likeRepo.Toggle(ctx, movie.ID, viewer.ID, true)
	s.Require().NoError(err)
	s.Nil(status)

	// A fresh dislike records a disliked status.
	status, err = s.likeRepo.Toggle(ctx, movie.ID, viewer.ID, false)
	s.Require().NoError(err)
	s.Require().NotNil(status)
	s.False(*status)

	// The opposite reaction overwrites in place.
	status, err = s.likeRepo.Toggle(ctx, movie.ID, viewer.ID, true)
	s.Require().NoError(err)
	s.Require().NotNil(status)
	s.True(*status)

	// And toggling it once more clears the row again.
	status, err = s.likeRepo.Toggle(ctx, movie.ID, viewer.ID, true)
	s.Require().NoError(err)
	s.Nil(status)

	var count int
	err = s.db.QueryRow(ctx, "SELECT count(*) FROM movie_user_likes WHERE movie_id = $1 AND user_id = $2", movie.ID, viewer.ID).Scan(&count)
	s.Require().NoError(err)
	s.Zero(count)
}

func (s *MovieTestSuite) TestToggleUnknownReferences() {
	ctx := context.Background()

	admin := s.createUser(domain.RoleAdmin)
	viewer := s.createUser(domain.RoleUser)
	director := s.createDirector()
	genre := s.createGenre()

	movie := s.createMovie("Movie "+uuid.NewString(), admin, director, genre)

	_, err := s.likeRepo.Toggle(ctx, 999999, viewer.ID, true)
	s.ErrorIs(err, domain.ErrMovieNotFound)

	_, err = s.likeRepo.Toggle(ctx, movie.ID, 999999, true)
	s.ErrorIs(err, domain.ErrUserNotFound)
}

func (s *MovieTestSuite) TestRecomputeCounts() {
	ctx := context.Background()

	admin := s.createUser(domain.RoleAdmin)
	director := s.createDirector()
	genre := s.createGenre()

	movie := s.createMovie("Movie "+uuid.NewString(), admin, director, genre)

	for range 2 {
		fan := s.createUser(domain.RoleUser)
		_, err := s.likeRepo.Toggle(ctx, movie.ID, fan.ID, true)
		s.Require().NoError(err)
	}

	critic := s.createUser(domain.RoleUser)
	_, err := s.likeRepo.Toggle(ctx, movie.ID, critic.ID, false)
	s.Require().NoError(err)

	// Counts are materialized by the periodic job, not on toggle.
	fetched, err := s.movieRepo.GetById(ctx, movie.ID)
	s.Require().NoError(err)
	s.Zero(fetched.LikeCount)
	s.Zero(fetched.DislikeCount)

	s.Require().NoError(s.likeRepo.RecomputeCounts(ctx))

	fetched, err = s.movieRepo.GetById(ctx, movie.ID)
	s.Require().NoError(err)
	s.Equal(2, fetched.LikeCount)
	s.Equal(1, fetched.DislikeCount)
}
