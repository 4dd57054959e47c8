package integration_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/moviehub/catalog-service/internal/domain"
)

// Fixture helpers create rows with unique names so suites never trip
// over each other's unique constraints.

func (s *BaseSuite) createUser(role domain.Role) *domain.User {
	user := &domain.User{
		Email: uuid.NewString() + "@example.com",
		Role:  role,
	}
	s.Require().NoError(user.Password.Set("Pa55word!"))
	s.Require().NoError(s.userRepo.Create(context.Background(), user))

	return user
}

func (s *BaseSuite) createDirector() *domain.Director {
	director := &domain.Director{
		Name:        "Director " + uuid.NewString(),
		DateOfBirth: time.Date(1965, 6, 21, 0, 0, 0, 0, time.UTC),
		Nationality: "American",
	}
	s.Require().NoError(s.directorRepo.Create(context.Background(), director))

	return director
}

func (s *BaseSuite) createGenre() *domain.Genre {
	genre := &domain.Genre{Name: "Genre " + uuid.NewString()}
	s.Require().NoError(s.genreRepo.Create(context.Background(), genre))

	return genre
}

func (s *BaseSuite) createMovie(title string, creator *domain.User, director *domain.Director, genres ...*domain.Genre) *domain.Movie {
	genreIds := make([]int, len(genres))
	for i, g := range genres {
		genreIds[i] = g.ID
	}

	movie, err := s.movieRepo.Create(context.Background(), domain.CreateMovieInput{
		Title:         title,
		Detail:        "Detail of " + title,
		DirectorID:    director.ID,
		GenreIDs:      genreIds,
		CreatorID:     creator.ID,
		MovieFilePath: "/media/movies/" + uuid.NewString() + ".mp4",
	}, func() error { return nil })
	s.Require().NoError(err)

	return movie
}
