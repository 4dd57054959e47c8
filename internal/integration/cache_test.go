package integration_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/moviehub/catalog-service/internal/cache"
	"github.com/moviehub/catalog-service/internal/domain"
	"github.com/stretchr/testify/suite"
)

type CacheTestSuite struct {
	CacheSuite
}

func TestCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}

	suite.Run(t, new(CacheTestSuite))
}

func (s *CacheTestSuite) TestRecentMoviesReadThrough() {
	ctx := context.Background()

	admin := s.createUser(domain.RoleAdmin)
	director := s.createDirector()
	genre := s.createGenre()

	first := s.createMovie("Movie "+uuid.NewString(), admin, director, genre)

	recent := cache.NewRecentMovies(s.redisClient, s.movieRepo, 3*time.Minute)

	movies, err := recent.Find(ctx)
	s.Require().NoError(err)
	s.Require().NotEmpty(movies)
	s.Equal(first.ID, movies[0].ID)

	ttl, err := s.redisClient.TTL(ctx, "movies:recent").Result()
	s.Require().NoError(err)
	s.Positive(ttl)

	// A movie created after priming stays invisible until the TTL
	// window rolls over.
	s.createMovie("Movie "+uuid.NewString(), admin, director, genre)

	movies, err = recent.Find(ctx)
	s.Require().NoError(err)
	s.Require().NotEmpty(movies)
	s.Equal(first.ID, movies[0].ID)

	// Dropping the key forces the next read back to the database.
	s.Require().NoError(s.redisClient.Del(ctx, "movies:recent").Err())

	movies, err = recent.Find(ctx)
	s.Require().NoError(err)
	s.Require().NotEmpty(movies)
	s.NotEqual(first.ID, movies[0].ID)
}
