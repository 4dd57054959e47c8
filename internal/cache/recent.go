// Package cache holds the read-through Redis wrappers of the service.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/moviehub/catalog-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

const recentMoviesKey = "movies:recent"

// RecentMovies caches the newest-movies listing under a single key.
// There is deliberately no invalidation hook on writes: the list is a
// derived, re-computable view and callers accept staleness up to the
// TTL window.
type RecentMovies struct {
	redis redis.UniversalClient
	repo  domain.MovieRepository
	ttl   time.Duration
	limit int
}

func NewRecentMovies(redisClient redis.UniversalClient, repo domain.MovieRepository, ttl time.Duration) *RecentMovies {
	return &RecentMovies{
		redis: redisClient,
		repo:  repo,
		ttl:   ttl,
		limit: 10,
	}
}

// Find returns the cached snapshot when present, otherwise queries the
// store, primes the cache, and returns the fresh list.
func (c *RecentMovies) Find(ctx context.Context) ([]*domain.Movie, error) {
	cached, err := c.redis.Get(ctx, recentMoviesKey).Result()
	if err == nil {
		var movies []*domain.Movie
		if err := json.Unmarshal([]byte(cached), &movies); err == nil {
			return movies, nil
		}
		// An undecodable entry is treated as a miss and overwritten.
	} else if !errors.Is(err, redis.Nil) {
		return nil, err
	}

	movies, err := c.repo.GetRecent(ctx, c.limit)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(movies)
	if err != nil {
		return nil, err
	}

	if err := c.redis.Set(ctx, recentMoviesKey, raw, c.ttl).Err(); err != nil {
		return nil, err
	}

	return movies, nil
}
