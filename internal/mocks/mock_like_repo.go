package mocks

import (
	"context"

	"github.com/moviehub/catalog-service/internal/domain"
)

type MockMovieLikeRepo struct {
	domain.MovieLikeRepository
	ToggleFunc          func(ctx context.Context, movieID, userID int, isLike bool) (*bool, error)
	RecomputeCountsFunc func(ctx context.Context) error
}

func (m *MockMovieLikeRepo) Toggle(ctx context.Context, movieID, userID int, isLike bool) (*bool, error) {
	return m.ToggleFunc(ctx, movieID, userID, isLike)
}

func (m *MockMovieLikeRepo) RecomputeCounts(ctx context.Context) error {
	return m.RecomputeCountsFunc(ctx)
}
