package mocks

import (
	"context"

	"github.com/moviehub/catalog-service/internal/domain"
)

type MockMovieRepo struct {
	domain.MovieRepository
	GetAllFunc    func(ctx context.Context, filter domain.MovieFilter) ([]*domain.Movie, *string, error)
	GetByIdFunc   func(ctx context.Context, id int) (*domain.Movie, error)
	GetRecentFunc func(ctx context.Context, limit int) ([]*domain.Movie, error)
	CreateFunc    func(ctx context.Context, input domain.CreateMovieInput, moveFile func() error) (*domain.Movie, error)
	UpdateFunc    func(ctx context.Context, id int, input domain.UpdateMovieInput) (*domain.Movie, error)
	DeleteFunc    func(ctx context.Context, id int) (int, error)
}

func (m *MockMovieRepo) GetAll(ctx context.Context, filter domain.MovieFilter) ([]*domain.Movie, *string, error) {
	return m.GetAllFunc(ctx, filter)
}

func (m *MockMovieRepo) GetById(ctx context.Context, id int) (*domain.Movie, error) {
	return m.GetByIdFunc(ctx, id)
}

func (m *MockMovieRepo) GetRecent(ctx context.Context, limit int) ([]*domain.Movie, error) {
	return m.GetRecentFunc(ctx, limit)
}

func (m *MockMovieRepo) Create(ctx context.Context, input domain.CreateMovieInput, moveFile func() error) (*domain.Movie, error) {
	return m.CreateFunc(ctx, input, moveFile)
}

func (m *MockMovieRepo) Update(ctx context.Context, id int, input domain.UpdateMovieInput) (*domain.Movie, error) {
	return m.UpdateFunc(ctx, id, input)
}

func (m *MockMovieRepo) Delete(ctx context.Context, id int) (int, error) {
	return m.DeleteFunc(ctx, id)
}
