package mocks

import (
	"context"

	"github.com/moviehub/catalog-service/internal/domain"
)

type MockDirectorRepo struct {
	domain.DirectorRepository
	CreateFunc  func(ctx context.Context, director *domain.Director) error
	GetAllFunc  func(ctx context.Context) ([]*domain.Director, error)
	GetByIdFunc func(ctx context.Context, id int) (*domain.Director, error)
	UpdateFunc  func(ctx context.Context, director *domain.Director) error
	DeleteFunc  func(ctx context.Context, id int) error
}

func (m *MockDirectorRepo) Create(ctx context.Context, director *domain.Director) error {
	return m.CreateFunc(ctx, director)
}

func (m *MockDirectorRepo) GetAll(ctx context.Context) ([]*domain.Director, error) {
	return m.GetAllFunc(ctx)
}

func (m *MockDirectorRepo) GetById(ctx context.Context, id int) (*domain.Director, error) {
	return m.GetByIdFunc(ctx, id)
}

func (m *MockDirectorRepo) Update(ctx context.Context, director *domain.Director) error {
	return m.UpdateFunc(ctx, director)
}

func (m *MockDirectorRepo) Delete(ctx context.Context, id int) error {
	return m.DeleteFunc(ctx, id)
}
