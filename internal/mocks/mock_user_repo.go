package mocks

import (
	"context"

	"github.com/moviehub/catalog-service/internal/domain"
)

type MockUserRepo struct {
	domain.UserRepository
	CreateFunc     func(ctx context.Context, user *domain.User) error
	GetByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
	GetByIdFunc    func(ctx context.Context, id int) (*domain.User, error)
	UpdateFunc     func(ctx context.Context, user *domain.User) error
	DeleteFunc     func(ctx context.Context, id int) error
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.CreateFunc(ctx, user)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.GetByEmailFunc(ctx, email)
}

func (m *MockUserRepo) GetById(ctx context.Context, id int) (*domain.User, error) {
	return m.GetByIdFunc(ctx, id)
}

func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	return m.UpdateFunc(ctx, user)
}

func (m *MockUserRepo) Delete(ctx context.Context, id int) error {
	return m.DeleteFunc(ctx, id)
}
