package domain

import (
	"context"
	"time"
)

type Genre struct {
	ID        int
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int
}

type GenreRepository interface {
	Create(ctx context.Context, genre *Genre) error
	GetAll(ctx context.Context) ([]*Genre, error)
	GetById(ctx context.Context, id int) (*Genre, error)
	Update(ctx context.Context, genre *Genre) error
	Delete(ctx context.Context, id int) error
}
