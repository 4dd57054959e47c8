package domain

import (
	"context"
	"time"
)

// Director rows outlive the movies that reference them; deleting a
// movie never cascades here.
type Director struct {
	ID          int
	Name        string
	DateOfBirth time.Time
	Nationality string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     int
}

type DirectorRepository interface {
	Create(ctx context.Context, director *Director) error
	GetAll(ctx context.Context) ([]*Director, error)
	GetById(ctx context.Context, id int) (*Director, error)
	Update(ctx context.Context, director *Director) error
	Delete(ctx context.Context, id int) error
}
