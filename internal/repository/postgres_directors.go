package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/moviehub/catalog-service/internal/domain"
)

type PostgresDirectorRepository struct {
	db *pgxpool.Pool
}

func NewPostgresDirectorRepository(db *pgxpool.Pool) *PostgresDirectorRepository {
	return &PostgresDirectorRepository{
		db: db,
	}
}

func (p *PostgresDirectorRepository) Create(ctx context.Context, director *domain.Director) error {
	query := `INSERT INTO directors (name, date_of_birth, nationality)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at, version`

	return p.db.QueryRow(ctx,
		query,
		director.Name,
		director.DateOfBirth,
		director.Nationality).Scan(&director.ID, &director.CreatedAt, &director.UpdatedAt, &director.Version)
}

func (p *PostgresDirectorRepository) GetAll(ctx context.Context) ([]*domain.Director, error) {
	query := `SELECT id, name, date_of_birth, nationality, created_at, updated_at, version
		FROM directors
		ORDER BY id`

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	directors := []*domain.Director{}

	for rows.Next() {
		var director domain.Director

		err := rows.Scan(
			&director.ID,
			&director.Name,
			&director.DateOfBirth,
			&director.Nationality,
			&director.CreatedAt,
			&director.UpdatedAt,
			&director.Version,
		)

		if err != nil {
			return nil, err
		}

		directors = append(directors, &director)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return directors, nil
}

func (p *PostgresDirectorRepository) GetById(ctx context.Context, id int) (*domain.Director, error) {
	query := `SELECT id, name, date_of_birth, nationality, created_at, updated_at, version
		FROM directors
		WHERE id = $1`

	var director domain.Director

	err := p.db.QueryRow(ctx, query, id).Scan(
		&director.ID,
		&director.Name,
		&director.DateOfBirth,
		&director.Nationality,
		&director.CreatedAt,
		&director.UpdatedAt,
		&director.Version,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &director, nil
}

func (p *PostgresDirectorRepository) Update(ctx context.Context, director *domain.Director) error {
	query := `UPDATE directors
		SET name = $1, date_of_birth = $2, nationality = $3, updated_at = now(), version = version + 1
		WHERE id = $4 AND version = $5
		RETURNING updated_at, version`

	err := p.db.QueryRow(ctx,
		query,
		director.Name,
		director.DateOfBirth,
		director.Nationality,
		director.ID,
		director.Version).Scan(&director.UpdatedAt, &director.Version)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrEditConflict
		}

		return err
	}

	return nil
}

func (p *PostgresDirectorRepository) Delete(ctx context.Context, id int) error {
	result, err := p.db.Exec(ctx, `DELETE FROM directors WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}
