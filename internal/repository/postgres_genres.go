package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/moviehub/catalog-service/internal/domain"
)

type PostgresGenreRepository struct {
	db *pgxpool.Pool
}

func NewPostgresGenreRepository(db *pgxpool.Pool) *PostgresGenreRepository {
	return &PostgresGenreRepository{
		db: db,
	}
}

func (p *PostgresGenreRepository) Create(ctx context.Context, genre *domain.Genre) error {
	query := `INSERT INTO genres (name)
		VALUES ($1)
		RETURNING id, created_at, updated_at, version`

	err := p.db.QueryRow(ctx, query, genre.Name).Scan(&genre.ID, &genre.CreatedAt, &genre.UpdatedAt, &genre.Version)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateGenre
		}

		return err
	}

	return nil
}

func (p *PostgresGenreRepository) GetAll(ctx context.Context) ([]*domain.Genre, error) {
	query := `SELECT id, name, created_at, updated_at, version FROM genres ORDER BY id`

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	genres := []*domain.Genre{}

	for rows.Next() {
		var genre domain.Genre

		err := rows.Scan(&genre.ID, &genre.Name, &genre.CreatedAt, &genre.UpdatedAt, &genre.Version)
		if err != nil {
			return nil, err
		}

		genres = append(genres, &genre)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return genres, nil
}

func (p *PostgresGenreRepository) GetById(ctx context.Context, id int) (*domain.Genre, error) {
	query := `SELECT id, name, created_at, updated_at, version FROM genres WHERE id = $1`

	var genre domain.Genre

	err := p.db.QueryRow(ctx, query, id).Scan(&genre.ID, &genre.Name, &genre.CreatedAt, &genre.UpdatedAt, &genre.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &genre, nil
}

func (p *PostgresGenreRepository) Update(ctx context.Context, genre *domain.Genre) error {
	query := `UPDATE genres
		SET name = $1, updated_at = now(), version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING updated_at, version`

	err := p.db.QueryRow(ctx, query, genre.Name, genre.ID, genre.Version).Scan(&genre.UpdatedAt, &genre.Version)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return domain.ErrEditConflict
		case isUniqueViolation(err):
			return domain.ErrDuplicateGenre
		default:
			return err
		}
	}

	return nil
}

func (p *PostgresGenreRepository) Delete(ctx context.Context, id int) error {
	result, err := p.db.Exec(ctx, `DELETE FROM genres WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}
