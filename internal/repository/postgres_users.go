package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/moviehub/catalog-service/internal/domain"
)

type PostgresUserRepository struct {
	db *pgxpool.Pool
}

func NewPostgresUserRepository(db *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{
		db: db,
	}
}

func (p *PostgresUserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (email, password_hash, role)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at, version`

	err := p.db.QueryRow(ctx,
		query,
		user.Email,
		user.Password.Hash,
		user.Role).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt, &user.Version)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUserAlreadyExists
		}

		return err
	}

	return nil
}

const userSelect = `SELECT id, email, password_hash, role, created_at, updated_at, version FROM users`

func (p *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return p.getOne(ctx, userSelect+" WHERE email = $1", email)
}

func (p *PostgresUserRepository) GetById(ctx context.Context, id int) (*domain.User, error) {
	return p.getOne(ctx, userSelect+" WHERE id = $1", id)
}

func (p *PostgresUserRepository) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User

	err := p.db.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.Password.Hash,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.Version,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &user, nil
}

func (p *PostgresUserRepository) Update(ctx context.Context, user *domain.User) error {
	query := `UPDATE users
		SET email = $1, password_hash = $2, role = $3, updated_at = now(), version = version + 1
		WHERE id = $4 AND version = $5
		RETURNING updated_at, version`

	err := p.db.QueryRow(ctx,
		query,
		user.Email,
		user.Password.Hash,
		user.Role,
		user.ID,
		user.Version).Scan(&user.UpdatedAt, &user.Version)

	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return domain.ErrEditConflict
		case isUniqueViolation(err):
			return domain.ErrUserAlreadyExists
		default:
			return err
		}
	}

	return nil
}

func (p *PostgresUserRepository) Delete(ctx context.Context, id int) error {
	result, err := p.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}
