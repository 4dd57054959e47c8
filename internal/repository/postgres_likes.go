package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/moviehub/catalog-service/internal/domain"
)

type PostgresMovieLikeRepository struct {
	db *pgxpool.Pool
}

func NewPostgresMovieLikeRepository(db *pgxpool.Pool) *PostgresMovieLikeRepository {
	return &PostgresMovieLikeRepository{
		db: db,
	}
}

// toggleQuery flips the (movie, user) like record in a single
// statement. Exactly one branch can touch the row: same value deletes
// it, a different value updates it, no row inserts one. Two identical
// concurrent requests therefore race on the row itself instead of on a
// read-then-write gap; the loser of an insert race hits the ON
// CONFLICT guard and reports neutral.
const toggleQuery = `
	WITH target AS (
		SELECT $1::int AS movie_id, $2::int AS user_id, $3::boolean AS is_like
	), deleted AS (
		DELETE FROM movie_user_likes l
		USING target t
		WHERE l.movie_id = t.movie_id AND l.user_id = t.user_id AND l.is_like = t.is_like
		RETURNING l.movie_id
	), updated AS (
		UPDATE movie_user_likes l
		SET is_like = t.is_like, updated_at = now()
		FROM target t
		WHERE l.movie_id = t.movie_id AND l.user_id = t.user_id AND l.is_like <> t.is_like
		RETURNING l.movie_id
	), inserted AS (
		INSERT INTO movie_user_likes (movie_id, user_id, is_like)
		SELECT t.movie_id, t.user_id, t.is_like FROM target t
		WHERE NOT EXISTS (
			SELECT 1 FROM movie_user_likes l
			WHERE l.movie_id = t.movie_id AND l.user_id = t.user_id
		)
		ON CONFLICT (movie_id, user_id) DO NOTHING
		RETURNING movie_id
	)
	SELECT CASE
		WHEN EXISTS (SELECT 1 FROM deleted) THEN NULL
		WHEN EXISTS (SELECT 1 FROM updated) THEN $3::boolean
		WHEN EXISTS (SELECT 1 FROM inserted) THEN $3::boolean
		ELSE NULL
	END
`

// Toggle returns the resulting tri-state status: the requested value
// when a record was written, nil when the record was removed (the
// caller re-clicked the same reaction).
func (p *PostgresMovieLikeRepository) Toggle(ctx context.Context, movieId, userId int, isLike bool) (*bool, error) {
	if err := p.checkExists(ctx, `SELECT EXISTS (SELECT 1 FROM movies WHERE id = $1)`, movieId, domain.ErrMovieNotFound); err != nil {
		return nil, err
	}
	if err := p.checkExists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userId, domain.ErrUserNotFound); err != nil {
		return nil, err
	}

	var status *bool

	err := p.db.QueryRow(ctx, toggleQuery, movieId, userId, isLike).Scan(&status)
	if err != nil {
		return nil, err
	}

	return status, nil
}

func (p *PostgresMovieLikeRepository) checkExists(ctx context.Context, query string, id int, notFound error) error {
	var exists bool

	err := p.db.QueryRow(ctx, query, id).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return notFound
	}

	return nil
}

// RecomputeCounts rematerializes movies.like_count and
// movies.dislike_count from the per-user rows. It runs on a schedule,
// not per toggle, so the displayed counts may lag by up to one
// interval.
func (p *PostgresMovieLikeRepository) RecomputeCounts(ctx context.Context) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			UPDATE movies m
			SET like_count = (
				SELECT count(*) FROM movie_user_likes l
				WHERE l.movie_id = m.id AND l.is_like = true
			)`)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			UPDATE movies m
			SET dislike_count = (
				SELECT count(*) FROM movie_user_likes l
				WHERE l.movie_id = m.id AND l.is_like = false
			)`)

		return err
	})
}
