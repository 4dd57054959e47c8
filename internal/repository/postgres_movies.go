package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/moviehub/catalog-service/internal/domain"
)

type PostgresMovieRepository struct {
	db *pgxpool.Pool
}

func NewPostgresMovieRepository(db *pgxpool.Pool) *PostgresMovieRepository {
	return &PostgresMovieRepository{
		db: db,
	}
}

func (p *PostgresMovieRepository) GetAll(ctx context.Context, filter domain.MovieFilter) ([]*domain.Movie, *string, error) {
	keyset, err := domain.NewKeyset(filter.Order, filter.Cursor, filter.PageSize, domain.MovieSortColumns)
	if err != nil {
		return nil, nil, err
	}

	likeColumn := "NULL::boolean"
	likeJoin := ""
	args := []any{filter.Title}
	argIndex := 2

	if filter.UserID != 0 {
		likeColumn = "mul.is_like"
		likeJoin = fmt.Sprintf("LEFT JOIN movie_user_likes mul ON mul.movie_id = m.id AND mul.user_id = $%d", argIndex)
		args = append(args, filter.UserID)
		argIndex++
	}

	where := []string{"($1 = '' OR m.title ILIKE '%' || $1 || '%')"}

	afterClause, afterArgs, argIndex := keyset.WhereAfter("m", argIndex)
	if afterClause != "" {
		where = append(where, afterClause)
		args = append(args, afterArgs...)
	}

	query := fmt.Sprintf(`SELECT m.id, m.title, m.like_count, m.dislike_count, m.created_at, %s
		FROM movies m
		%s
		WHERE %s
		ORDER BY %s
		LIMIT $%d`,
		likeColumn, likeJoin, strings.Join(where, " AND "), keyset.OrderBy("m"), argIndex)
	args = append(args, keyset.PageSize)

	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	movies := []*domain.Movie{}

	for rows.Next() {
		var movie domain.Movie

		err := rows.Scan(
			&movie.ID,
			&movie.Title,
			&movie.LikeCount,
			&movie.DislikeCount,
			&movie.CreatedAt,
			&movie.MyLike,
		)

		if err != nil {
			return nil, nil, err
		}

		movies = append(movies, &movie)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	if len(movies) < keyset.PageSize {
		return movies, nil, nil
	}

	last := movies[len(movies)-1]
	values := make(map[string]any, len(keyset.Fields))
	for _, field := range keyset.Fields {
		values[field.Column] = movieSortValue(last, field.Column)
	}

	next, err := keyset.NextCursor(values)
	if err != nil {
		return nil, nil, err
	}

	return movies, &next, nil
}

func movieSortValue(m *domain.Movie, column string) any {
	switch column {
	case "title":
		return m.Title
	case "like_count":
		return m.LikeCount
	case "dislike_count":
		return m.DislikeCount
	case "created_at":
		return m.CreatedAt
	default:
		return m.ID
	}
}

func (p *PostgresMovieRepository) GetById(ctx context.Context, id int) (*domain.Movie, error) {
	return p.getById(ctx, p.db, id)
}

const movieSelect = `
	SELECT m.id, m.title, m.movie_file_path, m.like_count, m.dislike_count,
		m.created_at, m.updated_at, m.version,
		md.id, md.description,
		d.id, d.name, d.date_of_birth, d.nationality,
		u.id, u.email
	FROM movies m
	JOIN movie_details md ON md.id = m.detail_id
	JOIN directors d ON d.id = m.director_id
	JOIN users u ON u.id = m.creator_id
`

func (p *PostgresMovieRepository) getById(ctx context.Context, q querier, id int) (*domain.Movie, error) {
	var movie domain.Movie

	err := q.QueryRow(ctx, movieSelect+"WHERE m.id = $1", id).Scan(
		&movie.ID,
		&movie.Title,
		&movie.MovieFilePath,
		&movie.LikeCount,
		&movie.DislikeCount,
		&movie.CreatedAt,
		&movie.UpdatedAt,
		&movie.Version,
		&movie.Detail.ID,
		&movie.Detail.Description,
		&movie.Director.ID,
		&movie.Director.Name,
		&movie.Director.DateOfBirth,
		&movie.Director.Nationality,
		&movie.Creator.ID,
		&movie.Creator.Email,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	genres, err := p.retrieveMovieGenres(ctx, q, movie.ID)
	if err != nil {
		return nil, err
	}

	movie.Genres = genres

	return &movie, nil
}

func (p *PostgresMovieRepository) retrieveMovieGenres(ctx context.Context, q querier, movieId int) ([]domain.Genre, error) {
	query := `
		SELECT g.id, g.name
		FROM genres g
		JOIN movie_genres mg ON mg.genre_id = g.id AND mg.movie_id = $1
		ORDER BY g.id
	`

	rows, err := q.Query(ctx, query, movieId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	genres := make([]domain.Genre, 0)

	for rows.Next() {
		var genre domain.Genre

		err := rows.Scan(&genre.ID, &genre.Name)
		if err != nil {
			return nil, err
		}

		genres = append(genres, genre)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return genres, nil
}

func (p *PostgresMovieRepository) GetRecent(ctx context.Context, limit int) ([]*domain.Movie, error) {
	query := `
		SELECT m.id, m.title, m.like_count, m.dislike_count, m.created_at
		FROM movies m
		ORDER BY m.created_at DESC, m.id DESC
		LIMIT $1
	`

	rows, err := p.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := []*domain.Movie{}

	for rows.Next() {
		var movie domain.Movie

		err := rows.Scan(
			&movie.ID,
			&movie.Title,
			&movie.LikeCount,
			&movie.DislikeCount,
			&movie.CreatedAt,
		)

		if err != nil {
			return nil, err
		}

		movies = append(movies, &movie)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return movies, nil
}

// Create writes the movie, its detail, and its genre associations as
// one atomic unit. moveFile runs inside the transaction scope, after
// the inserts: if relocating the uploaded asset fails, everything
// rolls back.
func (p *PostgresMovieRepository) Create(ctx context.Context, input domain.CreateMovieInput, moveFile func() error) (*domain.Movie, error) {
	var movie *domain.Movie

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		var directorExists bool

		err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM directors WHERE id = $1)`, input.DirectorID).Scan(&directorExists)
		if err != nil {
			return err
		}
		if !directorExists {
			return fmt.Errorf("%w: director %d", domain.ErrRecordNotFound, input.DirectorID)
		}

		genreIds := dedupe(input.GenreIDs)

		if err := checkGenresExist(ctx, tx, genreIds); err != nil {
			return err
		}

		var detailId int

		err = tx.QueryRow(ctx, `INSERT INTO movie_details (description) VALUES ($1) RETURNING id`, input.Detail).Scan(&detailId)
		if err != nil {
			return err
		}

		var movieId int

		err = tx.QueryRow(ctx, `
			INSERT INTO movies (title, movie_file_path, detail_id, director_id, creator_id)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			input.Title, input.MovieFilePath, detailId, input.DirectorID, input.CreatorID).Scan(&movieId)

		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicateTitle
			}

			return err
		}

		rows := make([][]any, 0, len(genreIds))
		for _, genreId := range genreIds {
			rows = append(rows, []any{movieId, genreId})
		}

		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"movie_genres"},
			[]string{"movie_id", "genre_id"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return err
		}

		if moveFile != nil {
			if err := moveFile(); err != nil {
				return err
			}
		}

		movie, err = p.getById(ctx, tx, movieId)

		return err
	})

	if err != nil {
		return nil, err
	}

	return movie, nil
}

// Update applies partial field updates: only the fields present in the
// input are touched, and a supplied genre set replaces the join rows
// diff-wise rather than wholesale.
func (p *PostgresMovieRepository) Update(ctx context.Context, id int, input domain.UpdateMovieInput) (*domain.Movie, error) {
	var movie *domain.Movie

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		current, err := p.getById(ctx, tx, id)
		if err != nil {
			return err
		}

		if input.DirectorID != nil {
			var directorExists bool

			err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM directors WHERE id = $1)`, *input.DirectorID).Scan(&directorExists)
			if err != nil {
				return err
			}
			if !directorExists {
				return fmt.Errorf("%w: director %d", domain.ErrRecordNotFound, *input.DirectorID)
			}
		}

		var genreIds []int
		if input.GenreIDs != nil {
			genreIds = dedupe(input.GenreIDs)

			if err := checkGenresExist(ctx, tx, genreIds); err != nil {
				return err
			}
		}

		assignments := []string{"updated_at = now()", "version = version + 1"}
		args := []any{}
		argIndex := 1

		if input.Title != nil {
			assignments = append(assignments, fmt.Sprintf("title = $%d", argIndex))
			args = append(args, *input.Title)
			argIndex++
		}
		if input.DirectorID != nil {
			assignments = append(assignments, fmt.Sprintf("director_id = $%d", argIndex))
			args = append(args, *input.DirectorID)
			argIndex++
		}

		query := fmt.Sprintf("UPDATE movies SET %s WHERE id = $%d", strings.Join(assignments, ", "), argIndex)
		args = append(args, id)

		_, err = tx.Exec(ctx, query, args...)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicateTitle
			}

			return err
		}

		if input.Detail != nil {
			_, err = tx.Exec(ctx, `UPDATE movie_details SET description = $1 WHERE id = $2`, *input.Detail, current.Detail.ID)
			if err != nil {
				return err
			}
		}

		if input.GenreIDs != nil {
			if err := p.replaceGenres(ctx, tx, id, current.Genres, genreIds); err != nil {
				return err
			}
		}

		movie, err = p.getById(ctx, tx, id)

		return err
	})

	if err != nil {
		return nil, err
	}

	return movie, nil
}

func (p *PostgresMovieRepository) replaceGenres(ctx context.Context, tx pgx.Tx, movieId int, current []domain.Genre, want []int) error {
	wantSet := make(map[int]bool, len(want))
	for _, genreId := range want {
		wantSet[genreId] = true
	}

	currentSet := make(map[int]bool, len(current))
	toRemove := []int{}

	for _, genre := range current {
		currentSet[genre.ID] = true
		if !wantSet[genre.ID] {
			toRemove = append(toRemove, genre.ID)
		}
	}

	toAdd := [][]any{}
	for _, genreId := range want {
		if !currentSet[genreId] {
			toAdd = append(toAdd, []any{movieId, genreId})
		}
	}

	if len(toRemove) > 0 {
		_, err := tx.Exec(ctx, `DELETE FROM movie_genres WHERE movie_id = $1 AND genre_id = ANY($2)`, movieId, toRemove)
		if err != nil {
			return err
		}
	}

	if len(toAdd) > 0 {
		_, err := tx.CopyFrom(
			ctx,
			pgx.Identifier{"movie_genres"},
			[]string{"movie_id", "genre_id"},
			pgx.CopyFromRows(toAdd),
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// Delete removes the movie row and then its detail row with two
// explicit deletes in the same transaction; there is no store-level
// cascade between them.
func (p *PostgresMovieRepository) Delete(ctx context.Context, id int) (int, error) {
	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		var detailId int

		err := tx.QueryRow(ctx, `SELECT detail_id FROM movies WHERE id = $1`, id).Scan(&detailId)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrRecordNotFound
			}

			return err
		}

		_, err = tx.Exec(ctx, `DELETE FROM movies WHERE id = $1`, id)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `DELETE FROM movie_details WHERE id = $1`, detailId)

		return err
	})

	if err != nil {
		return 0, err
	}

	return id, nil
}

func checkGenresExist(ctx context.Context, tx pgx.Tx, genreIds []int) error {
	var count int

	err := tx.QueryRow(ctx, `SELECT count(*) FROM genres WHERE id = ANY($1)`, genreIds).Scan(&count)
	if err != nil {
		return err
	}
	if count != len(genreIds) {
		return fmt.Errorf("%w: %d of %d genres exist", domain.ErrRecordNotFound, count, len(genreIds))
	}

	return nil
}

func dedupe(ids []int) []int {
	seen := make(map[int]bool, len(ids))
	out := make([]int, 0, len(ids))

	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}

	return out
}
