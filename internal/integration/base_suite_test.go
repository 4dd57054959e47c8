package integration_test

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/moviehub/catalog-service/internal/migrations"
	"github.com/moviehub/catalog-service/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	dbName         = "movie_catalog"
	dbUser         = "test_user"
	dbPassword     = "test_password"
	dbImageName    = "postgres:17-alpine"
	cacheImageName = "redis:7"
)

// BaseSuite starts a throwaway Postgres with the full schema applied
// and hands out real repositories against it. Suites that need Redis
// embed CacheSuite instead.
type BaseSuite struct {
	suite.Suite
	dbContainer *postgres.PostgresContainer
	db          *pgxpool.Pool

	userRepo     *repository.PostgresUserRepository
	directorRepo *repository.PostgresDirectorRepository
	genreRepo    *repository.PostgresGenreRepository
	movieRepo    *repository.PostgresMovieRepository
	likeRepo     *repository.PostgresMovieLikeRepository
}

func (s *BaseSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx, dbImageName,
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	s.Require().NoError(err, "failed to start DB container")
	s.dbContainer = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	err = migrations.Up("pgx5://" + strings.TrimPrefix(dsn, "postgres://"))
	s.Require().NoError(err, "failed to run migrations")

	pool, err := pgxpool.New(ctx, dsn)
	s.Require().NoError(err)
	s.db = pool

	s.userRepo = repository.NewPostgresUserRepository(pool)
	s.directorRepo = repository.NewPostgresDirectorRepository(pool)
	s.genreRepo = repository.NewPostgresGenreRepository(pool)
	s.movieRepo = repository.NewPostgresMovieRepository(pool)
	s.likeRepo = repository.NewPostgresMovieLikeRepository(pool)
}

func (s *BaseSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.dbContainer != nil {
		if err := testcontainers.TerminateContainer(s.dbContainer); err != nil {
			s.T().Logf("failed to terminate container: %s", err)
		}
	}
}

// CacheSuite adds a Redis container on top of the database.
type CacheSuite struct {
	BaseSuite
	cacheContainer *tcredis.RedisContainer
	redisClient    *redis.Client
}

func (s *CacheSuite) SetupSuite() {
	s.BaseSuite.SetupSuite()

	ctx := context.Background()

	container, err := tcredis.Run(ctx, cacheImageName)
	s.Require().NoError(err, "failed to start cache container")
	s.cacheContainer = container

	host, err := container.Host(ctx)
	s.Require().NoError(err)

	port, err := container.MappedPort(ctx, "6379")
	s.Require().NoError(err)

	s.redisClient = redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", host, port.Port()),
	})
}

func (s *CacheSuite) TearDownSuite() {
	if s.redisClient != nil {
		s.redisClient.Close()
	}
	if s.cacheContainer != nil {
		if err := testcontainers.TerminateContainer(s.cacheContainer); err != nil {
			s.T().Logf("failed to terminate container: %s", err)
		}
	}

	s.BaseSuite.TearDownSuite()
}
