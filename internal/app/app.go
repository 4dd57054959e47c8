package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alexedwards/scs/goredisstore"
	"github.com/alexedwards/scs/v2"
	"github.com/exaring/otelpgx"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/moviehub/catalog-service/internal/cache"
	"github.com/moviehub/catalog-service/internal/domain"
	"github.com/moviehub/catalog-service/internal/jobs"
	"github.com/moviehub/catalog-service/internal/migrations"
	"github.com/moviehub/catalog-service/internal/repository"
	appvalidator "github.com/moviehub/catalog-service/internal/validator"
	"github.com/moviehub/catalog-service/internal/vcs"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/riandyrn/otelchi"
)

var (
	version = vcs.Version()
)

type application struct {
	config         config
	logger         *slog.Logger
	db             *pgxpool.Pool
	redis          redis.UniversalClient
	validator      *validator.Validate
	sessionManager *scs.SessionManager

	userRepo     domain.UserRepository
	directorRepo domain.DirectorRepository
	genreRepo    domain.GenreRepository
	movieRepo    domain.MovieRepository
	likeRepo     domain.MovieLikeRepository

	recentMovies *cache.RecentMovies
}

type config struct {
	port int
	env  string
	db   struct {
		dsn          string
		maxOpenConns int
		maxIdleTime  time.Duration
	}
	redis struct {
		url          string
		maxOpenConns int
		maxIdleConns int
		maxIdleTime  time.Duration
	}
	cacheTTL time.Duration
	throttle struct {
		enabled bool
		limit   int
	}
	media struct {
		tempDir  string
		movieDir string
	}
	countSchedule    string
	otelCollectorUrl string
}

func Run() error {
	var cfg config

	flag.IntVar(&cfg.port, "port", 3000, "server port")
	flag.StringVar(&cfg.env, "env", "dev", "Environment (dev|staging|prod)")

	flag.StringVar(&cfg.db.dsn, "db-dsn", "", "PostgreSQL DSN")
	flag.IntVar(&cfg.db.maxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.DurationVar(&cfg.db.maxIdleTime, "db-max-idle-time", 15*time.Minute, "PostgreSQL max idle time for connections")

	flag.StringVar(&cfg.redis.url, "redis-url", "", "Redis URL")
	flag.IntVar(&cfg.redis.maxOpenConns, "redis-max-open-conns", 25, "Redis max open connections")
	flag.IntVar(&cfg.redis.maxIdleConns, "redis-max-idle-conns", 10, "Redis max idle connections")
	flag.DurationVar(&cfg.redis.maxIdleTime, "redis-max-idle-time", 2*time.Minute, "Redis max idle time for connections")

	flag.DurationVar(&cfg.cacheTTL, "cache-ttl", 3*time.Minute, "Default TTL for cached views")

	flag.BoolVar(&cfg.throttle.enabled, "throttle-enabled", true, "Enable per-user request throttling")
	flag.IntVar(&cfg.throttle.limit, "throttle-limit", 60, "Max requests per user per endpoint per minute")

	flag.StringVar(&cfg.media.tempDir, "media-temp-dir", "public/temp", "Directory uploads land in")
	flag.StringVar(&cfg.media.movieDir, "media-movie-dir", "public/movie", "Directory movie files are served from")

	flag.StringVar(&cfg.countSchedule, "count-schedule", "@every 1m", "Cron spec for like/dislike count recomputation")

	flag.StringVar(&cfg.otelCollectorUrl, "otel-collector-url", "", "OpenTelemetry collector URL")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	validator := appvalidator.NewValidator()

	if err := migrations.Up(migrateDSN(cfg.db.dsn)); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	db, err := newDatabasePool(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient, err := newRedisClient(cfg)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	userRepo := repository.NewPostgresUserRepository(db)
	directorRepo := repository.NewPostgresDirectorRepository(db)
	genreRepo := repository.NewPostgresGenreRepository(db)
	movieRepo := repository.NewPostgresMovieRepository(db)
	likeRepo := repository.NewPostgresMovieLikeRepository(db)

	app := &application{
		config:         cfg,
		logger:         logger,
		db:             db,
		redis:          redisClient,
		validator:      validator,
		sessionManager: newSessionManager(redisClient),
		userRepo:       userRepo,
		directorRepo:   directorRepo,
		genreRepo:      genreRepo,
		movieRepo:      movieRepo,
		likeRepo:       likeRepo,
		recentMovies:   cache.NewRecentMovies(redisClient, movieRepo, cfg.cacheTTL),
	}

	shutdownTelemetry, err := app.initTelemetry()
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	scheduler := jobs.NewScheduler(logger, likeRepo, cfg.media.tempDir)
	if err := scheduler.Start(cfg.countSchedule); err != nil {
		return err
	}
	defer scheduler.Stop()

	return app.run()
}

// migrateDSN rewrites the connection scheme for golang-migrate's pgx/v5 driver.
func migrateDSN(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") {
		return "pgx5://" + strings.TrimPrefix(dsn, "postgres://")
	}
	return dsn
}

func newSessionManager(client *redis.Client) *scs.SessionManager {
	sessionManager := scs.New()

	sessionManager.Store = goredisstore.New(client)
	sessionManager.IdleTimeout = 20 * time.Minute
	sessionManager.Cookie.Name = "session_id"

	return sessionManager
}

func newRedisClient(cfg config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.redis.url,
		MaxIdleConns:    cfg.redis.maxIdleConns,
		MaxActiveConns:  cfg.redis.maxOpenConns,
		ConnMaxIdleTime: cfg.redis.maxIdleTime,
	})

	if err := redisotel.InstrumentTracing(rdb); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := rdb.Ping(ctx).Err()
	if err != nil {
		return nil, err
	}

	return rdb, nil
}

func newDatabasePool(cfg config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.db.dsn)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.db.maxIdleTime
	config.MaxConns = int32(cfg.db.maxOpenConns)
	config.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (app *application) run() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.port),
		Handler:      app.routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := srv.Shutdown(ctx)
		if err != nil {
			shutdownError <- err
		}

		shutdownError <- nil
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}

func (app *application) routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)

	r.Use(middleware.Logger)
	r.Use(middleware.RequestID)
	r.Use(otelchi.Middleware("movie-catalog-api", otelchi.WithChiRoutes(r)))
	r.Use(app.recoverPanic)
	r.Use(app.sessionManager.LoadAndSave)

	r.Get("/health", app.GetHealth)

	r.Post("/auth/register", app.RegisterUser)
	r.Post("/auth/login", app.LoginUser)
	r.Post("/auth/logout", app.LogoutUser)

	r.Route("/movies", func(r chi.Router) {
		r.Get("/", app.GetMovies)
		r.Get("/recent", app.GetRecentMovies)
		r.Get("/{movieId}", app.GetMovie)

		r.With(app.requireAuthentication, app.throttle).Group(func(r chi.Router) {
			r.Post("/{movieId}/like", app.LikeMovie)
			r.Post("/{movieId}/dislike", app.DislikeMovie)
		})

		r.With(app.requireAuthentication, app.requireAdmin).Group(func(r chi.Router) {
			r.Post("/", app.CreateMovie)
			r.Patch("/{movieId}", app.UpdateMovie)
			r.Delete("/{movieId}", app.DeleteMovie)
		})
	})

	r.Route("/directors", func(r chi.Router) {
		r.Get("/", app.GetDirectors)
		r.Get("/{directorId}", app.GetDirector)

		r.With(app.requireAuthentication, app.requireAdmin).Group(func(r chi.Router) {
			r.Post("/", app.CreateDirector)
			r.Patch("/{directorId}", app.UpdateDirector)
			r.Delete("/{directorId}", app.DeleteDirector)
		})
	})

	r.Route("/genres", func(r chi.Router) {
		r.Get("/", app.GetGenres)
		r.Get("/{genreId}", app.GetGenre)

		r.With(app.requireAuthentication, app.requireAdmin).Group(func(r chi.Router) {
			r.Post("/", app.CreateGenre)
			r.Patch("/{genreId}", app.UpdateGenre)
			r.Delete("/{genreId}", app.DeleteGenre)
		})
	})

	r.With(app.requireAuthentication).Get("/users/me", app.GetCurrentUser)

	return r
}
