// Package server sets up the HTTP server, router, and all route definitions.
//
// This is the composition root. New picks the storage backend and the
// session store from config, builds the service and handlers on top of them,
// and registers the routes. main.go only loads config and calls Start.
//
//	config → repository.Store (postgres | sqlite) → TrackerService → TrackerHandler
//	config → session.Store (redis | signed cookie) → session.Middleware
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"

	"github.com/sakif/travel-tracker/internal/config"
	"github.com/sakif/travel-tracker/internal/handler"
	"github.com/sakif/travel-tracker/internal/middleware"
	"github.com/sakif/travel-tracker/internal/repository"
	"github.com/sakif/travel-tracker/internal/repository/postgres"
	sqliteRepo "github.com/sakif/travel-tracker/internal/repository/sqlite"
	"github.com/sakif/travel-tracker/internal/service"
	"github.com/sakif/travel-tracker/internal/session"
)

// startupTimeout bounds each dial made while building the server.
const startupTimeout = 10 * time.Second

// Server owns the router and everything that must be closed on shutdown.
type Server struct {
	router   *chi.Mux
	config   *config.Config
	logger   *slog.Logger
	store    repository.Store
	sessions session.Store
	redis    *redis.Client // nil with cookie sessions
}

// New opens the store and the session backend and registers every route.
//
// A Postgres server that does not answer is logged and tolerated: the pool
// reconnects on demand and requests fail until it is back. A SQLite file
// that cannot be opened or migrated is an error.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		store:  store,
	}

	if err := s.openSessions(ctx); err != nil {
		s.Close()
		return nil, err
	}

	if err := s.setupRoutes(); err != nil {
		s.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repository.Store, error) {
	if cfg.UsePostgres() {
		pg, err := postgres.New(ctx, postgres.Options{
			DSN:                cfg.DatabaseURL,
			MaxConns:           cfg.DBMaxConns,
			InsecureSkipVerify: cfg.DBInsecureSkipTLS,
		})
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}

		if err := pg.Ping(ctx); err != nil {
			logger.Error("database unreachable, serving anyway",
				slog.String("error", err.Error()),
			)
			return pg, nil
		}
		if err := pg.Migrate(ctx); err != nil {
			pg.Close()
			return nil, fmt.Errorf("migrating database: %w", err)
		}
		logger.Info("connected to postgres")
		return pg, nil
	}

	dir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory %s: %w", dir, err)
	}
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	logger.Info("opened sqlite database", slog.String("path", cfg.DBPath))
	return db, nil
}

func (s *Server) openSessions(ctx context.Context) error {
	opts := session.CookieOptions{TTL: s.config.SessionTTL, Secure: s.config.SessionSecure}

	if s.config.RedisAddr != "" {
		rdb, err := session.DialRedis(ctx, s.config.RedisAddr, s.config.RedisPassword)
		if err != nil {
			return err
		}
		s.redis = rdb
		s.sessions = session.NewRedisStore(rdb, opts)
		s.logger.Info("sessions stored in redis", slog.String("addr", s.config.RedisAddr))
		return nil
	}

	secret := s.config.SessionSecret
	if secret == "" {
		var err error
		if secret, err = session.RandomSecret(); err != nil {
			return err
		}
		s.logger.Warn("SESSION_SECRET not set, sessions end when the process exits")
	}
	cookies, err := session.NewCookieStore(secret, opts)
	if err != nil {
		return err
	}
	s.sessions = cookies
	return nil
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTES:
// GET  /         → home page (HTML)
// POST /add      → add a visited country
// POST /user     → switch user, or show the new-member form
// POST /new      → create a family member
// GET  /healthz  → database ping
// GET  /static/* → CSS, JS, the world map
//
// The session middleware runs before the request logger so log lines carry
// the resolved user id.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)

	if len(s.config.CORSAllowedOrigins) > 0 {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.config.CORSAllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	s.router.Use(session.Middleware(s.sessions, s.config.DefaultUserID, s.logger))
	s.router.Use(middleware.Logger(s.logger))

	fileServer := http.FileServer(http.Dir(s.config.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	s.router.Get("/healthz", handler.HandleHealth(s.store, s.logger))

	pages, err := handler.NewPages(s.config.TemplateDir, s.logger)
	if err != nil {
		return err
	}

	tracker := service.NewTrackerService(s.store, s.store, s.store, s.logger)
	h := handler.NewTrackerHandler(tracker, s.sessions, pages, s.logger)

	s.router.Get("/", h.HandleHome)
	s.router.Post("/add", h.HandleAdd)
	s.router.Post("/user", h.HandleUser)
	s.router.Post("/new", h.HandleNew)

	return nil
}

// Handler returns the router, for tests and for embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database and, if used, the Redis client.
func (s *Server) Close() error {
	var errs []error
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing redis: %w", err))
		}
	}
	if err := s.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing database: %w", err))
	}
	return errors.Join(errs...)
}

// Start serves until SIGINT or SIGTERM, then drains in-flight requests for
// up to 30 seconds and closes the store.
func (s *Server) Start() error {
	defer func() {
		if err := s.Close(); err != nil {
			s.logger.Error("shutdown cleanup failed", slog.String("error", err.Error()))
		}
	}()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		backend := "sqlite"
		if s.config.UsePostgres() {
			backend = "postgres"
		}
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("database", backend),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
