package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/books-api/internal/api"
	"github.com/phrazzld/books-api/internal/config"
	"github.com/phrazzld/books-api/internal/platform/postgres"
	"github.com/phrazzld/books-api/internal/ratelimit"
	"github.com/phrazzld/books-api/internal/redact"
	"github.com/phrazzld/books-api/internal/service"
	"github.com/phrazzld/books-api/internal/store"
	"github.com/phrazzld/books-api/internal/store/memory"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// db is nil when the in-memory store is selected.
	db        *sql.DB
	bookStore store.BookStore
	books     service.BookService

	// limiter is nil when rate limiting is disabled.
	limiter *ratelimit.FixedWindowLimiter
}

// newApplication creates a new application instance with all dependencies initialized.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{config: cfg, logger: logger}

	if err := app.setupStore(ctx); err != nil {
		app.cleanup()
		return nil, err
	}

	var err error
	app.books, err = service.NewBookService(app.bookStore, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to initialize book service: %w", err)
	}

	if err := app.setupRateLimiter(ctx); err != nil {
		app.cleanup()
		return nil, err
	}

	return app, nil
}

func (app *application) setupStore(ctx context.Context) error {
	switch app.config.Database.Store {
	case "memory":
		app.bookStore = memory.NewBookStore()
		app.logger.Warn("using in-memory book store; data is lost on restart")
		return nil
	case "postgres":
		db, err := setupAppDatabase(ctx, app.config, app.logger)
		if err != nil {
			return err
		}
		app.db = db
		if app.config.Database.MigrateOnStart {
			if err := postgres.Migrate(ctx, db, postgres.MigrateUp, app.logger); err != nil {
				return fmt.Errorf("failed to apply migrations: %w", err)
			}
		}
		app.bookStore = postgres.NewPostgresBookStore(db, app.logger)
		return nil
	default:
		return fmt.Errorf("unknown book store %q", app.config.Database.Store)
	}
}

func (app *application) setupRateLimiter(ctx context.Context) error {
	rl := app.config.RateLimit
	if !rl.Enabled() {
		app.logger.Info("rate limiting disabled")
		return nil
	}

	limiter, err := ratelimit.NewRedisFixedWindowLimiter(rl.RedisAddr, rl.RedisPassword, rl.Prefix, rl.Limit, rl.Window)
	if err != nil {
		return fmt.Errorf("failed to initialize rate limiter: %w", err)
	}
	app.limiter = limiter

	// The limiter fails open, so an unreachable Redis is only worth a warning.
	if err := limiter.Ping(ctx); err != nil {
		app.logger.Warn("rate limiter redis unreachable", slog.String("error", redact.Error(err)))
	}
	app.logger.Info("rate limiting enabled",
		slog.Int("limit", rl.Limit),
		slog.Duration("window", rl.Window))
	return nil
}

// router builds the HTTP handler for the application.
func (app *application) router() http.Handler {
	cfg := api.RouterConfig{
		Books:  app.books,
		Logger: app.logger,
	}
	if app.limiter != nil {
		cfg.Limiter = app.limiter
	}
	return api.NewRouter(cfg)
}

// cleanup releases external resources. It is safe to call more than once.
func (app *application) cleanup() {
	if app.limiter != nil {
		if err := app.limiter.Close(); err != nil {
			app.logger.Warn("failed to close rate limiter", slog.String("error", err.Error()))
		}
		app.limiter = nil
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Warn("failed to close database", slog.String("error", err.Error()))
		}
		app.db = nil
	}
}
