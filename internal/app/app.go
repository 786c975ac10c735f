// Package app wires storage, services and the HTTP server together and runs them.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/httplog/v2"
	"github.com/linkshelf/url-shortener/internal/auth"
	"github.com/linkshelf/url-shortener/internal/config"
	"github.com/linkshelf/url-shortener/internal/database/memory"
	"github.com/linkshelf/url-shortener/internal/database/postgres"
	"github.com/linkshelf/url-shortener/internal/service"
	"github.com/linkshelf/url-shortener/internal/shortcode"
	"golang.org/x/sync/errgroup"

	v1 "github.com/linkshelf/url-shortener/internal/api/http/v1"
)

const shutdownTimeout = 10 * time.Second

const tokenIssuer = "url-shortener"

// userStore serves both link ownership lookups and accounts.
type userStore interface {
	service.UserRepository
	auth.UserRepository
}

type stores struct {
	links service.LinkRepository
	users userStore
	close func() error
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	const op = "app.openStores"

	if cfg.Storage == config.StorageMemory {
		return &stores{
			links: memory.NewLinkRepository(),
			users: memory.NewUserRepository(),
			close: func() error { return nil },
		}, nil
	}

	db, err := postgres.New(
		ctx,
		cfg.Postgres.DSN(),
		postgres.WithConnMaxIdleTime(cfg.Postgres.ConnMaxIdleTime),
		postgres.WithConnMaxLifetime(cfg.Postgres.ConnMaxLifetime),
		postgres.WithMaxIdleConns(cfg.Postgres.MaxIdleConns),
		postgres.WithMaxOpenConns(cfg.Postgres.MaxOpenConns),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect to database: %w", op, err)
	}

	if err := postgres.RunMigrations(cfg.Postgres.MigrationsPath, cfg.Postgres.DSN()); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: failed to run migrations: %w", op, err)
	}

	return &stores{
		links: postgres.NewLinkRepository(db),
		users: postgres.NewUserRepository(db),
		close: db.Close,
	}, nil
}

// NewHandler builds the HTTP handler for the given stores and configuration.
func NewHandler(
	cfg *config.Config,
	logger *httplog.Logger,
	links service.LinkRepository,
	users userStore,
) http.Handler {
	linkSvc := service.NewLinkService(
		links,
		users,
		shortcode.NewGenerator(cfg.ShortCode.Length),
		service.WithBaseURL(cfg.BaseURL),
		service.WithMaxAttempts(cfg.ShortCode.MaxAttempts),
	)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, tokenIssuer)
	authSvc := auth.NewService(users, auth.NewPasswordHasher(cfg.Auth.BcryptCost), tokens)

	return v1.NewRouter(logger, linkSvc, authSvc, tokens, v1.CookieConfig{
		Name:   cfg.Auth.CookieName,
		Secure: cfg.Env == config.EnvProd,
	})
}

// Run serves the API until ctx is canceled, then shuts the server down gracefully.
func Run(ctx context.Context, cfg *config.Config, logger *httplog.Logger) error {
	const op = "app.Run"

	st, err := openStores(ctx, cfg)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer st.close()

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        NewHandler(cfg, logger, st.links, st.users),
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server", "addr", server.Addr, "env", cfg.Env, "storage", cfg.Storage)

		var err error

		switch cfg.Env {
		case config.EnvProd:
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		default:
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: server error occurred: %w", op, err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: failed to shutdown server: %w", op, err)
		}

		return nil
	})

	return g.Wait()
}
