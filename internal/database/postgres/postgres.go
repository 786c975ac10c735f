// Package postgres implements the link and user stores on top of PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const uniqueViolationErrCode = "23505"

const (
	defaultConnMaxIdleTime = 5 * time.Minute
	defaultConnMaxLifetime = 30 * time.Minute
	defaultMaxIdleConns    = 5
	defaultMaxOpenConns    = 25
)

func isUniqueViolationError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.SQLState() == uniqueViolationErrCode
}

// Option tunes the connection pool.
type Option func(*sqlx.DB)

func WithConnMaxIdleTime(d time.Duration) Option {
	return func(db *sqlx.DB) {
		if d > 0 {
			db.SetConnMaxIdleTime(d)
		}
	}
}

func WithConnMaxLifetime(d time.Duration) Option {
	return func(db *sqlx.DB) {
		if d > 0 {
			db.SetConnMaxLifetime(d)
		}
	}
}

func WithMaxIdleConns(n int) Option {
	return func(db *sqlx.DB) {
		if n > 0 {
			db.SetMaxIdleConns(n)
		}
	}
}

func WithMaxOpenConns(n int) Option {
	return func(db *sqlx.DB) {
		if n > 0 {
			db.SetMaxOpenConns(n)
		}
	}
}

// New opens a pgx-backed pool and verifies it with a ping.
func New(ctx context.Context, dsn string, opts ...Option) (*sqlx.DB, error) {
	const op = "database.postgres.New"

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect to database: %w", op, err)
	}

	db.SetConnMaxIdleTime(defaultConnMaxIdleTime)
	db.SetConnMaxLifetime(defaultConnMaxLifetime)
	db.SetMaxIdleConns(defaultMaxIdleConns)
	db.SetMaxOpenConns(defaultMaxOpenConns)

	for _, opt := range opts {
		opt(db)
	}

	return db, nil
}

// RunMigrations applies every pending migration found at sourceURL (e.g. "file://migrations").
func RunMigrations(sourceURL, dsn string) error {
	const op = "database.postgres.RunMigrations"

	m, err := migrate.New(sourceURL, dsn)
	if err != nil {
		return fmt.Errorf("%s: failed to initialize migrations: %w", op, err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%s: failed to run migrations: %w", op, err)
	}

	return nil
}
