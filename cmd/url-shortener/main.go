package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/httplog/v2"
	"github.com/joho/godotenv"
	"github.com/linkshelf/url-shortener/internal/app"
	"github.com/linkshelf/url-shortener/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		slog.Error("application stopped", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config/local.yml"
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	return app.Run(ctx, cfg, newLogger(cfg.Env))
}

func newLogger(env string) *httplog.Logger {
	opts := httplog.Options{
		LogLevel:        slog.LevelDebug,
		Concise:         true,
		RequestHeaders:  true,
		TimeFieldFormat: "2006-01-02T15:04:05.000Z07:00",
	}

	if env == config.EnvProd {
		opts.JSON = true
		opts.LogLevel = slog.LevelInfo
		opts.Concise = false
	}

	return httplog.NewLogger("url-shortener", opts)
}
