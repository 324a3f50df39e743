package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/lib/pq"

	"github.com/CristianB27/weather-logs/internal/config"
)

// Open opens a postgres pool and validates connectivity with a ping.
func Open(cfg config.Config) (*sql.DB, error) {
	pool, err := sql.Open("postgres", cfg.PostgresDSN())
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}

	if cfg.DBMaxOpenConns > 0 {
		pool.SetMaxOpenConns(cfg.DBMaxOpenConns)
	}
	if cfg.DBMaxIdleConns >= 0 {
		pool.SetMaxIdleConns(cfg.DBMaxIdleConns)
	}
	if cfg.DBConnMaxLifetime > 0 {
		pool.SetConnMaxLifetime(cfg.DBConnMaxLifetime)
	}

	if err := pool.Ping(); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	return pool, nil
}

// Connect retries Open with a constant delay until the store is reachable or
// ctx is cancelled. Used at consumer startup only; mid-stream write failures
// are reported per write, not reconnected here.
func Connect(ctx context.Context, cfg config.Config, logger *slog.Logger) (*sql.DB, error) {
	policy := backoff.WithContext(backoff.NewConstantBackOff(cfg.DBRetryDelay), ctx)

	var pool *sql.DB
	err := backoff.Retry(func() error {
		p, openErr := Open(cfg)
		if openErr != nil {
			logger.Error("postgres connect failed",
				"host", cfg.PostgresHost,
				"db", cfg.PostgresDB,
				"retry_in", cfg.DBRetryDelay,
				"error", openErr,
			)
			return openErr
		}
		pool = p
		return nil
	}, policy)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}

	logger.Info("postgres connected", "host", cfg.PostgresHost, "db", cfg.PostgresDB)
	return pool, nil
}

func Close(pool *sql.DB) error {
	if pool == nil {
		return nil
	}
	return pool.Close()
}
