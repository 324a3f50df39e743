package consumer

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/CristianB27/weather-logs/internal/broker"
	"github.com/CristianB27/weather-logs/internal/config"
	"github.com/CristianB27/weather-logs/internal/db"
	"github.com/CristianB27/weather-logs/internal/httpapi"
	"github.com/CristianB27/weather-logs/internal/repository"
)

// Run wires the consumer process: postgres (with startup retry), the health
// and metrics endpoint, and the broker consume loop. It blocks until ctx is
// cancelled; broker connection loss is recovered in-process.
func Run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	pool, err := db.Connect(ctx, cfg, logger)
	if err != nil {
		// Only reachable when ctx was cancelled while waiting for the store.
		return nil
	}
	defer func() {
		if closeErr := db.Close(pool); closeErr != nil {
			logger.Error("db close", "error", closeErr)
		}
	}()

	repo := repository.NewRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}

	srv := httpapi.NewServer(cfg, httpapi.NewMux(pool))
	go func() {
		logger.Info("http listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown", "error", err)
		}
	}()

	dispatcher := NewDispatcher(repo, logger)

	for {
		client, err := broker.Connect(ctx, cfg, logger)
		if err != nil {
			// Connect only fails once ctx is cancelled.
			return nil
		}

		err = consumeSession(ctx, client, dispatcher, logger)
		client.Close()

		if ctx.Err() != nil {
			logger.Info("consumer stopped")
			return nil
		}
		if err != nil {
			logger.Error("consume session failed", "error", err)
		}
		logger.Warn("broker session ended, reconnecting", "delay", cfg.BrokerRetryDelay)
		select {
		case <-ctx.Done():
			logger.Info("consumer stopped")
			return nil
		case <-time.After(cfg.BrokerRetryDelay):
		}
	}
}

// consumeSession declares topology on a fresh connection and drains
// deliveries until the connection drops or ctx ends.
func consumeSession(ctx context.Context, client *broker.Client, dispatcher *Dispatcher, logger *slog.Logger) error {
	if err := client.DeclareTopology(); err != nil {
		return err
	}
	if err := client.Prefetch(1); err != nil {
		return err
	}
	deliveries, err := client.Consume(ctx)
	if err != nil {
		return err
	}

	logger.Info("consuming", "queue", broker.Queue, "prefetch", 1)
	if err := dispatcher.Run(ctx, deliveries); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
