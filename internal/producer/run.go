package producer

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"time"

	"github.com/CristianB27/weather-logs/internal/broker"
	"github.com/CristianB27/weather-logs/internal/config"
	"github.com/CristianB27/weather-logs/internal/generator"
	"github.com/CristianB27/weather-logs/internal/httpapi"
	"github.com/CristianB27/weather-logs/internal/metrics"
)

// Run wires the producer process: connect to the broker (retrying forever),
// declare the exchange, then publish one synthetic reading per tick. A lost
// connection ends the session and starts a fresh one; the per-session counter
// restarts at zero by design.
func Run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	gen := generator.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(os.Getpid())))

	srv := httpapi.NewServer(cfg, httpapi.NewMetricsMux())
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

	for {
		client, err := broker.Connect(ctx, cfg, logger)
		if err != nil {
			// Connect only fails once ctx is cancelled.
			return nil
		}

		if err := client.DeclareExchange(); err != nil {
			logger.Error("declare exchange failed", "error", err)
			client.Close()
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(cfg.BrokerRetryDelay):
			}
			continue
		}

		published := publishSession(ctx, cfg, client, gen, logger)
		logger.Info("publish session ended", "published", published)
		client.Close()

		if ctx.Err() != nil {
			logger.Info("producer stopped")
			return nil
		}
		logger.Warn("reconnecting to broker", "delay", cfg.BrokerRetryDelay)
		select {
		case <-ctx.Done():
			logger.Info("producer stopped")
			return nil
		case <-time.After(cfg.BrokerRetryDelay):
		}
	}
}

// publishSession publishes on the given connection until it drops or ctx
// ends, and returns how many readings this session published. Publish errors
// are logged and swallowed; the loop simply moves on to the next tick.
func publishSession(ctx context.Context, cfg config.Config, client *broker.Client, gen *generator.Generator, logger *slog.Logger) int {
	pub := broker.NewPublisher(client, logger)
	closed := client.NotifyClose()

	ticker := time.NewTicker(cfg.PublishInterval)
	defer ticker.Stop()

	published := 0
	for {
		select {
		case <-ctx.Done():
			return published
		case err := <-closed:
			if err != nil {
				logger.Error("broker connection lost", "error", err)
			}
			return published
		case <-ticker.C:
			reading := gen.Next()
			if err := pub.Publish(ctx, reading); err != nil {
				logger.Error("publish failed",
					"station_id", reading.StationID,
					"error", err,
				)
				metrics.PublishFailures.Inc()
				continue
			}
			published++
			metrics.ReadingsPublished.Inc()
			logger.Info("published reading",
				"station_id", reading.StationID,
				"temperature_c", reading.TemperatureC,
				"humidity_percent", reading.HumidityPercent,
				"session_count", published,
			)
		}
	}
}
