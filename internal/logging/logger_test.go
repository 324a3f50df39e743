package logging

import (
	"context"
	"log/slog"
	"testing"

	"github.com/CristianB27/weather-logs/internal/config"
)

func TestNew_HandlerFollowsAppEnv(t *testing.T) {
	prod := New(config.Config{AppEnv: "prod", LogLevel: slog.LevelInfo}, "1.2.3", "weather-consumer")
	if _, ok := prod.Handler().(*slog.JSONHandler); !ok {
		t.Errorf("prod handler: got %T, want *slog.JSONHandler", prod.Handler())
	}

	dev := New(config.Config{AppEnv: "dev", LogLevel: slog.LevelInfo}, "1.2.3", "weather-consumer")
	if _, ok := dev.Handler().(*slog.JSONHandler); ok {
		t.Error("dev handler: got JSON, want the human-readable handler")
	}
}

func TestNew_RespectsLogLevel(t *testing.T) {
	logger := New(config.Config{AppEnv: "prod", LogLevel: slog.LevelWarn}, "1.2.3", "weather-producer")

	ctx := context.Background()
	if logger.Enabled(ctx, slog.LevelInfo) {
		t.Error("info enabled at warn level")
	}
	if !logger.Enabled(ctx, slog.LevelWarn) {
		t.Error("warn disabled at warn level")
	}
}
