package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppEnv   string
	LogLevel slog.Level

	RabbitHost string
	RabbitPort int
	RabbitUser string
	RabbitPass string

	PostgresHost string
	PostgresPort int
	PostgresDB   string
	PostgresUser string
	PostgresPass string

	// HTTPAddr serves the consumer's /healthz and /metrics.
	HTTPAddr string

	PublishInterval  time.Duration
	BrokerRetryDelay time.Duration
	DBRetryDelay     time.Duration

	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
}

func LoadFromEnv() (Config, error) {
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	logLevelStr := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if logLevelStr == "" {
		logLevelStr = "info"
	}
	level, err := parseLogLevel(logLevelStr)
	if err != nil {
		return Config{}, err
	}

	rabbitHost := envOrDefault("RABBITMQ_HOST", "localhost")
	rabbitPort, err := envInt("RABBITMQ_PORT", 5672)
	if err != nil {
		return Config{}, err
	}
	rabbitUser := envOrDefault("RABBITMQ_USER", "rabbit")
	rabbitPass := envOrDefault("RABBITMQ_PASS", "rabbitpass")

	pgHost := envOrDefault("POSTGRES_HOST", "localhost")
	pgPort, err := envInt("POSTGRES_PORT", 5432)
	if err != nil {
		return Config{}, err
	}
	pgDB := envOrDefault("POSTGRES_DB", "weatherdb")
	pgUser := envOrDefault("POSTGRES_USER", "weather")
	pgPass := envOrDefault("POSTGRES_PASSWORD", "weatherpass")

	httpAddr := envOrDefault("HTTP_ADDR", ":8081")

	publishInterval, err := envDuration("PUBLISH_INTERVAL", 2*time.Second)
	if err != nil {
		return Config{}, err
	}
	if publishInterval <= 0 {
		return Config{}, fmt.Errorf("PUBLISH_INTERVAL must be positive, got %v", publishInterval)
	}

	brokerRetryDelay, err := envDuration("BROKER_RETRY_DELAY", 5*time.Second)
	if err != nil {
		return Config{}, err
	}
	if brokerRetryDelay <= 0 {
		return Config{}, fmt.Errorf("BROKER_RETRY_DELAY must be positive, got %v", brokerRetryDelay)
	}

	dbRetryDelay, err := envDuration("DB_RETRY_DELAY", 3*time.Second)
	if err != nil {
		return Config{}, err
	}
	if dbRetryDelay <= 0 {
		return Config{}, fmt.Errorf("DB_RETRY_DELAY must be positive, got %v", dbRetryDelay)
	}

	maxOpenConns, err := envInt("DB_MAX_OPEN_CONNS", 4)
	if err != nil {
		return Config{}, err
	}
	maxIdleConns, err := envInt("DB_MAX_IDLE_CONNS", 2)
	if err != nil {
		return Config{}, err
	}
	connMaxLifetime, err := envDuration("DB_CONN_MAX_LIFETIME", 0)
	if err != nil {
		return Config{}, err
	}

	return Config{
		AppEnv:            appEnv,
		LogLevel:          level,
		RabbitHost:        rabbitHost,
		RabbitPort:        rabbitPort,
		RabbitUser:        rabbitUser,
		RabbitPass:        rabbitPass,
		PostgresHost:      pgHost,
		PostgresPort:      pgPort,
		PostgresDB:        pgDB,
		PostgresUser:      pgUser,
		PostgresPass:      pgPass,
		HTTPAddr:          httpAddr,
		PublishInterval:   publishInterval,
		BrokerRetryDelay:  brokerRetryDelay,
		DBRetryDelay:      dbRetryDelay,
		DBMaxOpenConns:    maxOpenConns,
		DBMaxIdleConns:    maxIdleConns,
		DBConnMaxLifetime: connMaxLifetime,
	}, nil
}

// AMQPURL builds the broker dial string. url.UserPassword applies userinfo
// percent-encoding, so credentials with reserved characters (including
// spaces) survive the round trip.
func (c Config) AMQPURL() string {
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(c.RabbitUser, c.RabbitPass),
		Host:   fmt.Sprintf("%s:%d", c.RabbitHost, c.RabbitPort),
		Path:   "/",
	}
	return u.String()
}

// PostgresDSN builds the lib/pq connection string.
func (c Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=disable connect_timeout=5",
		c.PostgresHost, c.PostgresPort, c.PostgresDB, c.PostgresUser, c.PostgresPass)
}

func envOrDefault(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func envInt(key string, def int) (int, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return n, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return d, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
