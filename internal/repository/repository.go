package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/CristianB27/weather-logs/internal/types"
)

//go:embed sql/schema.sql
var schemaSQL string

//go:embed sql/insert-log.sql
var insertLogSQL string

//go:embed sql/get-recent-logs.sql
var getRecentLogsSQL string

// WeatherLogRepository is the audit trail for dispatched messages: one row
// per decoded message, valid or invalid.
type WeatherLogRepository interface {
	EnsureSchema(ctx context.Context) error
	InsertLog(ctx context.Context, rec types.Record) error
	RecentLogs(ctx context.Context, limit int) ([]types.Record, error)
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) WeatherLogRepository {
	return &repositoryImpl{db: db}
}

// EnsureSchema creates the weather_logs table if it does not exist. The DDL
// is idempotent; this is deliberately not a migration system.
func (r *repositoryImpl) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (r *repositoryImpl) InsertLog(ctx context.Context, rec types.Record) error {
	_, err := r.db.ExecContext(ctx, insertLogSQL,
		rec.StationID,
		rec.Timestamp.UTC(),
		rec.TemperatureC,
		rec.HumidityPercent,
		rec.WindSpeedMS,
		// jsonb column; lib/pq would encode []byte as bytea.
		string(rec.RawPayload),
		rec.Status,
	)
	if err != nil {
		return fmt.Errorf("insert weather log: %w", err)
	}
	return nil
}

func (r *repositoryImpl) RecentLogs(ctx context.Context, limit int) ([]types.Record, error) {
	rows, err := r.db.QueryContext(ctx, getRecentLogsSQL, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close weather log rows", "error", err)
		}
	}()

	var out []types.Record
	for rows.Next() {
		var rec types.Record
		var stationID sql.NullString
		var temperature, humidity, wind sql.NullFloat64
		var ts time.Time
		if err := rows.Scan(&stationID, &ts, &temperature, &humidity, &wind, &rec.RawPayload, &rec.Status); err != nil {
			return nil, err
		}
		rec.Timestamp = ts.UTC()
		if stationID.Valid {
			rec.StationID = &stationID.String
		}
		if temperature.Valid {
			rec.TemperatureC = &temperature.Float64
		}
		if humidity.Valid {
			rec.HumidityPercent = &humidity.Float64
		}
		if wind.Valid {
			rec.WindSpeedMS = &wind.Float64
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
