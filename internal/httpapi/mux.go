package httpapi

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/CristianB27/weather-logs/internal/config"
)

// NewMux is the consumer surface: db-backed healthcheck plus metrics.
func NewMux(db *sql.DB) *http.ServeMux {
	mux := NewMetricsMux()
	registerHealthcheck(mux, db)
	return mux
}

// NewMetricsMux serves only the prometheus endpoint, for processes that have
// no database to probe.
func NewMetricsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func NewServer(cfg config.Config, mux *http.ServeMux) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
