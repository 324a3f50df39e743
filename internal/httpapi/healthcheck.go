package httpapi

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
)

func registerHealthcheck(mux *http.ServeMux, db *sql.DB) {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		var ok int
		if err := db.QueryRowContext(r.Context(), `SELECT 1`).Scan(&ok); err != nil || ok != 1 {
			slog.Error("healthcheck db probe failed", "error", err)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "unavailable"})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
}
