package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/bryllupspakken/backend/internal/repository"
)

// Handler holds the cross-cutting endpoints and middleware.
type Handler struct {
	db          repository.DB
	frontendURL string
	checks      []HealthCheck
}

// New creates a Handler. checks are reported by Health next to the database.
func New(db repository.DB, frontendURL string, checks ...HealthCheck) *Handler {
	return &Handler{db: db, frontendURL: frontendURL, checks: checks}
}

func (h *Handler) CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", h.frontendURL)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// writeError writes {"error": code}.
func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
