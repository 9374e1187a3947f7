package handler

import (
	"context"
	"net/http"
	"time"
)

const healthTimeout = 2 * time.Second

// HealthCheck is an extra dependency probe reported by GET /api/health.
// A failing non-critical check marks the service degraded but keeps 200.
type HealthCheck struct {
	Name     string
	Critical bool
	Check    func(ctx context.Context) error
}

type healthResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Checks  map[string]string `json:"checks"`
}

// Health handles GET /api/health. The database is always checked.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	checks := append([]HealthCheck{{Name: "database", Critical: true, Check: h.db.Ping}}, h.checks...)
	resp := healthResponse{Status: "ok", Message: "Bryllupspakken API", Checks: make(map[string]string, len(checks))}
	code := http.StatusOK
	for _, c := range checks {
		if err := c.Check(ctx); err != nil {
			resp.Checks[c.Name] = err.Error()
			if c.Critical {
				resp.Status = "unhealthy"
				code = http.StatusServiceUnavailable
			} else if resp.Status == "ok" {
				resp.Status = "degraded"
			}
			continue
		}
		resp.Checks[c.Name] = "ok"
	}
	writeJSON(w, code, resp)
}
