package handler

import (
	"net/http"
)

// ProvidersConfig decides which sign-in methods the login page offers.
type ProvidersConfig struct {
	// GoogleEnabled adds "google" (GOOGLE_CLIENT_ID set).
	GoogleEnabled bool
}

// ProvidersHandler handles GET /api/auth/providers
type ProvidersHandler struct {
	cfg ProvidersConfig
}

// NewProvidersHandler creates a ProvidersHandler with the given configuration.
func NewProvidersHandler(cfg ProvidersConfig) *ProvidersHandler {
	return &ProvidersHandler{cfg: cfg}
}

type providersResponse struct {
	Providers []string `json:"providers"`
}

// Providers handles GET /api/auth/providers.
// Password login is always available and listed first.
func (h *ProvidersHandler) Providers(w http.ResponseWriter, r *http.Request) {
	providers := []string{"password"}
	if h.cfg.GoogleEnabled {
		providers = append(providers, "google")
	}
	writeJSON(w, http.StatusOK, providersResponse{Providers: providers})
}
