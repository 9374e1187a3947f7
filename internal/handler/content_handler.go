package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bryllupspakken/backend/internal/service"
)

// ContentHandler serves the public CMS pages.
type ContentHandler struct {
	contentService service.ContentService
}

// NewContentHandler creates a ContentHandler.
func NewContentHandler(contentService service.ContentService) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

type notFoundResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Home handles GET /api/home.
func (h *ContentHandler) Home(w http.ResponseWriter, r *http.Request) {
	page, err := h.contentService.Home(r.Context())
	respondContent(w, "home", page, err, "")
}

// Destinations handles GET /api/destinations.
func (h *ContentHandler) Destinations(w http.ResponseWriter, r *http.Request) {
	page, err := h.contentService.Destinations(r.Context())
	respondContent(w, "destinations", page, err, "")
}

// Destination handles GET /api/destinations/{slug}.
func (h *ContentHandler) Destination(w http.ResponseWriter, r *http.Request) {
	bySlug(w, r, "destination", h.contentService.Destination, "Fant ikke destinasjon.")
}

// Countries handles GET /api/countries.
func (h *ContentHandler) Countries(w http.ResponseWriter, r *http.Request) {
	countries, err := h.contentService.Countries(r.Context())
	respondContent(w, "countries", countries, err, "")
}

// Cities handles GET /api/cities.
func (h *ContentHandler) Cities(w http.ResponseWriter, r *http.Request) {
	page, err := h.contentService.Cities(r.Context())
	respondContent(w, "cities", page, err, "")
}

// City handles GET /api/cities/{slug}.
func (h *ContentHandler) City(w http.ResponseWriter, r *http.Request) {
	bySlug(w, r, "city", h.contentService.City, "Byen ble ikke funnet")
}

// BlogPosts handles GET /api/blog.
func (h *ContentHandler) BlogPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.contentService.BlogPosts(r.Context())
	respondContent(w, "blog posts", posts, err, "")
}

// BlogPost handles GET /api/blog/{slug}.
func (h *ContentHandler) BlogPost(w http.ResponseWriter, r *http.Request) {
	bySlug(w, r, "blog post", h.contentService.BlogPost, "Fant ikke blogginnlegg.")
}

func bySlug[T any](w http.ResponseWriter, r *http.Request, what string, fetch func(context.Context, string) (*T, error), notFoundMsg string) {
	slug := r.PathValue("slug")
	if slug == "" {
		writeJSON(w, http.StatusNotFound, notFoundResponse{Error: "not_found", Message: notFoundMsg})
		return
	}
	doc, err := fetch(r.Context(), slug)
	respondContent(w, what, doc, err, notFoundMsg)
}

func respondContent(w http.ResponseWriter, what string, v any, err error, notFoundMsg string) {
	if err == nil {
		writeJSON(w, http.StatusOK, v)
		return
	}
	if errors.Is(err, service.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, notFoundResponse{Error: "not_found", Message: notFoundMsg})
		return
	}
	slog.Error("load content failed", "content", what, "error", err)
	writeError(w, http.StatusBadGateway, "content_unavailable")
}
