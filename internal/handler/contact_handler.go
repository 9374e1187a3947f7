package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/bryllupspakken/backend/internal/contactform"
	"github.com/bryllupspakken/backend/internal/model"
	"github.com/bryllupspakken/backend/internal/service"
	"github.com/google/uuid"
)

const maxFormBytes = 1 << 20

// MsgSubmitFailed is shown when a submission could not be stored.
const MsgSubmitFailed = "Noe gikk galt da vi skulle lagre forespørselen din. Vennligst prøv igjen."

// ContactHandler handles contact form submission and the admin view.
type ContactHandler struct {
	contactService service.ContactService
	options        contactform.ServiceOptions
}

// NewContactHandler creates a ContactHandler. options is the service allow-list.
func NewContactHandler(contactService service.ContactService, options contactform.ServiceOptions) *ContactHandler {
	return &ContactHandler{contactService: contactService, options: options}
}

type submitErrorResponse struct {
	Success bool                      `json:"success"`
	Error   string                    `json:"error,omitempty"`
	Message string                    `json:"message,omitempty"`
	Errors  map[string]string         `json:"errors,omitempty"`
	Values  model.ContactRequestInput `json:"values"`
}

type submitResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

// Submit handles POST /api/contact (urlencoded or multipart form).
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(maxFormBytes)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_form")
		return
	}

	input := contactform.Normalize(r.PostForm, h.options)
	req, err := h.contactService.Submit(r.Context(), input, requestMetadata(r))
	if err != nil {
		var verr *contactform.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, submitErrorResponse{Errors: verr.Fields, Values: input})
			return
		}
		slog.Error("contact submission failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, submitErrorResponse{
			Error:   "submit_failed",
			Message: MsgSubmitFailed,
			Values:  input,
		})
		return
	}

	writeJSON(w, http.StatusCreated, submitResponse{Success: true, ID: req.ID})
}

// requestMetadata captures the provenance of a submission.
func requestMetadata(r *http.Request) model.RequestMetadata {
	q := r.URL.Query()
	ip := header(r, "X-Forwarded-For")
	if ip == nil {
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
			ip = &host
		}
	}
	return model.RequestMetadata{
		IPAddress:   ip,
		UserAgent:   header(r, "User-Agent"),
		Referrer:    header(r, "Referer"),
		UTMSource:   nonEmpty(q.Get("utm_source")),
		UTMMedium:   nonEmpty(q.Get("utm_medium")),
		UTMCampaign: nonEmpty(q.Get("utm_campaign")),
	}
}

func header(r *http.Request, name string) *string {
	return nonEmpty(r.Header.Get(name))
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

type optionsResponse struct {
	ServiceOptions []string `json:"service_options"`
}

// Options handles GET /api/contact/options.
func (h *ContactHandler) Options(w http.ResponseWriter, r *http.Request) {
	opts := h.options
	if opts == nil {
		opts = contactform.ServiceOptions{}
	}
	writeJSON(w, http.StatusOK, optionsResponse{ServiceOptions: opts})
}

// AdminList handles GET /api/admin/contact-requests.
// Query params: search, stage, page, sortBy, sortOrder.
func (h *ContactHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := model.ContactListOptions{
		Search:    strings.TrimSpace(q.Get("search")),
		Stage:     model.Stage(q.Get("stage")),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
		Page:      1,
	}
	if p, err := strconv.Atoi(q.Get("page")); err == nil {
		opts.Page = p
	}

	page, err := h.contactService.List(r.Context(), opts)
	if err != nil {
		slog.Error("list contact requests failed", "error", err)
		writeError(w, http.StatusInternalServerError, "list_failed")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

type updateStageRequest struct {
	Stage model.Stage `json:"stage"`
}

// UpdateStage handles PATCH /api/admin/contact-requests/{id}/stage.
func (h *ContactHandler) UpdateStage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}

	var req updateStageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if req.Stage == "" {
		writeError(w, http.StatusBadRequest, "stage_required")
		return
	}

	if err := h.contactService.UpdateStage(r.Context(), id, req.Stage); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStage):
			writeError(w, http.StatusBadRequest, "invalid_stage")
		case errors.Is(err, service.ErrNotFound):
			writeError(w, http.StatusNotFound, "not_found")
		default:
			slog.Error("update stage failed", "contact_request_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "update_failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "id": id, "stage": req.Stage})
}
