package handler

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bryllupspakken/backend/internal/contactform"
	"github.com/bryllupspakken/backend/internal/model"
	"github.com/bryllupspakken/backend/internal/service"
	"github.com/bryllupspakken/backend/pkg/auth"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	oauthStateCookieName = "oauth_state"
	googleUserInfoURL    = "https://www.googleapis.com/oauth2/v3/userinfo"
	defaultRedirect      = "/admin"
)

// User-facing auth messages.
const (
	MsgCredentialsRequired = "E-post og passord er påkrevd"
	MsgInvalidEmail        = "Ugyldig e-postadresse"
	MsgInvalidCredentials  = "Ugyldig e-post eller passord"
	MsgPasswordRequired    = "Begge feltene er påkrevd"
	MsgPasswordTooShort    = "Passordet må være minst 6 tegn"
	MsgPasswordMismatch    = "Passordene stemmer ikke overens"
	MsgPasswordFailed      = "Kunne ikke oppdatere passord"
)

// SessionManager creates and removes login sessions. *service.SessionService implements it.
type SessionManager interface {
	CreateSession(ctx context.Context, userID string) (*model.Session, error)
	DeleteSession(ctx context.Context, token string) error
}

// generateOAuthState returns a random state value for CSRF protection.
func generateOAuthState() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}

func (h *AuthHandler) setStateCookie(w http.ResponseWriter, state string) {
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   600, // 10 minutes
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.secureCookies,
	})
}

// verifyOAuthState compares the state cookie with the state query parameter.
func verifyOAuthState(r *http.Request) bool {
	cookie, err := r.Cookie(oauthStateCookieName)
	if err != nil || cookie.Value == "" {
		return false
	}
	return cookie.Value == r.URL.Query().Get("state")
}

func clearStateCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Expires:  time.Unix(0, 0),
	})
}

// AuthHandler serves the admin login endpoints.
type AuthHandler struct {
	authService   service.AuthService
	sessions      SessionManager
	googleConfig  *oauth2.Config
	userInfoURL   string
	frontendURL   string
	secureCookies bool
}

// AuthConfig configures AuthHandler. Google sign-in is off when GoogleClientID is empty.
type AuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	BackendURL         string
	FrontendURL        string
	SecureCookies      bool
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authService service.AuthService, sessions SessionManager, cfg AuthConfig) *AuthHandler {
	h := &AuthHandler{
		authService:   authService,
		sessions:      sessions,
		userInfoURL:   googleUserInfoURL,
		frontendURL:   cfg.FrontendURL,
		secureCookies: cfg.SecureCookies,
	}
	if cfg.GoogleClientID != "" {
		h.googleConfig = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.BackendURL + "/api/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}
	return h
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Email   string `json:"email,omitempty"`
}

type loginResponse struct {
	User       *model.AdminUser `json:"user"`
	RedirectTo string           `json:"redirect_to"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, authErrorResponse{Error: "credentials_required", Message: MsgCredentialsRequired, Email: email})
		return
	}
	if !contactform.IsEmail(email) {
		writeJSON(w, http.StatusBadRequest, authErrorResponse{Error: "invalid_email", Message: MsgInvalidEmail, Email: email})
		return
	}

	user, err := h.authService.Login(r.Context(), email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, authErrorResponse{Error: "invalid_credentials", Message: MsgInvalidCredentials, Email: email})
			return
		}
		slog.Error("login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "login_failed")
		return
	}

	if !h.startSession(w, r, user.ID) {
		writeError(w, http.StatusInternalServerError, "session_failed")
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{User: user, RedirectTo: safeRedirect(r.URL.Query().Get("redirectTo"))})
}

// startSession creates a session for userID and sets the cookie.
func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, userID string) bool {
	session, err := h.sessions.CreateSession(r.Context(), userID)
	if err != nil {
		slog.Error("create session failed", "user_id", userID, "error", err)
		return false
	}
	auth.SetSessionCookie(w, session.Token, session.ExpiresAt, h.secureCookies)
	return true
}

// safeRedirect only allows same-site absolute paths.
func safeRedirect(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return defaultRedirect
	}
	return target
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.SessionCookieName()); err == nil && cookie.Value != "" {
		if err := h.sessions.DeleteSession(r.Context(), cookie.Value); err != nil {
			slog.Warn("delete session failed", "error", err)
		}
	}
	auth.ClearSessionCookie(w, h.secureCookies)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type passwordRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Password handles POST /api/auth/password (session required).
func (h *AuthHandler) Password(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req passwordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	err := h.authService.ChangePassword(r.Context(), userID, req.Password, req.ConfirmPassword)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "redirect_to": defaultRedirect})
	case errors.Is(err, service.ErrPasswordRequired):
		writeJSON(w, http.StatusBadRequest, authErrorResponse{Error: "password_required", Message: MsgPasswordRequired})
	case errors.Is(err, service.ErrPasswordTooShort):
		writeJSON(w, http.StatusBadRequest, authErrorResponse{Error: "password_too_short", Message: MsgPasswordTooShort})
	case errors.Is(err, service.ErrPasswordMismatch):
		writeJSON(w, http.StatusBadRequest, authErrorResponse{Error: "password_mismatch", Message: MsgPasswordMismatch})
	default:
		slog.Error("change password failed", "user_id", userID, "error", err)
		writeJSON(w, http.StatusInternalServerError, authErrorResponse{Error: "password_update_failed", Message: MsgPasswordFailed})
	}
}

// GoogleLoginURL handles GET /api/auth/google/login and returns the consent URL.
func (h *AuthHandler) GoogleLoginURL(w http.ResponseWriter, r *http.Request) {
	if h.googleConfig == nil {
		writeError(w, http.StatusNotFound, "google_login_disabled")
		return
	}
	state := generateOAuthState()
	h.setStateCookie(w, state)
	writeJSON(w, http.StatusOK, map[string]string{"url": h.googleConfig.AuthCodeURL(state)})
}

type googleUserInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

// GoogleCallback handles GET /api/auth/google/callback. Only existing admins
// get a session; everyone else is sent back to the login page.
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.googleConfig == nil {
		writeError(w, http.StatusNotFound, "google_login_disabled")
		return
	}
	fail := func(code string) {
		http.Redirect(w, r, h.frontendURL+"/login?error="+code, http.StatusFound)
	}

	if !verifyOAuthState(r) {
		clearStateCookie(w)
		fail("invalid_state")
		return
	}
	clearStateCookie(w)

	code := r.URL.Query().Get("code")
	if code == "" {
		fail("no_code")
		return
	}

	token, err := h.googleConfig.Exchange(r.Context(), code)
	if err != nil {
		slog.Warn("google code exchange failed", "error", err)
		fail("exchange_failed")
		return
	}

	resp, err := h.googleConfig.Client(r.Context(), token).Get(h.userInfoURL)
	if err != nil {
		fail("userinfo_failed")
		return
	}
	defer resp.Body.Close()

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		fail("decode_failed")
		return
	}

	user, err := h.authService.AdminFromGoogle(r.Context(), &service.GoogleUserInfo{
		Sub:           info.Sub,
		Email:         info.Email,
		Name:          info.Name,
		EmailVerified: info.EmailVerified,
	})
	if err != nil {
		if errors.Is(err, service.ErrUnknownAdmin) {
			fail("not_admin")
			return
		}
		slog.Error("google sign-in failed", "error", err)
		fail("login_failed")
		return
	}

	if !h.startSession(w, r, user.ID) {
		fail("session_failed")
		return
	}
	http.Redirect(w, r, h.frontendURL+defaultRedirect, http.StatusFound)
}
