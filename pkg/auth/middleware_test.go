package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type mockValidator struct {
	validateFunc func(ctx context.Context, token string) (string, error)
}

func (m *mockValidator) ValidateSession(ctx context.Context, token string) (string, error) {
	return m.validateFunc(ctx, token)
}

func TestRequireSession_NoCookie_Returns401(t *testing.T) {
	mw := RequireSession(&mockValidator{validateFunc: func(context.Context, string) (string, error) {
		t.Error("validator should not be called without a cookie")
		return "", nil
	}})

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not be called")
	})

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestRequireSession_InvalidToken_Returns401(t *testing.T) {
	mw := RequireSession(&mockValidator{validateFunc: func(context.Context, string) (string, error) {
		return "", errors.New("invalid_session")
	}})

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not be called")
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName(), Value: "stale"})
	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON error body, got Content-Type %q", ct)
	}
}

func TestRequireSession_ValidToken_CallsNextWithUserID(t *testing.T) {
	mw := RequireSession(&mockValidator{validateFunc: func(_ context.Context, token string) (string, error) {
		if token != "good-token" {
			return "", errors.New("invalid_session")
		}
		return "user-123", nil
	}})

	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName(), Value: "good-token"})
	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if gotUserID != "user-123" {
		t.Errorf("expected userID=user-123, got %q", gotUserID)
	}
}

func TestGenerateSessionToken(t *testing.T) {
	a, err := GenerateSessionToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := GenerateSessionToken()
	if len(a) != 64 {
		t.Errorf("expected 64-char hex token, got %d chars", len(a))
	}
	if a == b {
		t.Error("expected distinct tokens")
	}
}

func TestSessionCookies(t *testing.T) {
	rec := httptest.NewRecorder()
	SetSessionCookie(rec, "tok", time.Now().Add(SessionDuration), true)
	ClearSessionCookie(rec, true)

	cookies := rec.Result().Cookies()
	if len(cookies) != 2 {
		t.Fatalf("expected 2 Set-Cookie headers, got %d", len(cookies))
	}
	set, clear := cookies[0], cookies[1]
	if set.Name != SessionCookieName() || set.Value != "tok" || !set.HttpOnly || !set.Secure {
		t.Errorf("unexpected session cookie: %+v", set)
	}
	if clear.MaxAge >= 0 || clear.Value != "" {
		t.Errorf("expected expired cookie, got %+v", clear)
	}
}
