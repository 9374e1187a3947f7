package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

// --- SecurityHeaders ---

func TestSecurityHeaders_SetsAllHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders(okHandler).ServeHTTP(rec, httptest.NewRequest("GET", "/api/home", nil))

	headers := map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "DENY",
		"Referrer-Policy":         "strict-origin-when-cross-origin",
		"Content-Security-Policy": "default-src 'none'; frame-ancestors 'none'",
	}
	for name, want := range headers {
		if got := rec.Header().Get(name); got != want {
			t.Errorf("%s: want %q, got %q", name, want, got)
		}
	}
	if hsts := rec.Header().Get("Strict-Transport-Security"); !strings.Contains(hsts, "max-age=") {
		t.Errorf("HSTS missing max-age: %q", hsts)
	}
}

func TestSecurityHeaders_NoStoreOnPrivateRoutes(t *testing.T) {
	tests := map[string]string{
		"/api/admin/contact-requests": "no-store",
		"/api/auth/login":             "no-store",
		"/api/me":                     "no-store",
		"/api/destinations":           "",
		"/api/contact":                "",
	}
	for path, want := range tests {
		rec := httptest.NewRecorder()
		SecurityHeaders(okHandler).ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
		if got := rec.Header().Get("Cache-Control"); got != want {
			t.Errorf("%s: Cache-Control want %q, got %q", path, want, got)
		}
	}
}

func TestSecurityHeaders_PassesThrough(t *testing.T) {
	called := false
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	SecurityHeaders(inner).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if !called {
		t.Error("inner handler was not called")
	}
	if rec.Code != http.StatusTeapot {
		t.Errorf("expected status 418, got %d", rec.Code)
	}
}

// --- RateLimiter ---

func newTestLimiter(t *testing.T, limit int) *RateLimiter {
	t.Helper()
	rl := NewRateLimiter("test", limit)
	t.Cleanup(rl.Stop)
	return rl
}

func hit(h http.Handler, remoteAddr, xff string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/api/contact", nil)
	req.RemoteAddr = remoteAddr
	if xff != "" {
		req.Header.Set("X-Forwarded-For", xff)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	h := newTestLimiter(t, 5).Middleware(okHandler)

	for i := 0; i < 5; i++ {
		if rec := hit(h, "192.168.1.1:12345", ""); rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rec.Code)
		}
	}
	rec := hit(h, "192.168.1.1:12345", "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 on 6th request, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"error":"rate_limited"`) {
		t.Errorf("expected rate_limited body, got %s", rec.Body.String())
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header on 429 response")
	}
}

func TestRateLimiter_DifferentIPsAreIndependent(t *testing.T) {
	h := newTestLimiter(t, 1).Middleware(okHandler)

	hit(h, "10.0.0.1:1234", "")
	if rec := hit(h, "10.0.0.2:1234", ""); rec.Code != http.StatusOK {
		t.Errorf("different IP should not be rate limited, got %d", rec.Code)
	}
}

func TestRateLimiter_WindowSlides(t *testing.T) {
	rl := newTestLimiter(t, 2)
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.allow("1.1.1.1")
	now = now.Add(30 * time.Second)
	rl.allow("1.1.1.1")

	ok, retry := rl.allow("1.1.1.1")
	if ok {
		t.Fatal("third hit inside the window should be rejected")
	}
	if retry != 30*time.Second {
		t.Errorf("expected retry after 30s, got %v", retry)
	}

	now = now.Add(31 * time.Second)
	if ok, _ := rl.allow("1.1.1.1"); !ok {
		t.Error("oldest hit left the window, request should pass")
	}
}

func TestRateLimiter_SweepDropsIdleClients(t *testing.T) {
	rl := newTestLimiter(t, 5)
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.allow("1.1.1.1")
	now = now.Add(2 * time.Minute)
	rl.allow("2.2.2.2")
	rl.sweep()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.clients["1.1.1.1"]; ok {
		t.Error("idle client should be removed")
	}
	if _, ok := rl.clients["2.2.2.2"]; !ok {
		t.Error("active client should be kept")
	}
}

func TestRateLimiter_XForwardedFor_RightmostTrusted(t *testing.T) {
	h := newTestLimiter(t, 1).Middleware(okHandler)

	// The proxy appends the real client as the rightmost entry.
	if rec := hit(h, "10.0.0.99:1234", "203.0.113.50"); rec.Code != http.StatusOK {
		t.Fatalf("first request should succeed, got %d", rec.Code)
	}
	// A spoofed leftmost IP must not reset the limit.
	if rec := hit(h, "10.0.0.99:1234", "9.9.9.9, 203.0.113.50"); rec.Code != http.StatusTooManyRequests {
		t.Errorf("spoofed leftmost IP should not bypass rate limit, got %d", rec.Code)
	}
	// Another client behind the same proxy has its own window.
	if rec := hit(h, "10.0.0.99:1234", "198.51.100.7"); rec.Code != http.StatusOK {
		t.Errorf("other client should pass, got %d", rec.Code)
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	tests := map[time.Duration]string{
		0:                      "1",
		-time.Second:           "1",
		500 * time.Millisecond: "1",
		30 * time.Second:       "31",
	}
	for d, want := range tests {
		if got := retryAfterSeconds(d); got != want {
			t.Errorf("retryAfterSeconds(%v) = %s, want %s", d, got, want)
		}
	}
}
