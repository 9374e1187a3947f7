package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type mockDB struct {
	pingFunc func(ctx context.Context) error
}

func (m *mockDB) Ping(ctx context.Context) error {
	if m.pingFunc != nil {
		return m.pingFunc(ctx)
	}
	return nil
}

func getHealth(t *testing.T, h *Handler) (int, healthResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest("GET", "/api/health", nil))
	var resp healthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return rec.Code, resp
}

func TestHealth_OK(t *testing.T) {
	code, resp := getHealth(t, New(&mockDB{}, "http://localhost:5173"))

	if code != http.StatusOK {
		t.Errorf("expected 200, got %d", code)
	}
	if resp.Status != "ok" || resp.Checks["database"] != "ok" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestHealth_DatabaseDown(t *testing.T) {
	db := &mockDB{pingFunc: func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			t.Error("ping should run with a deadline")
		}
		return errors.New("connection refused")
	}}
	code, resp := getHealth(t, New(db, "http://localhost:5173"))

	if code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", code)
	}
	if resp.Status != "unhealthy" || resp.Checks["database"] != "connection refused" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestHealth_NonCriticalCheckDegrades(t *testing.T) {
	cms := HealthCheck{Name: "cms", Check: func(context.Context) error { return errors.New("not configured") }}
	code, resp := getHealth(t, New(&mockDB{}, "http://localhost:5173", cms))

	if code != http.StatusOK {
		t.Errorf("expected 200, got %d", code)
	}
	if resp.Status != "degraded" || resp.Checks["cms"] != "not configured" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestHealth_CriticalCheckWins(t *testing.T) {
	soft := HealthCheck{Name: "cms", Check: func(context.Context) error { return errors.New("down") }}
	db := &mockDB{pingFunc: func(context.Context) error { return errors.New("down") }}
	code, resp := getHealth(t, New(db, "http://localhost:5173", soft))

	if code != http.StatusServiceUnavailable || resp.Status != "unhealthy" {
		t.Errorf("expected unhealthy 503, got %d %q", code, resp.Status)
	}
}
