package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/pmhub/internal/app/features/health"
	kvstore "github.com/dalemusser/pmhub/internal/app/store/kv"
	"go.uber.org/zap"
)

type downBackend struct{}

func (downBackend) Ping(context.Context) error { return errors.New("connection refused") }

func TestServe_BackendConnected(t *testing.T) {
	handler := health.NewHandler(kvstore.NewMemory(), "memory", zap.NewNop())

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	handler.Serve(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %q", ct)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp["status"] != "ok" || resp["backend"] != "connected" || resp["storage"] != "memory" {
		t.Errorf("unexpected response %v", resp)
	}
}

func TestServe_BackendDown(t *testing.T) {
	handler := health.NewHandler(downBackend{}, "mongo", zap.NewNop())

	rec := httptest.NewRecorder()
	handler.Serve(rec, httptest.NewRequest("GET", "/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp["status"] != "error" || resp["error"] != "connection refused" {
		t.Errorf("unexpected response %v", resp)
	}
}

func TestRoutes(t *testing.T) {
	r := health.Routes(health.NewHandler(kvstore.NewMemory(), "memory", zap.NewNop()))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}
