package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

type mockHealthChecker struct {
	err error
}

func (m *mockHealthChecker) Ping(ctx context.Context) error {
	return m.err
}

type mockAIHealthChecker struct {
	open bool
}

func (m *mockAIHealthChecker) IsCircuitOpen() bool {
	return m.open
}

func newHealthHandler(dbErr error, circuitOpen bool) *HealthHandler {
	return NewHealthHandler(HealthHandlerConfig{
		HealthChecker:   &mockHealthChecker{err: dbErr},
		AIHealthChecker: &mockAIHealthChecker{open: circuitOpen},
		Logger:          zap.NewNop(),
	})
}

func TestHealthHandler_HandleHealth(t *testing.T) {
	tests := []struct {
		name       string
		dbErr      error
		circuit    bool
		wantStatus int
		wantBody   string
	}{
		{"all healthy", nil, false, http.StatusOK, "ok"},
		{"database down", errors.New("connection refused"), false, http.StatusServiceUnavailable, "unhealthy"},
		{"circuit open", nil, true, http.StatusOK, "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHealthHandler(tt.dbErr, tt.circuit)

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			rec := httptest.NewRecorder()
			h.HandleHealth(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}

			var resp HealthResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Status != tt.wantBody {
				t.Errorf("expected overall status %q, got %q", tt.wantBody, resp.Status)
			}
		})
	}
}

func TestHealthHandler_HandleReadiness(t *testing.T) {
	h := newHealthHandler(nil, false)

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec := httptest.NewRecorder()
	h.HandleReadiness(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "ready" {
		t.Errorf("expected 'ready', got %q", rec.Body.String())
	}
}

func TestHealthHandler_HandleReadiness_DatabaseDown(t *testing.T) {
	h := newHealthHandler(errors.New("connection refused"), false)

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec := httptest.NewRecorder()
	h.HandleReadiness(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
}

func TestHealthHandler_HandleLiveness(t *testing.T) {
	h := newHealthHandler(errors.New("connection refused"), true)

	req := httptest.NewRequest(http.MethodGet, "/live", nil)
	rec := httptest.NewRecorder()
	h.HandleLiveness(rec, req)

	// Liveness only confirms the process responds.
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}
