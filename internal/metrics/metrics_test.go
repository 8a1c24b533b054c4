package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewMetrics(t *testing.T) {
	// Use a fresh registry to avoid conflicts
	reg := prometheus.NewRegistry()
	m := NewMetricsWithRegistry(reg)

	if m == nil {
		t.Fatal("NewMetricsWithRegistry returned nil")
	}

	// Verify some metrics are initialized
	if m.HTTPRequestsTotal == nil {
		t.Error("HTTPRequestsTotal not initialized")
	}
	if m.ChatTurnsTotal == nil {
		t.Error("ChatTurnsTotal not initialized")
	}
	if m.ClaudeAPICallsTotal == nil {
		t.Error("ClaudeAPICallsTotal not initialized")
	}
}

func TestMetrics_RecordChatTurn(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsWithRegistry(reg)

	m.RecordChatTurn("pricing_inquiry", "exploration", false, 2*time.Second)
	m.RecordChatTurn("pricing_inquiry", "exploration", true, time.Second)
	m.RecordChatTurn("general_inquiry", "greeting", false, time.Second)

	count := testutil.ToFloat64(m.ChatTurnsTotal.WithLabelValues("pricing_inquiry", "exploration"))
	if count != 2 {
		t.Errorf("pricing/exploration count = %f, expected 2", count)
	}

	degraded := testutil.ToFloat64(m.ChatTurnsDegraded)
	if degraded != 1 {
		t.Errorf("degraded count = %f, expected 1", degraded)
	}
}

func TestMetrics_RecordContactRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsWithRegistry(reg)

	m.RecordContactRequest("engaged_anonymous")
	m.RecordContactRequest("engaged_anonymous")
	m.RecordContactRequest("qualifying_intent")

	engaged := testutil.ToFloat64(m.ContactRequestsTotal.WithLabelValues("engaged_anonymous"))
	if engaged != 2 {
		t.Errorf("engaged_anonymous count = %f, expected 2", engaged)
	}
}

func TestMetrics_RecordClaudeAPICall(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsWithRegistry(reg)

	m.RecordClaudeAPICall(true, 2*time.Second)
	m.RecordClaudeAPICall(false, time.Second)

	success := testutil.ToFloat64(m.ClaudeAPICallsTotal.WithLabelValues("success"))
	failure := testutil.ToFloat64(m.ClaudeAPICallsTotal.WithLabelValues("failure"))

	if success != 1 {
		t.Errorf("success count = %f, expected 1", success)
	}
	if failure != 1 {
		t.Errorf("failure count = %f, expected 1", failure)
	}
}

func TestMetrics_RecordCircuitOpen(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsWithRegistry(reg)

	m.RecordCircuitOpen()

	trips := testutil.ToFloat64(m.CircuitBreakerTrips)
	if trips != 1 {
		t.Errorf("trips = %f, expected 1", trips)
	}
	rejected := testutil.ToFloat64(m.ClaudeAPICallsTotal.WithLabelValues("circuit_open"))
	if rejected != 1 {
		t.Errorf("circuit_open count = %f, expected 1", rejected)
	}
}

func TestMetrics_SetCircuitBreakerState(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsWithRegistry(reg)

	m.SetCircuitBreakerState("claude-api", 2)

	state := testutil.ToFloat64(m.CircuitBreakerState.WithLabelValues("claude-api"))
	if state != 2 {
		t.Errorf("state = %f, expected 2", state)
	}
}

func TestMetrics_SuggestionCache(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsWithRegistry(reg)

	m.RecordSuggestionCacheHit()
	m.RecordSuggestionCacheHit()
	m.RecordSuggestionCacheMiss()

	hits := testutil.ToFloat64(m.SuggestionCacheTotal.WithLabelValues("hit"))
	misses := testutil.ToFloat64(m.SuggestionCacheTotal.WithLabelValues("miss"))

	if hits != 2 {
		t.Errorf("hits = %f, expected 2", hits)
	}
	if misses != 1 {
		t.Errorf("misses = %f, expected 1", misses)
	}
}

func TestMetrics_RecordRateLimitHit(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsWithRegistry(reg)

	m.RecordRateLimitHit("chat")

	count := testutil.ToFloat64(m.RateLimitHitsTotal.WithLabelValues("chat"))
	if count != 1 {
		t.Errorf("count = %f, expected 1", count)
	}
}

func TestMetrics_UpdateDBConnections(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsWithRegistry(reg)

	m.UpdateDBConnections(10, 3)

	open := testutil.ToFloat64(m.DBConnectionsOpen)
	inUse := testutil.ToFloat64(m.DBConnectionsInUse)

	if open != 10 {
		t.Errorf("open = %f, expected 10", open)
	}
	if inUse != 3 {
		t.Errorf("in use = %f, expected 3", inUse)
	}
}

func TestMetrics_Middleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsWithRegistry(reg)

	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	count := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/api/chat", "201"))
	if count != 1 {
		t.Errorf("request count = %f, expected 1", count)
	}
}

func TestMetrics_Handler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsWithRegistry(reg)

	m.RecordChatTurn("pricing_inquiry", "exploration", false, time.Second)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "concierge_chat_turns_total") {
		t.Error("expected chat turns metric in scrape output")
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/chat", "/api/chat"},
		{"/health", "/health"},
		{"/metrics", "/metrics"},
		{"/api/admin/analytics", "/api/admin/*"},
		{"/static/widget.js", "/static/*"},
		{"/unknown", "/unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := normalizePath(tt.path); got != tt.want {
				t.Errorf("normalizePath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
