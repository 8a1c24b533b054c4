// Package metrics provides Prometheus metrics collection for the application.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome/status label values for metrics.
const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Chat turn metrics
	ChatTurnsTotal        *prometheus.CounterVec
	ChatTurnDuration      prometheus.Histogram
	ChatTurnsDegraded     prometheus.Counter
	ContactRequestsTotal  *prometheus.CounterVec
	ComponentsServedTotal *prometheus.CounterVec

	// External service metrics
	ClaudeAPICallsTotal   *prometheus.CounterVec
	ClaudeAPICallDuration prometheus.Histogram
	CircuitBreakerState   *prometheus.GaugeVec
	CircuitBreakerTrips   prometheus.Counter

	// Suggestion cache metrics
	SuggestionCacheTotal *prometheus.CounterVec

	// Database metrics
	DBConnectionsOpen  prometheus.Gauge
	DBConnectionsInUse prometheus.Gauge

	// Rate limiting metrics
	RateLimitHitsTotal *prometheus.CounterVec

	// Registry used for this metrics instance (nil means default registry)
	registry prometheus.Gatherer
}

// NewMetrics creates a new Metrics instance with all collectors registered.
func NewMetrics() *Metrics {
	m := newMetricsWithRegistry(prometheus.DefaultRegisterer)
	m.registry = prometheus.DefaultGatherer
	return m
}

// NewMetricsWithRegistry creates metrics using a custom registry (for testing).
func NewMetricsWithRegistry(reg *prometheus.Registry) *Metrics {
	m := newMetricsWithRegistry(reg)
	m.registry = reg
	return m
}

func newMetricsWithRegistry(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)

	return &Metrics{
		// HTTP metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "concierge_http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status code",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "concierge_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "concierge_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),

		// Chat turn metrics
		ChatTurnsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "concierge_chat_turns_total",
				Help: "Total number of completed chat turns by intent and stage",
			},
			[]string{"intent", "stage"},
		),
		ChatTurnDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "concierge_chat_turn_duration_seconds",
				Help:    "End-to-end duration of a chat turn",
				Buckets: []float64{.1, .25, .5, 1, 2, 5, 10, 20, 30},
			},
		),
		ChatTurnsDegraded: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "concierge_chat_turns_degraded_total",
				Help: "Total number of chat turns answered with fallback text",
			},
		),
		ContactRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "concierge_contact_requests_total",
				Help: "Total number of turns that asked the visitor for contact info, by reason",
			},
			[]string{"reason"}, // "engaged_anonymous", "qualifying_intent"
		),
		ComponentsServedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "concierge_components_served_total",
				Help: "Total number of UI components suggested to the widget",
			},
			[]string{"component"},
		),

		// External service metrics
		ClaudeAPICallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "concierge_claude_api_calls_total",
				Help: "Total number of Claude API calls by status",
			},
			[]string{"status"}, // "success", "failure", "circuit_open"
		),
		ClaudeAPICallDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "concierge_claude_api_call_duration_seconds",
				Help:    "Duration of Claude API calls",
				Buckets: []float64{.5, 1, 2, 5, 10, 15, 30},
			},
		),
		CircuitBreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "concierge_circuit_breaker_state",
				Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
			},
			[]string{"service"},
		),
		CircuitBreakerTrips: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "concierge_circuit_breaker_trips_total",
				Help: "Total number of times the circuit breaker has tripped",
			},
		),

		// Suggestion cache metrics
		SuggestionCacheTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "concierge_suggestion_cache_total",
				Help: "Suggestion cache lookups by result",
			},
			[]string{"result"}, // "hit", "miss"
		),

		// Database metrics
		DBConnectionsOpen: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "concierge_db_connections_open",
				Help: "Number of open database connections",
			},
		),
		DBConnectionsInUse: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "concierge_db_connections_in_use",
				Help: "Number of database connections currently in use",
			},
		),

		// Rate limiting metrics
		RateLimitHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "concierge_rate_limit_hits_total",
				Help: "Total number of rate limit hits by limiter",
			},
			[]string{"limiter"}, // "chat"
		),
	}
}

// Handler returns the Prometheus HTTP handler for scraping metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware returns an HTTP middleware that records request metrics.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.HTTPRequestsInFlight.Inc()
		defer m.HTTPRequestsInFlight.Dec()

		start := time.Now()

		// Wrap response writer to capture status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()

		// Normalize path for metrics (avoid high cardinality)
		path := normalizePath(r.URL.Path)

		m.HTTPRequestsTotal.WithLabelValues(
			r.Method,
			path,
			strconv.Itoa(wrapped.statusCode),
		).Inc()

		m.HTTPRequestDuration.WithLabelValues(
			r.Method,
			path,
		).Observe(duration)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.statusCode = http.StatusOK
		rw.written = true
	}
	return rw.ResponseWriter.Write(b)
}

// normalizePath normalizes URL paths to prevent high cardinality labels.
func normalizePath(path string) string {
	switch path {
	case "/", "/api/chat", "/health", "/ready", "/live", "/metrics":
		return path
	}

	if strings.HasPrefix(path, "/api/admin/") {
		return "/api/admin/*"
	}
	if strings.HasPrefix(path, "/static/") {
		return "/static/*"
	}

	return path
}

// Helper methods for recording specific events

// RecordChatTurn records a completed chat turn.
func (m *Metrics) RecordChatTurn(intent, stage string, degraded bool, duration time.Duration) {
	m.ChatTurnsTotal.WithLabelValues(intent, stage).Inc()
	m.ChatTurnDuration.Observe(duration.Seconds())
	if degraded {
		m.ChatTurnsDegraded.Inc()
	}
}

// RecordContactRequest records a turn that asked for contact info.
func (m *Metrics) RecordContactRequest(reason string) {
	m.ContactRequestsTotal.WithLabelValues(reason).Inc()
}

// RecordComponentServed records a UI component suggested to the widget.
func (m *Metrics) RecordComponentServed(component string) {
	m.ComponentsServedTotal.WithLabelValues(component).Inc()
}

// RecordClaudeAPICall records a Claude API call.
func (m *Metrics) RecordClaudeAPICall(success bool, duration time.Duration) {
	status := outcomeFailure
	if success {
		status = outcomeSuccess
	}
	m.ClaudeAPICallsTotal.WithLabelValues(status).Inc()
	m.ClaudeAPICallDuration.Observe(duration.Seconds())
}

// RecordCircuitOpen records a request rejected by the open circuit.
func (m *Metrics) RecordCircuitOpen() {
	m.ClaudeAPICallsTotal.WithLabelValues("circuit_open").Inc()
	m.CircuitBreakerTrips.Inc()
}

// SetCircuitBreakerState sets the circuit breaker state for a service.
// State: 0=closed, 1=half-open, 2=open
func (m *Metrics) SetCircuitBreakerState(service string, state int) {
	m.CircuitBreakerState.WithLabelValues(service).Set(float64(state))
}

// RecordSuggestionCacheHit records a suggestion cache hit.
func (m *Metrics) RecordSuggestionCacheHit() {
	m.SuggestionCacheTotal.WithLabelValues("hit").Inc()
}

// RecordSuggestionCacheMiss records a suggestion cache miss.
func (m *Metrics) RecordSuggestionCacheMiss() {
	m.SuggestionCacheTotal.WithLabelValues("miss").Inc()
}

// UpdateDBConnections updates database connection metrics.
func (m *Metrics) UpdateDBConnections(open, inUse int) {
	m.DBConnectionsOpen.Set(float64(open))
	m.DBConnectionsInUse.Set(float64(inUse))
}

// RecordRateLimitHit records a rate limit hit.
func (m *Metrics) RecordRateLimitHit(limiter string) {
	m.RateLimitHitsTotal.WithLabelValues(limiter).Inc()
}
