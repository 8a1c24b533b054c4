package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// HealthChecker defines the interface for checking database health.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// AIHealthChecker defines the interface for checking AI service health.
type AIHealthChecker interface {
	IsCircuitOpen() bool
}

// HealthHandler handles health check HTTP requests.
type HealthHandler struct {
	healthChecker   HealthChecker
	aiHealthChecker AIHealthChecker
	logger          *zap.Logger
}

// HealthHandlerConfig holds configuration for HealthHandler.
type HealthHandlerConfig struct {
	HealthChecker   HealthChecker
	AIHealthChecker AIHealthChecker
	Logger          *zap.Logger
}

// NewHealthHandler creates a new HealthHandler with all required dependencies.
func NewHealthHandler(cfg HealthHandlerConfig) *HealthHandler {
	if cfg.Logger == nil {
		panic("logger is required")
	}
	return &HealthHandler{
		healthChecker:   cfg.HealthChecker,
		aiHealthChecker: cfg.AIHealthChecker,
		logger:          cfg.Logger,
	}
}

// RegisterRoutes registers health routes on the router.
func (h *HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.HandleHealth)
	r.Get("/ready", h.HandleReadiness)
	r.Get("/live", h.HandleLiveness)
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status  string                     `json:"status"`
	Version string                     `json:"version,omitempty"`
	Checks  map[string]ComponentHealth `json:"checks,omitempty"`
}

// ComponentHealth represents the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HandleHealth returns a health check response including all service dependencies.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:  "ok",
		Version: "1.0.0",
		Checks:  make(map[string]ComponentHealth),
	}

	hasCriticalFailure := false
	hasDegradation := false

	// Database is the critical dependency.
	if h.healthChecker != nil {
		if err := h.healthChecker.Ping(ctx); err != nil {
			hasCriticalFailure = true
			response.Checks["database"] = ComponentHealth{
				Status:  "unhealthy",
				Message: err.Error(),
			}
			h.logger.Error("database health check failed", zap.Error(err))
		} else {
			response.Checks["database"] = ComponentHealth{
				Status: "healthy",
			}
		}
	}

	// Chat turns degrade gracefully without the AI service, so an open
	// circuit means degraded, not down.
	if h.aiHealthChecker != nil {
		if h.aiHealthChecker.IsCircuitOpen() {
			hasDegradation = true
			response.Checks["ai_service"] = ComponentHealth{
				Status:  "degraded",
				Message: "circuit breaker open - service temporarily unavailable",
			}
			h.logger.Warn("AI service circuit breaker is open")
		} else {
			response.Checks["ai_service"] = ComponentHealth{
				Status: "healthy",
			}
		}
	}

	if hasCriticalFailure {
		response.Status = "unhealthy"
	} else if hasDegradation {
		response.Status = "degraded"
	}

	statusCode := http.StatusOK
	if response.Status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	JSONWithRequest(w, r, statusCode, response)
}

// HandleReadiness returns a simple readiness probe response.
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	// Only check database - the critical dependency
	if h.healthChecker != nil {
		if err := h.healthChecker.Ping(ctx); err != nil {
			h.logger.Error("readiness check failed", zap.Error(err))
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// HandleLiveness returns a simple liveness probe response.
func (h *HealthHandler) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("alive"))
}
