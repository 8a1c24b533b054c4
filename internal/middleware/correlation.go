// Package middleware provides HTTP middleware functions.
package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Correlation ID constants.
const (
	// CorrelationIDHeader is the HTTP header name for correlation IDs.
	CorrelationIDHeader = "X-Correlation-ID"
	// RequestIDHeader is the HTTP header name for request IDs.
	RequestIDHeader = "X-Request-ID"
)

// correlationIDKey is the context key for correlation ID.
type correlationIDKey struct{}

// requestIDKey is the context key for request ID.
type requestIDKey struct{}

// requestStartTimeKey is the context key for request start time.
type requestStartTimeKey struct{}

// RequestCorrelation provides request correlation middleware. The
// embedded chat widget sends a correlation ID so a visitor's turns can
// be followed across requests; missing IDs are generated server side.
type RequestCorrelation struct {
	logger *zap.Logger
}

// NewRequestCorrelation creates a new correlation middleware.
func NewRequestCorrelation(logger *zap.Logger) *RequestCorrelation {
	return &RequestCorrelation{
		logger: logger,
	}
}

// Middleware returns the HTTP middleware handler.
func (rc *RequestCorrelation) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		startTime := time.Now()

		correlationID := r.Header.Get(CorrelationIDHeader)
		if correlationID == "" {
			correlationID = uuid.NewString()
		}

		// Request IDs are always unique per request.
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx = context.WithValue(ctx, correlationIDKey{}, correlationID)
		ctx = context.WithValue(ctx, requestIDKey{}, requestID)
		ctx = context.WithValue(ctx, requestStartTimeKey{}, startTime)

		w.Header().Set(CorrelationIDHeader, correlationID)
		w.Header().Set(RequestIDHeader, requestID)

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r.WithContext(ctx))

		duration := time.Since(startTime)
		rc.logger.Debug("request completed",
			zap.String("correlation_id", correlationID),
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", wrapped.statusCode),
			zap.Duration("duration", duration),
		)
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code.
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
		rw.written = true
	}
	return rw.ResponseWriter.Write(b)
}

// GetCorrelationID retrieves the correlation ID from context.
func GetCorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey{}).(string); ok {
		return id
	}
	return ""
}

// GetRequestID retrieves the request ID from context.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// GetRequestStartTime retrieves the request start time from context.
func GetRequestStartTime(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestStartTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Time{}
}

// WithCorrelationID creates a new context with the given correlation ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// LoggerWithCorrelation returns a logger with correlation fields added.
func LoggerWithCorrelation(ctx context.Context, logger *zap.Logger) *zap.Logger {
	fields := make([]zap.Field, 0, 2)

	if id := GetCorrelationID(ctx); id != "" {
		fields = append(fields, zap.String("correlation_id", id))
	}
	if id := GetRequestID(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}

	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}
