// Package metrics provides metrics collection including business event logging.
package metrics

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/stafflink/concierge/internal/sanitize"
)

// BusinessEventLogger provides structured logging for business events.
// This complements Prometheus metrics by providing detailed, searchable
// logs for funnel analysis and debugging. Raw message text is never
// logged; identifiers are masked.
type BusinessEventLogger struct {
	logger *zap.Logger
}

// NewBusinessEventLogger creates a new business event logger.
func NewBusinessEventLogger(logger *zap.Logger) *BusinessEventLogger {
	return &BusinessEventLogger{
		logger: logger.Named("business_events"),
	}
}

// TurnCompleted logs a completed chat turn.
func (l *BusinessEventLogger) TurnCompleted(ctx context.Context, userID, intent, stage, urgency string, componentCount int, degraded bool, duration time.Duration) {
	l.logger.Info("chat_turn_completed",
		zap.String("event_type", "chat.turn_completed"),
		zap.String("user_id", sanitize.ID(userID)),
		zap.String("intent", intent),
		zap.String("stage", stage),
		zap.String("urgency", urgency),
		zap.Int("component_count", componentCount),
		zap.Bool("degraded", degraded),
		zap.Duration("duration", duration),
		zap.Time("timestamp", time.Now().UTC()),
	)
}

// ContactRequested logs a turn that asked the visitor for contact info.
func (l *BusinessEventLogger) ContactRequested(ctx context.Context, userID, reason string) {
	l.logger.Info("contact_requested",
		zap.String("event_type", "chat.contact_requested"),
		zap.String("user_id", sanitize.ID(userID)),
		zap.String("reason", reason),
		zap.Time("timestamp", time.Now().UTC()),
	)
}

// ComponentServed logs a UI component suggested to the widget.
func (l *BusinessEventLogger) ComponentServed(ctx context.Context, userID, component string) {
	l.logger.Info("component_served",
		zap.String("event_type", "chat.component_served"),
		zap.String("user_id", sanitize.ID(userID)),
		zap.String("component", component),
		zap.Time("timestamp", time.Now().UTC()),
	)
}

// ProfileResolved logs the outcome of a profile lookup.
func (l *BusinessEventLogger) ProfileResolved(ctx context.Context, userID, userType string, returning bool) {
	l.logger.Info("profile_resolved",
		zap.String("event_type", "profile.resolved"),
		zap.String("user_id", sanitize.ID(userID)),
		zap.String("user_type", userType),
		zap.Bool("returning", returning),
		zap.Time("timestamp", time.Now().UTC()),
	)
}

// ProfileDegraded logs a profile lookup failure handled as anonymous.
func (l *BusinessEventLogger) ProfileDegraded(ctx context.Context, userID string, err error) {
	l.logger.Warn("profile_degraded",
		zap.String("event_type", "profile.degraded"),
		zap.String("user_id", sanitize.ID(userID)),
		zap.String("error", sanitize.Error(err)),
		zap.Time("timestamp", time.Now().UTC()),
	)
}

// ExternalAPICall logs calls to external APIs.
func (l *BusinessEventLogger) ExternalAPICall(ctx context.Context, service string, duration time.Duration, success bool) {
	level := l.logger.Info
	eventName := "external_api_call"
	if !success {
		level = l.logger.Warn
		eventName = "external_api_call_failed"
	}
	level(eventName,
		zap.String("event_type", "external_api.call"),
		zap.String("service", service),
		zap.Duration("duration", duration),
		zap.Bool("success", success),
		zap.Time("timestamp", time.Now().UTC()),
	)
}

// RateLimitExceeded logs when a rate limit is exceeded.
func (l *BusinessEventLogger) RateLimitExceeded(ctx context.Context, limiterType string, identifier string) {
	l.logger.Warn("rate_limit_exceeded",
		zap.String("event_type", "rate_limit.exceeded"),
		zap.String("limiter_type", limiterType),
		zap.String("identifier", sanitize.ID(identifier)),
		zap.Time("timestamp", time.Now().UTC()),
	)
}

// APIError logs an API error for monitoring.
func (l *BusinessEventLogger) APIError(ctx context.Context, endpoint, method string, statusCode int, errorMsg string) {
	l.logger.Error("api_error",
		zap.String("event_type", "api.error"),
		zap.String("endpoint", endpoint),
		zap.String("method", method),
		zap.Int("status_code", statusCode),
		zap.String("error", errorMsg),
		zap.Time("timestamp", time.Now().UTC()),
	)
}
