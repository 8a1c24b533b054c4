// Package ratelimit provides the per-client fixed-window limiter and the
// suggestion cache used by the chat turn path.
//
// Both are explicit, injected stores rather than package-level singletons
// so tests can supply a mock clock and a fresh instance per case. They
// are single-process and best effort: their job is abuse mitigation and
// latency smoothing, not correctness across server instances.
package ratelimit

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/stafflink/concierge/internal/clock"
	apperrors "github.com/stafflink/concierge/internal/errors"
)

// Config holds fixed-window limiter settings.
type Config struct {
	// Requests is the number of requests allowed per window.
	Requests int
	// Window is the fixed window duration.
	Window time.Duration
}

// DefaultConfig returns the chat turn limits: 10 requests per 60 seconds.
func DefaultConfig() Config {
	return Config{Requests: 10, Window: 60 * time.Second}
}

// ClientLimiter rate limits requests per client identifier using a fixed
// window. Expiry is checked on access; there is no background eviction.
type ClientLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	config  Config
	clock   clock.Clock
	logger  *zap.Logger
}

type window struct {
	count     int
	resetTime time.Time
}

// NewClientLimiter creates a limiter with its own fresh store.
func NewClientLimiter(config Config, clk clock.Clock, logger *zap.Logger) *ClientLimiter {
	if clk == nil {
		clk = clock.New()
	}
	return &ClientLimiter{
		windows: make(map[string]*window),
		config:  config,
		clock:   clk,
		logger:  logger,
	}
}

// Allow records a request for the client and reports whether it fits in
// the current window. A rejected request returns ErrRateLimited, which
// is distinguishable from every other error kind.
func (l *ClientLimiter) Allow(clientID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()

	w, ok := l.windows[clientID]
	if !ok || now.After(w.resetTime) {
		l.windows[clientID] = &window{
			count:     1,
			resetTime: now.Add(l.config.Window),
		}
		return nil
	}

	if w.count >= l.config.Requests {
		l.logger.Warn("rate limit exceeded",
			zap.String("client_id", clientID),
			zap.Int("limit", l.config.Requests),
			zap.Time("reset_time", w.resetTime),
		)
		return apperrors.ErrRateLimited
	}

	w.count++
	return nil
}

// Remaining returns how many requests the client has left in its window.
func (l *ClientLimiter) Remaining(clientID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[clientID]
	if !ok || l.clock.Now().After(w.resetTime) {
		return l.config.Requests
	}
	remaining := l.config.Requests - w.count
	if remaining < 0 {
		return 0
	}
	return remaining
}

// RetryAfter returns how long the client must wait before the window
// resets. Zero when the client is not limited.
func (l *ClientLimiter) RetryAfter(clientID string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[clientID]
	if !ok {
		return 0
	}
	now := l.clock.Now()
	if now.After(w.resetTime) || w.count < l.config.Requests {
		return 0
	}
	return w.resetTime.Sub(now)
}

// Sweep drops expired windows. Callers may run it periodically to bound
// memory; correctness does not depend on it.
func (l *ClientLimiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	for id, w := range l.windows {
		if now.After(w.resetTime) {
			delete(l.windows, id)
		}
	}
}
