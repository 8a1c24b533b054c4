package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/stafflink/concierge/internal/errors"
	"github.com/stafflink/concierge/internal/metrics"
	"github.com/stafflink/concierge/internal/ratelimit"
)

// RateLimit returns middleware that rejects requests exceeding the
// per-client window with 429 and a Retry-After header. Clients are
// keyed by IP; the limiter itself is shared so handlers can also
// consult it for per-user limits.
func RateLimit(limiter *ratelimit.ClientLimiter, m *metrics.Metrics, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := getClientIP(r)

			if err := limiter.Allow(ip); err != nil {
				if m != nil {
					m.RecordRateLimitHit("client_ip")
				}
				logger.Warn("request rate limited",
					zap.String("ip", ip),
					zap.String("path", r.URL.Path),
					zap.String("correlation_id", GetCorrelationID(r.Context())),
				)

				retryAfter := limiter.RetryAfter(ip)
				seconds := int(retryAfter.Seconds())
				if seconds < 1 {
					seconds = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(seconds))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(apperrors.ErrRateLimited.ToResponse())
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(limiter.Remaining(ip)))
			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP extracts the client IP address from a request.
func getClientIP(r *http.Request) string {
	// X-Forwarded-For is set by proxies; take the first hop.
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
