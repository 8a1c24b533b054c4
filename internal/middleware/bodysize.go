package middleware

import (
	"net/http"
)

// Default body size limits.
const (
	// DefaultMaxBodySize is the default maximum request body size (1MB).
	DefaultMaxBodySize = 1 << 20 // 1MB

	// MaxJSONBodySize is the maximum size for JSON API requests. Chat
	// turns carry the full conversation history, so this is generous
	// relative to the message length cap.
	MaxJSONBodySize = 1 << 20 // 1MB
)

// BodySizeLimiter limits the size of request bodies.
// This protects against denial-of-service attacks via large payloads.
func BodySizeLimiter(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Skip if no body
			if r.Body == nil || r.ContentLength == 0 {
				next.ServeHTTP(w, r)
				return
			}

			// Check Content-Length header if present
			if r.ContentLength > maxBytes {
				http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
				return
			}

			// Wrap body with a size limiter (handles chunked encoding)
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

			next.ServeHTTP(w, r)
		})
	}
}

// BodySizeLimiterJSON returns a middleware limiting JSON API request bodies.
func BodySizeLimiterJSON() func(http.Handler) http.Handler {
	return BodySizeLimiter(MaxJSONBodySize)
}
