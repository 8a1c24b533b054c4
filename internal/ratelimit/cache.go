package ratelimit

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/stafflink/concierge/internal/clock"
)

// SuggestionCache memoizes generated suggestions keyed by request
// signature. Entries expire by checking now against their deadline on
// read; there is no eviction policy beyond that.
type SuggestionCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	clock   clock.Clock
}

type cacheEntry struct {
	value   string
	expires time.Time
}

// NewSuggestionCache creates a cache with the given TTL.
func NewSuggestionCache(ttl time.Duration, clk clock.Clock) *SuggestionCache {
	if clk == nil {
		clk = clock.New()
	}
	return &SuggestionCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		clock:   clk,
	}
}

// Key builds a stable signature from the request parts.
func Key(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached value for key, if present and unexpired.
func (c *SuggestionCache) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || c.clock.Now().After(e.expires) {
		return "", false
	}
	return e.value, true
}

// Set stores a value under key for the cache TTL.
func (c *SuggestionCache) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		value:   value,
		expires: c.clock.Now().Add(c.ttl),
	}
}

// Sweep drops expired entries to bound memory.
func (c *SuggestionCache) Sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	for k, e := range c.entries {
		if now.After(e.expires) {
			delete(c.entries, k)
		}
	}
}
