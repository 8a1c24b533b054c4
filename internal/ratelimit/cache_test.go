package ratelimit

import (
	"testing"
	"time"

	"github.com/stafflink/concierge/internal/clock"
)

func TestSuggestionCache_GetSet(t *testing.T) {
	mock := clock.NewMock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	cache := NewSuggestionCache(5*time.Minute, mock)

	if _, ok := cache.Get("missing"); ok {
		t.Error("empty cache should miss")
	}

	cache.Set("k", "cached suggestion")
	got, ok := cache.Get("k")
	if !ok || got != "cached suggestion" {
		t.Errorf("Get = (%q, %v), want hit", got, ok)
	}
}

func TestSuggestionCache_Expiry(t *testing.T) {
	mock := clock.NewMock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	cache := NewSuggestionCache(5*time.Minute, mock)

	cache.Set("k", "v")
	mock.Advance(5*time.Minute + time.Second)

	if _, ok := cache.Get("k"); ok {
		t.Error("expired entry should miss")
	}
}

func TestSuggestionCache_Sweep(t *testing.T) {
	mock := clock.NewMock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	cache := NewSuggestionCache(time.Minute, mock)

	cache.Set("a", "1")
	cache.Set("b", "2")
	mock.Advance(2 * time.Minute)
	cache.Sweep()

	cache.mu.RLock()
	size := len(cache.entries)
	cache.mu.RUnlock()
	if size != 0 {
		t.Errorf("expected swept cache, %d entries remain", size)
	}
}

func TestKey_StableAndDistinct(t *testing.T) {
	a := Key("user-1", "hello")
	b := Key("user-1", "hello")
	c := Key("user-1", "hell", "o")

	if a != b {
		t.Error("identical parts must produce identical keys")
	}
	if a == c {
		t.Error("part boundaries must affect the key")
	}
}
