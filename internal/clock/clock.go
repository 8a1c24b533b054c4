// Package clock provides a time abstraction so time-dependent code can
// be tested deterministically. Production code injects New(); tests
// inject a Mock and advance it by hand.
package clock

import (
	"sync"
	"time"
)

// Clock provides time operations that can be mocked for testing.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// NowUTC returns the current time in UTC. Preferred for storage.
	NowUTC() time.Time

	// Since returns the time elapsed since t.
	Since(t time.Time) time.Duration

	// Until returns the duration until t.
	Until(t time.Time) time.Duration
}

type realClock struct{}

// New returns a Clock backed by the system time.
func New() Clock {
	return realClock{}
}

func (realClock) Now() time.Time                  { return time.Now() }
func (realClock) NowUTC() time.Time               { return time.Now().UTC() }
func (realClock) Since(t time.Time) time.Duration { return time.Since(t) }
func (realClock) Until(t time.Time) time.Duration { return time.Until(t) }

// Mock implements Clock with controllable time for testing.
type Mock struct {
	mu      sync.RWMutex
	current time.Time
}

// NewMock creates a Mock set to the given time.
func NewMock(t time.Time) *Mock {
	return &Mock{current: t}
}

// Now returns the mock's current time.
func (m *Mock) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// NowUTC returns the mock's current time in UTC.
func (m *Mock) NowUTC() time.Time {
	return m.Now().UTC()
}

// Since returns the duration since t relative to the mock time.
func (m *Mock) Since(t time.Time) time.Duration {
	return m.Now().Sub(t)
}

// Until returns the duration until t relative to the mock time.
func (m *Mock) Until(t time.Time) time.Duration {
	return t.Sub(m.Now())
}

// Set moves the mock clock to a specific time.
func (m *Mock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = t
}

// Advance moves the mock clock forward by d.
func (m *Mock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.current.Add(d)
}
