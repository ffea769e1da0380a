// Package ratelimit defines the per-user, per-endpoint quota gate.
//
// The gate is a single atomic check-and-increment against a counter keyed
// by (user, endpoint, window). Windows are fixed: window_start is the
// current time truncated to the window length, so a burst of up to twice
// the limit is possible across a boundary. An over-quota attempt still
// consumes quota, which discourages retry storms.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Status is the outcome of one quota check.
type Status struct {
	Exceeded  bool `json:"exceeded"`
	Remaining int  `json:"remaining"`
	Limit     int  `json:"limit"`
}

// Limiter is the quota gate seam. Production uses the Postgres-backed
// implementation in internal/db; tests use MemoryLimiter.
type Limiter interface {
	CheckAndIncrement(ctx context.Context, userID, endpoint string, max, windowMinutes int) (Status, error)
}

// FromCount derives a Status from a post-increment counter value.
func FromCount(count, max int) Status {
	remaining := max - count
	if remaining < 0 {
		remaining = 0
	}
	return Status{Exceeded: count > max, Remaining: remaining, Limit: max}
}

// WindowStart truncates now to the containing fixed window.
func WindowStart(now time.Time, windowMinutes int) time.Time {
	return now.UTC().Truncate(time.Duration(windowMinutes) * time.Minute)
}

// MemoryLimiter is an in-process Limiter for tests and local development.
type MemoryLimiter struct {
	mu     sync.Mutex
	counts map[memoryKey]int
	now    func() time.Time
}

type memoryKey struct {
	userID      string
	endpoint    string
	windowStart int64
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{counts: make(map[memoryKey]int), now: time.Now}
}

// SetClock overrides the limiter's clock, for window-boundary tests.
func (m *MemoryLimiter) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

func (m *MemoryLimiter) CheckAndIncrement(_ context.Context, userID, endpoint string, max, windowMinutes int) (Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := memoryKey{
		userID:      userID,
		endpoint:    endpoint,
		windowStart: WindowStart(m.now(), windowMinutes).Unix(),
	}
	m.counts[key]++
	return FromCount(m.counts[key], max), nil
}
