package github

import (
	"fmt"
	"sync"
	"time"
)

// RateLimitedError is returned when the API quota stays exhausted after
// the bounded reset waits. It carries the reset time so callers can
// report when a retry will succeed.
type RateLimitedError struct {
	ResetAt time.Time
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limit exhausted, resets at %s", e.ResetAt.Format(time.RFC3339))
}

// RateLimitState tracks remaining quota and reset time as reported by
// response metadata. It is updated after every request, successful or
// not, so the next page request can decide whether to wait.
type RateLimitState struct {
	mu        sync.RWMutex
	known     bool
	remaining int
	limit     int
	resetAt   time.Time
}

// Update records the rate information from a response.
func (s *RateLimitState) Update(remaining, limit int, resetAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.known = true
	s.remaining = remaining
	s.limit = limit
	s.resetAt = resetAt
}

// Snapshot returns the current rate limit view. known is false until
// the first response has been observed.
func (s *RateLimitState) Snapshot() (remaining, limit int, resetAt time.Time, known bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.remaining, s.limit, s.resetAt, s.known
}

// BelowThreshold reports whether the remaining quota is known and under
// the given safety threshold, with a reset still in the future.
func (s *RateLimitState) BelowThreshold(threshold int) (bool, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.known || s.remaining > threshold {
		return false, time.Time{}
	}
	if time.Now().After(s.resetAt) {
		return false, time.Time{}
	}
	return true, s.resetAt
}
