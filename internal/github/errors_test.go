package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	gh "github.com/google/go-github/v57/github"
)

func TestClassify(t *testing.T) {
	resp := func(code int) *http.Response {
		return &http.Response{StatusCode: code}
	}

	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"quota exhausted", &RateLimitedError{ResetAt: time.Now()}, ErrorRateLimit},
		{"wrapped quota exhausted", fmt.Errorf("fetch: %w", &RateLimitedError{}), ErrorRateLimit},
		{"library rate limit", &gh.RateLimitError{}, ErrorRateLimit},
		{"abuse rate limit", &gh.AbuseRateLimitError{}, ErrorRateLimit},
		{"deadline exceeded", context.DeadlineExceeded, ErrorTimeout},
		{"wrapped deadline", fmt.Errorf("discussions: %w", context.DeadlineExceeded), ErrorTimeout},
		{"unauthorized", &gh.ErrorResponse{Response: resp(http.StatusUnauthorized)}, ErrorAuth},
		{"forbidden", &gh.ErrorResponse{Response: resp(http.StatusForbidden)}, ErrorAuth},
		{"not found", &gh.ErrorResponse{Response: resp(http.StatusNotFound)}, ErrorNotFound},
		{"server error", &gh.ErrorResponse{Response: resp(http.StatusInternalServerError)}, ErrorNetwork},
		{"plain error", errors.New("connection reset"), ErrorNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify(%v) = %s, want %s", tt.err, got, tt.want)
			}
		})
	}
}

func TestRateLimitState(t *testing.T) {
	s := &RateLimitState{}

	if _, _, _, known := s.Snapshot(); known {
		t.Error("fresh state should not be known")
	}
	if low, _ := s.BelowThreshold(5); low {
		t.Error("unknown state must never report below threshold")
	}

	reset := time.Now().Add(10 * time.Minute)
	s.Update(3, 5000, reset)

	remaining, limit, resetAt, known := s.Snapshot()
	if !known || remaining != 3 || limit != 5000 || !resetAt.Equal(reset) {
		t.Errorf("Snapshot() = %d/%d %s %t", remaining, limit, resetAt, known)
	}

	low, at := s.BelowThreshold(5)
	if !low || !at.Equal(reset) {
		t.Errorf("BelowThreshold(5) = %t, %s; want true with reset time", low, at)
	}

	// Past the reset time the quota is considered refreshed.
	s.Update(3, 5000, time.Now().Add(-time.Second))
	if low, _ := s.BelowThreshold(5); low {
		t.Error("an elapsed reset must not trigger waiting")
	}

	s.Update(100, 5000, reset)
	if low, _ := s.BelowThreshold(5); low {
		t.Error("healthy quota reported as low")
	}
}
