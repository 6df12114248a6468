package github

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/go-github/v57/github"
)

// ErrorKind classifies fetch failures for reporting. Every kind except
// rate limiting and timeouts maps onto a per-repository failure that
// leaves other repositories unaffected.
type ErrorKind string

const (
	ErrorAuth      ErrorKind = "auth"
	ErrorNotFound  ErrorKind = "not_found"
	ErrorRateLimit ErrorKind = "rate_limit"
	ErrorTimeout   ErrorKind = "timeout"
	ErrorNetwork   ErrorKind = "network"
)

// Classify maps an error from a fetch call onto its kind.
func Classify(err error) ErrorKind {
	var rle *RateLimitedError
	if errors.As(err, &rle) {
		return ErrorRateLimit
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorTimeout
	}

	var ghRate *github.RateLimitError
	if errors.As(err, &ghRate) {
		return ErrorRateLimit
	}
	var abuse *github.AbuseRateLimitError
	if errors.As(err, &abuse) {
		return ErrorRateLimit
	}

	var resp *github.ErrorResponse
	if errors.As(err, &resp) && resp.Response != nil {
		switch resp.Response.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return ErrorAuth
		case http.StatusNotFound:
			return ErrorNotFound
		}
	}

	return ErrorNetwork
}
