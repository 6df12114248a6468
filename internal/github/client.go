// Package github wraps the GitHub API for issue and discussion
// retrieval, normalizing responses into model types at the boundary.
package github

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

// Client wraps the GitHub REST client plus a raw HTTP client for the
// GraphQL discussion queries. Rate-limit state is owned by the client,
// not shared globally, so tests and multiple clients stay independent.
type Client struct {
	gh    *github.Client
	http  *http.Client
	token string
	rate  *RateLimitState
}

// NewClient creates a client using a personal access token. An empty
// token falls back to the GITHUB_TOKEN environment variable.
func NewClient(token string) (*Client, error) {
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if token == "" {
		return nil, fmt.Errorf("GitHub token not provided; set GITHUB_TOKEN")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(context.Background(), ts)

	return &Client{
		gh:    github.NewClient(tc),
		http:  tc,
		token: token,
		rate:  &RateLimitState{},
	}, nil
}

// RateLimit returns the client's rate limit state.
func (c *Client) RateLimit() *RateLimitState {
	return c.rate
}

// RawClient exposes the underlying REST client for administrative
// queries like rate limit status.
func (c *Client) RawClient() *github.Client {
	return c.gh
}
