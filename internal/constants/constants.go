// Package constants provides a centralized location for configuration
// values and magic numbers used throughout the tracker application.
package constants

import "time"

// Fetch constants
const (
	// PageSize is the number of issues requested per page. A page
	// shorter than this is the end-of-data sentinel.
	PageSize = 100

	// DiscussionTimeout bounds the GraphQL discussion fetch for one
	// repository. On timeout the refresh proceeds without discussions.
	DiscussionTimeout = 30 * time.Second
)

// Rate limiting constants
const (
	// RateLimitSafetyThreshold is the remaining-quota level below which
	// the client waits for the reset before issuing the next page request.
	RateLimitSafetyThreshold = 5

	// RateLimitMaxWaits bounds how many reset waits a single fetch will
	// sit through before surfacing the exhaustion to the caller.
	RateLimitMaxWaits = 2

	// RateLimitLowWatermark is the threshold below which remaining
	// quota is logged as a warning.
	RateLimitLowWatermark = 100
)

// Cache constants
const (
	// ListCacheTTL is the default lifetime of a cached query result
	// when the template does not set its own cache_ttl.
	ListCacheTTL = 1 * time.Hour
)

// Template constants
const (
	// DefaultMaxAge is the default update-recency window for fetched
	// issues when the template does not set max_age.
	DefaultMaxAge = 365 * 24 * time.Hour
)
