// Package service orchestrates issue retrieval across repositories,
// combining the cache store and the API client into one refresh flow.
package service

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/spiffcs/tracker/internal/cache"
	"github.com/spiffcs/tracker/internal/constants"
	"github.com/spiffcs/tracker/internal/filter"
	"github.com/spiffcs/tracker/internal/log"
	"github.com/spiffcs/tracker/internal/model"
)

// Service drives retrieval of issues and discussions. Repositories are
// fetched strictly sequentially: concurrent fetches against a shared
// quota make the remote silently shrink result pages per request, so a
// shrinking result set cannot be attributed to any one repository.
// Sequential fetching keeps the exhaustion point attributable.
type Service struct {
	fetcher IssueFetcher
	cache   *cache.Store
	group   singleflight.Group
}

// New creates a service. A nil cache disables caching.
func New(fetcher IssueFetcher, c *cache.Store) *Service {
	return &Service{fetcher: fetcher, cache: c}
}

// FetchRequest describes one refresh operation for a template.
type FetchRequest struct {
	// Template identifies the owning template; it keys the in-flight
	// guard so two refreshes for the same template never run
	// concurrently (the second joins the first's result).
	Template string

	Repositories       []model.RepositoryRef
	State              model.StateFilter
	IncludeDiscussions bool
	Logic              filter.Logic
	MaxAge             time.Duration

	CacheTTL     time.Duration
	ForceRefresh bool
}

func (r FetchRequest) cacheParams() cache.Params {
	maxAge := r.MaxAge
	if maxAge <= 0 {
		maxAge = constants.DefaultMaxAge
	}
	return cache.Params{
		Repositories:       r.Repositories,
		State:              r.State,
		IncludeDiscussions: r.IncludeDiscussions,
		Logic:              r.Logic,
		MaxAge:             maxAge,
	}
}

// FetchResult holds the items and partial failures of one refresh.
type FetchResult struct {
	Items     []model.Item
	Failures  []PartialFailure
	FromCache bool
}

// Fetch runs one refresh for a template. Concurrent calls for the same
// template are coalesced through the in-flight guard.
func (s *Service) Fetch(ctx context.Context, req FetchRequest) (*FetchResult, error) {
	v, err, _ := s.group.Do(req.Template, func() (any, error) {
		return s.fetch(ctx, req)
	})
	result, _ := v.(*FetchResult)
	return result, err
}

func (s *Service) fetch(ctx context.Context, req FetchRequest) (*FetchResult, error) {
	key := req.cacheParams().Key()

	if s.cache != nil && req.ForceRefresh {
		if err := s.cache.Invalidate(key); err != nil {
			log.Debug("failed to invalidate cache entry", "key", key, "error", err)
		}
	}

	if s.cache != nil && !req.ForceRefresh {
		if payload, ok := s.cache.Get(key); ok {
			var items []model.Item
			if err := json.Unmarshal(payload, &items); err == nil {
				log.Info("cache hit", "template", req.Template, "items", len(items))
				return &FetchResult{Items: items, FromCache: true}, nil
			}
			// Undecodable payload is cache corruption: a miss, never fatal.
			log.Debug("corrupt cached payload, refetching", "key", key)
			_ = s.cache.Invalidate(key)
		}
	}

	var since time.Time
	maxAge := req.MaxAge
	if maxAge <= 0 {
		maxAge = constants.DefaultMaxAge
	}
	since = time.Now().Add(-maxAge)

	result := &FetchResult{}
	for i, repo := range req.Repositories {
		// Cancellation is honored at repository boundaries only;
		// repositories already fetched remain valid results.
		if err := ctx.Err(); err != nil {
			return result, err
		}

		log.Progress("fetching %s (%d/%d)...", repo.FullName(), i+1, len(req.Repositories))

		items, err := s.fetcher.ListIssues(ctx, repo, req.State, since)
		result.Items = append(result.Items, items...)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			failure := newFailure(repo, StageIssues, err)
			result.Failures = append(result.Failures, failure)
			log.Warn("repository fetch failed", "repo", repo.FullName(), "kind", string(failure.Kind), "error", err)
			continue
		}

		if req.IncludeDiscussions {
			dctx, cancel := context.WithTimeout(ctx, constants.DiscussionTimeout)
			discussions, derr := s.fetcher.ListDiscussions(dctx, repo)
			cancel()

			result.Items = append(result.Items, discussions...)
			if derr != nil {
				failure := newFailure(repo, StageDiscussions, derr)
				result.Failures = append(result.Failures, failure)
				log.Warn("discussion fetch failed", "repo", repo.FullName(), "kind", string(failure.Kind), "error", derr)
			}
		}

		log.Info("repository fetched", "repo", repo.FullName(), "items", len(result.Items))
	}
	log.ProgressDone()

	// Only clean fetches are cached: a result set with failures may be
	// truncated and must not be served as authoritative for a full TTL.
	if s.cache != nil && len(result.Failures) == 0 {
		ttl := req.CacheTTL
		if ttl <= 0 {
			ttl = constants.ListCacheTTL
		}
		if payload, err := json.Marshal(result.Items); err == nil {
			if err := s.cache.Put(key, payload, ttl); err != nil {
				log.Debug("failed to cache fetch result", "key", key, "error", err)
			}
		}
	}

	return result, nil
}

// InvalidateCache drops the cached result for the request's parameters.
func (s *Service) InvalidateCache(req FetchRequest) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(req.cacheParams().Key())
}
