package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/spiffcs/tracker/internal/cache"
	"github.com/spiffcs/tracker/internal/filter"
	"github.com/spiffcs/tracker/internal/github"
	"github.com/spiffcs/tracker/internal/model"
)

// fakeFetcher records call order and serves canned results per repo.
type fakeFetcher struct {
	calls          []string
	issues         map[string][]model.Item
	issueErrs      map[string]error
	discussions    map[string][]model.Item
	discussionErrs map[string]error

	// onListIssues, when set, runs before each issue fetch.
	onListIssues func(repo model.RepositoryRef)
}

func (f *fakeFetcher) ListIssues(ctx context.Context, repo model.RepositoryRef, state model.StateFilter, since time.Time) ([]model.Item, error) {
	f.calls = append(f.calls, "issues:"+repo.FullName())
	if f.onListIssues != nil {
		f.onListIssues(repo)
	}
	return f.issues[repo.FullName()], f.issueErrs[repo.FullName()]
}

func (f *fakeFetcher) ListDiscussions(ctx context.Context, repo model.RepositoryRef) ([]model.Item, error) {
	f.calls = append(f.calls, "discussions:"+repo.FullName())
	return f.discussions[repo.FullName()], f.discussionErrs[repo.FullName()]
}

func repos(names ...string) []model.RepositoryRef {
	var out []model.RepositoryRef
	for _, n := range names {
		ref, _ := model.ParseRepositoryRef(n)
		out = append(out, ref)
	}
	return out
}

func item(id string) model.Item {
	return model.Item{ID: id, Kind: model.KindIssue, State: model.StateOpen}
}

func testRequest(template string) FetchRequest {
	return FetchRequest{
		Template:     template,
		Repositories: repos("acme/widgets", "acme/gadgets"),
		State:        model.FilterOpen,
		Logic:        filter.LogicAnd,
		MaxAge:       30 * 24 * time.Hour,
		CacheTTL:     time.Hour,
	}
}

func newStore(t *testing.T) *cache.Store {
	t.Helper()
	store, err := cache.NewStoreAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return store
}

func TestFetchSequentialOrder(t *testing.T) {
	fetcher := &fakeFetcher{
		issues: map[string][]model.Item{
			"acme/widgets": {item("1")},
			"acme/gadgets": {item("2")},
		},
	}
	svc := New(fetcher, nil)

	result, err := svc.Fetch(context.Background(), testRequest("t"))
	if err != nil {
		t.Fatal(err)
	}

	wantCalls := []string{"issues:acme/widgets", "issues:acme/gadgets"}
	if diff := cmp.Diff(wantCalls, fetcher.calls); diff != "" {
		t.Errorf("call order mismatch (-want +got):\n%s", diff)
	}
	if len(result.Items) != 2 || result.Items[0].ID != "1" || result.Items[1].ID != "2" {
		t.Errorf("items = %v, want repo order preserved", result.Items)
	}
	if len(result.Failures) != 0 || result.FromCache {
		t.Errorf("result = %+v, want clean fresh fetch", result)
	}
}

func TestFetchPartialFailureContinues(t *testing.T) {
	fetcher := &fakeFetcher{
		issues: map[string][]model.Item{
			"acme/gadgets": {item("2")},
		},
		issueErrs: map[string]error{
			"acme/widgets": errors.New("boom"),
		},
	}
	svc := New(fetcher, nil)

	result, err := svc.Fetch(context.Background(), testRequest("t"))
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Items) != 1 || result.Items[0].ID != "2" {
		t.Errorf("items = %v, want the healthy repo's items", result.Items)
	}
	if len(result.Failures) != 1 {
		t.Fatalf("failures = %v, want 1", result.Failures)
	}
	f := result.Failures[0]
	if f.Repo.FullName() != "acme/widgets" || f.Stage != StageIssues {
		t.Errorf("failure = %+v", f)
	}
}

func TestFetchRateLimitFailureKeepsPartialItems(t *testing.T) {
	resetAt := time.Now().Add(time.Hour)
	fetcher := &fakeFetcher{
		issues: map[string][]model.Item{
			"acme/widgets": {item("1")}, // gathered before the limit hit
			"acme/gadgets": {item("2")},
		},
		issueErrs: map[string]error{
			"acme/widgets": &github.RateLimitedError{ResetAt: resetAt},
		},
	}
	svc := New(fetcher, nil)

	result, err := svc.Fetch(context.Background(), testRequest("t"))
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Items) != 2 {
		t.Errorf("items = %v, want partial plus healthy repo", result.Items)
	}
	if len(result.Failures) != 1 || result.Failures[0].Kind != github.ErrorRateLimit {
		t.Fatalf("failures = %+v, want one rate limit failure", result.Failures)
	}
	if !result.Failures[0].ResetAt.Equal(resetAt) {
		t.Errorf("ResetAt = %s, want %s", result.Failures[0].ResetAt, resetAt)
	}
}

func TestFetchDiscussions(t *testing.T) {
	fetcher := &fakeFetcher{
		issues: map[string][]model.Item{
			"acme/widgets": {item("1")},
		},
		discussions: map[string][]model.Item{
			"acme/widgets": {{ID: "D_abc", Kind: model.KindDiscussion}},
		},
	}
	svc := New(fetcher, nil)

	req := testRequest("t")
	req.Repositories = repos("acme/widgets")
	req.IncludeDiscussions = true

	result, err := svc.Fetch(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}

	wantCalls := []string{"issues:acme/widgets", "discussions:acme/widgets"}
	if diff := cmp.Diff(wantCalls, fetcher.calls); diff != "" {
		t.Errorf("call order mismatch (-want +got):\n%s", diff)
	}
	if len(result.Items) != 2 || result.Items[1].Kind != model.KindDiscussion {
		t.Errorf("items = %v, want issue then discussion", result.Items)
	}
}

func TestFetchDiscussionTimeoutIsWarning(t *testing.T) {
	fetcher := &fakeFetcher{
		issues: map[string][]model.Item{
			"acme/widgets": {item("1")},
		},
		discussionErrs: map[string]error{
			"acme/widgets": context.DeadlineExceeded,
		},
	}
	svc := New(fetcher, nil)

	req := testRequest("t")
	req.Repositories = repos("acme/widgets")
	req.IncludeDiscussions = true

	result, err := svc.Fetch(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Items) != 1 {
		t.Errorf("items = %v, want issues kept", result.Items)
	}
	if len(result.Failures) != 1 {
		t.Fatalf("failures = %v, want 1", result.Failures)
	}
	f := result.Failures[0]
	if f.Stage != StageDiscussions || f.Kind != github.ErrorTimeout || !f.Warning() {
		t.Errorf("failure = %+v, want advisory discussion timeout", f)
	}
}

func TestFetchCacheHitSkipsNetwork(t *testing.T) {
	store := newStore(t)
	fetcher := &fakeFetcher{
		issues: map[string][]model.Item{
			"acme/widgets": {item("1")},
			"acme/gadgets": {item("2")},
		},
	}

	first, err := New(fetcher, store).Fetch(context.Background(), testRequest("t"))
	if err != nil {
		t.Fatal(err)
	}
	if first.FromCache {
		t.Fatal("first fetch should be fresh")
	}

	second := &fakeFetcher{}
	result, err := New(second, store).Fetch(context.Background(), testRequest("t"))
	if err != nil {
		t.Fatal(err)
	}
	if !result.FromCache {
		t.Fatal("second fetch should be served from cache")
	}
	if len(second.calls) != 0 {
		t.Errorf("cache hit still called the API: %v", second.calls)
	}
	if diff := cmp.Diff(first.Items, result.Items); diff != "" {
		t.Errorf("cached items differ (-fresh +cached):\n%s", diff)
	}
}

func TestFetchForceRefreshBypassesCache(t *testing.T) {
	store := newStore(t)
	fetcher := &fakeFetcher{
		issues: map[string][]model.Item{
			"acme/widgets": {item("1")},
			"acme/gadgets": {item("2")},
		},
	}
	svc := New(fetcher, store)

	if _, err := svc.Fetch(context.Background(), testRequest("t")); err != nil {
		t.Fatal(err)
	}

	req := testRequest("t")
	req.ForceRefresh = true
	result, err := svc.Fetch(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if result.FromCache {
		t.Error("forced refresh must not read the cache")
	}
	if len(fetcher.calls) != 4 {
		t.Errorf("calls = %v, want both repos fetched twice", fetcher.calls)
	}
}

func TestFetchWithFailuresNotCached(t *testing.T) {
	store := newStore(t)
	fetcher := &fakeFetcher{
		issues: map[string][]model.Item{
			"acme/gadgets": {item("2")},
		},
		issueErrs: map[string]error{
			"acme/widgets": errors.New("boom"),
		},
	}

	if _, err := New(fetcher, store).Fetch(context.Background(), testRequest("t")); err != nil {
		t.Fatal(err)
	}

	// A second fetch must hit the network again: the failed result was
	// not cached.
	second := &fakeFetcher{
		issues: map[string][]model.Item{
			"acme/widgets": {item("1")},
			"acme/gadgets": {item("2")},
		},
	}
	result, err := New(second, store).Fetch(context.Background(), testRequest("t"))
	if err != nil {
		t.Fatal(err)
	}
	if result.FromCache {
		t.Error("a failed fetch must not populate the cache")
	}
	if len(second.calls) == 0 {
		t.Error("expected a fresh fetch after an uncached failure")
	}
}

func TestFetchCancellationAtRepoBoundary(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fetcher := &fakeFetcher{
		issues: map[string][]model.Item{
			"acme/widgets": {item("1")},
			"acme/gadgets": {item("2")},
		},
	}
	// Cancel during the first repo's fetch; the second repo must not be
	// attempted.
	fetcher.onListIssues = func(repo model.RepositoryRef) {
		if repo.Name == "widgets" {
			cancel()
		}
	}

	result, err := New(fetcher, nil).Fetch(ctx, testRequest("t"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Fetch() error = %v, want context.Canceled", err)
	}
	if len(fetcher.calls) != 1 {
		t.Errorf("calls = %v, want fetch to stop at the repo boundary", fetcher.calls)
	}
	if result == nil || len(result.Items) != 1 {
		t.Errorf("result = %+v, want completed repo's items kept", result)
	}
}

func TestCacheKeyIncludesDiscussionToggle(t *testing.T) {
	store := newStore(t)
	fetcher := &fakeFetcher{
		issues: map[string][]model.Item{
			"acme/widgets": {item("1")},
			"acme/gadgets": {item("2")},
		},
	}
	svc := New(fetcher, store)

	if _, err := svc.Fetch(context.Background(), testRequest("t")); err != nil {
		t.Fatal(err)
	}

	req := testRequest("t")
	req.IncludeDiscussions = true
	result, err := svc.Fetch(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if result.FromCache {
		t.Error("toggling include_discussions must change the cache key")
	}
}
