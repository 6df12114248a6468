package github

import (
	"context"
	"fmt"
	"time"

	"github.com/google/go-github/v57/github"

	"github.com/spiffcs/tracker/internal/constants"
	"github.com/spiffcs/tracker/internal/log"
	"github.com/spiffcs/tracker/internal/model"
)

// ListIssues fetches all issues for one repository, page by page, until
// a page shorter than the page size signals end of data. Records marked
// as pull requests are dropped during conversion and never surface as
// items. On error the issues accumulated so far are returned alongside
// it, so a partially fetched repository still contributes results.
func (c *Client) ListIssues(ctx context.Context, repo model.RepositoryRef, state model.StateFilter, since time.Time) ([]model.Item, error) {
	opts := &github.IssueListByRepoOptions{
		State:     string(state),
		Sort:      "updated",
		Direction: "desc",
		ListOptions: github.ListOptions{
			PerPage: constants.PageSize,
		},
	}
	if !since.IsZero() {
		opts.Since = since
	}

	var items []model.Item
	for page := 1; ; page++ {
		if err := c.waitForQuota(ctx); err != nil {
			return items, err
		}

		opts.Page = page
		issues, resp, err := c.gh.Issues.ListByRepo(ctx, repo.Owner, repo.Name, opts)
		if resp != nil {
			c.updateRate(resp)
		}
		if err != nil {
			if rle, ok := err.(*github.RateLimitError); ok {
				c.rate.Update(0, rle.Rate.Limit, rle.Rate.Reset.Time)
				return items, &RateLimitedError{ResetAt: rle.Rate.Reset.Time}
			}
			return items, fmt.Errorf("listing issues for %s page %d: %w", repo.FullName(), page, err)
		}

		skippedPRs := 0
		for _, is := range issues {
			if is.IsPullRequest() {
				skippedPRs++
				continue
			}
			items = append(items, convertIssue(is, repo))
		}

		log.Debug("fetched issue page",
			"repo", repo.FullName(),
			"page", page,
			"raw", len(issues),
			"skippedPRs", skippedPRs,
			"total", len(items))

		if len(issues) < constants.PageSize {
			break
		}
	}

	return items, nil
}

// updateRate records the response's rate metadata and warns when the
// quota is running low.
func (c *Client) updateRate(resp *github.Response) {
	c.rate.Update(resp.Rate.Remaining, resp.Rate.Limit, resp.Rate.Reset.Time)
	if resp.Rate.Remaining < constants.RateLimitLowWatermark {
		log.Warn("rate limit quota low",
			"remaining", resp.Rate.Remaining,
			"limit", resp.Rate.Limit,
			"resetAt", resp.Rate.Reset.Time)
	}
}

// waitForQuota blocks until the remaining quota is above the safety
// threshold, sleeping through at most RateLimitMaxWaits reset windows.
// The wait is an ordinary blocking sleep local to the fetch path; the
// context only interrupts it on cancellation.
func (c *Client) waitForQuota(ctx context.Context) error {
	for attempt := 0; attempt < constants.RateLimitMaxWaits; attempt++ {
		low, resetAt := c.rate.BelowThreshold(constants.RateLimitSafetyThreshold)
		if !low {
			return nil
		}

		wait := time.Until(resetAt) + time.Second
		log.Warn("rate limit near exhaustion, waiting for reset", "wait", wait.Round(time.Second), "resetAt", resetAt)

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if low, resetAt := c.rate.BelowThreshold(constants.RateLimitSafetyThreshold); low {
		return &RateLimitedError{ResetAt: resetAt}
	}
	return nil
}
