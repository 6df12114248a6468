package service

import (
	"context"
	"time"

	"github.com/spiffcs/tracker/internal/model"
)

// IssueFetcher abstracts the GitHub client so tests can substitute a
// fake that records call order and injects failures.
type IssueFetcher interface {
	// ListIssues returns all non-pull-request issues for one
	// repository. On error it returns the items gathered so far
	// alongside the error.
	ListIssues(ctx context.Context, repo model.RepositoryRef, state model.StateFilter, since time.Time) ([]model.Item, error)

	// ListDiscussions returns all discussions for one repository.
	ListDiscussions(ctx context.Context, repo model.RepositoryRef) ([]model.Item, error)
}
