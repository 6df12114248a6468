package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/spiffcs/tracker/internal/github"
	"github.com/spiffcs/tracker/internal/model"
)

// Stage names the sub-fetch a failure occurred in.
type Stage string

const (
	StageIssues      Stage = "issues"
	StageDiscussions Stage = "discussions"
)

// PartialFailure records a non-fatal failure scoped to one repository's
// sub-fetch. Failures are collected and returned alongside successful
// results so callers can show both the usable data and what is missing.
type PartialFailure struct {
	Repo    model.RepositoryRef
	Stage   Stage
	Kind    github.ErrorKind
	Err     error
	ResetAt time.Time // set for rate-limit failures
}

func (f PartialFailure) String() string {
	switch f.Kind {
	case github.ErrorRateLimit:
		return fmt.Sprintf("%s: %s fetch hit the rate limit (resets %s)",
			f.Repo.FullName(), f.Stage, f.ResetAt.Format(time.RFC3339))
	case github.ErrorTimeout:
		return fmt.Sprintf("%s: %s fetch timed out", f.Repo.FullName(), f.Stage)
	}
	return fmt.Sprintf("%s: %s fetch failed: %v", f.Repo.FullName(), f.Stage, f.Err)
}

// Warning reports whether the failure is advisory (the refresh went on
// without that data) rather than a lost repository.
func (f PartialFailure) Warning() bool {
	return f.Stage == StageDiscussions && f.Kind == github.ErrorTimeout
}

func newFailure(repo model.RepositoryRef, stage Stage, err error) PartialFailure {
	f := PartialFailure{
		Repo:  repo,
		Stage: stage,
		Kind:  github.Classify(err),
		Err:   err,
	}
	var rle *github.RateLimitedError
	if errors.As(err, &rle) {
		f.ResetAt = rle.ResetAt
	}
	return f
}
