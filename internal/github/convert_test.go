package github

import (
	"testing"
	"time"

	gh "github.com/google/go-github/v57/github"

	"github.com/spiffcs/tracker/internal/model"
)

func TestConvertIssue(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	updated := created.Add(48 * time.Hour)
	closed := updated.Add(time.Hour)

	is := &gh.Issue{
		ID:       gh.Int64(123456789),
		Number:   gh.Int(7),
		Title:    gh.String("panic on empty input"),
		Body:     gh.String("stack trace attached"),
		State:    gh.String("closed"),
		HTMLURL:  gh.String("https://github.com/acme/widgets/issues/7"),
		Comments: gh.Int(3),
		User:     &gh.User{Login: gh.String("octocat")},
		Assignees: []*gh.User{
			{Login: gh.String("hubot")},
			{Login: gh.String("octocat")},
		},
		Labels: []*gh.Label{
			{Name: gh.String("bug")},
			{Name: gh.String("parser")},
		},
		CreatedAt: &gh.Timestamp{Time: created},
		UpdatedAt: &gh.Timestamp{Time: updated},
		ClosedAt:  &gh.Timestamp{Time: closed},
	}

	item := convertIssue(is, model.RepositoryRef{Owner: "acme", Name: "widgets"})

	if item.ID != "123456789" {
		t.Errorf("ID = %q, want decimal string form", item.ID)
	}
	if item.Kind != model.KindIssue {
		t.Errorf("Kind = %s", item.Kind)
	}
	if item.Number != 7 || item.Title != "panic on empty input" || item.State != model.StateClosed {
		t.Errorf("core fields = %+v", item)
	}
	if item.Author != "octocat" {
		t.Errorf("Author = %q", item.Author)
	}
	if len(item.Labels) != 2 || item.Labels[0] != "bug" {
		t.Errorf("Labels = %v", item.Labels)
	}
	if len(item.Assignees) != 2 || item.Assignees[0] != "hubot" {
		t.Errorf("Assignees = %v", item.Assignees)
	}
	if item.ClosedAt == nil || !item.ClosedAt.Equal(closed) {
		t.Errorf("ClosedAt = %v, want %s", item.ClosedAt, closed)
	}
	if !item.CreatedAt.Equal(created) || !item.UpdatedAt.Equal(updated) {
		t.Errorf("timestamps = %s / %s", item.CreatedAt, item.UpdatedAt)
	}
}

func TestConvertIssueOpenHasNoClosedAt(t *testing.T) {
	is := &gh.Issue{
		ID:    gh.Int64(1),
		State: gh.String("open"),
	}
	item := convertIssue(is, model.RepositoryRef{Owner: "acme", Name: "widgets"})
	if item.ClosedAt != nil {
		t.Errorf("ClosedAt = %v, want nil for open issues", item.ClosedAt)
	}
}

func TestConvertDiscussion(t *testing.T) {
	created := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	node := discussionNode{
		ID:        "D_kwDOABCD123",
		Number:    12,
		Title:     "Roadmap for v2",
		Body:      "What should land first?",
		Closed:    false,
		URL:       "https://github.com/acme/widgets/discussions/12",
		CreatedAt: created,
		UpdatedAt: created.Add(time.Hour),
	}
	node.Author = &struct {
		Login string `json:"login"`
	}{Login: "octocat"}
	node.Labels.Nodes = []struct {
		Name string `json:"name"`
	}{{Name: "planning"}}
	node.Comments.TotalCount = 9

	item := convertDiscussion(node, model.RepositoryRef{Owner: "acme", Name: "widgets"})

	if item.ID != "D_kwDOABCD123" {
		t.Errorf("ID = %q, want opaque node ID unchanged", item.ID)
	}
	if item.Kind != model.KindDiscussion {
		t.Errorf("Kind = %s", item.Kind)
	}
	if item.State != model.StateOpen {
		t.Errorf("State = %s", item.State)
	}
	if item.Author != "octocat" || item.CommentCount != 9 {
		t.Errorf("author/comments = %q/%d", item.Author, item.CommentCount)
	}
	if len(item.Labels) != 1 || item.Labels[0] != "planning" {
		t.Errorf("Labels = %v", item.Labels)
	}
}

func TestConvertDiscussionClosed(t *testing.T) {
	closed := time.Now()
	node := discussionNode{ID: "D_1", Closed: true, ClosedAt: &closed}

	item := convertDiscussion(node, model.RepositoryRef{Owner: "acme", Name: "widgets"})
	if item.State != model.StateClosed {
		t.Errorf("State = %s, want closed", item.State)
	}
	if item.ClosedAt == nil {
		t.Error("ClosedAt should carry through")
	}
	if item.Author != "" {
		t.Errorf("Author = %q, want empty for deleted accounts", item.Author)
	}
}
