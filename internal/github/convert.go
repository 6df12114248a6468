package github

import (
	"strconv"

	"github.com/google/go-github/v57/github"

	"github.com/spiffcs/tracker/internal/model"
)

// convertIssue converts a REST API issue to a model item. The numeric
// remote ID is canonicalized to its decimal string form here, at the
// ingestion boundary; nothing downstream sees an ambiguous ID type.
func convertIssue(is *github.Issue, repo model.RepositoryRef) model.Item {
	item := model.Item{
		ID:           strconv.FormatInt(is.GetID(), 10),
		Kind:         model.KindIssue,
		Repository:   repo,
		Number:       is.GetNumber(),
		Title:        is.GetTitle(),
		Body:         is.GetBody(),
		State:        is.GetState(),
		Author:       is.GetUser().GetLogin(),
		CommentCount: is.GetComments(),
		HTMLURL:      is.GetHTMLURL(),
		CreatedAt:    is.GetCreatedAt().Time,
		UpdatedAt:    is.GetUpdatedAt().Time,
	}

	if closed := is.ClosedAt; closed != nil {
		t := closed.Time
		item.ClosedAt = &t
	}

	for _, l := range is.Labels {
		item.Labels = append(item.Labels, l.GetName())
	}
	for _, a := range is.Assignees {
		item.Assignees = append(item.Assignees, a.GetLogin())
	}

	return item
}
