package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/spiffcs/tracker/internal/log"
	"github.com/spiffcs/tracker/internal/model"
)

const graphqlEndpoint = "https://api.github.com/graphql"

// discussionsQuery pages through a repository's discussions with the
// fields needed to normalize them into items.
const discussionsQuery = `
query($owner: String!, $name: String!, $cursor: String) {
  repository(owner: $owner, name: $name) {
    discussions(first: 100, after: $cursor) {
      pageInfo {
        hasNextPage
        endCursor
      }
      nodes {
        id
        number
        title
        body
        closed
        url
        createdAt
        updatedAt
        closedAt
        author { login }
        labels(first: 20) { nodes { name } }
        comments { totalCount }
      }
    }
  }
}`

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphqlError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

type discussionsResponse struct {
	Data struct {
		Repository struct {
			Discussions struct {
				PageInfo struct {
					HasNextPage bool   `json:"hasNextPage"`
					EndCursor   string `json:"endCursor"`
				} `json:"pageInfo"`
				Nodes []discussionNode `json:"nodes"`
			} `json:"discussions"`
		} `json:"repository"`
	} `json:"data"`
	Errors []graphqlError `json:"errors"`
}

type discussionNode struct {
	ID        string     `json:"id"`
	Number    int        `json:"number"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Closed    bool       `json:"closed"`
	URL       string     `json:"url"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	ClosedAt  *time.Time `json:"closedAt"`
	Author    *struct {
		Login string `json:"login"`
	} `json:"author"`
	Labels struct {
		Nodes []struct {
			Name string `json:"name"`
		} `json:"nodes"`
	} `json:"labels"`
	Comments struct {
		TotalCount int `json:"totalCount"`
	} `json:"comments"`
}

// ListDiscussions fetches all discussions for one repository via the
// GraphQL API, following cursors until exhausted. The caller bounds the
// whole operation with its own timeout context.
func (c *Client) ListDiscussions(ctx context.Context, repo model.RepositoryRef) ([]model.Item, error) {
	var items []model.Item
	var cursor string

	for {
		if err := c.waitForQuota(ctx); err != nil {
			return items, err
		}

		page, err := c.fetchDiscussionPage(ctx, repo, cursor)
		if err != nil {
			return items, err
		}

		for _, node := range page.Data.Repository.Discussions.Nodes {
			items = append(items, convertDiscussion(node, repo))
		}

		log.Debug("fetched discussion page",
			"repo", repo.FullName(),
			"count", len(page.Data.Repository.Discussions.Nodes),
			"total", len(items))

		info := page.Data.Repository.Discussions.PageInfo
		if !info.HasNextPage {
			break
		}
		cursor = info.EndCursor
	}

	return items, nil
}

func (c *Client) fetchDiscussionPage(ctx context.Context, repo model.RepositoryRef, cursor string) (*discussionsResponse, error) {
	vars := map[string]any{
		"owner": repo.Owner,
		"name":  repo.Name,
	}
	if cursor != "" {
		vars["cursor"] = cursor
	}

	body, err := json.Marshal(graphqlRequest{Query: discussionsQuery, Variables: vars})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, graphqlEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("discussion query for %s: %w", repo.FullName(), err)
	}
	defer resp.Body.Close()

	// GraphQL responses carry the same rate headers as REST; record
	// them so the next request sees the current quota.
	c.updateRateFromHeaders(resp.Header)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading discussion response for %s: %w", repo.FullName(), err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("discussion query for %s: HTTP %d", repo.FullName(), resp.StatusCode)
	}

	var parsed discussionsResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("decoding discussion response for %s: %w", repo.FullName(), err)
	}
	if len(parsed.Errors) > 0 {
		return nil, fmt.Errorf("discussion query for %s: %s", repo.FullName(), parsed.Errors[0].Message)
	}

	return &parsed, nil
}

func (c *Client) updateRateFromHeaders(h http.Header) {
	remaining, err1 := strconv.Atoi(h.Get("X-Ratelimit-Remaining"))
	limit, err2 := strconv.Atoi(h.Get("X-Ratelimit-Limit"))
	resetUnix, err3 := strconv.ParseInt(h.Get("X-Ratelimit-Reset"), 10, 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return
	}
	c.rate.Update(remaining, limit, time.Unix(resetUnix, 0))
}

// convertDiscussion normalizes a GraphQL discussion node into an item.
// Discussion node IDs are opaque strings already; they are used as the
// canonical ID unchanged.
func convertDiscussion(node discussionNode, repo model.RepositoryRef) model.Item {
	state := model.StateOpen
	if node.Closed {
		state = model.StateClosed
	}

	item := model.Item{
		ID:           node.ID,
		Kind:         model.KindDiscussion,
		Repository:   repo,
		Number:       node.Number,
		Title:        node.Title,
		Body:         node.Body,
		State:        state,
		CommentCount: node.Comments.TotalCount,
		HTMLURL:      node.URL,
		CreatedAt:    node.CreatedAt,
		UpdatedAt:    node.UpdatedAt,
		ClosedAt:     node.ClosedAt,
	}
	if node.Author != nil {
		item.Author = node.Author.Login
	}
	for _, l := range node.Labels.Nodes {
		item.Labels = append(item.Labels, l.Name)
	}

	return item
}
