// Package model contains domain types for the tracker application.
// These types are independent of any external GitHub library.
package model

import (
	"fmt"
	"strings"
	"time"
)

// ItemKind distinguishes issues from discussions.
type ItemKind string

const (
	KindIssue      ItemKind = "issue"
	KindDiscussion ItemKind = "discussion"
)

// ItemState represents the open/closed state of a fetched item.
const (
	StateOpen   = "open"
	StateClosed = "closed"
)

// StateFilter selects which item states a fetch requests from the API.
type StateFilter string

const (
	FilterOpen   StateFilter = "open"
	FilterClosed StateFilter = "closed"
	FilterAll    StateFilter = "all"
)

// ParseStateFilter validates a state filter string from a template document.
func ParseStateFilter(s string) (StateFilter, error) {
	switch StateFilter(s) {
	case FilterOpen, FilterClosed, FilterAll:
		return StateFilter(s), nil
	case "":
		return FilterOpen, nil
	}
	return "", fmt.Errorf("invalid state filter %q (use open, closed or all)", s)
}

// RepositoryRef identifies one remote repository by owner and name.
type RepositoryRef struct {
	Owner string `json:"owner" yaml:"owner"`
	Name  string `json:"name"  yaml:"name"`
}

// FullName returns the owner/name form used by the GitHub API.
func (r RepositoryRef) FullName() string {
	return r.Owner + "/" + r.Name
}

// ParseRepositoryRef parses an "owner/name" string.
func ParseRepositoryRef(s string) (RepositoryRef, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return RepositoryRef{}, fmt.Errorf("invalid repository %q (expected owner/name)", s)
	}
	return RepositoryRef{Owner: parts[0], Name: parts[1]}, nil
}

// Item is a normalized issue or discussion after pull-request exclusion.
// The ID is the canonical string form of the remote identifier: REST
// issues carry numeric IDs, GraphQL discussions carry opaque node IDs,
// and both are normalized to a string at ingestion.
type Item struct {
	ID           string        `json:"id"`
	Kind         ItemKind      `json:"kind"`
	Repository   RepositoryRef `json:"repository"`
	Number       int           `json:"number"`
	Title        string        `json:"title"`
	Body         string        `json:"body,omitempty"`
	State        string        `json:"state"`
	Labels       []string      `json:"labels,omitempty"`
	Author       string        `json:"author,omitempty"`
	Assignees    []string      `json:"assignees,omitempty"`
	CommentCount int           `json:"commentCount,omitempty"`
	HTMLURL      string        `json:"htmlUrl,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
	ClosedAt     *time.Time    `json:"closedAt,omitempty"`
}
