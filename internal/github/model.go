// Package github provides the GitHub REST data-source client and the
// wire-shaped entities consumed by the analytics engine.
package github

import (
	"strings"
	"time"
)

// Review dispositions as delivered by the reviews endpoint.
const (
	ReviewApproved         = "APPROVED"
	ReviewChangesRequested = "CHANGES_REQUESTED"
	ReviewCommented        = "COMMENTED"
	ReviewDismissed        = "DISMISSED"
)

// Timeline event kinds the engine cares about.
const (
	EventLabeled  = "labeled"
	EventAssigned = "assigned"
	EventReopened = "reopened"
)

// Lifecycle states shared by issues and pull requests.
const (
	StateOpen   = "open"
	StateClosed = "closed"
)

// Actor is the author of an issue, comment, review or timeline event.
type Actor struct {
	Login string `json:"login"`
	Type  string `json:"type"`
}

// Label is an issue label. Only the name is relevant here.
type Label struct {
	Name string `json:"name"`
}

// PullRequestLink marks an issue record as backed by a pull request.
// The issues listing endpoint returns pull requests as issue records
// carrying this field.
type PullRequestLink struct {
	URL string `json:"url"`
}

// Issue is a single issue record.
type Issue struct {
	Number      int              `json:"number"`
	State       string           `json:"state"`
	Title       string           `json:"title"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	ClosedAt    *time.Time       `json:"closed_at,omitempty"`
	Author      *Actor           `json:"user,omitempty"`
	Labels      []Label          `json:"labels"`
	Assignees   []Actor          `json:"assignees"`
	PullRequest *PullRequestLink `json:"pull_request,omitempty"`
}

// HasPullRequest reports whether this issue record is backed by, or linked
// to, a pull request.
func (i Issue) HasPullRequest() bool {
	return i.PullRequest != nil
}

// Comment is a single issue comment.
type Comment struct {
	Author    *Actor    `json:"user,omitempty"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// TimelineEvent is a single issue timeline event ("labeled", "assigned",
// "reopened", ...).
type TimelineEvent struct {
	Event     string    `json:"event"`
	Actor     *Actor    `json:"actor,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// IssueWithDetails bundles an issue with its fetched sub-collections.
// Either collection may be empty when the detail fetch was skipped.
type IssueWithDetails struct {
	Issue    Issue
	Comments []Comment
	Events   []TimelineEvent
}

// Review is a single pull request review.
type Review struct {
	Author      *Actor    `json:"user,omitempty"`
	State       string    `json:"state"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// PullRequest is a single pull request record. Commits, Additions and
// Deletions come from the per-PR detail endpoint and stay zero when that
// fetch was skipped.
type PullRequest struct {
	Number    int        `json:"number"`
	State     string     `json:"state"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
	MergedAt  *time.Time `json:"merged_at,omitempty"`
	Author    *Actor     `json:"user,omitempty"`
	Merged    bool       `json:"merged"`
	Commits   int        `json:"commits"`
	Additions int        `json:"additions"`
	Deletions int        `json:"deletions"`
}

// IsMerged reports whether the pull request was merged. The list endpoint
// omits the merged flag, so a non-null merge timestamp also counts.
func (p PullRequest) IsMerged() bool {
	return p.Merged || p.MergedAt != nil
}

// PullRequestWithReviews bundles a pull request with its fetched reviews.
type PullRequestWithReviews struct {
	PullRequest PullRequest
	Reviews     []Review
}

// botLoginPrefixes are well-known automation tools whose accounts are not
// always typed "Bot" by the API.
var botLoginPrefixes = []string{
	"dependabot",
	"renovate",
	"greenkeeper",
	"snyk-bot",
	"codecov",
	"allcontributors",
}

// IsBot reports whether the actor is an automated account: typed "Bot" by
// the API, carrying the "[bot]" login suffix, or matching a known
// automation-tool login prefix. A nil actor is never a bot; callers must
// treat "no actor" as "no response", not "bot response".
func IsBot(actor *Actor) bool {
	if actor == nil {
		return false
	}
	if actor.Type == "Bot" {
		return true
	}
	if strings.HasSuffix(actor.Login, "[bot]") {
		return true
	}
	login := strings.ToLower(actor.Login)
	for _, prefix := range botLoginPrefixes {
		if strings.HasPrefix(login, prefix) {
			return true
		}
	}
	return false
}
