package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/highfly-app/github-analytics/pkg/retry"
)

// DefaultBaseURL is the public GitHub REST API endpoint.
const DefaultBaseURL = "https://api.github.com"

// maxPages bounds pagination per listing so a misbehaving upstream cannot
// stall a batch fetch forever.
const maxPages = 30

// ClientConfig holds GitHub client configuration.
type ClientConfig struct {
	// BaseURL is the API root, overridable for GitHub Enterprise and tests.
	BaseURL string
	// Token is the bearer token; anonymous requests work with tight rate
	// limits when empty.
	Token string
	// Timeout bounds a single HTTP request.
	Timeout time.Duration
	// PerPage is the page size for listing endpoints (max 100).
	PerPage int
	// Retry is the per-request retry strategy.
	Retry retry.Config
}

// DefaultClientConfig returns a client configuration with sane defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		BaseURL: DefaultBaseURL,
		Timeout: 30 * time.Second,
		PerPage: 100,
		Retry:   retry.GitHubConfig(),
	}
}

// Client is a GitHub REST data-source client. It delivers the in-memory
// batches the analytics engine consumes; detail fetch failures degrade to
// empty sub-collections rather than failing the batch.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
	perPage int
	retry   retry.Config
	logger  *zap.SugaredLogger
}

// NewClient creates a new GitHub client instance.
func NewClient(cfg ClientConfig, logger *zap.SugaredLogger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.PerPage <= 0 || cfg.PerPage > 100 {
		cfg.PerPage = 100
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		http:    &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		perPage: cfg.PerPage,
		retry:   cfg.Retry,
		logger:  logger,
	}
}

// getJSON performs one GET with retry and decodes the response body.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	body, err := retry.DoWithResult(ctx, c.retry, func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/vnd.github+json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			if resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0" {
				return nil, fmt.Errorf("GET %s: rate limit exhausted (status 403)", path)
			}
			return nil, fmt.Errorf("GET %s: status %d", path, resp.StatusCode)
		}
		return data, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

// listQuery builds common listing parameters for the given page.
func (c *Client) listQuery(state string, page int) url.Values {
	q := url.Values{}
	q.Set("state", state)
	q.Set("sort", "created")
	q.Set("direction", "desc")
	q.Set("per_page", strconv.Itoa(c.perPage))
	q.Set("page", strconv.Itoa(page))
	return q
}

// listIssues pages through the issues endpoint until the horizon is passed.
// PR-backed issue records are dropped; the pulls endpoints cover those.
func (c *Client) listIssues(ctx context.Context, owner, repo, state string, since *time.Time) ([]Issue, error) {
	var issues []Issue
	for page := 1; page <= maxPages; page++ {
		var batch []Issue
		if err := c.getJSON(ctx, fmt.Sprintf("/repos/%s/%s/issues", owner, repo), c.listQuery(state, page), &batch); err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			break
		}
		pastHorizon := false
		for _, issue := range batch {
			if since != nil && issue.CreatedAt.Before(*since) {
				pastHorizon = true
				continue
			}
			if issue.HasPullRequest() {
				continue
			}
			issues = append(issues, issue)
		}
		if pastHorizon || len(batch) < c.perPage {
			break
		}
	}
	return issues, nil
}

// listPullRequests pages through the pulls endpoint until the horizon is
// passed.
func (c *Client) listPullRequests(ctx context.Context, owner, repo, state string, since *time.Time) ([]PullRequest, error) {
	var prs []PullRequest
	for page := 1; page <= maxPages; page++ {
		var batch []PullRequest
		if err := c.getJSON(ctx, fmt.Sprintf("/repos/%s/%s/pulls", owner, repo), c.listQuery(state, page), &batch); err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			break
		}
		pastHorizon := false
		for _, pr := range batch {
			if since != nil && pr.CreatedAt.Before(*since) {
				pastHorizon = true
				continue
			}
			prs = append(prs, pr)
		}
		if pastHorizon || len(batch) < c.perPage {
			break
		}
	}
	return prs, nil
}

// IssuesSince returns all issues created at or after the horizon, with their
// comments and timeline events. A failed detail fetch leaves the
// sub-collection empty and is logged; the engine tolerates partial input.
func (c *Client) IssuesSince(ctx context.Context, owner, repo string, since time.Time) ([]IssueWithDetails, error) {
	issues, err := c.listIssues(ctx, owner, repo, "all", &since)
	if err != nil {
		return nil, fmt.Errorf("listing issues for %s/%s: %w", owner, repo, err)
	}

	detailed := make([]IssueWithDetails, 0, len(issues))
	for _, issue := range issues {
		it := IssueWithDetails{Issue: issue}

		if err := c.getJSON(ctx, fmt.Sprintf("/repos/%s/%s/issues/%d/comments", owner, repo, issue.Number), nil, &it.Comments); err != nil {
			c.logger.Warnw("issue comments fetch skipped", "repo", owner+"/"+repo, "issue", issue.Number, "error", err)
			it.Comments = nil
		}
		if err := c.getJSON(ctx, fmt.Sprintf("/repos/%s/%s/issues/%d/events", owner, repo, issue.Number), nil, &it.Events); err != nil {
			c.logger.Warnw("issue events fetch skipped", "repo", owner+"/"+repo, "issue", issue.Number, "error", err)
			it.Events = nil
		}
		detailed = append(detailed, it)
	}
	return detailed, nil
}

// PullRequestsSince returns all pull requests created at or after the
// horizon, with their reviews and size stats. Detail failures degrade to
// the listing payload.
func (c *Client) PullRequestsSince(ctx context.Context, owner, repo string, since time.Time) ([]PullRequestWithReviews, error) {
	prs, err := c.listPullRequests(ctx, owner, repo, "all", &since)
	if err != nil {
		return nil, fmt.Errorf("listing pull requests for %s/%s: %w", owner, repo, err)
	}

	detailed := make([]PullRequestWithReviews, 0, len(prs))
	for _, pr := range prs {
		var detail PullRequest
		if err := c.getJSON(ctx, fmt.Sprintf("/repos/%s/%s/pulls/%d", owner, repo, pr.Number), nil, &detail); err != nil {
			c.logger.Warnw("pull request detail fetch skipped", "repo", owner+"/"+repo, "pr", pr.Number, "error", err)
		} else {
			pr.Merged = detail.Merged
			pr.Commits = detail.Commits
			pr.Additions = detail.Additions
			pr.Deletions = detail.Deletions
		}

		it := PullRequestWithReviews{PullRequest: pr}
		if err := c.getJSON(ctx, fmt.Sprintf("/repos/%s/%s/pulls/%d/reviews", owner, repo, pr.Number), nil, &it.Reviews); err != nil {
			c.logger.Warnw("pull request reviews fetch skipped", "repo", owner+"/"+repo, "pr", pr.Number, "error", err)
			it.Reviews = nil
		}
		detailed = append(detailed, it)
	}
	return detailed, nil
}

// OpenIssues returns the currently open issues regardless of age.
func (c *Client) OpenIssues(ctx context.Context, owner, repo string) ([]Issue, error) {
	issues, err := c.listIssues(ctx, owner, repo, "open", nil)
	if err != nil {
		return nil, fmt.Errorf("listing open issues for %s/%s: %w", owner, repo, err)
	}
	return issues, nil
}

// OpenPullRequests returns the currently open pull requests regardless of
// age.
func (c *Client) OpenPullRequests(ctx context.Context, owner, repo string) ([]PullRequest, error) {
	prs, err := c.listPullRequests(ctx, owner, repo, "open", nil)
	if err != nil {
		return nil, fmt.Errorf("listing open pull requests for %s/%s: %w", owner, repo, err)
	}
	return prs, nil
}
