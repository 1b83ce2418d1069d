package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/highfly-app/github-analytics/pkg/retry"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := DefaultClientConfig()
	cfg.BaseURL = srv.URL
	cfg.Token = "test-token"
	cfg.PerPage = 2
	cfg.Retry.MaxAttempts = 1
	return NewClient(cfg, zap.NewNop().Sugar())
}

func writeJSON(t *testing.T, w http.ResponseWriter, v interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestClient_IssuesSince(t *testing.T) {
	since := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets/issues", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		switch r.URL.Query().Get("page") {
		case "1":
			writeJSON(t, w, []Issue{
				{Number: 30, CreatedAt: since.AddDate(0, 0, 20)},
				{Number: 29, CreatedAt: since.AddDate(0, 0, 10), PullRequest: &PullRequestLink{URL: "pr"}},
			})
		case "2":
			// Second item predates the horizon; pagination must stop here.
			writeJSON(t, w, []Issue{
				{Number: 28, CreatedAt: since.AddDate(0, 0, 1)},
				{Number: 27, CreatedAt: since.AddDate(0, 0, -5)},
			})
		default:
			t.Fatalf("unexpected page %s", r.URL.Query().Get("page"))
		}
	})
	mux.HandleFunc("/repos/acme/widgets/issues/30/comments", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []Comment{{Body: "on it", CreatedAt: since}})
	})
	mux.HandleFunc("/repos/acme/widgets/issues/30/events", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/repos/acme/widgets/issues/28/comments", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []Comment{})
	})
	mux.HandleFunc("/repos/acme/widgets/issues/28/events", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []TimelineEvent{{Event: EventLabeled, CreatedAt: since}})
	})

	c := newTestClient(t, mux)
	issues, err := c.IssuesSince(context.Background(), "acme", "widgets", since)
	require.NoError(t, err)

	// PR-backed record 29 dropped, record 27 past the horizon.
	require.Len(t, issues, 2)
	assert.Equal(t, 30, issues[0].Issue.Number)
	assert.Equal(t, 28, issues[1].Issue.Number)

	// Failed events fetch degrades to an empty sub-collection.
	assert.Len(t, issues[0].Comments, 1)
	assert.Empty(t, issues[0].Events)
	assert.Len(t, issues[1].Events, 1)
}

func TestClient_PullRequestsSince(t *testing.T) {
	since := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	mergedAt := since.AddDate(0, 0, 3)

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets/pulls", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []PullRequest{
			{Number: 5, State: StateClosed, CreatedAt: since.AddDate(0, 0, 2), MergedAt: &mergedAt},
		})
	})
	mux.HandleFunc("/repos/acme/widgets/pulls/5", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, PullRequest{Number: 5, Merged: true, Commits: 4, Additions: 120, Deletions: 30})
	})
	mux.HandleFunc("/repos/acme/widgets/pulls/5/reviews", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []Review{
			{Author: &Actor{Login: "alice"}, State: ReviewApproved, SubmittedAt: since.AddDate(0, 0, 1)},
		})
	})

	c := newTestClient(t, mux)
	prs, err := c.PullRequestsSince(context.Background(), "acme", "widgets", since)
	require.NoError(t, err)

	require.Len(t, prs, 1)
	assert.True(t, prs[0].PullRequest.IsMerged())
	assert.Equal(t, 4, prs[0].PullRequest.Commits)
	assert.Equal(t, 120, prs[0].PullRequest.Additions)
	require.Len(t, prs[0].Reviews, 1)
	assert.Equal(t, "alice", prs[0].Reviews[0].Author.Login)
}

func TestClient_ListingErrorPropagates(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets/pulls", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	c := newTestClient(t, mux)
	_, err := c.OpenPullRequests(context.Background(), "acme", "widgets")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestClient_RateLimitErrorIsRetryable(t *testing.T) {
	attempts := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets/pulls", func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.WriteHeader(http.StatusForbidden)
			return
		}
		writeJSON(t, w, []PullRequest{})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cfg := DefaultClientConfig()
	cfg.BaseURL = srv.URL
	cfg.Retry = retry.GitHubConfig()
	cfg.Retry.MaxAttempts = 2
	cfg.Retry.InitialDelay = time.Millisecond
	c := NewClient(cfg, zap.NewNop().Sugar())

	prs, err := c.OpenPullRequests(context.Background(), "acme", "widgets")
	require.NoError(t, err)
	assert.Empty(t, prs)
	assert.Equal(t, 2, attempts)
}
