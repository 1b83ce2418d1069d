package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/highfly-app/github-analytics/internal/github"
)

func TestAnalyzeContributorFriction(t *testing.T) {
	t.Run("empty batches", func(t *testing.T) {
		m := AnalyzeContributorFriction(nil, nil)

		assert.Equal(t, 0, m.FirstTimePRs)
		assert.Equal(t, 0, m.ReturningPRs)
		assert.Equal(t, 0.0, m.FirstTimeMergeRate)
		assert.Equal(t, 0, m.IssueOnlyContributors)
	})

	t.Run("earliest PR per author is first-time, the rest returning", func(t *testing.T) {
		prs := []github.PullRequestWithReviews{
			prWithReviews(1, github.PullRequest{State: github.StateClosed, CreatedAt: ts("2024-03-01T00:00:00Z"), MergedAt: tsp("2024-03-02T00:00:00Z"), Author: bob}),
			prWithReviews(2, github.PullRequest{State: github.StateOpen, CreatedAt: ts("2024-03-05T00:00:00Z"), Author: bob}),
		}

		m := AnalyzeContributorFriction(prs, nil)

		assert.Equal(t, 1, m.FirstTimePRs)
		assert.Equal(t, 1, m.ReturningPRs)
		assert.Equal(t, 100.0, m.FirstTimeMergeRate)
		assert.Equal(t, 0.0, m.ReturningMergeRate)
	})

	t.Run("creation-time ties break by PR number", func(t *testing.T) {
		created := ts("2024-03-01T00:00:00Z")
		prs := []github.PullRequestWithReviews{
			prWithReviews(7, github.PullRequest{State: github.StateOpen, CreatedAt: created, Author: bob}),
			prWithReviews(3, github.PullRequest{State: github.StateOpen, CreatedAt: created, Author: bob}),
		}

		m := AnalyzeContributorFriction(prs, nil)

		assert.Equal(t, 1, m.FirstTimePRs)
		assert.Equal(t, 1, m.ReturningPRs)
	})

	t.Run("review latency medians per class", func(t *testing.T) {
		prs := []github.PullRequestWithReviews{
			prWithReviews(1,
				github.PullRequest{State: github.StateOpen, CreatedAt: ts("2024-03-01T00:00:00Z"), Author: bob},
				github.Review{Author: alice, State: github.ReviewCommented, SubmittedAt: ts("2024-03-01T04:00:00Z")},
			),
			prWithReviews(2,
				github.PullRequest{State: github.StateOpen, CreatedAt: ts("2024-03-05T00:00:00Z"), Author: bob},
				github.Review{Author: alice, State: github.ReviewApproved, SubmittedAt: ts("2024-03-05T10:00:00Z")},
			),
		}

		m := AnalyzeContributorFriction(prs, nil)

		assert.Equal(t, 4.0, m.FirstTimeMedianReviewLatency)
		assert.Equal(t, 10.0, m.ReturningMedianReviewLatency)
	})

	t.Run("review cycles count human CHANGES_REQUESTED on first-time PRs", func(t *testing.T) {
		prs := []github.PullRequestWithReviews{
			prWithReviews(1,
				github.PullRequest{State: github.StateOpen, CreatedAt: ts("2024-03-01T00:00:00Z"), Author: bob},
				github.Review{Author: alice, State: github.ReviewChangesRequested, SubmittedAt: ts("2024-03-01T04:00:00Z")},
				github.Review{Author: depbot, State: github.ReviewChangesRequested, SubmittedAt: ts("2024-03-01T05:00:00Z")},
				github.Review{Author: alice, State: github.ReviewChangesRequested, SubmittedAt: ts("2024-03-02T04:00:00Z")},
				github.Review{Author: alice, State: github.ReviewApproved, SubmittedAt: ts("2024-03-03T04:00:00Z")},
			),
		}

		m := AnalyzeContributorFriction(prs, nil)

		assert.Equal(t, 2.0, m.FirstTimeMedianReviewCycles)
	})

	t.Run("issue authors without any PR in the batch", func(t *testing.T) {
		prs := []github.PullRequestWithReviews{
			prWithReviews(1, github.PullRequest{State: github.StateOpen, CreatedAt: ts("2024-03-01T00:00:00Z"), Author: bob}),
		}
		issues := []github.IssueWithDetails{
			{Issue: github.Issue{Number: 1, Author: bob, CreatedAt: ts("2024-03-01T00:00:00Z")}},
			{Issue: github.Issue{Number: 2, Author: &github.Actor{Login: "carol"}, CreatedAt: ts("2024-03-02T00:00:00Z")}},
			{Issue: github.Issue{Number: 3, Author: &github.Actor{Login: "carol"}, CreatedAt: ts("2024-03-03T00:00:00Z")}},
			{Issue: github.Issue{Number: 4, Author: depbot, CreatedAt: ts("2024-03-04T00:00:00Z")}},
		}

		m := AnalyzeContributorFriction(prs, issues)

		// carol counts once; bob has a PR; the bot is not a newcomer.
		assert.Equal(t, 1, m.IssueOnlyContributors)
	})
}
