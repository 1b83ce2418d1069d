package engine

import (
	"sort"

	"github.com/highfly-app/github-analytics/internal/analytics/model"
	"github.com/highfly-app/github-analytics/internal/github"
)

// leaderboardSize caps the reviewer and contributor rankings.
const leaderboardSize = 10

// reviewerAccum accumulates per-reviewer statistics across every human
// review the reviewer authored.
type reviewerAccum struct {
	reviews          int
	firstReviewSum   float64
	firstReviewCount int
	approvals        int
	changesRequested int
	comments         int
}

// contributorAccum accumulates per-author size stats from pull request
// records.
type contributorAccum struct {
	prs       int
	commits   int
	additions int
	deletions int
}

// humanReviews filters out reviews authored by bots, sorted by submission
// time ascending.
func humanReviews(reviews []github.Review) []github.Review {
	var human []github.Review
	for _, r := range reviews {
		if !github.IsBot(r.Author) {
			human = append(human, r)
		}
	}
	sort.SliceStable(human, func(i, j int) bool {
		return human[i].SubmittedAt.Before(human[j].SubmittedAt)
	})
	return human
}

// AnalyzeReviewerInsights computes review latencies, no-review counts and
// the reviewer and contributor leaderboards for the supplied pull request
// batch.
func AnalyzeReviewerInsights(prs []github.PullRequestWithReviews) model.ReviewerInsightsMetrics {
	var (
		firstReviewLatencies []float64
		reviewToMerge        []float64
	)
	mergedWithoutReview := 0
	closedWithoutReview := 0

	reviewers := make(map[string]*reviewerAccum)
	contributors := make(map[string]*contributorAccum)

	for _, it := range prs {
		pr := it.PullRequest

		if pr.Author != nil {
			c, ok := contributors[pr.Author.Login]
			if !ok {
				c = &contributorAccum{}
				contributors[pr.Author.Login] = c
			}
			c.prs++
			c.commits += pr.Commits
			c.additions += pr.Additions
			c.deletions += pr.Deletions
		}

		human := humanReviews(it.Reviews)
		if len(human) == 0 {
			if pr.IsMerged() {
				mergedWithoutReview++
			} else if pr.State == github.StateClosed {
				closedWithoutReview++
			}
			continue
		}

		first := human[0]
		firstLatency, firstOK := hoursSince(pr.CreatedAt, first.SubmittedAt)
		if firstOK {
			firstReviewLatencies = append(firstReviewLatencies, firstLatency)
		}
		if pr.IsMerged() && pr.MergedAt != nil {
			if h, ok := hoursSince(first.SubmittedAt, *pr.MergedAt); ok {
				reviewToMerge = append(reviewToMerge, h)
			}
		}

		for i, r := range human {
			if r.Author == nil {
				continue
			}
			acc, ok := reviewers[r.Author.Login]
			if !ok {
				acc = &reviewerAccum{}
				reviewers[r.Author.Login] = acc
			}
			acc.reviews++
			// Latency is attributed only when this review was the PR's first.
			if i == 0 && firstOK {
				acc.firstReviewSum += firstLatency
				acc.firstReviewCount++
			}
			switch r.State {
			case github.ReviewApproved:
				acc.approvals++
			case github.ReviewChangesRequested:
				acc.changesRequested++
			case github.ReviewCommented:
				acc.comments++
			}
		}
	}

	topReviewers := make([]model.ReviewerStats, 0, len(reviewers))
	for login, acc := range reviewers {
		avg := 0.0
		if acc.firstReviewCount > 0 {
			avg = acc.firstReviewSum / float64(acc.firstReviewCount)
		}
		topReviewers = append(topReviewers, model.ReviewerStats{
			Login:                login,
			PRsReviewed:          acc.reviews,
			AvgTimeToFirstReview: avg,
			Approvals:            acc.approvals,
			ChangesRequested:     acc.changesRequested,
			Comments:             acc.comments,
		})
	}
	sort.Slice(topReviewers, func(i, j int) bool {
		if topReviewers[i].PRsReviewed != topReviewers[j].PRsReviewed {
			return topReviewers[i].PRsReviewed > topReviewers[j].PRsReviewed
		}
		return topReviewers[i].Login < topReviewers[j].Login
	})
	if len(topReviewers) > leaderboardSize {
		topReviewers = topReviewers[:leaderboardSize]
	}

	topContributors := make([]model.ContributorStats, 0, len(contributors))
	for login, acc := range contributors {
		topContributors = append(topContributors, model.ContributorStats{
			Login:        login,
			PullRequests: acc.prs,
			Commits:      acc.commits,
			Additions:    acc.additions,
			Deletions:    acc.deletions,
			NetLines:     acc.additions - acc.deletions,
		})
	}
	sort.Slice(topContributors, func(i, j int) bool {
		if topContributors[i].Commits != topContributors[j].Commits {
			return topContributors[i].Commits > topContributors[j].Commits
		}
		return topContributors[i].Login < topContributors[j].Login
	})
	if len(topContributors) > leaderboardSize {
		topContributors = topContributors[:leaderboardSize]
	}

	return model.ReviewerInsightsMetrics{
		TotalPRs:                     len(prs),
		MedianTimeToFirstReview:      Median(firstReviewLatencies),
		MedianTimeFirstReviewToMerge: Median(reviewToMerge),
		PRsMergedWithoutReview:       mergedWithoutReview,
		PRsClosedWithoutReview:       closedWithoutReview,
		TopReviewers:                 topReviewers,
		TopContributors:              topContributors,
	}
}
