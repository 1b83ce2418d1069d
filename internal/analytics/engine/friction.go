package engine

import (
	"github.com/highfly-app/github-analytics/internal/analytics/model"
	"github.com/highfly-app/github-analytics/internal/github"
)

// frictionClass accumulates outcomes for one author class.
type frictionClass struct {
	count           int
	merged          int
	reviewLatencies []float64
}

// firstHumanReviewLatency returns the hours from PR creation to the
// earliest non-bot review.
func firstHumanReviewLatency(it github.PullRequestWithReviews) (float64, bool) {
	human := humanReviews(it.Reviews)
	if len(human) == 0 {
		return 0, false
	}
	return hoursSince(it.PullRequest.CreatedAt, human[0].SubmittedAt)
}

// reviewCycles counts CHANGES_REQUESTED dispositions from non-bot reviewers
// on a single pull request.
func reviewCycles(reviews []github.Review) int {
	cycles := 0
	for _, r := range reviews {
		if r.State == github.ReviewChangesRequested && !github.IsBot(r.Author) {
			cycles++
		}
	}
	return cycles
}

// AnalyzeContributorFriction classifies every pull request as first-time
// (its author's chronologically earliest PR within the batch) or returning,
// and compares outcomes per class. The classification is scoped to the
// supplied batch, not the author's all-time history.
func AnalyzeContributorFriction(prs []github.PullRequestWithReviews, issues []github.IssueWithDetails) model.ContributorFrictionMetrics {
	// Earliest PR per author, ties broken by PR number.
	earliest := make(map[string]github.PullRequest)
	for _, it := range prs {
		pr := it.PullRequest
		if pr.Author == nil {
			continue
		}
		cur, ok := earliest[pr.Author.Login]
		if !ok || pr.CreatedAt.Before(cur.CreatedAt) ||
			(pr.CreatedAt.Equal(cur.CreatedAt) && pr.Number < cur.Number) {
			earliest[pr.Author.Login] = pr
		}
	}

	var firstTime, returning frictionClass
	var firstTimeCycles []float64

	for _, it := range prs {
		pr := it.PullRequest
		if pr.Author == nil {
			continue
		}

		class := &returning
		if earliest[pr.Author.Login].Number == pr.Number {
			class = &firstTime
		}

		class.count++
		if pr.IsMerged() {
			class.merged++
		}
		if h, ok := firstHumanReviewLatency(it); ok {
			class.reviewLatencies = append(class.reviewLatencies, h)
		}

		if class == &firstTime {
			firstTimeCycles = append(firstTimeCycles, float64(reviewCycles(it.Reviews)))
		}
	}

	// Issue authors who never opened a PR in the batch. Bots are not
	// newcomers, so they are not counted.
	issueOnly := make(map[string]struct{})
	for _, it := range issues {
		author := it.Issue.Author
		if author == nil || github.IsBot(author) {
			continue
		}
		if _, ok := earliest[author.Login]; ok {
			continue
		}
		issueOnly[author.Login] = struct{}{}
	}

	return model.ContributorFrictionMetrics{
		FirstTimePRs:                 firstTime.count,
		ReturningPRs:                 returning.count,
		FirstTimeMergeRate:           Percentage(firstTime.merged, firstTime.count),
		ReturningMergeRate:           Percentage(returning.merged, returning.count),
		FirstTimeMedianReviewLatency: Median(firstTime.reviewLatencies),
		ReturningMedianReviewLatency: Median(returning.reviewLatencies),
		FirstTimeMedianReviewCycles:  Median(firstTimeCycles),
		IssueOnlyContributors:        len(issueOnly),
	}
}
