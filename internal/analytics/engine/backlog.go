package engine

import (
	"math"
	"time"

	"github.com/highfly-app/github-analytics/internal/analytics/model"
	"github.com/highfly-app/github-analytics/internal/github"
)

// Status label thresholds for the backlog score.
const (
	healthyThreshold        = 70
	needsAttentionThreshold = 40
)

// ageDays returns the age of a record in days at the reference time.
func ageDays(created, now time.Time) float64 {
	return now.Sub(created).Hours() / 24
}

// backlogStatus maps a score to its three-tier label.
func backlogStatus(score float64) string {
	switch {
	case score >= healthyThreshold:
		return model.StatusHealthy
	case score >= needsAttentionThreshold:
		return model.StatusNeedsAttention
	default:
		return model.StatusOverloaded
	}
}

// AnalyzeBacklogHealth buckets the currently open issues and pull requests
// by age, computes the unlabeled, orphan and no-review ratios, and folds
// them into a weighted 0-100 score. The open sets reflect the present-day
// backlog independent of any window filter; history is the full fetched
// pull request batch, used to decide whether an open PR ever received a
// human review. An open PR absent from history is conservatively treated as
// unreviewed.
func AnalyzeBacklogHealth(openIssues []github.Issue, openPRs []github.PullRequest, history []github.PullRequestWithReviews, now time.Time) model.BacklogHealthMetrics {
	var issueAges model.IssueAgeBuckets
	unlabeled := 0
	orphaned := 0

	for _, issue := range openIssues {
		switch age := ageDays(issue.CreatedAt, now); {
		case age <= 30:
			issueAges.Days0To30++
		case age <= 60:
			issueAges.Days31To60++
		case age <= 90:
			issueAges.Days61To90++
		default:
			issueAges.Days90Plus++
		}
		if len(issue.Labels) == 0 {
			unlabeled++
		}
		if len(issue.Assignees) == 0 && !issue.HasPullRequest() {
			orphaned++
		}
	}

	reviewed := make(map[int]bool, len(history))
	for _, it := range history {
		if len(humanReviews(it.Reviews)) > 0 {
			reviewed[it.PullRequest.Number] = true
		}
	}

	var prAges model.PRAgeBuckets
	withoutReview := 0

	for _, pr := range openPRs {
		switch age := ageDays(pr.CreatedAt, now); {
		case age <= 7:
			prAges.Days0To7++
		case age <= 14:
			prAges.Days8To14++
		case age <= 30:
			prAges.Days15To30++
		default:
			prAges.Days30Plus++
		}
		if !reviewed[pr.Number] {
			withoutReview++
		}
	}

	openIssueCount := len(openIssues)
	openPRCount := len(openPRs)

	unlabeledPct := Percentage(unlabeled, openIssueCount)
	orphanedPct := Percentage(orphaned, openIssueCount)
	withoutReviewPct := Percentage(withoutReview, openPRCount)

	score := 100.0
	score -= math.Min(30, Percentage(issueAges.Days90Plus, openIssueCount)*2)
	score -= math.Min(30, Percentage(issueAges.Days61To90, openIssueCount)*0.5)
	score -= math.Min(30, Percentage(issueAges.Days31To60, openIssueCount)*0.1)
	score -= math.Min(20, unlabeledPct*0.2)
	score -= math.Min(20, orphanedPct*0.2)
	score -= math.Min(15, Percentage(prAges.Days30Plus, openPRCount)*2)
	score -= math.Min(15, Percentage(prAges.Days15To30, openPRCount)*0.5)
	score -= math.Min(15, Percentage(prAges.Days8To14, openPRCount)*0.1)
	score -= math.Min(15, withoutReviewPct*0.2)

	score = math.Max(0, math.Min(100, score))

	return model.BacklogHealthMetrics{
		Score:  score,
		Status: backlogStatus(score),
		Issues: model.BacklogIssueBreakdown{
			Open:         openIssueCount,
			AgeBuckets:   issueAges,
			Unlabeled:    unlabeled,
			UnlabeledPct: unlabeledPct,
			Orphaned:     orphaned,
			OrphanedPct:  orphanedPct,
		},
		PullRequests: model.BacklogPRBreakdown{
			Open:             openPRCount,
			AgeBuckets:       prAges,
			WithoutReview:    withoutReview,
			WithoutReviewPct: withoutReviewPct,
		},
	}
}
