package model

import "time"

// StaleIssueRate holds the share of all issues in the window that are still
// open past each age threshold.
type StaleIssueRate struct {
	After30Days float64 `json:"after_30_days"`
	After60Days float64 `json:"after_60_days"`
	After90Days float64 `json:"after_90_days"`
}

// IssueTimeBucket is one point of the issue activity time series. Date is
// the normalized start of the bucket's day or week.
type IssueTimeBucket struct {
	Date                    time.Time `json:"date"`
	IssuesCreated           int       `json:"issues_created"`
	IssuesClosed            int       `json:"issues_closed"`
	MedianTimeToFirstResponse float64 `json:"median_time_to_first_response_hours"`
	MedianTimeToResolution    float64 `json:"median_time_to_resolution_hours"`
}

// IssueLifecycleMetrics summarizes response, triage and resolution behavior
// for the issues in the window. All latencies are medians in hours.
type IssueLifecycleMetrics struct {
	TotalIssues                         int               `json:"total_issues"`
	MedianTimeToFirstResponse           float64           `json:"median_time_to_first_response_hours"`
	MedianTimeToFirstMeaningfulResponse float64           `json:"median_time_to_first_meaningful_response_hours"`
	MedianTimeToTriage                  float64           `json:"median_time_to_triage_hours"`
	MedianTimeToResolution              float64           `json:"median_time_to_resolution_hours"`
	StaleIssueRate                      StaleIssueRate    `json:"stale_issue_rate"`
	ReopenedIssueRate                   float64           `json:"reopened_issue_rate"`
	TimeSeries                          []IssueTimeBucket `json:"time_series"`
}

// ReviewerStats is one row of the reviewer leaderboard.
type ReviewerStats struct {
	Login                string  `json:"login"`
	PRsReviewed          int     `json:"prs_reviewed"`
	AvgTimeToFirstReview float64 `json:"avg_time_to_first_review_hours"`
	Approvals            int     `json:"approvals"`
	ChangesRequested     int     `json:"changes_requested"`
	Comments             int     `json:"comments"`
}

// ContributorStats is one row of the contributor leaderboard, accumulated
// from pull request size stats.
type ContributorStats struct {
	Login        string `json:"login"`
	PullRequests int `json:"pull_requests"`
	Commits      int `json:"commits"`
	Additions    int `json:"additions"`
	Deletions    int `json:"deletions"`
	NetLines     int `json:"net_lines"`
}

// ReviewerInsightsMetrics summarizes review behavior for the pull requests
// in the window.
type ReviewerInsightsMetrics struct {
	TotalPRs                     int                `json:"total_prs"`
	MedianTimeToFirstReview      float64            `json:"median_time_to_first_review_hours"`
	MedianTimeFirstReviewToMerge float64            `json:"median_time_first_review_to_merge_hours"`
	PRsMergedWithoutReview       int                `json:"prs_merged_without_review"`
	PRsClosedWithoutReview       int                `json:"prs_closed_without_review"`
	TopReviewers                 []ReviewerStats    `json:"top_reviewers"`
	TopContributors              []ContributorStats `json:"top_contributors"`
}

// ContributorFrictionMetrics compares outcomes of first-time and returning
// pull request authors. First-time is scoped to the supplied batch: an
// author's chronologically earliest PR within the window, not their all-time
// first contribution.
type ContributorFrictionMetrics struct {
	FirstTimePRs                 int     `json:"first_time_prs"`
	ReturningPRs                 int     `json:"returning_prs"`
	FirstTimeMergeRate           float64 `json:"first_time_merge_rate"`
	ReturningMergeRate           float64 `json:"returning_merge_rate"`
	FirstTimeMedianReviewLatency float64 `json:"first_time_median_review_latency_hours"`
	ReturningMedianReviewLatency float64 `json:"returning_median_review_latency_hours"`
	FirstTimeMedianReviewCycles  float64 `json:"first_time_median_review_cycles"`
	IssueOnlyContributors        int     `json:"issue_only_contributors"`
}

// IssueAgeBuckets is the age histogram of open issues, in days since
// creation. Lower bounds are inclusive: an issue aged exactly 30 days falls
// in Days0To30.
type IssueAgeBuckets struct {
	Days0To30  int `json:"days_0_30"`
	Days31To60 int `json:"days_31_60"`
	Days61To90 int `json:"days_61_90"`
	Days90Plus int `json:"days_90_plus"`
}

// PRAgeBuckets is the age histogram of open pull requests, in days since
// creation.
type PRAgeBuckets struct {
	Days0To7   int `json:"days_0_7"`
	Days8To14  int `json:"days_8_14"`
	Days15To30 int `json:"days_15_30"`
	Days30Plus int `json:"days_30_plus"`
}

// BacklogIssueBreakdown describes the currently open issues.
type BacklogIssueBreakdown struct {
	Open         int             `json:"open"`
	AgeBuckets   IssueAgeBuckets `json:"age_buckets"`
	Unlabeled    int             `json:"unlabeled"`
	UnlabeledPct float64         `json:"unlabeled_pct"`
	Orphaned     int             `json:"orphaned"`
	OrphanedPct  float64         `json:"orphaned_pct"`
}

// BacklogPRBreakdown describes the currently open pull requests.
type BacklogPRBreakdown struct {
	Open             int          `json:"open"`
	AgeBuckets       PRAgeBuckets `json:"age_buckets"`
	WithoutReview    int          `json:"without_review"`
	WithoutReviewPct float64      `json:"without_review_pct"`
}

// Backlog health status labels.
const (
	StatusHealthy        = "Healthy"
	StatusNeedsAttention = "Needs Attention"
	StatusOverloaded     = "Overloaded"
)

// BacklogHealthMetrics folds backlog staleness and neglect signals into a
// single 0-100 score with a three-tier status label.
type BacklogHealthMetrics struct {
	Score        float64               `json:"score"`
	Status       string                `json:"status"`
	Issues       BacklogIssueBreakdown `json:"issues"`
	PullRequests BacklogPRBreakdown    `json:"pull_requests"`
}

// AnalyticsReport is the composite payload persisted by the cache and
// returned by the API.
type AnalyticsReport struct {
	Repository          string                     `json:"repository"`
	Window              Window                     `json:"window"`
	StartDate           time.Time                  `json:"start_date"`
	GeneratedAt         time.Time                  `json:"generated_at"`
	IssueLifecycle      IssueLifecycleMetrics      `json:"issue_lifecycle"`
	ReviewerInsights    ReviewerInsightsMetrics    `json:"reviewer_insights"`
	ContributorFriction ContributorFrictionMetrics `json:"contributor_friction"`
	BacklogHealth       BacklogHealthMetrics       `json:"backlog_health"`
}
