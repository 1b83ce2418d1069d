package engine

import (
	"sort"
	"strings"
	"time"

	"github.com/highfly-app/github-analytics/internal/analytics/model"
	"github.com/highfly-app/github-analytics/internal/github"
)

// meaningfulBodyLength is the minimum trimmed comment length for a comment
// to count as a meaningful response.
const meaningfulBodyLength = 10

// hoursSince returns the latency in hours from start to t. Negative
// intervals (clock skew, malformed upstream data) are dropped, not zeroed.
func hoursSince(start, t time.Time) (float64, bool) {
	h := t.Sub(start).Hours()
	if h < 0 {
		return 0, false
	}
	return h, true
}

// firstHumanComment returns the minimum-timestamp comment authored by a
// non-bot actor, optionally restricted to meaningful bodies. Comment order
// is not assumed.
func firstHumanComment(comments []github.Comment, meaningfulOnly bool) (github.Comment, bool) {
	var first github.Comment
	found := false
	for _, c := range comments {
		if github.IsBot(c.Author) {
			continue
		}
		if meaningfulOnly && len(strings.TrimSpace(c.Body)) <= meaningfulBodyLength {
			continue
		}
		if !found || c.CreatedAt.Before(first.CreatedAt) {
			first = c
			found = true
		}
	}
	return first, found
}

// triageTime returns the timestamp of the earlier of the first "labeled"
// and first "assigned" event.
func triageTime(events []github.TimelineEvent) (time.Time, bool) {
	var earliest time.Time
	found := false
	for _, ev := range events {
		if ev.Event != github.EventLabeled && ev.Event != github.EventAssigned {
			continue
		}
		if !found || ev.CreatedAt.Before(earliest) {
			earliest = ev.CreatedAt
			found = true
		}
	}
	return earliest, found
}

// wasReopened reports whether the issue was ever reopened: it carries at
// least one "reopened" event and a closed timestamp from some cycle. An
// issue reopened and currently open still counts. This is "ever reopened",
// not "currently reopened".
func wasReopened(issue github.Issue, events []github.TimelineEvent) bool {
	if issue.ClosedAt == nil {
		return false
	}
	for _, ev := range events {
		if ev.Event == github.EventReopened {
			return true
		}
	}
	return false
}

// issueBucket accumulates one time-series bucket.
type issueBucket struct {
	created        int
	closed         int
	firstResponses []float64
	resolutions    []float64
}

// AnalyzeIssueLifecycle computes response, triage and resolution latencies,
// staleness and reopen rates, and a bucketed activity time series for the
// supplied issue batch. Each latency is aggregated only over issues where
// the underlying event exists; missing sub-collections simply yield fewer
// samples. The window tag selects the time-series granularity; now anchors
// the age computations.
func AnalyzeIssueLifecycle(issues []github.IssueWithDetails, window model.Window, now time.Time) model.IssueLifecycleMetrics {
	var (
		firstResponses      []float64
		meaningfulResponses []float64
		triageTimes         []float64
		resolutions         []float64
	)
	staleAfter30 := 0
	staleAfter60 := 0
	staleAfter90 := 0
	reopened := 0

	buckets := make(map[time.Time]*issueBucket)

	for _, it := range issues {
		issue := it.Issue

		key := window.BucketStart(issue.CreatedAt)
		b, ok := buckets[key]
		if !ok {
			b = &issueBucket{}
			buckets[key] = b
		}
		b.created++
		if issue.State == github.StateClosed {
			b.closed++
		}

		if c, ok := firstHumanComment(it.Comments, false); ok {
			if h, ok := hoursSince(issue.CreatedAt, c.CreatedAt); ok {
				firstResponses = append(firstResponses, h)
				b.firstResponses = append(b.firstResponses, h)
			}
		}
		if c, ok := firstHumanComment(it.Comments, true); ok {
			if h, ok := hoursSince(issue.CreatedAt, c.CreatedAt); ok {
				meaningfulResponses = append(meaningfulResponses, h)
			}
		}
		if t, ok := triageTime(it.Events); ok {
			if h, ok := hoursSince(issue.CreatedAt, t); ok {
				triageTimes = append(triageTimes, h)
			}
		}
		if issue.ClosedAt != nil {
			if h, ok := hoursSince(issue.CreatedAt, *issue.ClosedAt); ok {
				resolutions = append(resolutions, h)
				b.resolutions = append(b.resolutions, h)
			}
		}

		if issue.State == github.StateOpen {
			ageDays := now.Sub(issue.CreatedAt).Hours() / 24
			if ageDays > 30 {
				staleAfter30++
			}
			if ageDays > 60 {
				staleAfter60++
			}
			if ageDays > 90 {
				staleAfter90++
			}
		}

		if wasReopened(issue, it.Events) {
			reopened++
		}
	}

	total := len(issues)

	keys := make([]time.Time, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	series := make([]model.IssueTimeBucket, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		series = append(series, model.IssueTimeBucket{
			Date:                      k,
			IssuesCreated:             b.created,
			IssuesClosed:              b.closed,
			MedianTimeToFirstResponse: Median(b.firstResponses),
			MedianTimeToResolution:    Median(b.resolutions),
		})
	}

	return model.IssueLifecycleMetrics{
		TotalIssues:                         total,
		MedianTimeToFirstResponse:           Median(firstResponses),
		MedianTimeToFirstMeaningfulResponse: Median(meaningfulResponses),
		MedianTimeToTriage:                  Median(triageTimes),
		MedianTimeToResolution:              Median(resolutions),
		StaleIssueRate: model.StaleIssueRate{
			After30Days: Percentage(staleAfter30, total),
			After60Days: Percentage(staleAfter60, total),
			After90Days: Percentage(staleAfter90, total),
		},
		ReopenedIssueRate: Percentage(reopened, total),
		TimeSeries:        series,
	}
}
