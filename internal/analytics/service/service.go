// Package service provides the orchestration layer for the analytics module:
// cache lookups, batch fetching, window filtering and analyzer invocation.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/highfly-app/github-analytics/internal/analytics/engine"
	"github.com/highfly-app/github-analytics/internal/analytics/model"
	"github.com/highfly-app/github-analytics/internal/analytics/repository"
	"github.com/highfly-app/github-analytics/internal/github"
)

// pendingTimeout is how long a pending cache marker blocks concurrent
// recomputation before it is considered abandoned.
const pendingTimeout = 10 * time.Minute

// Source delivers the in-memory batches the engine consumes.
type Source interface {
	IssuesSince(ctx context.Context, owner, repo string, since time.Time) ([]github.IssueWithDetails, error)
	PullRequestsSince(ctx context.Context, owner, repo string, since time.Time) ([]github.PullRequestWithReviews, error)
	OpenIssues(ctx context.Context, owner, repo string) ([]github.Issue, error)
	OpenPullRequests(ctx context.Context, owner, repo string) ([]github.PullRequest, error)
}

// Service defines the interface for analytics business logic operations.
type Service interface {
	// GetRepositoryAnalytics returns the analytics report for a repository
	// and window, from cache when fresh, computed otherwise.
	GetRepositoryAnalytics(ctx context.Context, owner, repo string, window model.Window) (*model.AnalyticsReport, error)

	// PurgeExpired removes expired cached reports.
	PurgeExpired(ctx context.Context) (int64, error)
}

type service struct {
	source   Source
	repo     repository.Repository
	cacheTTL time.Duration
	logger   *zap.SugaredLogger
	now      func() time.Time
}

// New creates a new analytics service instance.
func New(source Source, repo repository.Repository, cacheTTL time.Duration, logger *zap.SugaredLogger) Service {
	return &service{
		source:   source,
		repo:     repo,
		cacheTTL: cacheTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// GetRepositoryAnalytics returns the analytics report for a repository and
// window.
func (s *service) GetRepositoryAnalytics(ctx context.Context, owner, repo string, window model.Window) (*model.AnalyticsReport, error) {
	key := owner + "/" + repo
	now := s.now().UTC()

	rec, err := s.repo.Get(ctx, key, window.String())
	switch {
	case err == nil:
		if rec.Status == model.ReportStatusPending {
			if now.Sub(rec.UpdatedAt) < pendingTimeout {
				return nil, model.ErrAnalysisInProgress
			}
			s.logger.Warnw("abandoned pending report, recomputing", "repository", key, "window", window)
		} else if !rec.IsExpired(now) {
			var report model.AnalyticsReport
			if unmarshalErr := json.Unmarshal(rec.Payload, &report); unmarshalErr == nil {
				s.logger.Debugw("report served from cache", "repository", key, "window", window)
				return &report, nil
			}
			s.logger.Warnw("cached payload unreadable, recomputing", "repository", key, "window", window)
		}
	case !errors.Is(err, model.ErrReportNotFound):
		return nil, err
	}

	if err := s.repo.MarkPending(ctx, key, window.String()); err != nil {
		return nil, err
	}

	report, err := s.compute(ctx, owner, repo, window, now)
	if err != nil {
		// Clear the pending marker so the next request retries.
		if delErr := s.repo.Delete(ctx, key, window.String()); delErr != nil {
			s.logger.Errorw("pending marker cleanup failed", "repository", key, "window", window, "error", delErr)
		}
		return nil, err
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("serializing report: %w", err)
	}
	if err := s.repo.SaveCompleted(ctx, key, window.String(), payload, now.Add(s.cacheTTL)); err != nil {
		return nil, err
	}

	s.logger.Infow("report computed",
		"repository", key,
		"window", window,
		"issues", report.IssueLifecycle.TotalIssues,
		"prs", report.ReviewerInsights.TotalPRs,
		"backlog_score", report.BacklogHealth.Score,
	)
	return report, nil
}

// compute fetches the batches and runs the four analyzers. The analyzers
// are pure functions of the batch; they do not call each other.
func (s *service) compute(ctx context.Context, owner, repo string, window model.Window, now time.Time) (*model.AnalyticsReport, error) {
	start := window.StartDate(now)

	issues, err := s.source.IssuesSince(ctx, owner, repo, start)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrUpstreamUnavailable, err)
	}
	prs, err := s.source.PullRequestsSince(ctx, owner, repo, start)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrUpstreamUnavailable, err)
	}
	openIssues, err := s.source.OpenIssues(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrUpstreamUnavailable, err)
	}
	openPRs, err := s.source.OpenPullRequests(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrUpstreamUnavailable, err)
	}

	issues = filterIssues(issues, start)
	prs = filterPullRequests(prs, start)

	return &model.AnalyticsReport{
		Repository:          owner + "/" + repo,
		Window:              window,
		StartDate:           start,
		GeneratedAt:         now,
		IssueLifecycle:      engine.AnalyzeIssueLifecycle(issues, window, now),
		ReviewerInsights:    engine.AnalyzeReviewerInsights(prs),
		ContributorFriction: engine.AnalyzeContributorFriction(prs, issues),
		BacklogHealth:       engine.AnalyzeBacklogHealth(openIssues, openPRs, prs, now),
	}, nil
}

// PurgeExpired removes expired cached reports.
func (s *service) PurgeExpired(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx, s.now().UTC())
}

// filterIssues keeps issues created at or after the window start. The
// source already fetches against the same horizon; the filter guards
// against a source serving a wider batch.
func filterIssues(issues []github.IssueWithDetails, start time.Time) []github.IssueWithDetails {
	filtered := make([]github.IssueWithDetails, 0, len(issues))
	for _, it := range issues {
		if !it.Issue.CreatedAt.Before(start) {
			filtered = append(filtered, it)
		}
	}
	return filtered
}

// filterPullRequests keeps pull requests created at or after the window
// start.
func filterPullRequests(prs []github.PullRequestWithReviews, start time.Time) []github.PullRequestWithReviews {
	filtered := make([]github.PullRequestWithReviews, 0, len(prs))
	for _, it := range prs {
		if !it.PullRequest.CreatedAt.Before(start) {
			filtered = append(filtered, it)
		}
	}
	return filtered
}
