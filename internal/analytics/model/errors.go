package model

import "errors"

var (
	// ErrInvalidWindow indicates that the requested window tag is not one of
	// the supported values.
	ErrInvalidWindow = errors.New("invalid window: must be one of 1week, 1month, 3months, 6months")
	// ErrAnalysisInProgress indicates that a computation for the same
	// repository and window is already running.
	ErrAnalysisInProgress = errors.New("analysis for this repository and window is in progress")
	// ErrReportNotFound indicates that no fresh cached report exists.
	ErrReportNotFound = errors.New("report not found")
	// ErrUpstreamUnavailable indicates that the data source could not deliver
	// the batch.
	ErrUpstreamUnavailable = errors.New("upstream data source unavailable")
)
