// Package handler provides HTTP handlers for analytics endpoints.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/highfly-app/github-analytics/internal/analytics/model"
	"github.com/highfly-app/github-analytics/internal/analytics/service"
)

// defaultWindow is used when the caller does not pass a window parameter.
const defaultWindow = model.Window1Month

// Handler handles HTTP requests for analytics endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new analytics handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// GetRepositoryAnalytics handles GET /repos/:owner/:repo/analytics request.
// @Summary Get engineering-health analytics for a repository
// @Tags Analytics
// @Produce json
// @Param owner path string true "Repository owner"
// @Param repo path string true "Repository name"
// @Param window query string false "Analysis window" Enums(1week, 1month, 3months, 6months)
// @Success 200 {object} model.AnalyticsReport
// @Success 202 {object} PendingResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /repos/{owner}/{repo}/analytics [get] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) GetRepositoryAnalytics(c *gin.Context) {
	owner := c.Param("owner")
	repo := c.Param("repo")

	windowParam := c.DefaultQuery("window", defaultWindow.String())
	window, err := model.ParseWindow(windowParam)
	if err != nil {
		errorResponse(c, "INVALID_WINDOW", err.Error(), http.StatusBadRequest)
		return
	}

	report, err := h.service.GetRepositoryAnalytics(c.Request.Context(), owner, repo, window)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrAnalysisInProgress):
			c.JSON(http.StatusAccepted, PendingResponse{
				Status:     model.ReportStatusPending,
				Repository: owner + "/" + repo,
				Window:     window.String(),
			})
		case errors.Is(err, model.ErrUpstreamUnavailable):
			h.logger.Errorw("upstream fetch failed", "owner", owner, "repo", repo, "window", window, "error", err)
			errorResponse(c, "UPSTREAM_ERROR", "data source unavailable", http.StatusBadGateway)
		default:
			h.logger.Errorw("error computing analytics", "owner", owner, "repo", repo, "window", window, "error", err)
			errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, report)
}
