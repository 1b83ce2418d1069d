// Package router provides analytics module routes registration.
package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/highfly-app/github-analytics/internal/analytics/handler"
	"github.com/highfly-app/github-analytics/internal/analytics/repository"
	"github.com/highfly-app/github-analytics/internal/analytics/service"
)

// RegisterRoutes registers analytics module routes.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, source service.Source, cacheTTL time.Duration, logger *zap.SugaredLogger) service.Service {
	repo := repository.New(db, logger)
	svc := service.New(source, repo, cacheTTL, logger)
	h := handler.New(svc, logger)

	r.GET("/repos/:owner/:repo/analytics", h.GetRepositoryAnalytics)

	return svc
}
