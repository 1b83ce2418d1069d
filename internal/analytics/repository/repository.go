// Package repository provides the result cache for precomputed analytics
// reports, keyed by repository and window.
package repository

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/highfly-app/github-analytics/internal/analytics/model"
)

// Repository defines the interface for report cache operations.
type Repository interface {
	// Get returns the cached record for a repository and window, in
	// whatever state it is in. Returns model.ErrReportNotFound when no
	// record exists.
	Get(ctx context.Context, repository, window string) (*model.ReportRecord, error)

	// MarkPending upserts the record into the pending state, clearing any
	// previous payload.
	MarkPending(ctx context.Context, repository, window string) error

	// SaveCompleted upserts the serialized report payload with an expiry.
	SaveCompleted(ctx context.Context, repository, window string, payload []byte, expiresAt time.Time) error

	// Delete removes the record, typically to clear a pending marker after
	// a failed computation.
	Delete(ctx context.Context, repository, window string) error

	// DeleteExpired removes every record whose expiry has passed and
	// returns the number of rows deleted.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type repositoryImpl struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new report cache repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *repositoryImpl) Get(ctx context.Context, repository, window string) (*model.ReportRecord, error) {
	var record model.ReportRecord
	err := r.db.WithContext(ctx).
		Where("repository = ? AND time_window = ?", repository, window).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrReportNotFound
		}
		r.logger.Errorw("report cache lookup failed", "repository", repository, "window", window, "error", err)
		return nil, err
	}
	return &record, nil
}

func (r *repositoryImpl) MarkPending(ctx context.Context, repository, window string) error {
	record := model.ReportRecord{
		Repository: repository,
		Window:     window,
		Status:     model.ReportStatusPending,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "repository"}, {Name: "time_window"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"status":     model.ReportStatusPending,
				"payload":    nil,
				"expires_at": nil,
				"updated_at": time.Now(),
			}),
		}).
		Create(&record).Error
	if err != nil {
		r.logger.Errorw("mark pending failed", "repository", repository, "window", window, "error", err)
		return err
	}
	return nil
}

func (r *repositoryImpl) SaveCompleted(ctx context.Context, repository, window string, payload []byte, expiresAt time.Time) error {
	record := model.ReportRecord{
		Repository: repository,
		Window:     window,
		Status:     model.ReportStatusCompleted,
		Payload:    payload,
		ExpiresAt:  &expiresAt,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "repository"}, {Name: "time_window"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"status":     model.ReportStatusCompleted,
				"payload":    payload,
				"expires_at": expiresAt,
				"updated_at": time.Now(),
			}),
		}).
		Create(&record).Error
	if err != nil {
		r.logger.Errorw("save completed report failed", "repository", repository, "window", window, "error", err)
		return err
	}
	r.logger.Debugw("report cached", "repository", repository, "window", window, "expires_at", expiresAt)
	return nil
}

func (r *repositoryImpl) Delete(ctx context.Context, repository, window string) error {
	err := r.db.WithContext(ctx).
		Where("repository = ? AND time_window = ?", repository, window).
		Delete(&model.ReportRecord{}).Error
	if err != nil {
		r.logger.Errorw("delete report failed", "repository", repository, "window", window, "error", err)
	}
	return err
}

func (r *repositoryImpl) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at < ?", now).
		Delete(&model.ReportRecord{})
	if res.Error != nil {
		r.logger.Errorw("delete expired reports failed", "error", res.Error)
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		r.logger.Infow("expired reports deleted", "count", res.RowsAffected)
	}
	return res.RowsAffected, nil
}
