package model

import "time"

// Cached report states.
const (
	ReportStatusPending   = "pending"
	ReportStatusCompleted = "completed"
)

// ReportRecord is a precomputed analytics report cached per repository and
// window. Matches the analytics_reports table schema.
type ReportRecord struct {
	ID         int64      `gorm:"primaryKey;column:id;type:bigserial"                                                        json:"id"`
	Repository string     `gorm:"column:repository;type:varchar(255);not null;uniqueIndex:idx_reports_repo_window,priority:1" json:"repository"`
	Window     string     `gorm:"column:time_window;type:varchar(16);not null;uniqueIndex:idx_reports_repo_window,priority:2"  json:"window"`
	Status     string     `gorm:"column:status;type:varchar(16);not null"                                                     json:"status"`
	Payload    []byte     `gorm:"column:payload;type:jsonb"                                                                   json:"payload,omitempty"`
	CreatedAt  time.Time  `gorm:"column:created_at;type:timestamptz;not null;default:now()"                                   json:"created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;type:timestamptz;not null;default:now()"                                   json:"updated_at"`
	ExpiresAt  *time.Time `gorm:"column:expires_at;type:timestamptz;index:idx_reports_expires_at"                             json:"expires_at,omitempty"`
}

// TableName specifies the table name for GORM.
func (ReportRecord) TableName() string {
	return "analytics_reports"
}

// IsExpired reports whether the record's expiry has passed.
func (r ReportRecord) IsExpired(now time.Time) bool {
	return r.ExpiresAt != nil && r.ExpiresAt.Before(now)
}
