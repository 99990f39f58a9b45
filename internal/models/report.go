package models

import (
	"database/sql"
	"time"
)

// ReportReason is a closed enumeration of abuse categories.
type ReportReason string

// Report reason constants
const (
	ReportReasonSpam           ReportReason = "spam"
	ReportReasonHarassment     ReportReason = "harassment"
	ReportReasonInappropriate  ReportReason = "inappropriate"
	ReportReasonMisinformation ReportReason = "misinformation"
	ReportReasonOther          ReportReason = "other"
)

// ValidReportReason reports whether r is a known reason.
func ValidReportReason(r ReportReason) bool {
	switch r {
	case ReportReasonSpam, ReportReasonHarassment, ReportReasonInappropriate,
		ReportReasonMisinformation, ReportReasonOther:
		return true
	}
	return false
}

// Report represents an abuse flag raised against a comment. Rows are
// append-only; the same reporter may report the same comment repeatedly.
type Report struct {
	ID          string         `gorm:"type:varchar(36);primaryKey;column:id"`
	CommentID   string         `gorm:"type:varchar(36);not null;index:terrace_reports_comment_ix;column:comment_id"`
	ReporterID  string         `gorm:"type:varchar(64);not null;column:reporter_id"`
	Reason      ReportReason   `gorm:"type:varchar(20);not null;column:reason"`
	Description sql.NullString `gorm:"type:varchar(500);column:description"`
	CreatedAt   time.Time      `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for Report
func (Report) TableName() string {
	return "terrace_reports"
}
