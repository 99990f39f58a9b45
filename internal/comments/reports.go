package comments

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/matchday/terrace/internal/models"
	"github.com/matchday/terrace/pkg/logging"
)

// Reporter records abuse reports. Reports are append-only and never
// deduplicated; they surface to a human moderation process and do not
// themselves hide or alter the comment.
type Reporter struct {
	comments CommentStore
	reports  ReportStore
	now      func() time.Time
	logger   *zap.Logger
}

// NewReporter creates a moderation reporter
func NewReporter(comments CommentStore, reports ReportStore) *Reporter {
	return &Reporter{
		comments: comments,
		reports:  reports,
		now:      time.Now,
		logger:   logging.GetLogger().With(zap.String("component", "reports")),
	}
}

// Report appends one abuse report against a comment.
func (r *Reporter) Report(ctx context.Context, actor *Identity, commentID string, reason models.ReportReason, description string) error {
	if actor == nil || actor.ID == "" {
		return NewError(KindUnauthenticated, "sign in to report")
	}
	if !models.ValidReportReason(reason) {
		return NewError(KindInvalidContent, "unknown report reason")
	}

	comment, err := r.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return NewError(KindNotFound, "comment not found")
	}

	report := &models.Report{
		ID:         uuid.NewString(),
		CommentID:  commentID,
		ReporterID: actor.ID,
		Reason:     reason,
		CreatedAt:  r.now(),
	}
	if d := strings.TrimSpace(description); d != "" {
		report.Description = sql.NullString{String: d, Valid: true}
	}

	if err := r.reports.Insert(ctx, report); err != nil {
		return err
	}

	r.logger.Info("comment reported",
		zap.String("comment_id", commentID),
		zap.String("reporter_id", actor.ID),
		zap.String("reason", string(reason)))
	return nil
}
