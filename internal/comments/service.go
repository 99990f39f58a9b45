package comments

import (
	"context"
	"database/sql"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/matchday/terrace/internal/models"
	"github.com/matchday/terrace/pkg/logging"
	"github.com/matchday/terrace/pkg/telemetry"
)

// ServiceConfig holds the service-level thresholds.
type ServiceConfig struct {
	// ApprovalThreshold is the spam score at or above which a comment
	// is persisted unapproved (queued for moderation).
	ApprovalThreshold float64
}

// Service is the comment subsystem facade: admission, classification,
// persistence, threading, reactions, reports, and moderation.
type Service struct {
	gate          *Gate
	classifier    *Classifier
	comments      CommentStore
	reactionStore ReactionStore
	reactions     *ReactionCoordinator
	reporter      *Reporter
	cfg           ServiceConfig
	now           func() time.Time
	logger        *zap.Logger
}

// NewService creates the comment service
func NewService(gate *Gate, classifier *Classifier, comments CommentStore, reactions ReactionStore, reports ReportStore, cfg ServiceConfig) *Service {
	return &Service{
		gate:          gate,
		classifier:    classifier,
		comments:      comments,
		reactionStore: reactions,
		reactions:     NewReactionCoordinator(comments, reactions),
		reporter:      NewReporter(comments, reports),
		cfg:           cfg,
		now:           time.Now,
		logger:        logging.GetLogger().With(zap.String("component", "comment-service")),
	}
}

// SubmitResult reports the outcome of an accepted submission. A high
// spam score is not a failure: the comment is persisted unapproved and
// PendingModeration is true.
type SubmitResult struct {
	CommentID         string `json:"comment_id"`
	PendingModeration bool   `json:"pending_moderation"`
}

// SubmitComment admits, classifies, and persists one comment.
//
// The rate-limit action is recorded only after the insert succeeds, so
// submissions rejected by any check never count against the window. A
// submission that passes admission but fails at the store may go
// uncounted; that slightly under-throttles and is accepted.
func (s *Service) SubmitComment(ctx context.Context, actor *Identity, address, articleID, content string, parentID *string) (*SubmitResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "comments.submit")
	defer span.End()

	if strings.TrimSpace(articleID) == "" {
		return nil, NewError(KindInvalidContent, "article id is required")
	}
	if err := s.gate.Check(ctx, actor, address, content); err != nil {
		return nil, err
	}
	trimmed := strings.TrimSpace(content)

	var depth int16
	var parent *models.Comment
	if parentID != nil && *parentID != "" {
		var err error
		parent, err = s.comments.GetByID(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if parent == nil || parent.ArticleID != articleID {
			return nil, NewError(KindNotFound, "parent comment not found on this article")
		}
		depth = parent.ReplyDepth()
	}

	// Scored once at creation, never recomputed for this revision.
	score := s.classifier.Score(trimmed)
	approved := score < s.cfg.ApprovalThreshold

	now := s.now()
	comment := &models.Comment{
		ID:         uuid.NewString(),
		ArticleID:  articleID,
		AuthorID:   actor.ID,
		AuthorName: actor.Name,
		Content:    trimmed,
		IsApproved: approved,
		SpamScore:  score,
		Depth:      depth,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if parent != nil {
		comment.ParentID = sql.NullString{String: parent.ID, Valid: true}
	}

	if err := s.comments.Insert(ctx, comment); err != nil {
		return nil, err
	}

	if parent != nil {
		if err := s.comments.AddReplyCount(ctx, parent.ID, 1); err != nil {
			// The comment row exists; the aggregate is repairable via
			// cmd/recount. Do not fail the submission.
			s.logger.Warn("reply count update failed",
				zap.String("parent_id", parent.ID), zap.Error(err))
		}
	}
	if err := s.gate.RecordAction(ctx, actor, address); err != nil {
		s.logger.Warn("rate limit recording failed",
			zap.String("user_id", actor.ID), zap.Error(err))
	}

	s.logger.Info("comment submitted",
		zap.String("comment_id", comment.ID),
		zap.String("article_id", articleID),
		zap.String("author_id", actor.ID),
		zap.Float64("spam_score", score),
		zap.Bool("approved", approved))

	return &SubmitResult{CommentID: comment.ID, PendingModeration: !approved}, nil
}

// FetchThreads assembles the visible comment tree for an article.
// viewerID may be empty for anonymous readers. The filter is applied to
// roots before sorting.
func (s *Service) FetchThreads(ctx context.Context, articleID, viewerID string, mode SortMode, filter string) ([]*Thread, error) {
	ctx, span := telemetry.StartSpan(ctx, "comments.fetch_threads")
	defer span.End()

	rows, err := s.comments.ListVisible(ctx, articleID)
	if err != nil {
		return nil, err
	}

	var viewerReactions []*models.Reaction
	if viewerID != "" && len(rows) > 0 {
		ids := make([]string, len(rows))
		for i, row := range rows {
			ids[i] = row.ID
		}
		viewerReactions, err = s.reactionStore.ListForUser(ctx, viewerID, ids)
		if err != nil {
			return nil, err
		}
	}

	threads := AssembleThreads(rows, viewerReactions)
	threads = FilterThreads(threads, filter)
	SortRoots(threads, mode)
	return threads, nil
}

// React applies a like/dislike request; see ReactionCoordinator.
func (s *Service) React(ctx context.Context, actor *Identity, commentID string, requested models.ReactionType) (models.ReactionType, error) {
	ctx, span := telemetry.StartSpan(ctx, "comments.react")
	defer span.End()
	return s.reactions.React(ctx, actor, commentID, requested)
}

// Report appends an abuse report; see Reporter.
func (s *Service) Report(ctx context.Context, actor *Identity, commentID string, reason models.ReportReason, description string) error {
	ctx, span := telemetry.StartSpan(ctx, "comments.report")
	defer span.End()
	return s.reporter.Report(ctx, actor, commentID, reason, description)
}

// EditComment replaces a comment's content. Only the author may edit.
// Edited content is re-scored and approval re-derived, so an edit can
// send a previously approved comment back to the moderation queue.
func (s *Service) EditComment(ctx context.Context, actor *Identity, commentID, content string) (*SubmitResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "comments.edit")
	defer span.End()

	if actor == nil || actor.ID == "" {
		return nil, NewError(KindUnauthenticated, "sign in to edit")
	}
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, NewError(KindInvalidContent, "comment is empty")
	}
	if utf8.RuneCountInString(trimmed) > s.gate.cfg.MaxContentLength {
		return nil, NewError(KindInvalidContent, "comment too long")
	}

	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, NewError(KindNotFound, "comment not found")
	}
	if comment.AuthorID != actor.ID {
		return nil, NewError(KindForbidden, "only the author can edit a comment")
	}

	score := s.classifier.Score(trimmed)
	comment.Content = trimmed
	comment.IsEdited = true
	comment.EditCount++
	comment.SpamScore = score
	comment.IsApproved = score < s.cfg.ApprovalThreshold
	comment.UpdatedAt = s.now()

	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}
	return &SubmitResult{CommentID: comment.ID, PendingModeration: !comment.IsApproved}, nil
}

// HideComment soft-hides a comment with a moderation reason. Comments
// are never physically deleted.
func (s *Service) HideComment(ctx context.Context, commentID, reason string) error {
	return s.moderate(ctx, commentID, func(c *models.Comment) {
		c.IsHidden = true
		c.HiddenReason = sql.NullString{String: reason, Valid: reason != ""}
	})
}

// UnhideComment reverses a hide.
func (s *Service) UnhideComment(ctx context.Context, commentID string) error {
	return s.moderate(ctx, commentID, func(c *models.Comment) {
		c.IsHidden = false
		c.HiddenReason = sql.NullString{}
	})
}

// ApproveComment releases a pending comment into default reads.
func (s *Service) ApproveComment(ctx context.Context, commentID string) error {
	return s.moderate(ctx, commentID, func(c *models.Comment) {
		c.IsApproved = true
	})
}

// SetPinned pins or unpins a comment.
func (s *Service) SetPinned(ctx context.Context, commentID string, pinned bool) error {
	return s.moderate(ctx, commentID, func(c *models.Comment) {
		c.IsPinned = pinned
	})
}

func (s *Service) moderate(ctx context.Context, commentID string, mutate func(*models.Comment)) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return NewError(KindNotFound, "comment not found")
	}
	mutate(comment)
	comment.UpdatedAt = s.now()
	return s.comments.Update(ctx, comment)
}
