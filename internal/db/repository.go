package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/matchday/terrace/internal/comments"
	"github.com/matchday/terrace/internal/models"
	"github.com/matchday/terrace/internal/ratelimit"
)

// Repository provides database access methods
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func storeErr(message string, err error) error {
	return comments.WrapError(comments.KindStoreUnavailable, message, err)
}

// CommentRepository implements comments.CommentStore on Postgres.
type CommentRepository struct {
	*Repository
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(repo *Repository) *CommentRepository {
	return &CommentRepository{Repository: repo}
}

// Insert creates a new comment row
func (r *CommentRepository) Insert(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return storeErr("insert comment", err)
	}
	return nil
}

// GetByID retrieves a comment by ID, (nil, nil) when missing
func (r *CommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storeErr("get comment", err)
	}
	return &comment, nil
}

// ListVisible retrieves the approved, non-hidden comments for an
// article, newest first.
func (r *CommentRepository) ListVisible(ctx context.Context, articleID string) ([]*models.Comment, error) {
	var rows []*models.Comment
	if err := r.db.WithContext(ctx).
		Where("article_id = ? AND is_approved AND NOT is_hidden", articleID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, storeErr("list comments", err)
	}
	return rows, nil
}

// Update saves a comment row
func (r *CommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Save(comment).Error; err != nil {
		return storeErr("update comment", err)
	}
	return nil
}

// AddReplyCount adjusts the reply aggregate atomically
func (r *CommentRepository) AddReplyCount(ctx context.Context, id string, delta int64) error {
	if err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("id = ?", id).
		UpdateColumn("reply_count", gorm.Expr("reply_count + ?", delta)).Error; err != nil {
		return storeErr("update reply count", err)
	}
	return nil
}

// ReactionRepository implements comments.ReactionStore on Postgres.
type ReactionRepository struct {
	*Repository
}

// NewReactionRepository creates a new reaction repository
func NewReactionRepository(repo *Repository) *ReactionRepository {
	return &ReactionRepository{Repository: repo}
}

// Transition applies one reaction request inside a transaction. The
// current row is read under a row lock, so concurrent requests from the
// same user serialize, and the like/dislike aggregates are adjusted in
// the same transaction so they always equal the true row counts.
func (r *ReactionRepository) Transition(ctx context.Context, commentID, userID string, requested models.ReactionType, at time.Time) (models.ReactionType, error) {
	var next models.ReactionType
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current := models.ReactionNone
		var existing models.Reaction
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("comment_id = ? AND user_id = ?", commentID, userID).
			First(&existing).Error
		switch {
		case err == nil:
			current = existing.Type
		case errors.Is(err, gorm.ErrRecordNotFound):
			// No existing reaction.
		default:
			return err
		}

		tr := models.TransitionReaction(current, requested)
		next = tr.Next

		switch {
		case tr.Next == models.ReactionNone:
			if err := tx.Where("comment_id = ? AND user_id = ?", commentID, userID).
				Delete(&models.Reaction{}).Error; err != nil {
				return err
			}
		case current == models.ReactionNone:
			row := models.Reaction{
				CommentID: commentID,
				UserID:    userID,
				Type:      tr.Next,
				CreatedAt: at,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		default:
			if err := tx.Model(&models.Reaction{}).
				Where("comment_id = ? AND user_id = ?", commentID, userID).
				Updates(map[string]interface{}{"type": tr.Next, "created_at": at}).Error; err != nil {
				return err
			}
		}

		if tr.LikesDelta != 0 || tr.DislikesDelta != 0 {
			if err := tx.Model(&models.Comment{}).
				Where("id = ?", commentID).
				UpdateColumns(map[string]interface{}{
					"likes_count":    gorm.Expr("likes_count + ?", tr.LikesDelta),
					"dislikes_count": gorm.Expr("dislikes_count + ?", tr.DislikesDelta),
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.ReactionNone, storeErr("reaction transition", err)
	}
	return next, nil
}

// ListForUser retrieves a user's reactions restricted to a comment set
func (r *ReactionRepository) ListForUser(ctx context.Context, userID string, commentIDs []string) ([]*models.Reaction, error) {
	if len(commentIDs) == 0 {
		return nil, nil
	}
	var rows []*models.Reaction
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND comment_id IN ?", userID, commentIDs).
		Find(&rows).Error; err != nil {
		return nil, storeErr("list reactions", err)
	}
	return rows, nil
}

// ReportRepository implements comments.ReportStore on Postgres.
type ReportRepository struct {
	*Repository
}

// NewReportRepository creates a new report repository
func NewReportRepository(repo *Repository) *ReportRepository {
	return &ReportRepository{Repository: repo}
}

// Insert appends a report row and bumps the comment's report aggregate
// in the same transaction. Duplicate reports from one reporter are
// permitted by design.
func (r *ReportRepository) Insert(ctx context.Context, report *models.Report) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(report).Error; err != nil {
			return err
		}
		return tx.Model(&models.Comment{}).
			Where("id = ?", report.CommentID).
			UpdateColumn("reports_count", gorm.Expr("reports_count + ?", 1)).Error
	})
	if err != nil {
		return storeErr("insert report", err)
	}
	return nil
}

// RateLimitRepository implements ratelimit.Limiter on Postgres.
type RateLimitRepository struct {
	*Repository
	window time.Duration
}

// NewRateLimitRepository creates a Postgres-backed limiter over the
// given trailing window.
func NewRateLimitRepository(repo *Repository, window time.Duration) *RateLimitRepository {
	return &RateLimitRepository{Repository: repo, window: window}
}

// Count returns the actions recorded for key within the trailing
// window. The advisory lock serializes concurrent Count calls for the
// same key; it is released at commit and does not span the later
// Record, so under record-after-success two submissions racing at the
// limit can both pass the check.
func (r *RateLimitRepository) Count(ctx context.Context, key ratelimit.Key, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key.String()).Error; err != nil {
			return err
		}
		return tx.Model(&models.RateLimitAction{}).
			Where("user_id = ? AND address = ? AND action = ? AND created_at > ?",
				key.UserID, key.Address, key.Action, now.Add(-r.window)).
			Count(&count).Error
	})
	if err != nil {
		return 0, storeErr("rate limit count", err)
	}
	return count, nil
}

// Record appends one action row for key
func (r *RateLimitRepository) Record(ctx context.Context, key ratelimit.Key, at time.Time) error {
	row := models.RateLimitAction{
		UserID:    key.UserID,
		Address:   key.Address,
		Action:    key.Action,
		CreatedAt: at,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return storeErr("rate limit record", err)
	}
	return nil
}

// PurgeExpired deletes rate-limit rows older than the window. Used by
// cmd/recount for housekeeping.
func (r *RateLimitRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("created_at <= ?", now.Add(-r.window)).
		Delete(&models.RateLimitAction{})
	if res.Error != nil {
		return 0, storeErr("rate limit purge", res.Error)
	}
	return res.RowsAffected, nil
}
