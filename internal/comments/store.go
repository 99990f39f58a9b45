package comments

import (
	"context"
	"time"

	"github.com/matchday/terrace/internal/models"
)

// CommentStore is the persistence boundary for comment rows. Lookups
// return (nil, nil) when no row exists; errors carry
// KindStoreUnavailable.
type CommentStore interface {
	Insert(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)

	// ListVisible returns the approved, non-hidden comments for an
	// article, newest first.
	ListVisible(ctx context.Context, articleID string) ([]*models.Comment, error)

	Update(ctx context.Context, comment *models.Comment) error

	// AddReplyCount adjusts a comment's reply aggregate atomically.
	AddReplyCount(ctx context.Context, id string, delta int64) error
}

// ReactionStore applies reaction transitions and reads a viewer's
// reactions.
type ReactionStore interface {
	// Transition applies one requested reaction for (commentID, userID)
	// atomically: it reads the current row, computes the three-way
	// transition, mutates the row, and adjusts the comment's like and
	// dislike aggregates in the same transaction. It returns the
	// resulting state.
	Transition(ctx context.Context, commentID, userID string, requested models.ReactionType, at time.Time) (models.ReactionType, error)

	// ListForUser returns the user's reactions restricted to the given
	// comment IDs.
	ListForUser(ctx context.Context, userID string, commentIDs []string) ([]*models.Reaction, error)
}

// ReportStore appends abuse reports. Insert also bumps the reported
// comment's report aggregate in the same transaction; duplicates from
// one reporter are permitted.
type ReportStore interface {
	Insert(ctx context.Context, report *models.Report) error
}
