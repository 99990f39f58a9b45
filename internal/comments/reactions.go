package comments

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/matchday/terrace/internal/models"
	"github.com/matchday/terrace/pkg/logging"
)

// ReactionCoordinator applies one user's like/dislike intent to one
// comment, keeping the single-reaction-per-user invariant. The actual
// state transition runs inside the store so the comment's aggregates
// never drift from the reaction rows.
type ReactionCoordinator struct {
	comments  CommentStore
	reactions ReactionStore
	now       func() time.Time
	logger    *zap.Logger
}

// NewReactionCoordinator creates a reaction coordinator
func NewReactionCoordinator(comments CommentStore, reactions ReactionStore) *ReactionCoordinator {
	return &ReactionCoordinator{
		comments:  comments,
		reactions: reactions,
		now:       time.Now,
		logger:    logging.GetLogger().With(zap.String("component", "reactions")),
	}
}

// React applies a like/dislike request and returns the resulting state
// for the (actor, comment) pair: like or dislike after an insert or
// switch, none after a toggle-off.
func (rc *ReactionCoordinator) React(ctx context.Context, actor *Identity, commentID string, requested models.ReactionType) (models.ReactionType, error) {
	if actor == nil || actor.ID == "" {
		return models.ReactionNone, NewError(KindUnauthenticated, "sign in to react")
	}
	if !models.ValidReactionRequest(requested) {
		return models.ReactionNone, NewError(KindInvalidContent, "reaction must be like or dislike")
	}

	comment, err := rc.comments.GetByID(ctx, commentID)
	if err != nil {
		return models.ReactionNone, err
	}
	if comment == nil {
		return models.ReactionNone, NewError(KindNotFound, "comment not found")
	}

	state, err := rc.reactions.Transition(ctx, commentID, actor.ID, requested, rc.now())
	if err != nil {
		return models.ReactionNone, err
	}

	rc.logger.Debug("reaction applied",
		zap.String("comment_id", commentID),
		zap.String("user_id", actor.ID),
		zap.String("state", string(state)))
	return state, nil
}
