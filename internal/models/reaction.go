package models

import (
	"time"
)

// ReactionType is a user's stance on a comment.
type ReactionType string

// Reaction type constants. ReactionNone is never stored; it is the
// absence of a row.
const (
	ReactionNone    ReactionType = ""
	ReactionLike    ReactionType = "like"
	ReactionDislike ReactionType = "dislike"
)

// ValidReactionRequest reports whether t can be requested by a caller.
func ValidReactionRequest(t ReactionType) bool {
	return t == ReactionLike || t == ReactionDislike
}

// Reaction represents one user's reaction to one comment. The composite
// primary key enforces at most one row per (comment, user) pair.
type Reaction struct {
	CommentID string       `gorm:"type:varchar(36);primaryKey;column:comment_id"`
	UserID    string       `gorm:"type:varchar(64);primaryKey;column:user_id"`
	Type      ReactionType `gorm:"type:varchar(8);not null;column:type"`
	CreatedAt time.Time    `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for Reaction
func (Reaction) TableName() string {
	return "terrace_reactions"
}

// ReactionTransition describes the row change and aggregate deltas a
// requested reaction produces from a current state.
type ReactionTransition struct {
	Next          ReactionType
	LikesDelta    int64
	DislikesDelta int64
}

// TransitionReaction computes the three-way state change for a reaction
// request: same type toggles off, a different type switches, and from
// none a row is created. requested must be like or dislike.
func TransitionReaction(current, requested ReactionType) ReactionTransition {
	if current == requested {
		// Toggle off.
		return ReactionTransition{
			Next:          ReactionNone,
			LikesDelta:    -likeWeight(current),
			DislikesDelta: -dislikeWeight(current),
		}
	}
	return ReactionTransition{
		Next:          requested,
		LikesDelta:    likeWeight(requested) - likeWeight(current),
		DislikesDelta: dislikeWeight(requested) - dislikeWeight(current),
	}
}

func likeWeight(t ReactionType) int64 {
	if t == ReactionLike {
		return 1
	}
	return 0
}

func dislikeWeight(t ReactionType) int64 {
	if t == ReactionDislike {
		return 1
	}
	return 0
}
