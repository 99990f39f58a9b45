package models

import (
	"database/sql"
	"time"
)

// MaxCommentDepth caps reply nesting. Replies below this level are
// reparented at the cap rather than rejected.
const MaxCommentDepth int16 = 3

// Comment represents one unit of user text attached to an article.
type Comment struct {
	ID         string         `gorm:"type:varchar(36);primaryKey;column:id"`
	ArticleID  string         `gorm:"type:varchar(64);not null;index:terrace_comments_article_ix;column:article_id"`
	AuthorID   string         `gorm:"type:varchar(64);not null;column:author_id"`
	AuthorName string         `gorm:"type:varchar(64);not null;default:'';column:author_name"`
	ParentID   sql.NullString `gorm:"type:varchar(36);index:terrace_comments_parent_ix;column:parent_id"`
	Content    string         `gorm:"type:varchar(2000);not null;column:content"`

	// Visibility. is_approved is derived from the spam score at creation
	// (and re-derived on edit); is_hidden is a later moderation action.
	// The two are independent.
	IsApproved   bool           `gorm:"not null;default:true;column:is_approved"`
	IsHidden     bool           `gorm:"not null;default:false;column:is_hidden"`
	HiddenReason sql.NullString `gorm:"type:varchar(200);column:hidden_reason"`
	IsPinned     bool           `gorm:"not null;default:false;column:is_pinned"`

	IsEdited  bool    `gorm:"not null;default:false;column:is_edited"`
	EditCount int     `gorm:"not null;default:0;column:edit_count"`
	SpamScore float64 `gorm:"type:float;not null;default:0;column:spam_score"`

	// Aggregates, maintained by the store alongside the rows they count.
	LikesCount    int64 `gorm:"not null;default:0;column:likes_count"`
	DislikesCount int64 `gorm:"not null;default:0;column:dislikes_count"`
	ReportsCount  int64 `gorm:"not null;default:0;column:reports_count"`
	ReplyCount    int64 `gorm:"not null;default:0;column:reply_count"`

	Depth     int16     `gorm:"type:smallint;not null;default:0;column:depth"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`
	UpdatedAt time.Time `gorm:"not null;column:updated_at"`

	// Relationships
	Parent   *Comment  `gorm:"foreignKey:ParentID;references:ID"`
	Children []Comment `gorm:"foreignKey:ParentID;references:ID"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "terrace_comments"
}

// ReplyDepth returns the depth a reply to this comment gets.
func (c *Comment) ReplyDepth() int16 {
	if c.Depth+1 > MaxCommentDepth {
		return MaxCommentDepth
	}
	return c.Depth + 1
}
