package models

import (
	"time"
)

// RateLimitAction records one admission-gated action for sliding-window
// rate limiting. Rows outside the window are dead weight and can be
// purged (see cmd/recount).
type RateLimitAction struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	UserID    string    `gorm:"type:varchar(64);not null;index:terrace_rate_actions_ix,priority:1;column:user_id"`
	Address   string    `gorm:"type:varchar(45);not null;index:terrace_rate_actions_ix,priority:2;column:address"`
	Action    string    `gorm:"type:varchar(20);not null;index:terrace_rate_actions_ix,priority:3;column:action"`
	CreatedAt time.Time `gorm:"not null;index:terrace_rate_actions_ix,priority:4;column:created_at"`
}

// TableName specifies the table name for RateLimitAction
func (RateLimitAction) TableName() string {
	return "terrace_rate_limit_actions"
}
