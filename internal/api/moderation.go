package api

import (
	"encoding/json"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/matchday/terrace/internal/comments"
)

// ModerationAPI exposes moderation actions. Authorization is enforced
// by the upstream gateway, which only routes moderators here.
type ModerationAPI struct {
	svc *comments.Service
}

// NewModerationAPI creates a new moderation API
func NewModerationAPI(svc *comments.Service) *ModerationAPI {
	return &ModerationAPI{svc: svc}
}

type hideParams struct {
	CommentID string `json:"comment_id"`
	Reason    string `json:"reason,omitempty"`
}

// Hide handles moderation.hide
func (a *ModerationAPI) Hide(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p hideParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}
	if err := a.svc.HideComment(c.Request.Context(), p.CommentID, p.Reason); err != nil {
		return nil, err
	}
	return gin.H{"hidden": true}, nil
}

type commentIDParams struct {
	CommentID string `json:"comment_id"`
}

// Unhide handles moderation.unhide
func (a *ModerationAPI) Unhide(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p commentIDParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}
	if err := a.svc.UnhideComment(c.Request.Context(), p.CommentID); err != nil {
		return nil, err
	}
	return gin.H{"hidden": false}, nil
}

// Approve handles moderation.approve
func (a *ModerationAPI) Approve(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p commentIDParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}
	if err := a.svc.ApproveComment(c.Request.Context(), p.CommentID); err != nil {
		return nil, err
	}
	return gin.H{"approved": true}, nil
}

type pinParams struct {
	CommentID string `json:"comment_id"`
	Pinned    bool   `json:"pinned"`
}

// SetPinned handles moderation.set_pinned
func (a *ModerationAPI) SetPinned(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p pinParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}
	if err := a.svc.SetPinned(c.Request.Context(), p.CommentID, p.Pinned); err != nil {
		return nil, err
	}
	return gin.H{"pinned": p.Pinned}, nil
}
