package api

import (
	"encoding/json"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/matchday/terrace/internal/comments"
	"github.com/matchday/terrace/internal/models"
)

// CommentAPI exposes the comment subsystem over JSON-RPC.
type CommentAPI struct {
	svc *comments.Service
}

// NewCommentAPI creates a new comment API
func NewCommentAPI(svc *comments.Service) *CommentAPI {
	return &CommentAPI{svc: svc}
}

type submitParams struct {
	ArticleID string  `json:"article_id"`
	Content   string  `json:"content"`
	ParentID  *string `json:"parent_id,omitempty"`
}

// Submit handles comments.submit
func (a *CommentAPI) Submit(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p submitParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	result, err := a.svc.SubmitComment(c.Request.Context(), currentIdentity(c), c.ClientIP(), p.ArticleID, p.Content, p.ParentID)
	if err != nil {
		return nil, err
	}
	return gin.H{
		"accepted":           true,
		"comment_id":         result.CommentID,
		"pending_moderation": result.PendingModeration,
	}, nil
}

type getThreadsParams struct {
	ArticleID string `json:"article_id"`
	Sort      string `json:"sort,omitempty"`
	Filter    string `json:"filter,omitempty"`
}

// GetThreads handles comments.get_threads
func (a *CommentAPI) GetThreads(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p getThreadsParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}
	mode, ok := comments.ParseSortMode(p.Sort)
	if !ok {
		return nil, comments.NewError(comments.KindInvalidContent, "unknown sort mode")
	}

	viewerID := ""
	if identity := currentIdentity(c); identity != nil {
		viewerID = identity.ID
	}

	threads, err := a.svc.FetchThreads(c.Request.Context(), p.ArticleID, viewerID, mode, p.Filter)
	if err != nil {
		return nil, err
	}
	return threads, nil
}

type reactParams struct {
	CommentID string `json:"comment_id"`
	Type      string `json:"type"`
}

// React handles comments.react
func (a *CommentAPI) React(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p reactParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	state, err := a.svc.React(c.Request.Context(), currentIdentity(c), p.CommentID, models.ReactionType(p.Type))
	if err != nil {
		return nil, err
	}
	// "none" is explicit so clients can clear highlight state.
	label := string(state)
	if state == models.ReactionNone {
		label = "none"
	}
	return gin.H{"reaction_state": label}, nil
}

type reportParams struct {
	CommentID   string `json:"comment_id"`
	Reason      string `json:"reason"`
	Description string `json:"description,omitempty"`
}

// Report handles comments.report
func (a *CommentAPI) Report(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p reportParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	err := a.svc.Report(c.Request.Context(), currentIdentity(c), p.CommentID, models.ReportReason(p.Reason), p.Description)
	if err != nil {
		return nil, err
	}
	return gin.H{"accepted": true}, nil
}

type editParams struct {
	CommentID string `json:"comment_id"`
	Content   string `json:"content"`
}

// Edit handles comments.edit
func (a *CommentAPI) Edit(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p editParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	result, err := a.svc.EditComment(c.Request.Context(), currentIdentity(c), p.CommentID, p.Content)
	if err != nil {
		return nil, err
	}
	return gin.H{
		"accepted":           true,
		"comment_id":         result.CommentID,
		"pending_moderation": result.PendingModeration,
	}, nil
}
