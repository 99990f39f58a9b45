package api

import (
	"github.com/matchday/terrace/internal/comments"
)

// Standard JSON-RPC error codes
const (
	ErrParseError     = -32700
	ErrInvalidRequest = -32600
	ErrMethodNotFound = -32601
	ErrInvalidParams  = -32602
	ErrInternalError  = -32603
)

// Application error codes. One code per failure kind so clients can
// show the submitter a specific, actionable message.
const (
	ErrUnauthenticated  = -32001
	ErrRateLimited      = -32002
	ErrAccountTooNew    = -32003
	ErrInvalidContent   = -32004
	ErrNotFound         = -32005
	ErrForbidden        = -32006
	ErrStoreUnavailable = -32010
)

// errorCode maps a service error to a JSON-RPC code and message.
func errorCode(err error) (int, string) {
	switch comments.KindOf(err) {
	case comments.KindUnauthenticated:
		return ErrUnauthenticated, "Unauthenticated"
	case comments.KindRateLimited:
		return ErrRateLimited, "Rate limited"
	case comments.KindAccountTooNew:
		return ErrAccountTooNew, "Account too new"
	case comments.KindInvalidContent:
		return ErrInvalidContent, "Invalid content"
	case comments.KindNotFound:
		return ErrNotFound, "Not found"
	case comments.KindForbidden:
		return ErrForbidden, "Forbidden"
	case comments.KindStoreUnavailable:
		return ErrStoreUnavailable, "Store unavailable"
	}
	return ErrInternalError, "Server error"
}
