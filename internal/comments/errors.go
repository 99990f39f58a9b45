package comments

import (
	"errors"
	"fmt"
)

// Kind classifies a comment-subsystem failure. Each kind maps to a
// distinct user-visible message; conflating them loses actionable
// information for the submitter.
type Kind int

// Error kinds
const (
	KindUnknown Kind = iota
	KindUnauthenticated
	KindRateLimited
	KindAccountTooNew
	KindInvalidContent
	KindNotFound
	KindForbidden
	KindStoreUnavailable
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindRateLimited:
		return "rate_limited"
	case KindAccountTooNew:
		return "account_too_new"
	case KindInvalidContent:
		return "invalid_content"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindStoreUnavailable:
		return "store_unavailable"
	}
	return "unknown"
}

// Error is a typed comment-subsystem error
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// NewError creates a new error of the given kind
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError wraps an underlying error with a kind
func WrapError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the kind from err, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
