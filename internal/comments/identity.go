package comments

import (
	"time"
)

// Identity is the authenticated actor, resolved by the external auth
// capability and passed explicitly to every entry point. A nil Identity
// means the caller is not authenticated.
type Identity struct {
	ID               string
	Name             string
	AccountCreatedAt time.Time
}
