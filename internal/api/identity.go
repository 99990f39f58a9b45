package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/matchday/terrace/internal/comments"
)

// Identity headers set by the upstream auth gateway. Authentication
// itself is outside this service; we only translate the gateway's
// verdict into an explicit Identity.
const (
	headerAuthUser    = "X-Auth-User"
	headerAuthName    = "X-Auth-User-Name"
	headerAuthCreated = "X-Auth-Account-Created"
)

const identityKey = "terrace.identity"

// IdentityMiddleware resolves the acting user from gateway headers and
// stores it in the request context. Requests without the headers pass
// through anonymous; each operation decides whether it requires auth.
//
// A user header without a parsable created-at is also treated as
// anonymous: a zero creation time would read as an arbitrarily old
// account and let the age floor fail open.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(headerAuthUser)
		if userID == "" {
			c.Next()
			return
		}
		created, err := time.Parse(time.RFC3339, c.GetHeader(headerAuthCreated))
		if err != nil {
			c.Next()
			return
		}
		c.Set(identityKey, &comments.Identity{
			ID:               userID,
			Name:             c.GetHeader(headerAuthName),
			AccountCreatedAt: created,
		})
		c.Next()
	}
}

// currentIdentity returns the request's identity, nil when anonymous.
func currentIdentity(c *gin.Context) *comments.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, _ := v.(*comments.Identity)
	return identity
}
