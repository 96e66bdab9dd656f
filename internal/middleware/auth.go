package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pageza/whatnext/backend/internal/service"
	"github.com/pageza/whatnext/backend/internal/types"
)

// Context keys set by AuthMiddleware
const (
	IdentityKey = "identity"
	UserIDKey   = "user_id"
)

// Messages returned to clients on auth failure. The verifier's own error is only logged.
const (
	MissingTokenMessage = "Missing Authorization: Bearer <token>"
	InvalidTokenMessage = "Invalid token"
)

// Authenticator is an interface for resolving an Authorization header to an identity
type Authenticator interface {
	Authenticate(ctx context.Context, header string) (*types.Identity, error)
}

// AuthMiddleware creates a middleware that rejects requests without a verified identity
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := auth.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			message := InvalidTokenMessage
			var authErr *service.AuthError
			if errors.As(err, &authErr) && authErr.Kind == service.AuthMissing {
				message = MissingTokenMessage
			}
			zerolog.Ctx(c.Request.Context()).Debug().Err(err).Msg("authentication failed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: message})
			return
		}

		// Store identity in context
		c.Set(IdentityKey, identity)
		c.Set(UserIDKey, identity.UserID.String())
		c.Next()
	}
}

// IdentityFrom returns the identity stored by AuthMiddleware
func IdentityFrom(c *gin.Context) (*types.Identity, bool) {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return nil, false
	}
	identity, ok := v.(*types.Identity)
	return identity, ok && identity != nil
}
