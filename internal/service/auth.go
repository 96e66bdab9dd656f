package service

import (
	"context"
	"strings"

	"github.com/pageza/whatnext/backend/internal/types"
)

const bearerPrefix = "Bearer "

// AuthGate turns an Authorization header into a verified identity
type AuthGate struct {
	verifier IdentityVerifier
}

// NewAuthGate creates a new AuthGate instance
func NewAuthGate(verifier IdentityVerifier) *AuthGate {
	return &AuthGate{verifier: verifier}
}

// BearerToken extracts the token from a "Bearer <token>" header value
func BearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		return "", false
	}
	return token, true
}

// Authenticate verifies the header on every call. A malformed header never reaches the verifier.
func (g *AuthGate) Authenticate(ctx context.Context, header string) (*types.Identity, error) {
	token, ok := BearerToken(header)
	if !ok {
		return nil, &AuthError{Kind: AuthMissing}
	}

	identity, err := g.verifier.Verify(ctx, token)
	if err != nil {
		return nil, &AuthError{Kind: AuthInvalid, Err: err}
	}
	if identity == nil {
		return nil, &AuthError{Kind: AuthInvalid}
	}
	return identity, nil
}
