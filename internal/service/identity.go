package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pageza/whatnext/backend/config"
	"github.com/pageza/whatnext/backend/internal/types"
)

// IdentityVerifier resolves a bearer token to the user it was issued for
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (*types.Identity, error)
}

// NewIdentityVerifier builds the verifier selected by IDENTITY_PROVIDER
func NewIdentityVerifier(cfg config.IdentityConfig, client *http.Client) (IdentityVerifier, error) {
	switch cfg.Provider {
	case config.ProviderSupabase, "":
		return NewSupabaseVerifier(cfg.SupabaseURL, cfg.PublishableKey, client), nil
	case config.ProviderJWT:
		return NewJWTVerifier(cfg.JWTSecret), nil
	default:
		return nil, fmt.Errorf("unsupported identity provider %q", cfg.Provider)
	}
}

// SupabaseVerifier asks the Supabase auth API who a token belongs to
type SupabaseVerifier struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewSupabaseVerifier creates a verifier against the project at baseURL
func NewSupabaseVerifier(baseURL, apiKey string, client *http.Client) *SupabaseVerifier {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &SupabaseVerifier{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  client,
	}
}

// Verify calls GET /auth/v1/user with the caller's token
func (v *SupabaseVerifier) Verify(ctx context.Context, token string) (*types.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", v.apiKey)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("identity service returned status %d: %s", resp.StatusCode, string(body))
	}

	var user struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}

	userID, err := uuid.Parse(user.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", user.ID, err)
	}
	return &types.Identity{UserID: userID, Token: token}, nil
}

// JWTVerifier validates HS256 access tokens locally with the project's JWT secret
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier creates a verifier for tokens signed with secret
func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

// Verify checks the signature and expiry and reads the user id from the subject claim
func (v *JWTVerifier) Verify(_ context.Context, tokenString string) (*types.Identity, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("invalid subject: %w", err)
	}
	return &types.Identity{UserID: userID, Token: tokenString}, nil
}
