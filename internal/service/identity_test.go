package service_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/whatnext/backend/config"
	"github.com/pageza/whatnext/backend/internal/service"
	"github.com/pageza/whatnext/backend/internal/types"
)

func TestSupabaseVerifier(t *testing.T) {
	userID := uuid.New()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/auth/v1/user", r.URL.Path)
		assert.Equal(t, "publishable", r.Header.Get("apikey"))

		switch r.Header.Get("Authorization") {
		case "Bearer good":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":"` + userID.String() + `","email":"eater@example.com"}`))
		case "Bearer weird":
			w.Write([]byte(`{"id":"not-a-uuid"}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"msg":"invalid JWT"}`))
		}
	}))
	defer server.Close()

	verifier := service.NewSupabaseVerifier(server.URL, "publishable", server.Client())

	identity, err := verifier.Verify(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, userID, identity.UserID)
	assert.Equal(t, "good", identity.Token)

	_, err = verifier.Verify(context.Background(), "bad")
	assert.Error(t, err)

	_, err = verifier.Verify(context.Background(), "weird")
	assert.Error(t, err)
}

func TestSupabaseVerifierUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	verifier := service.NewSupabaseVerifier(url, "publishable", nil)
	_, err := verifier.Verify(context.Background(), "good")
	assert.Error(t, err)
}

func signToken(t *testing.T, secret string, claims *types.TokenClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestJWTVerifier(t *testing.T) {
	const secret = "test-jwt-secret"
	userID := uuid.New()
	verifier := service.NewJWTVerifier(secret)

	valid := signToken(t, secret, &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: "authenticated",
	})
	identity, err := verifier.Verify(context.Background(), valid)
	require.NoError(t, err)
	assert.Equal(t, userID, identity.UserID)
	assert.Equal(t, valid, identity.Token)

	tests := map[string]string{
		"expired": signToken(t, secret, &types.TokenClaims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		}}),
		"no expiry": signToken(t, secret, &types.TokenClaims{RegisteredClaims: jwt.RegisteredClaims{
			Subject: userID.String(),
		}}),
		"wrong secret": signToken(t, "other-secret", &types.TokenClaims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}),
		"subject not a uuid": signToken(t, secret, &types.TokenClaims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "service-role",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}),
		"garbage": "not.a.jwt",
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := verifier.Verify(context.Background(), token)
			assert.Error(t, err)
		})
	}
}

func TestNewIdentityVerifier(t *testing.T) {
	v, err := service.NewIdentityVerifier(config.IdentityConfig{Provider: config.ProviderSupabase, SupabaseURL: "https://x.supabase.co"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &service.SupabaseVerifier{}, v)

	v, err = service.NewIdentityVerifier(config.IdentityConfig{Provider: config.ProviderJWT, JWTSecret: "s"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &service.JWTVerifier{}, v)

	_, err = service.NewIdentityVerifier(config.IdentityConfig{Provider: "okta"}, nil)
	assert.Error(t, err)
}
