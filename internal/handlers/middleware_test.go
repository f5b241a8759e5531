package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/golfhub-2025.net/internal/adapter/crypto"
	"gitlab.com/golfhub-2025.net/internal/config"
	"gitlab.com/golfhub-2025.net/internal/domain"
)

func issueToken(t *testing.T, secret, userID string) string {
	t.Helper()
	provider := crypto.NewJWTService(&config.JwtConfig{Secret: secret})
	token, err := provider.GenerateTokenHMAC(context.Background(), jwt.SigningMethodHS256.Name, map[string]interface{}{
		"userId":     userID,
		"username":   "tester",
		"permission": []string{"golfhub.submit"},
	})
	require.NoError(t, err)
	return token
}

func TestJWTMiddlewarePassesPayload(t *testing.T) {
	provider := crypto.NewJWTService(&config.JwtConfig{Secret: "s3cret"})
	m := NewMiddlewareProvider(provider)

	var got domain.AuthPayload
	handler := m.JWTMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload, ok := AuthPayloadFromContext(r.Context())
		require.True(t, ok)
		got = payload
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, "s3cret", "u1"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "tester", got.Username)
}

func TestJWTMiddlewareRejectsMissingHeader(t *testing.T) {
	provider := crypto.NewJWTService(&config.JwtConfig{Secret: "s3cret"})
	m := NewMiddlewareProvider(provider)

	handler := m.JWTMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTMiddlewareRejectsForeignSignature(t *testing.T) {
	provider := crypto.NewJWTService(&config.JwtConfig{Secret: "s3cret"})
	m := NewMiddlewareProvider(provider)

	handler := m.JWTMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, "other-secret", "u1"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
