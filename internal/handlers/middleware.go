package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"gitlab.com/golfhub-2025.net/internal/core/ports/primary"
	"gitlab.com/golfhub-2025.net/internal/domain"
)

type contextKey string

const authPayloadKey contextKey = "authPayload"

type MiddlewareProvider struct {
	jwtProvider primary.JWTService
}

func NewMiddlewareProvider(jwtProvider primary.JWTService) *MiddlewareProvider {
	return &MiddlewareProvider{jwtProvider: jwtProvider}
}

// JWTMiddleware verifies the bearer token and stores the decoded auth
// payload on the request context.
func (m *MiddlewareProvider) JWTMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header missing", http.StatusUnauthorized)
			return
		}

		// Extract token from "Bearer <token>"
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		valid, err := m.jwtProvider.VerifyTokenHMAC(r.Context(), tokenString, jwt.SigningMethodHS256.Name)
		if err != nil || !valid {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		payload, err := m.jwtProvider.DecodeTokenPayload(r.Context(), tokenString)
		if err != nil || payload.UserID == "" {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), authPayloadKey, payload)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AuthPayloadFromContext returns the payload stored by JWTMiddleware.
func AuthPayloadFromContext(ctx context.Context) (domain.AuthPayload, bool) {
	payload, ok := ctx.Value(authPayloadKey).(domain.AuthPayload)
	return payload, ok
}
