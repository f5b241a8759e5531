package auth

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/golang-jwt/jwt/v5"

	"gitlab.com/golfhub-2025.net/internal/core/ports/primary"
	"gitlab.com/golfhub-2025.net/internal/domain"
	"gitlab.com/golfhub-2025.net/internal/static/errs"
)

type IAuthService interface {
	ProviderName() domain.Provider
	Login(ctx context.Context, req *domain.AuthRequest) (string, error)
}

// generateToken issues the session token for a provisioned user.
func generateToken(ctx context.Context, jwtProvider primary.JWTService, userID string, user *domain.User) (string, error) {
	authPayload := domain.AuthPayload{
		UserID:     userID,
		Username:   user.DisplayName,
		Permission: []string{"golfhub.submit"},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(authPayload); err != nil {
		return "", errs.InternalError
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		return "", errs.InternalError
	}
	token, err := jwtProvider.GenerateTokenHMAC(ctx, jwt.SigningMethodHS256.Name, payload)
	if err != nil {
		return "", errs.GeneratingToken
	}
	return token, nil
}
