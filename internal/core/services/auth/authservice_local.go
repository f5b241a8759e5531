package auth

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"gitlab.com/golfhub-2025.net/internal/core/ports/primary"
	"gitlab.com/golfhub-2025.net/internal/core/ports/secondary"
	"gitlab.com/golfhub-2025.net/internal/domain"
	"gitlab.com/golfhub-2025.net/internal/static/errs"
)

var _ IAuthService = &localAuthService{}

type localAuthService struct {
	store       secondary.DocumentStore
	jwtProvider primary.JWTService
}

func NewLocalAuthService(store secondary.DocumentStore, jwtProvider primary.JWTService) IAuthService {
	return &localAuthService{
		store:       store,
		jwtProvider: jwtProvider,
	}
}

func (g localAuthService) ProviderName() domain.Provider {
	return domain.ProviderLocal
}

func (g localAuthService) Login(ctx context.Context, req *domain.AuthRequest) (string, error) {
	if req.UserName == "" || req.Password == "" {
		return "", errs.InvalidCredentials
	}

	userID, user, err := g.findByUserName(ctx, req.UserName)
	if err != nil {
		return "", errs.InvalidCredentials
	}
	if user.PasswordHash == nil {
		return "", errs.InvalidCredentials
	}
	valid, err := g.jwtProvider.VerifyPassword(ctx, *user.PasswordHash, req.Password)
	if err != nil || !valid {
		return "", errs.InvalidCredentials
	}

	return generateToken(ctx, g.jwtProvider, userID, user)
}

func (g localAuthService) findByUserName(ctx context.Context, userName string) (string, *domain.User, error) {
	users, err := g.store.GetAll(ctx, domain.CollectionUsers)
	if err != nil {
		return "", nil, fmt.Errorf("failed to scan users: %w", err)
	}
	for id, raw := range users {
		var user domain.User
		if err := json.Unmarshal(raw, &user); err != nil {
			return "", nil, fmt.Errorf("failed to unmarshal user %s: %w", id, err)
		}
		if user.UserName == userName {
			return id, &user, nil
		}
	}
	return "", nil, fmt.Errorf("user %s: %w", userName, errs.DocNotFound)
}

func newUserID() string {
	return uuid.New().String()
}
