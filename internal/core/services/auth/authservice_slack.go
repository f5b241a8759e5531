package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"

	"gitlab.com/golfhub-2025.net/internal/config"
	"gitlab.com/golfhub-2025.net/internal/core/ports/primary"
	"gitlab.com/golfhub-2025.net/internal/core/ports/secondary"
	"gitlab.com/golfhub-2025.net/internal/domain"
	"gitlab.com/golfhub-2025.net/internal/static/errs"
	"gitlab.com/golfhub-2025.net/internal/txretry"
)

var _ IAuthService = &slackAuthService{}

// slackIdentity is the subset of the Slack OpenID userInfo response the
// app needs.
type slackIdentity struct {
	Sub     string `json:"sub"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	OK      bool   `json:"ok"`
}

type slackAuthService struct {
	store       secondary.DocumentStore
	jwtProvider primary.JWTService
	logger      primary.Logger
	Config      *config.SlackAuthConfig
	oauth       *oauth2.Config
}

func NewSlackAuthService(store secondary.DocumentStore, jwtProvider primary.JWTService, logger primary.Logger, cfg *config.SlackAuthConfig) IAuthService {
	return &slackAuthService{
		store:       store,
		jwtProvider: jwtProvider,
		logger:      logger,
		Config:      cfg,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "profile"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL,
				TokenURL: cfg.TokenURL,
			},
		},
	}
}

func (s slackAuthService) ProviderName() domain.Provider {
	return domain.ProviderSlack
}

// Login exchanges the OAuth code, fetches the member's Slack identity
// and provisions the user document on first sign-in.
func (s slackAuthService) Login(ctx context.Context, req *domain.AuthRequest) (string, error) {
	if req.Code == "" {
		return "", errs.InvalidCredentials
	}

	token, err := s.oauth.Exchange(ctx, req.Code)
	if err != nil {
		return "", errs.InvalidCredentials
	}

	identity, err := s.fetchIdentity(ctx, token)
	if err != nil {
		s.logger.Error("Failed to fetch Slack identity", "error", err)
		return "", errs.InvalidCredentials
	}

	userID, user, err := s.provisionUser(ctx, identity)
	if err != nil {
		s.logger.Error("Failed to provision user", "slackId", identity.Sub, "error", err)
		return "", errs.FailedToCreateUser
	}

	return generateToken(ctx, s.jwtProvider, userID, user)
}

func (s slackAuthService) fetchIdentity(ctx context.Context, token *oauth2.Token) (*slackIdentity, error) {
	client := s.oauth.Client(ctx, token)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.Config.UserInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}

	var identity slackIdentity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return nil, err
	}
	if identity.Sub == "" {
		return nil, fmt.Errorf("userinfo returned no subject")
	}
	return &identity, nil
}

// provisionUser finds the user by slack id or creates it. The lookup
// and the create share one transaction so two concurrent first sign-ins
// of the same member cannot both create a document.
func (s slackAuthService) provisionUser(ctx context.Context, identity *slackIdentity) (string, *domain.User, error) {
	var userID string
	var user domain.User

	err := txretry.Transaction(ctx, func(ctx context.Context) error {
		return s.store.RunTransaction(ctx, func(ctx context.Context, tx secondary.DocTx) error {
			users, err := tx.GetAll(ctx, domain.CollectionUsers)
			if err != nil {
				return fmt.Errorf("failed to scan users: %w", err)
			}
			for id, raw := range users {
				var existing domain.User
				if err := json.Unmarshal(raw, &existing); err != nil {
					return fmt.Errorf("failed to unmarshal user %s: %w", id, err)
				}
				if existing.SlackID == identity.Sub {
					userID = id
					user = existing
					return nil
				}
			}

			userID = newUserID()
			user = domain.User{
				DisplayName:  identity.Name,
				PhotoURL:     identity.Picture,
				Slug:         userID,
				SlackID:      identity.Sub,
				Acknowledged: true,
				AuthProvider: string(domain.ProviderSlack),
			}
			tx.Set(domain.CollectionUsers, userID, user)
			return nil
		})
	})
	if err != nil {
		return "", nil, err
	}
	return userID, &user, nil
}
