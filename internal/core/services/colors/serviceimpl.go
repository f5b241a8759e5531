package colors

import (
	"context"
	"encoding/json"
	"fmt"

	"gitlab.com/golfhub-2025.net/internal/core/ports/primary"
	"gitlab.com/golfhub-2025.net/internal/core/ports/secondary"
	"gitlab.com/golfhub-2025.net/internal/domain"
	"gitlab.com/golfhub-2025.net/internal/txretry"
)

var _ IColorAllocatorService = &ColorAllocatorService{}

// ColorAllocatorService implements mex color allocation. The whole user
// collection is scanned inside the transaction: two first-time owners
// allocating concurrently both read the same snapshot, and the store's
// conflict detection lets at most one commit; the loser retries.
type ColorAllocatorService struct {
	store  secondary.DocumentStore
	logger primary.Logger
}

// NewColorAllocatorService creates a new color allocator.
func NewColorAllocatorService(store secondary.DocumentStore, logger primary.Logger) *ColorAllocatorService {
	return &ColorAllocatorService{
		store:  store,
		logger: logger,
	}
}

func (s *ColorAllocatorService) Allocate(ctx context.Context, userID string) error {
	var assigned *int
	err := txretry.Transaction(ctx, func(ctx context.Context) error {
		assigned = nil
		return s.store.RunTransaction(ctx, func(ctx context.Context, tx secondary.DocTx) error {
			var user domain.User
			if err := tx.Get(ctx, domain.CollectionUsers, userID, &user); err != nil {
				return fmt.Errorf("user %s: %w", userID, err)
			}
			if user.ColorIndex != nil {
				return nil
			}

			users, err := tx.GetAll(ctx, domain.CollectionUsers)
			if err != nil {
				return fmt.Errorf("failed to scan users: %w", err)
			}

			used := make(map[int]bool, len(users))
			for _, raw := range users {
				var other struct {
					ColorIndex *int `json:"colorIndex"`
				}
				if err := json.Unmarshal(raw, &other); err != nil {
					return fmt.Errorf("failed to unmarshal user: %w", err)
				}
				if other.ColorIndex != nil {
					used[*other.ColorIndex] = true
				}
			}

			mex := 0
			for used[mex] {
				mex++
			}

			user.ColorIndex = &mex
			tx.Set(domain.CollectionUsers, userID, user)
			assigned = &mex
			return nil
		})
	})
	if err != nil {
		return err
	}
	if assigned != nil {
		s.logger.Info("Color index allocated", "userId", userID, "colorIndex", *assigned)
	}
	return nil
}
