package ranking

import (
	"context"
	"encoding/json"
	"fmt"

	"gitlab.com/golfhub-2025.net/internal/core/ports/primary"
	"gitlab.com/golfhub-2025.net/internal/core/ports/secondary"
	"gitlab.com/golfhub-2025.net/internal/domain"
	"gitlab.com/golfhub-2025.net/internal/txretry"
)

var _ IRankingService = &RankingService{}

// RankingService recomputes the shortest-submission counters from
// scratch on every ownership change. Full recomputation trades O(task
// count) work per acceptance for immunity to drift; task counts are
// small and bounded.
type RankingService struct {
	store  secondary.DocumentStore
	logger primary.Logger
}

// NewRankingService creates a new ranking recalculator.
func NewRankingService(store secondary.DocumentStore, logger primary.Logger) *RankingService {
	return &RankingService{
		store:  store,
		logger: logger,
	}
}

func (s *RankingService) Recalculate(ctx context.Context) error {
	return txretry.Transaction(ctx, func(ctx context.Context) error {
		return s.store.RunTransaction(ctx, func(ctx context.Context, tx secondary.DocTx) error {
			tasks, err := tx.GetAll(ctx, domain.CollectionTasks)
			if err != nil {
				return fmt.Errorf("failed to scan tasks: %w", err)
			}

			counts := make(map[string]int)
			for _, raw := range tasks {
				var task struct {
					Owner *string `json:"owner"`
				}
				if err := json.Unmarshal(raw, &task); err != nil {
					return fmt.Errorf("failed to unmarshal task: %w", err)
				}
				if task.Owner != nil {
					counts[*task.Owner]++
				}
			}

			users, err := tx.GetAll(ctx, domain.CollectionUsers)
			if err != nil {
				return fmt.Errorf("failed to scan users: %w", err)
			}

			// Every user gets the recomputed count, zero included, so a
			// displaced former owner does not keep a stale counter.
			for id, raw := range users {
				var user domain.User
				if err := json.Unmarshal(raw, &user); err != nil {
					return fmt.Errorf("failed to unmarshal user %s: %w", id, err)
				}
				if want := counts[id]; user.ShortestSubmissions != want {
					user.ShortestSubmissions = want
					tx.Set(domain.CollectionUsers, id, user)
				}
			}
			return nil
		})
	})
}
