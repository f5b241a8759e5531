package accept

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gitlab.com/golfhub-2025.net/internal/core/ports/primary"
	"gitlab.com/golfhub-2025.net/internal/core/ports/secondary"
	"gitlab.com/golfhub-2025.net/internal/core/services/colors"
	"gitlab.com/golfhub-2025.net/internal/core/services/ranking"
	"gitlab.com/golfhub-2025.net/internal/domain"
	"gitlab.com/golfhub-2025.net/internal/static/errs"
	"gitlab.com/golfhub-2025.net/internal/txretry"
)

var _ IAcceptanceService = &AcceptanceService{}

// claimResult is the outcome of the claim-best transaction.
type claimResult struct {
	Updated            bool
	ContributionsDelta int
}

// AcceptanceService runs the acceptance pipeline as separate,
// independently committed transactions. Keeping them separate bounds
// each read set: the ranking recount must observe the claim's own task
// write, and the user-collection scans must not inflate the claim's
// conflict probability. A failed follow-up transaction is logged and
// does not abort its siblings.
type AcceptanceService struct {
	store   secondary.DocumentStore
	color   colors.IColorAllocatorService
	ranking ranking.IRankingService
	logger  primary.Logger
}

// NewAcceptanceService creates a new acceptance coordinator.
func NewAcceptanceService(store secondary.DocumentStore, color colors.IColorAllocatorService, rankingSvc ranking.IRankingService, logger primary.Logger) *AcceptanceService {
	return &AcceptanceService{
		store:   store,
		color:   color,
		ranking: rankingSvc,
		logger:  logger,
	}
}

// Register subscribes the coordinator to submission updates.
func (s *AcceptanceService) Register(events primary.EventSubscriber) {
	events.OnUpdate(domain.CollectionSubmissions, func(ctx context.Context, event primary.DocumentEvent) error {
		var before, after domain.Submission
		if err := json.Unmarshal(event.Before, &before); err != nil {
			return fmt.Errorf("failed to unmarshal submission %s before-image: %w", event.ID, err)
		}
		if err := json.Unmarshal(event.After, &after); err != nil {
			return fmt.Errorf("failed to unmarshal submission %s after-image: %w", event.ID, err)
		}
		return s.HandleSubmissionUpdated(ctx, event.ID, before, after)
	})
}

// HandleSubmissionUpdated acts only on the running-to-accepted edge.
// Direct pending-to-accepted or any transition to rejected never starts
// the pipeline: only executor-confirmed acceptances that went through an
// execution pass count.
func (s *AcceptanceService) HandleSubmissionUpdated(ctx context.Context, submissionID string, before, after domain.Submission) error {
	if before.Status != domain.SubmissionRunning || after.Status != domain.SubmissionAccepted {
		return nil
	}

	claim, err := s.claimBestSubmission(ctx, submissionID, after)
	if err != nil {
		return fmt.Errorf("failed to claim best submission for task %s: %w", after.Task, err)
	}
	if !claim.Updated {
		// A shorter submission raced ahead; replaying the recorded best
		// lands here too. Either way there is nothing to credit.
		s.logger.Debug("Best submission unchanged", "submissionId", submissionID, "taskId", after.Task)
		return nil
	}

	// Follow-up transactions are independent: a failure in one is an
	// operational fault in that unit of work only.
	if err := s.color.Allocate(ctx, after.User); err != nil {
		s.logger.Error("Failed to allocate color index", "userId", after.User, "error", err)
	}
	if err := s.creditContributions(ctx, after.User, claim.ContributionsDelta); err != nil {
		s.logger.Error("Failed to credit contributions", "userId", after.User, "delta", claim.ContributionsDelta, "error", err)
	}
	if err := s.ranking.Recalculate(ctx); err != nil {
		s.logger.Error("Failed to recalculate ranking", "error", err)
	}

	s.logger.Info("Best submission claimed",
		"submissionId", submissionID, "taskId", after.Task, "userId", after.User,
		"bytes", after.Size, "contributionsDelta", claim.ContributionsDelta)
	return nil
}

// claimBestSubmission re-reads the task and claims it when the accepted
// submission is strictly shorter than the recorded best. Re-reading
// before comparing is what makes replayed events no-ops: once the
// submission is the recorded best, its own size no longer beats
// task.bytes.
func (s *AcceptanceService) claimBestSubmission(ctx context.Context, submissionID string, submission domain.Submission) (claimResult, error) {
	var result claimResult
	err := txretry.Transaction(ctx, func(ctx context.Context) error {
		result = claimResult{}
		return s.store.RunTransaction(ctx, func(ctx context.Context, tx secondary.DocTx) error {
			var task domain.Task
			if err := tx.Get(ctx, domain.CollectionTasks, submission.Task, &task); err != nil {
				return err
			}

			previousScore := 0
			if task.Bytes != nil {
				previousScore = domain.ContributionScore(*task.Bytes)
			}
			if task.Bytes != nil && submission.Size >= *task.Bytes {
				return nil
			}

			now := time.Now()
			size := submission.Size
			user := submission.User
			best := submissionID
			task.BestSubmission = &best
			task.Bytes = &size
			task.Owner = &user
			task.OwnerLastChangedAt = &now
			tx.Set(domain.CollectionTasks, submission.Task, task)

			result = claimResult{
				Updated:            true,
				ContributionsDelta: domain.ContributionScore(size) - previousScore,
			}
			return nil
		})
	})
	return result, err
}

// creditContributions adds the claim delta to the submitting user's
// running total. A missing user document is a data-integrity fault:
// logged by the caller, not retried.
func (s *AcceptanceService) creditContributions(ctx context.Context, userID string, delta int) error {
	return txretry.Transaction(ctx, func(ctx context.Context) error {
		return s.store.RunTransaction(ctx, func(ctx context.Context, tx secondary.DocTx) error {
			var user domain.User
			if err := tx.Get(ctx, domain.CollectionUsers, userID, &user); err != nil {
				if errors.Is(err, errs.DocNotFound) {
					return fmt.Errorf("user %s: %w", userID, err)
				}
				return err
			}
			user.Contributions += delta
			tx.Set(domain.CollectionUsers, userID, user)
			return nil
		})
	})
}
