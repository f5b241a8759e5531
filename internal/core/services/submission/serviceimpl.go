package submission

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"gitlab.com/golfhub-2025.net/internal/core/ports/primary"
	"gitlab.com/golfhub-2025.net/internal/core/ports/secondary"
	"gitlab.com/golfhub-2025.net/internal/domain"
	"gitlab.com/golfhub-2025.net/internal/static/errs"
	"gitlab.com/golfhub-2025.net/internal/txretry"
)

var _ ISubmissionService = &SubmissionService{}

// SubmissionService implements the submission document lifecycle.
type SubmissionService struct {
	store  secondary.DocumentStore
	logger primary.Logger
}

// NewSubmissionService creates a new submission service.
func NewSubmissionService(store secondary.DocumentStore, logger primary.Logger) *SubmissionService {
	return &SubmissionService{
		store:  store,
		logger: logger,
	}
}

func (s *SubmissionService) Create(ctx context.Context, userID, taskID, code string) (string, error) {
	submission := domain.NewSubmission(userID, taskID, code)
	id := uuid.New().String()
	if err := s.store.Create(ctx, domain.CollectionSubmissions, id, submission); err != nil {
		return "", fmt.Errorf("failed to create submission: %w", err)
	}
	s.logger.Info("Submission created", "submissionId", id, "taskId", taskID, "userId", userID, "size", submission.Size)
	return id, nil
}

func (s *SubmissionService) Get(ctx context.Context, submissionID string) (*View, error) {
	var submission domain.Submission
	if err := s.store.Get(ctx, domain.CollectionSubmissions, submissionID, &submission); err != nil {
		return nil, err
	}
	return &View{ID: submissionID, Submission: submission}, nil
}

func (s *SubmissionService) ListByTask(ctx context.Context, taskID string, limit int) ([]View, error) {
	raw, err := s.store.GetAll(ctx, domain.CollectionSubmissions)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	views := make([]View, 0, len(raw))
	for id, data := range raw {
		var submission domain.Submission
		if err := json.Unmarshal(data, &submission); err != nil {
			return nil, fmt.Errorf("failed to unmarshal submission %s: %w", id, err)
		}
		if taskID != "" && submission.Task != taskID {
			continue
		}
		views = append(views, View{ID: id, Submission: submission})
	}

	sort.Slice(views, func(i, j int) bool {
		return views[i].CreatedAt.After(views[j].CreatedAt)
	})
	if limit > 0 && len(views) > limit {
		views = views[:limit]
	}
	return views, nil
}

func (s *SubmissionService) ReportStarted(ctx context.Context, submissionID string) error {
	return txretry.Transaction(ctx, func(ctx context.Context) error {
		return s.store.RunTransaction(ctx, func(ctx context.Context, tx secondary.DocTx) error {
			var submission domain.Submission
			if err := tx.Get(ctx, domain.CollectionSubmissions, submissionID, &submission); err != nil {
				return err
			}
			if submission.Status.Terminal() {
				return fmt.Errorf("submission %s: %w", submissionID, errs.TerminalImmutable)
			}
			if submission.Status != domain.SubmissionPending {
				// Already running; a replayed start report is a no-op.
				return nil
			}
			submission.Status = domain.SubmissionRunning
			tx.Set(domain.CollectionSubmissions, submissionID, submission)
			return nil
		})
	})
}

func (s *SubmissionService) ReportCompleted(ctx context.Context, submissionID string, status domain.SubmissionStatus, results []domain.SubmissionTestcase) error {
	if !status.Terminal() {
		return fmt.Errorf("status %q is not terminal", status)
	}
	return txretry.Transaction(ctx, func(ctx context.Context) error {
		return s.store.RunTransaction(ctx, func(ctx context.Context, tx secondary.DocTx) error {
			var submission domain.Submission
			if err := tx.Get(ctx, domain.CollectionSubmissions, submissionID, &submission); err != nil {
				return err
			}
			if submission.Status.Terminal() {
				return fmt.Errorf("submission %s: %w", submissionID, errs.TerminalImmutable)
			}

			now := time.Now()
			submission.Status = status
			submission.ExecutedAt = &now
			if results == nil {
				results = []domain.SubmissionTestcase{}
			}
			submission.Results = results
			tx.Set(domain.CollectionSubmissions, submissionID, submission)
			return nil
		})
	})
}
