package gate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gitlab.com/golfhub-2025.net/internal/core/ports/primary"
	"gitlab.com/golfhub-2025.net/internal/core/ports/secondary"
	"gitlab.com/golfhub-2025.net/internal/domain"
	"gitlab.com/golfhub-2025.net/internal/static/errs"
	"gitlab.com/golfhub-2025.net/internal/txretry"
)

var _ ISizeGateService = &SizeGateService{}

// SizeGateService validates a new submission's byte length against the
// task's current best before any execution is dispatched.
type SizeGateService struct {
	store      secondary.DocumentStore
	dispatcher secondary.ExecutionDispatcher
	logger     primary.Logger
}

// NewSizeGateService creates a new size gate.
func NewSizeGateService(store secondary.DocumentStore, dispatcher secondary.ExecutionDispatcher, logger primary.Logger) *SizeGateService {
	return &SizeGateService{
		store:      store,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Register subscribes the gate to submission creations.
func (s *SizeGateService) Register(events primary.EventSubscriber) {
	events.OnCreate(domain.CollectionSubmissions, func(ctx context.Context, event primary.DocumentEvent) error {
		var submission domain.Submission
		if err := json.Unmarshal(event.After, &submission); err != nil {
			return fmt.Errorf("failed to unmarshal submission %s: %w", event.ID, err)
		}
		return s.HandleSubmissionCreated(ctx, event.ID, submission)
	})
}

// HandleSubmissionCreated applies the gate. A missing task or task-data
// document is a data-integrity fault: the submission is left untouched
// and the condition reported as an error for the trigger boundary to
// log.
func (s *SizeGateService) HandleSubmissionCreated(ctx context.Context, submissionID string, submission domain.Submission) error {
	var task domain.Task
	if err := s.store.Get(ctx, domain.CollectionTasks, submission.Task, &task); err != nil {
		return fmt.Errorf("task %s referenced by submission %s: %w", submission.Task, submissionID, err)
	}
	var taskData domain.TaskData
	if err := s.store.Get(ctx, domain.CollectionTaskData, submission.Task, &taskData); err != nil {
		return fmt.Errorf("task data %s referenced by submission %s: %w", submission.Task, submissionID, err)
	}

	if task.Bytes != nil && submission.Size >= *task.Bytes {
		return s.rejectOversized(ctx, submissionID, submission.Size, *task.Bytes)
	}

	if err := s.dispatcher.Enqueue(ctx, secondary.DispatchRequest{
		TaskID:       submission.Task,
		SubmissionID: submissionID,
	}); err != nil {
		return fmt.Errorf("failed to dispatch submission %s: %w", submissionID, err)
	}

	s.logger.Info("Submission admitted", "submissionId", submissionID, "taskId", submission.Task, "size", submission.Size)
	return nil
}

// rejectOversized terminally rejects the submission with a synthetic
// single-entry result set. Ties are rejected: only strictly shorter
// code is admitted.
func (s *SizeGateService) rejectOversized(ctx context.Context, submissionID string, size, best int) error {
	message := fmt.Sprintf("submission of %d bytes is not shorter than the current best of %d bytes", size, best)

	err := txretry.Transaction(ctx, func(ctx context.Context) error {
		return s.store.RunTransaction(ctx, func(ctx context.Context, tx secondary.DocTx) error {
			var current domain.Submission
			if err := tx.Get(ctx, domain.CollectionSubmissions, submissionID, &current); err != nil {
				return err
			}
			if current.Status.Terminal() {
				// Replayed creation event; the rejection already landed.
				return nil
			}

			now := time.Now()
			current.Status = domain.SubmissionRejected
			current.ExecutedAt = &now
			current.Results = []domain.SubmissionTestcase{{
				TestCaseID:    domain.ValidationTestCaseID,
				Status:        domain.SubmissionRejected,
				ErrorMessage:  &message,
				Contributions: 0,
			}}
			tx.Set(domain.CollectionSubmissions, submissionID, current)
			return nil
		})
	})
	if err != nil {
		if errors.Is(err, errs.DocNotFound) {
			return fmt.Errorf("submission %s vanished before rejection: %w", submissionID, err)
		}
		return fmt.Errorf("failed to reject submission %s: %w", submissionID, err)
	}

	s.logger.Info("Submission rejected by size gate", "submissionId", submissionID, "size", size, "best", best)
	return nil
}
