package submission

import (
	"context"

	"gitlab.com/golfhub-2025.net/internal/domain"
)

// View pairs a submission with its document id for read endpoints.
type View struct {
	ID string `json:"id"`
	domain.Submission
}

// ISubmissionService owns the submission documents: creation on behalf
// of members and the status writes reported back by the executor.
type ISubmissionService interface {
	// Create writes a new pending submission and returns its id. The
	// create is a pure write; the size gate decides afterwards whether
	// execution is dispatched.
	Create(ctx context.Context, userID, taskID, code string) (string, error)

	Get(ctx context.Context, submissionID string) (*View, error)

	// ListByTask returns submissions for a task, newest first, capped
	// at limit when limit > 0.
	ListByTask(ctx context.Context, taskID string, limit int) ([]View, error)

	// ReportStarted flips a pending submission to running.
	ReportStarted(ctx context.Context, submissionID string) error

	// ReportCompleted writes the terminal status and per-test results.
	// Terminal submissions reject further writes.
	ReportCompleted(ctx context.Context, submissionID string, status domain.SubmissionStatus, results []domain.SubmissionTestcase) error
}
