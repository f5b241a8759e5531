package gate

import (
	"context"

	"gitlab.com/golfhub-2025.net/internal/core/ports/primary"
	"gitlab.com/golfhub-2025.net/internal/domain"
)

// ISizeGateService admits newly created submissions for execution.
type ISizeGateService interface {
	// HandleSubmissionCreated applies the size gate to one new
	// submission: reject it terminally when it is not strictly shorter
	// than the task's current best, otherwise enqueue its execution.
	HandleSubmissionCreated(ctx context.Context, submissionID string, submission domain.Submission) error

	// Register subscribes the gate to submission creations.
	Register(events primary.EventSubscriber)
}
