package accept

import (
	"context"

	"gitlab.com/golfhub-2025.net/internal/core/ports/primary"
	"gitlab.com/golfhub-2025.net/internal/domain"
)

// IAcceptanceService coordinates the bookkeeping that follows an
// executor-confirmed acceptance.
type IAcceptanceService interface {
	// HandleSubmissionUpdated inspects one submission status change and,
	// exactly on the running-to-accepted edge, runs the acceptance
	// pipeline: claim the task's best-submission record, allocate the
	// owner's color if needed, credit contributions, and recount the
	// ranking.
	HandleSubmissionUpdated(ctx context.Context, submissionID string, before, after domain.Submission) error

	// Register subscribes the coordinator to submission updates.
	Register(events primary.EventSubscriber)
}
