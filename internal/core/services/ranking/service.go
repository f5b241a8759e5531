package ranking

import "context"

// IRankingService maintains per-user owned-task counts.
type IRankingService interface {
	// Recalculate recounts task ownership across all tasks and writes
	// shortestSubmissions for every user, including zero for users who
	// no longer own anything.
	Recalculate(ctx context.Context) error
}
