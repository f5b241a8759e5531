package domain

import "time"

// MaxScore is the ceiling of the contribution score scale; a one-byte
// solution is worth MaxScore-1 points, and every solution is worth at
// least one point.
const MaxScore = 2500

// Task represents one puzzle plus its current best-submission bookkeeping.
// Owner, BestSubmission and Bytes are nil together or non-nil together;
// they are mutated only by the acceptance coordinator.
type Task struct {
	Owner              *string    `json:"owner"`
	OwnerLastChangedAt *time.Time `json:"ownerLastChangedAt"`
	BestSubmission     *string    `json:"bestSubmission"`
	Bytes              *int       `json:"bytes"`
	ArcTaskID          *string    `json:"arcTaskId"`
	CreatedAt          time.Time  `json:"createdAt"`
}

// Claimed reports whether the task currently has a best submission.
func (t Task) Claimed() bool {
	return t.Owner != nil && t.BestSubmission != nil && t.Bytes != nil
}

// ContributionScore converts a solution size in bytes into its score.
// Fewer bytes score higher, floored at 1.
func ContributionScore(bytes int) int {
	score := MaxScore - bytes
	if score < 1 {
		return 1
	}
	return score
}
