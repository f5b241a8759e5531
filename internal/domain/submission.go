package domain

import "time"

// SubmissionStatus represents the lifecycle state of a submission
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionRunning  SubmissionStatus = "running"
	SubmissionAccepted SubmissionStatus = "accepted"
	SubmissionRejected SubmissionStatus = "rejected"
)

// Terminal reports whether no further status transition is permitted.
func (s SubmissionStatus) Terminal() bool {
	return s == SubmissionAccepted || s == SubmissionRejected
}

// ValidationTestCaseID marks the synthetic result written when a
// submission is rejected before execution.
const ValidationTestCaseID = "validation"

// SubmissionTestcase is one per-test outcome embedded in a submission's
// results.
type SubmissionTestcase struct {
	TestCaseID    string           `json:"testCaseId"`
	Input         string           `json:"input"`
	Expected      string           `json:"expected"`
	Actual        string           `json:"actual"`
	Status        SubmissionStatus `json:"status"`
	ErrorMessage  *string          `json:"errorMessage"`
	Contributions int              `json:"contributions"`
}

// Submission represents one code attempt against a task. It is created
// once, mutated by the executor until it reaches a terminal status, and
// immutable afterwards.
type Submission struct {
	User       string               `json:"user"`
	Task       string               `json:"task"`
	Code       string               `json:"code"`
	Size       int                  `json:"size"`
	CreatedAt  time.Time            `json:"createdAt"`
	ExecutedAt *time.Time           `json:"executedAt"`
	Status     SubmissionStatus     `json:"status"`
	Results    []SubmissionTestcase `json:"results"`
}

// NewSubmission creates a pending submission for the given user and task.
// Size is the byte length of code, the quantity the whole competition is
// scored on.
func NewSubmission(userID, taskID, code string) *Submission {
	return &Submission{
		User:      userID,
		Task:      taskID,
		Code:      code,
		Size:      len(code),
		CreatedAt: time.Now(),
		Status:    SubmissionPending,
		Results:   []SubmissionTestcase{},
	}
}
