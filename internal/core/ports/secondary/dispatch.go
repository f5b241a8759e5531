package secondary

import (
	"context"
	"time"
)

// DispatchRequest identifies one submission to execute.
type DispatchRequest struct {
	TaskID       string `json:"taskId"`
	SubmissionID string `json:"submissionId"`
}

// DispatchEnvelope is the queued form of a dispatch request. The
// executor endpoint is resolved at enqueue time.
type DispatchEnvelope struct {
	Request                 DispatchRequest `json:"request"`
	URI                     string          `json:"uri"`
	ScheduleDelaySeconds    int             `json:"scheduleDelaySeconds"`
	DispatchDeadlineSeconds int             `json:"dispatchDeadlineSeconds"`
	EnqueuedAt              time.Time       `json:"enqueuedAt"`
}

// Deadline returns the instant after which the envelope is abandoned.
func (e DispatchEnvelope) Deadline() time.Time {
	return e.EnqueuedAt.Add(time.Duration(e.DispatchDeadlineSeconds) * time.Second)
}

// NotBefore returns the earliest instant the envelope may be delivered.
func (e DispatchEnvelope) NotBefore() time.Time {
	return e.EnqueuedAt.Add(time.Duration(e.ScheduleDelaySeconds) * time.Second)
}

// ExecutionDispatcher enqueues execution requests for the external
// executor. Enqueue resolves the executor endpoint first; a resolution
// failure fails the whole call (wrapped errs.ResolveFailed).
type ExecutionDispatcher interface {
	Enqueue(ctx context.Context, req DispatchRequest) error
}

// EndpointResolver looks up the executor endpoint. Implementations may
// cache; Invalidate drops the cached value after a delivery failure.
type EndpointResolver interface {
	Resolve(ctx context.Context) (string, error)
	Invalidate()
}

// EnvelopeSender delivers one envelope to its resolved endpoint.
type EnvelopeSender interface {
	Send(ctx context.Context, env DispatchEnvelope) error
}
