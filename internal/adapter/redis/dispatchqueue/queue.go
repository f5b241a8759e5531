// Package dispatchqueue implements the ExecutionDispatcher port on a
// Redis list. Envelopes are resolved at enqueue time and delivered by a
// background runner until their dispatch deadline passes.
package dispatchqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"gitlab.com/golfhub-2025.net/internal/config"
	"gitlab.com/golfhub-2025.net/internal/core/ports/primary"
	"gitlab.com/golfhub-2025.net/internal/core/ports/secondary"
	"gitlab.com/golfhub-2025.net/internal/static/errs"
)

var _ secondary.ExecutionDispatcher = &Queue{}

// Queue enqueues dispatch envelopes onto a Redis list.
type Queue struct {
	redisClient *redis.Client
	resolver    secondary.EndpointResolver
	logger      primary.Logger
	cfg         *config.DispatcherConfig
	now         func() time.Time
}

// NewQueue creates a new dispatch queue.
func NewQueue(redisClient *redis.Client, resolver secondary.EndpointResolver, logger primary.Logger, cfg *config.DispatcherConfig) *Queue {
	return &Queue{
		redisClient: redisClient,
		resolver:    resolver,
		logger:      logger,
		cfg:         cfg,
		now:         time.Now,
	}
}

// Enqueue resolves the executor endpoint and pushes an envelope. A
// resolution failure fails the whole call; the submission must not be
// left looking dispatched when nothing is in flight.
func (q *Queue) Enqueue(ctx context.Context, req secondary.DispatchRequest) error {
	uri, err := q.resolver.Resolve(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ResolveFailed, err)
	}

	env := secondary.DispatchEnvelope{
		Request:                 req,
		URI:                     uri,
		ScheduleDelaySeconds:    q.cfg.ScheduleDelaySeconds,
		DispatchDeadlineSeconds: q.cfg.DispatchDeadlineSeconds,
		EnqueuedAt:              q.now(),
	}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal dispatch envelope: %w", err)
	}

	if err := q.redisClient.LPush(ctx, q.cfg.QueueKey, data).Err(); err != nil {
		return fmt.Errorf("failed to enqueue dispatch for submission %s: %w", req.SubmissionID, err)
	}
	q.logger.Info("Execution dispatch enqueued", "taskId", req.TaskID, "submissionId", req.SubmissionID, "uri", uri)
	return nil
}
