package dispatchqueue

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"gitlab.com/golfhub-2025.net/internal/config"
	"gitlab.com/golfhub-2025.net/internal/core/ports/primary"
	"gitlab.com/golfhub-2025.net/internal/core/ports/secondary"
	"gitlab.com/golfhub-2025.net/internal/static/errs"
)

// Runner drains the dispatch queue and delivers envelopes to the
// executor. A failed delivery invalidates the endpoint cache and the
// envelope is requeued until its deadline passes, after which it is
// dropped and logged; nothing is written back onto the submission.
type Runner struct {
	redisClient *redis.Client
	sender      secondary.EnvelopeSender
	resolver    secondary.EndpointResolver
	logger      primary.Logger
	cfg         *config.DispatcherConfig
	wg          sync.WaitGroup
}

// NewRunner creates a new dispatch queue runner.
func NewRunner(redisClient *redis.Client, sender secondary.EnvelopeSender, resolver secondary.EndpointResolver, logger primary.Logger, cfg *config.DispatcherConfig) *Runner {
	return &Runner{
		redisClient: redisClient,
		sender:      sender,
		resolver:    resolver,
		logger:      logger,
		cfg:         cfg,
	}
}

// Start runs the delivery loop until ctx is cancelled.
func (r *Runner) Start(ctx context.Context) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}
			r.deliverNext(ctx)
		}
	}()
}

// Stop waits for the delivery loop to exit.
func (r *Runner) Stop() {
	r.wg.Wait()
}

func (r *Runner) deliverNext(ctx context.Context) {
	values, err := r.redisClient.BRPop(ctx, r.cfg.PollInterval, r.cfg.QueueKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			r.logger.Error("Failed to pop dispatch envelope", "error", err)
			time.Sleep(r.cfg.PollInterval)
		}
		return
	}

	var env secondary.DispatchEnvelope
	if err := json.Unmarshal([]byte(values[1]), &env); err != nil {
		r.logger.Error("Dropping malformed dispatch envelope", "error", err)
		return
	}

	r.handle(ctx, env)
}

func (r *Runner) handle(ctx context.Context, env secondary.DispatchEnvelope) {
	now := time.Now()
	if now.After(env.Deadline()) {
		r.logger.Error("Abandoning dispatch envelope",
			"taskId", env.Request.TaskID, "submissionId", env.Request.SubmissionID,
			"enqueuedAt", env.EnqueuedAt, "error", errs.DeadlineExceeded)
		return
	}
	if notBefore := env.NotBefore(); now.Before(notBefore) {
		r.requeue(ctx, env)
		time.Sleep(r.cfg.PollInterval)
		return
	}

	sendCtx, cancel := context.WithDeadline(ctx, env.Deadline())
	err := r.sender.Send(sendCtx, env)
	cancel()
	if err != nil {
		r.resolver.Invalidate()
		r.logger.Warn("Dispatch delivery failed, requeueing",
			"taskId", env.Request.TaskID, "submissionId", env.Request.SubmissionID, "error", err)
		r.requeue(ctx, env)
		time.Sleep(r.cfg.PollInterval)
		return
	}

	r.logger.Info("Dispatch delivered", "taskId", env.Request.TaskID, "submissionId", env.Request.SubmissionID)
}

func (r *Runner) requeue(ctx context.Context, env secondary.DispatchEnvelope) {
	data, err := json.Marshal(env)
	if err != nil {
		r.logger.Error("Failed to requeue dispatch envelope", "error", err)
		return
	}
	if err := r.redisClient.LPush(ctx, r.cfg.QueueKey, data).Err(); err != nil {
		r.logger.Error("Failed to requeue dispatch envelope", "error", err)
	}
}
