// Package txretry bounds the retry of optimistic document-store
// transactions. The store adapters surface write conflicts as
// errs.TxConflict and do not retry internally; the full-collection
// transactions (color allocation, ranking recount) are the ones that
// conflict most and lean on this wrapper.
package txretry

import (
	"context"
	"errors"
	"time"

	"gitlab.com/golfhub-2025.net/internal/static/errs"
)

const (
	// DefaultAttempts caps the retries of one logical transaction.
	DefaultAttempts = 5
	// DefaultBackoff is the first inter-attempt delay; it doubles per
	// attempt.
	DefaultBackoff = 25 * time.Millisecond
)

// Do runs fn until it returns nil, a non-conflict error, or attempts are
// exhausted. Backoff doubles between attempts.
func Do(ctx context.Context, attempts int, backoff time.Duration, fn func(ctx context.Context) error) error {
	var err error
	delay := backoff
	for i := 0; i < attempts; i++ {
		err = fn(ctx)
		if err == nil || !errors.Is(err, errs.TxConflict) {
			return err
		}
		if i == attempts-1 {
			// Out of attempts; no point sleeping before giving up.
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return err
}

// Transaction runs fn with the default attempt and backoff policy.
func Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return Do(ctx, DefaultAttempts, DefaultBackoff, fn)
}
