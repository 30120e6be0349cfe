package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"orderengine/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy bounds how often a unit of work is replayed after a transient
// store failure (serialization failure, deadlock, lock timeout, lost connection).
type RetryPolicy struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryPolicy replays up to three times, starting at 20ms.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:      3,
		InitialInterval: 20 * time.Millisecond,
		MaxInterval:     500 * time.Millisecond,
	}
}

// NoRetry runs the operation once.
func NoRetry() RetryPolicy {
	return RetryPolicy{}
}

func (p RetryPolicy) newBackOff(ctx context.Context) backoff.BackOffContext {
	exp := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		exp.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		exp.MaxInterval = p.MaxInterval
	}
	exp.MaxElapsedTime = 0

	return backoff.WithContext(backoff.WithMaxRetries(exp, p.MaxRetries), ctx)
}

// runWithRetry calls op until it succeeds, fails with a non-transient error or
// the policy is exhausted. The last error is returned unchanged.
func runWithRetry(ctx context.Context, policy RetryPolicy, logger *slog.Logger, op func() error) error {
	attempt := 0
	return backoff.RetryNotify(
		func() error {
			attempt++
			err := op()
			if err == nil || errors.Is(err, errs.ErrTransientStore) {
				return err
			}
			return backoff.Permanent(err)
		},
		policy.newBackOff(ctx),
		func(err error, wait time.Duration) {
			logger.WarnContext(ctx, "transient store failure, retrying",
				"attempt", attempt, "wait", wait, "error", err)
		},
	)
}
