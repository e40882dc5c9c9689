// Package retry wraps sethvargo/go-retry behind an explicit policy object so
// transports receive their retry behavior as configuration, not ad hoc loops.
package retry

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
)

// Policy bounds retries of a transient operation: a fixed attempt budget and
// an exponential backoff schedule with jitter.
type Policy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	AttemptTimeout time.Duration
}

// DefaultPolicy matches the embedding transport defaults.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:    3,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     10 * time.Second,
		AttemptTimeout: 30 * time.Second,
	}
}

// Do runs fn under the policy. retryable decides whether a failed attempt may
// be repeated; a non-retryable error is returned immediately. Each attempt
// runs under AttemptTimeout (when set), and a timed-out attempt counts
// against the budget like any other transient failure.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error, retryable func(error) bool) error {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	backoff := retry.NewExponential(p.InitialBackoff)
	backoff = retry.WithJitter(p.InitialBackoff/4, backoff)
	backoff = retry.WithCappedDuration(p.MaxBackoff, backoff)
	backoff = retry.WithMaxRetries(uint64(attempts-1), backoff)

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attemptCtx := ctx
		if p.AttemptTimeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, p.AttemptTimeout)
			defer cancel()
		}

		err := fn(attemptCtx)
		if err == nil {
			return nil
		}
		if retryable(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}
