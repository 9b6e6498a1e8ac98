// Package retry wraps cenkalti/backoff with the bounded policies the
// fetchers and the notifier share.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy bounds how an operation retries transient failures.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
	Multiplier  float64 // <= 1 keeps the delay flat
}

// Default is three attempts one second apart.
func Default() Policy {
	return Policy{MaxAttempts: 3, Delay: time.Second, Multiplier: 1}
}

// Do runs op until it succeeds, returns an error wrapped with Permanent, the
// attempts run out, or ctx is done. The last error is returned.
func (p Policy) Do(ctx context.Context, op func() error) error {
	return backoff.Retry(op, p.backOff(ctx))
}

// DoNotify is Do with a callback before each wait.
func (p Policy) DoNotify(ctx context.Context, op func() error, notify func(err error, wait time.Duration)) error {
	return backoff.RetryNotify(op, p.backOff(ctx), notify)
}

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

func (p Policy) backOff(ctx context.Context) backoff.BackOff {
	var b backoff.BackOff
	if p.Multiplier <= 1 {
		b = backoff.NewConstantBackOff(p.Delay)
	} else {
		eb := backoff.NewExponentialBackOff()
		eb.InitialInterval = p.Delay
		eb.Multiplier = p.Multiplier
		eb.RandomizationFactor = 0
		eb.MaxInterval = p.Delay * 64
		eb.MaxElapsedTime = 0
		b = eb
	}
	attempts := max(p.MaxAttempts, 1)
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(attempts-1)), ctx)
}

// Loop yields waits for a long-running loop: exponential from Initial up to
// Max, never giving up. Call Reset after a success.
type Loop struct {
	b backoff.BackOff
}

// NewLoop builds an unbounded loop backoff.
func NewLoop(initial, maxWait time.Duration) *Loop {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = initial
	eb.MaxInterval = maxWait
	eb.MaxElapsedTime = 0
	eb.Reset()
	return &Loop{b: eb}
}

// Next returns the wait before the next attempt.
func (l *Loop) Next() time.Duration {
	return l.b.NextBackOff()
}

// Reset restarts the sequence from the initial wait.
func (l *Loop) Reset() {
	l.b.Reset()
}
