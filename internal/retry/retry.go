// Package retry provides an exponential-backoff combinator.
//
// Do knows nothing about the operation it wraps: it calls fn, waits, grows the
// delay, and calls again until fn succeeds or the attempt budget is spent.
package retry

import (
	"context"
	"errors"
	"time"
)

// Defaults applied when an option is not given.
const (
	DefaultMaxAttempts   = 3
	DefaultInitialDelay  = 100 * time.Millisecond
	DefaultMaxDelay      = 2 * time.Second
	DefaultBackoffFactor = 2.0
)

// Options controls the backoff schedule.
type Options struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64

	// OnRetry, if set, is called after a failed attempt that will be retried.
	OnRetry func(attempt int, err error, wait time.Duration)
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns 3 attempts, 100ms initial delay, 2s cap, factor 2.
func DefaultOptions() Options {
	return Options{
		MaxAttempts:   DefaultMaxAttempts,
		InitialDelay:  DefaultInitialDelay,
		MaxDelay:      DefaultMaxDelay,
		BackoffFactor: DefaultBackoffFactor,
	}
}

// WithMaxAttempts sets the total number of attempts, including the first.
func WithMaxAttempts(n int) Option {
	return func(o *Options) { o.MaxAttempts = n }
}

// WithInitialDelay sets the wait before the second attempt.
func WithInitialDelay(d time.Duration) Option {
	return func(o *Options) { o.InitialDelay = d }
}

// WithMaxDelay caps any single wait.
func WithMaxDelay(d time.Duration) Option {
	return func(o *Options) { o.MaxDelay = d }
}

// WithBackoffFactor sets the delay multiplier applied after each wait.
func WithBackoffFactor(f float64) Option {
	return func(o *Options) { o.BackoffFactor = f }
}

// WithOnRetry installs a hook observing each retried failure.
func WithOnRetry(fn func(attempt int, err error, wait time.Duration)) Option {
	return func(o *Options) { o.OnRetry = fn }
}

// WithOptions replaces the whole option set, e.g. with values from config.
func WithOptions(opts Options) Option {
	return func(o *Options) {
		hook := o.OnRetry
		*o = opts
		if o.OnRetry == nil {
			o.OnRetry = hook
		}
	}
}

// Do calls fn until it succeeds or MaxAttempts attempts have failed, and
// returns the last error unchanged in that case. Waits honour ctx: if ctx is
// done while waiting, Do returns ctx.Err() joined with the last error.
func Do[T any](ctx context.Context, fn func(context.Context) (T, error), opts ...Option) (T, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.MaxAttempts < 1 {
		o.MaxAttempts = 1
	}

	var zero T
	var lastErr error
	delay := o.InitialDelay

	for attempt := 1; attempt <= o.MaxAttempts; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if attempt == o.MaxAttempts {
			break
		}

		wait := delay
		if o.MaxDelay > 0 && wait > o.MaxDelay {
			wait = o.MaxDelay
		}
		if o.OnRetry != nil {
			o.OnRetry(attempt, err, wait)
		}
		if err := sleep(ctx, wait); err != nil {
			return zero, errors.Join(err, lastErr)
		}
		delay = nextDelay(delay, o)
	}

	return zero, lastErr
}

func nextDelay(delay time.Duration, o Options) time.Duration {
	next := time.Duration(float64(delay) * o.BackoffFactor)
	if o.MaxDelay > 0 && next > o.MaxDelay {
		next = o.MaxDelay
	}
	if next < 0 {
		next = 0
	}
	return next
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
