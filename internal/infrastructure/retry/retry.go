// Package retry provides bounded retry with exponential backoff and
// bounded condition polling. Both wait on a timeutil.Clock so long waits
// can be simulated in tests.
package retry

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/timeutil"
)

// ErrPollTimeout is returned by Poll when the condition never held within the bound.
var ErrPollTimeout = errors.New("condition not met before timeout")

// Config holds the retry configuration options.
type Config struct {
	// MaxAttempts is the maximum number of attempts, including the first.
	MaxAttempts int

	InitialDelay time.Duration
	MaxDelay     time.Duration

	// Multiplier is the factor by which the delay increases after each retry.
	Multiplier float64

	// JitterFactor adds up to JitterFactor*delay of random jitter (0.0 to 1.0).
	JitterFactor float64

	// RetryIf decides whether an error is retryable. Nil retries everything.
	RetryIf func(error) bool

	// Clock drives the backoff waits. Nil uses the system clock.
	Clock timeutil.Clock
}

// DefaultConfig provides sensible defaults for retry behavior.
var DefaultConfig = Config{
	MaxAttempts:  3,
	InitialDelay: 100 * time.Millisecond,
	MaxDelay:     2 * time.Second,
	Multiplier:   2.0,
	JitterFactor: 0.1,
}

// ProviderConfig is tuned for partner API calls; permanent errors such as
// 4xx responses are not retried.
var ProviderConfig = Config{
	MaxAttempts:  3,
	InitialDelay: 200 * time.Millisecond,
	MaxDelay:     5 * time.Second,
	Multiplier:   2.0,
	JitterFactor: 0.2,
	RetryIf:      SkipPermanent,
}

// Do executes fn until it succeeds, returns a non-retryable error, or the
// attempts run out. The last error is returned.
func Do(ctx context.Context, fn func() error, cfg Config) error {
	_, err := DoWithResult(ctx, func() (struct{}, error) {
		return struct{}{}, fn()
	}, cfg)
	return err
}

// DoWithResult is Do for functions that produce a value. On failure the
// value from the last attempt is returned alongside the error.
func DoWithResult[T any](ctx context.Context, fn func() (T, error), cfg Config) (T, error) {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	clock := cfg.clock()

	var result T
	var lastErr error
	delay := cfg.InitialDelay

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		result, lastErr = fn()
		if lastErr == nil {
			return result, nil
		}

		if cfg.RetryIf != nil && !cfg.RetryIf(lastErr) {
			return result, lastErr
		}

		if attempt == cfg.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-clock.After(calculateSleepTime(delay, cfg.MaxDelay, cfg.JitterFactor)):
		}

		delay = time.Duration(float64(delay) * cfg.Multiplier)
	}

	return result, lastErr
}

// Poll evaluates cond every interval until it reports true, the timeout
// elapses, or ctx is cancelled. cond is checked once more at the deadline.
// Errors from cond are treated as "not yet" unless they are Permanent, in
// which case polling stops and the error is returned.
func Poll(ctx context.Context, clock timeutil.Clock, interval, timeout time.Duration, cond func(context.Context) (bool, error)) error {
	if clock == nil {
		clock = timeutil.NewRealClock()
	}
	if interval <= 0 {
		interval = time.Second
	}
	deadline := clock.Now().Add(timeout)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		ok, err := cond(ctx)
		if err != nil && IsPermanent(err) {
			return err
		}
		if ok {
			return nil
		}

		remaining := deadline.Sub(clock.Now())
		if remaining <= 0 {
			return ErrPollTimeout
		}
		wait := interval
		if remaining < wait {
			wait = remaining
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-clock.After(wait):
		}
	}
}

func (c Config) clock() timeutil.Clock {
	if c.Clock == nil {
		return timeutil.NewRealClock()
	}
	return c.Clock
}

func calculateSleepTime(delay, maxDelay time.Duration, jitterFactor float64) time.Duration {
	jitter := time.Duration(rand.Float64() * float64(delay) * jitterFactor)
	sleepTime := delay + jitter

	if maxDelay > 0 && sleepTime > maxDelay {
		sleepTime = maxDelay
	}

	return sleepTime
}

// Permanent wraps an error to indicate it should not be retried.
type Permanent struct {
	Err error
}

func (p *Permanent) Error() string {
	if p.Err == nil {
		return "permanent error"
	}
	return p.Err.Error()
}

func (p *Permanent) Unwrap() error {
	return p.Err
}

// NewPermanent creates a permanent (non-retryable) error.
func NewPermanent(err error) error {
	if err == nil {
		return nil
	}
	return &Permanent{Err: err}
}

// IsPermanent checks if an error is permanent (non-retryable).
func IsPermanent(err error) bool {
	var permanent *Permanent
	return errors.As(err, &permanent)
}

// SkipPermanent is a RetryIf predicate that skips permanent errors.
func SkipPermanent(err error) bool {
	return !IsPermanent(err)
}

// WithRetryIf returns a copy of c using fn as the retry predicate.
func (c Config) WithRetryIf(fn func(error) bool) Config {
	c.RetryIf = fn
	return c
}

// WithMaxAttempts returns a copy of c with n attempts.
func (c Config) WithMaxAttempts(n int) Config {
	c.MaxAttempts = n
	return c
}

// WithInitialDelay returns a copy of c with the given first delay.
func (c Config) WithInitialDelay(d time.Duration) Config {
	c.InitialDelay = d
	return c
}

// WithMaxDelay returns a copy of c with the given delay cap.
func (c Config) WithMaxDelay(d time.Duration) Config {
	c.MaxDelay = d
	return c
}

// WithClock returns a copy of c that waits on clock.
func (c Config) WithClock(clock timeutil.Clock) Config {
	c.Clock = clock
	return c
}
