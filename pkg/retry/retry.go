// Package retry retries infrastructure connections (database, cache) at startup.
// Gateway calls are never retried.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrContextCanceled is returned when the context ends between attempts
var ErrContextCanceled = errors.New("context canceled during retry")

// Config contains retry configuration
type Config struct {
	// MaxRetries is the number of retries after the first attempt
	MaxRetries int
	// InitialInterval is the wait before the first retry
	InitialInterval time.Duration
	// MaxInterval caps the wait between attempts
	MaxInterval time.Duration
	// Multiplier grows the interval after each retry
	Multiplier float64
}

// DefaultConfig returns default retry configuration: 1s, 2s, 4s
func DefaultConfig() *Config {
	return &Config{
		MaxRetries:      3,
		InitialInterval: time.Second,
		MaxInterval:     10 * time.Second,
		Multiplier:      2.0,
	}
}

// Operation is the function to be retried
type Operation func(ctx context.Context) error

// Notify is called before each retry with the attempt number that failed
type Notify func(attempt int, err error, wait time.Duration)

// PermanentError stops retrying immediately
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return e.Err.Error()
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// Permanent marks an error as not retryable
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// Retrier runs an operation with exponential backoff
type Retrier struct {
	config *Config
}

// New creates a Retrier, filling zero values with defaults
func New(cfg *Config) *Retrier {
	def := DefaultConfig()
	if cfg == nil {
		cfg = def
	}
	c := *cfg
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.InitialInterval <= 0 {
		c.InitialInterval = def.InitialInterval
	}
	if c.MaxInterval <= 0 {
		c.MaxInterval = def.MaxInterval
	}
	if c.Multiplier < 1 {
		c.Multiplier = def.Multiplier
	}
	return &Retrier{config: &c}
}

// Do runs op until it succeeds, returns a permanent error, the retries
// are exhausted, or ctx ends. The returned error wraps the last failure.
func (r *Retrier) Do(ctx context.Context, op Operation, notify Notify) error {
	var lastErr error
	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrContextCanceled, lastErr)
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}

		var perm *PermanentError
		if errors.As(lastErr, &perm) {
			return perm.Err
		}
		if attempt == r.config.MaxRetries {
			break
		}

		wait := r.interval(attempt)
		if notify != nil {
			notify(attempt+1, lastErr, wait)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", ErrContextCanceled, lastErr)
		case <-time.After(wait):
		}
	}
	return fmt.Errorf("failed after %d attempts: %w", r.config.MaxRetries+1, lastErr)
}

func (r *Retrier) interval(attempt int) time.Duration {
	d := float64(r.config.InitialInterval) * math.Pow(r.config.Multiplier, float64(attempt))
	if d > float64(r.config.MaxInterval) {
		d = float64(r.config.MaxInterval)
	}
	return time.Duration(d)
}

// Do is a convenience wrapper around New(cfg).Do
func Do(ctx context.Context, cfg *Config, op Operation, notify Notify) error {
	return New(cfg).Do(ctx, op, notify)
}
