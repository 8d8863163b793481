// Package retry implements the Retry Executor: bounded exponential backoff with jitter
// around any fallible call, atop github.com/cenkalti/backoff/v4.
package retry

import (
	"context"
	"errors"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/meridianai/promptforge/internal/errs"
)

// Config describes one bounded exponential backoff policy.
type Config struct {
	MaxAttempts  int
	InitialDelay time.Duration
	Multiplier   float64
	MaxDelay     time.Duration
}

// DefaultConfig is a three-attempt policy: 500ms initial delay, doubling, capped at ten
// seconds. No role-agent call passes it; Deconstruct, Diagnose and Design run with no
// retry policy and are attempted once.
func DefaultConfig() Config {
	return Config{MaxAttempts: 3, InitialDelay: 500 * time.Millisecond, Multiplier: 2.0, MaxDelay: 10 * time.Second}
}

// SampleEvaluateConfig is the two-attempt policy used for the Sample and Evaluate
// stages, per the Orchestrator contract.
func SampleEvaluateConfig() Config {
	return Config{MaxAttempts: 2, InitialDelay: 500 * time.Millisecond, Multiplier: 2.0, MaxDelay: 10 * time.Second}
}

// boundedBackOff reproduces min(initial*multiplier^i, max) * uniform(0.5,1.0), stopping
// once MaxAttempts is exhausted.
type boundedBackOff struct {
	cfg     Config
	attempt int
}

func (b *boundedBackOff) NextBackOff() time.Duration {
	if b.attempt >= b.cfg.MaxAttempts-1 {
		return backoff.Stop
	}
	delay := float64(b.cfg.InitialDelay) * math.Pow(b.cfg.Multiplier, float64(b.attempt))
	if delay > float64(b.cfg.MaxDelay) {
		delay = float64(b.cfg.MaxDelay)
	}
	jittered := delay * (0.5 + rand.Float64()*0.5)
	b.attempt++
	return time.Duration(jittered)
}

func (b *boundedBackOff) Reset() {
	b.attempt = 0
}

// Run executes fn up to cfg.MaxAttempts times total, sleeping between attempts per the
// bounded exponential backoff policy. Errors classified non-retryable by internal/errs
// (pool saturation, an open circuit, validation, parse) short-circuit immediately. The
// final error is returned on exhaustion; intermediate failures are logged with their
// attempt index.
func Run(ctx context.Context, cfg Config, fn func() error) error {
	b := &boundedBackOff{cfg: cfg}
	attempt := 0

	wrapped := func() error {
		err := fn()
		if err == nil {
			return nil
		}
		if !errs.Retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		attempt++
		log.Printf("[retry] attempt %d failed, retrying in %v: %v", attempt, wait, err)
	}

	err := backoff.RetryNotify(wrapped, backoff.WithContext(b, ctx), notify)
	if err == nil {
		return nil
	}

	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		return permanent.Unwrap()
	}
	return err
}
