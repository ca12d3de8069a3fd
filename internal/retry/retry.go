// Package retry implements the fixed-count, fixed-delay retry policy used
// around provider calls. The dominant failure mode is provider rate
// limiting, so a long flat delay is used instead of exponential backoff.
package retry

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Sleeper waits for d or until ctx is cancelled.
type Sleeper func(ctx context.Context, d time.Duration) error

// Policy defines how many times an operation is attempted and how long to
// wait between failed attempts. The zero value performs a single attempt.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
	Sleep       Sleeper // overridable in tests; nil means real sleep
}

func (p Policy) sleep(ctx context.Context, d time.Duration) error {
	if p.Sleep != nil {
		return p.Sleep(ctx, d)
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// Do invokes fn until it succeeds or MaxAttempts is exhausted, sleeping for
// Delay after every failed attempt except the last. It returns the number
// of attempts performed; on exhaustion the returned error wraps the last
// attempt's error.
func (p Policy) Do(ctx context.Context, op string, fn func(ctx context.Context) error) (int, error) {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return attempt, nil
		}
		lastErr = err
		if attempt == attempts {
			log.Printf("[WARN] %s failed (attempt %d/%d): %v", op, attempt, attempts, err)
			break
		}
		log.Printf("[WARN] %s failed (attempt %d/%d): %v, retrying in %v", op, attempt, attempts, err, p.Delay)
		if serr := p.sleep(ctx, p.Delay); serr != nil {
			return attempt, fmt.Errorf("%s: retry aborted: %w", op, serr)
		}
	}
	return attempts, fmt.Errorf("%s: all %d attempts exhausted: %w", op, attempts, lastErr)
}
