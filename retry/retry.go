package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
)

var ErrExhausted = errors.New("retry attempts exhausted")

// Policy bounds a polling or retry loop.
type Policy struct {
	MaxAttempts int
	Interval    time.Duration
	Factor      float64
	Jitter      float64
	Cap         time.Duration
}

func Default() Policy {
	return Policy{
		MaxAttempts: 10,
		Interval:    30 * time.Second,
		Factor:      1,
		Jitter:      0.1,
	}
}

// Fixed waits the same interval between every attempt.
func Fixed(attempts int, interval time.Duration) Policy {
	return Policy{MaxAttempts: attempts, Interval: interval, Factor: 1}
}

func (p Policy) Validate() error {
	if p.MaxAttempts < 1 {
		return fmt.Errorf("retry max attempts must be at least 1, got %d", p.MaxAttempts)
	}
	if p.Interval < 0 {
		return fmt.Errorf("retry interval must not be negative, got %s", p.Interval)
	}
	if p.Factor < 0 || p.Jitter < 0 {
		return fmt.Errorf("retry factor and jitter must not be negative")
	}
	return nil
}

// Backoff describes the delays between attempts. Cap is left out because
// wait.Backoff ends the sequence once the cap is reached; Poll clamps instead.
func (p Policy) Backoff() wait.Backoff {
	return wait.Backoff{
		Duration: p.Interval,
		Factor:   p.Factor,
		Jitter:   p.Jitter,
		Steps:    p.MaxAttempts,
	}
}

// Poll calls cond until it reports done, returns an error, the attempts run
// out or ctx is done. Every attempt runs even when Cap clamps the interval.
func (p Policy) Poll(ctx context.Context, cond func(attempt int) (bool, error)) error {
	if err := p.Validate(); err != nil {
		return err
	}
	backoff := p.Backoff()
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		done, err := cond(attempt)
		if err != nil || done {
			return err
		}
		if attempt >= p.MaxAttempts {
			return fmt.Errorf("%w after %d attempts", ErrExhausted, attempt)
		}
		timer := time.NewTimer(p.delay(&backoff))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (p Policy) delay(b *wait.Backoff) time.Duration {
	d := b.Step()
	if p.Cap > 0 && d > p.Cap {
		d = p.Cap
	}
	return d
}

// Do repeats fn while it fails with an error that retryable accepts.
func (p Policy) Do(ctx context.Context, fn func() error, retryable func(error) bool) error {
	var lastErr error
	err := p.Poll(ctx, func(int) (bool, error) {
		lastErr = fn()
		if lastErr == nil {
			return true, nil
		}
		if retryable != nil && retryable(lastErr) {
			return false, nil
		}
		return false, lastErr
	})
	if errors.Is(err, ErrExhausted) && lastErr != nil {
		return fmt.Errorf("%w: %w", err, lastErr)
	}
	return err
}
