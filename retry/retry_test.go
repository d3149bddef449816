package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("transient")

func TestPollStopsWhenDone(t *testing.T) {
	calls := 0
	err := Fixed(5, time.Millisecond).Poll(context.Background(), func(attempt int) (bool, error) {
		calls++
		return attempt == 3, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestPollExhausted(t *testing.T) {
	calls := 0
	err := Fixed(4, time.Millisecond).Poll(context.Background(), func(int) (bool, error) {
		calls++
		return false, nil
	})
	assert.True(t, errors.Is(err, ErrExhausted))
	assert.Equal(t, 4, calls)
}

func TestDoRetriesOnlyRetryable(t *testing.T) {
	calls := 0
	err := Fixed(5, time.Millisecond).Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errTransient
		}
		return nil
	}, func(err error) bool { return errors.Is(err, errTransient) })
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	fatal := errors.New("fatal")
	calls = 0
	err = Fixed(5, time.Millisecond).Do(context.Background(), func() error {
		calls++
		return fatal
	}, func(err error) bool { return errors.Is(err, errTransient) })
	assert.True(t, errors.Is(err, fatal))
	assert.Equal(t, 1, calls)
}

func TestDoExhaustedKeepsLastError(t *testing.T) {
	err := Fixed(2, time.Millisecond).Do(context.Background(), func() error {
		return errTransient
	}, func(error) bool { return true })
	assert.True(t, errors.Is(err, ErrExhausted))
	assert.Contains(t, err.Error(), "transient")
}

func TestPollCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Fixed(3, time.Millisecond).Poll(ctx, func(int) (bool, error) { return false, nil })
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestValidate(t *testing.T) {
	assert.Error(t, Policy{MaxAttempts: 0}.Validate())
	assert.Error(t, Policy{MaxAttempts: 1, Interval: -time.Second}.Validate())
	assert.NoError(t, Default().Validate())
}

func TestPollCancelledWhileWaiting(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	calls := 0
	start := time.Now()
	err := Fixed(3, 2*time.Second).Poll(ctx, func(int) (bool, error) {
		calls++
		return false, nil
	})
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, 1, calls)
}

func TestPollCapKeepsAttempts(t *testing.T) {
	p := Policy{MaxAttempts: 5, Interval: time.Millisecond, Factor: 10, Cap: 2 * time.Millisecond}
	calls := 0
	start := time.Now()
	err := p.Poll(context.Background(), func(int) (bool, error) {
		calls++
		return false, nil
	})
	assert.True(t, errors.Is(err, ErrExhausted))
	assert.Equal(t, 5, calls)
	assert.Less(t, time.Since(start), time.Second)
}

func TestDelayClampedToCap(t *testing.T) {
	p := Policy{MaxAttempts: 4, Interval: time.Second, Factor: 3, Cap: 2 * time.Second}
	b := p.Backoff()
	assert.Equal(t, time.Second, p.delay(&b))
	assert.Equal(t, 2*time.Second, p.delay(&b))
	assert.Equal(t, 2*time.Second, p.delay(&b))
}
