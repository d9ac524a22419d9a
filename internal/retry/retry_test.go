package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_SucceedsOnSecondAttempt(t *testing.T) {
	attempts := 0
	fn := func(context.Context) (string, error) {
		attempts++
		if attempts == 1 {
			return "", errors.New("transient")
		}
		return "ok", nil
	}

	got, err := Do(context.Background(), fn, WithMaxAttempts(2), WithInitialDelay(0))
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 2, attempts)
}

func TestDo_ReturnsLastErrorUnchanged(t *testing.T) {
	errs := []error{errors.New("first"), errors.New("second"), errors.New("third")}
	attempts := 0
	fn := func(context.Context) (int, error) {
		err := errs[attempts]
		attempts++
		return 0, err
	}

	_, err := Do(context.Background(), fn, WithInitialDelay(0))
	assert.Same(t, errs[2], err)
	assert.Equal(t, DefaultMaxAttempts, attempts)
}

func TestDo_FirstAttemptSuccessDoesNotWait(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), func(context.Context) (int, error) {
		calls++
		return 7, nil
	}, WithInitialDelay(time.Hour))

	require.NoError(t, err)
	assert.Equal(t, 7, got)
	assert.Equal(t, 1, calls)
}

func TestDo_BackoffSchedule(t *testing.T) {
	var waits []time.Duration
	fn := func(context.Context) (int, error) { return 0, errors.New("fail") }

	_, err := Do(context.Background(), fn,
		WithMaxAttempts(5),
		WithInitialDelay(time.Millisecond),
		WithMaxDelay(3*time.Millisecond),
		WithBackoffFactor(2),
		WithOnRetry(func(_ int, _ error, wait time.Duration) { waits = append(waits, wait) }),
	)

	require.Error(t, err)
	assert.Equal(t, []time.Duration{
		time.Millisecond,
		2 * time.Millisecond,
		3 * time.Millisecond,
		3 * time.Millisecond,
	}, waits)
}

func TestDo_InitialDelayAboveCapIsCapped(t *testing.T) {
	var waits []time.Duration
	_, _ = Do(context.Background(), func(context.Context) (int, error) { return 0, errors.New("fail") },
		WithMaxAttempts(2),
		WithInitialDelay(time.Hour),
		WithMaxDelay(time.Millisecond),
		WithOnRetry(func(_ int, _ error, wait time.Duration) { waits = append(waits, wait) }),
	)

	assert.Equal(t, []time.Duration{time.Millisecond}, waits)
}

func TestDo_ContextCancelledDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	opErr := errors.New("fail")
	calls := 0

	_, err := Do(ctx, func(context.Context) (int, error) {
		calls++
		cancel()
		return 0, opErr
	}, WithInitialDelay(time.Hour))

	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, opErr)
	assert.Equal(t, 1, calls)
}

func TestDo_NonPositiveAttemptsRunsOnce(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), func(context.Context) (int, error) {
		calls++
		return 0, errors.New("fail")
	}, WithMaxAttempts(0))

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithOptions_KeepsHookWhenUnset(t *testing.T) {
	hooked := 0
	_, _ = Do(context.Background(), func(context.Context) (int, error) { return 0, errors.New("fail") },
		WithOnRetry(func(int, error, time.Duration) { hooked++ }),
		WithOptions(Options{MaxAttempts: 2, BackoffFactor: 2}),
	)

	assert.Equal(t, 1, hooked)
}
