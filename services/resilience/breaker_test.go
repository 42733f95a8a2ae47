package resilience

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBreaker_Defaults(t *testing.T) {
	b := NewBreaker(BreakerConfig{})
	assert.Equal(t, StateClosed, b.GetState())
	assert.Equal(t, 5, b.threshold)
	assert.Equal(t, 30*time.Second, b.recovery)
}

func TestBreaker_ClosedAllowsRequests(t *testing.T) {
	b := NewBreaker(BreakerConfig{FailureThreshold: 3})
	require.NoError(t, b.Allow())
}

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	b := NewBreaker(BreakerConfig{FailureThreshold: 5, RecoveryTimeout: time.Hour})

	boom := fmt.Errorf("oracle unreachable")
	calls := 0
	op := func(ctx context.Context) error {
		calls++
		return boom
	}

	for i := 0; i < 5; i++ {
		err := b.Execute(context.Background(), op)
		assert.ErrorIs(t, err, boom)
	}
	assert.Equal(t, StateOpen, b.GetState())

	// Sixth call fails fast without touching the dependency.
	err := b.Execute(context.Background(), op)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, 5, calls)
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	b := NewBreaker(BreakerConfig{FailureThreshold: 3, RecoveryTimeout: time.Hour})

	b.RecordFailure()
	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()
	b.RecordFailure()
	assert.Equal(t, StateClosed, b.GetState())
}

func TestBreaker_RecoveryWindowAdmitsTrialCall(t *testing.T) {
	b := NewBreaker(BreakerConfig{FailureThreshold: 1, RecoveryTimeout: 20 * time.Millisecond})

	b.RecordFailure()
	assert.ErrorIs(t, b.Allow(), ErrCircuitOpen)

	time.Sleep(30 * time.Millisecond)

	// One trial call is allowed once the window elapses.
	require.NoError(t, b.Allow())
	assert.Equal(t, StateHalfOpen, b.GetState())

	b.RecordSuccess()
	assert.Equal(t, StateClosed, b.GetState())
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	b := NewBreaker(BreakerConfig{FailureThreshold: 1, RecoveryTimeout: 20 * time.Millisecond})

	b.RecordFailure()
	time.Sleep(30 * time.Millisecond)
	require.NoError(t, b.Allow())

	b.RecordFailure()
	assert.ErrorIs(t, b.Allow(), ErrCircuitOpen)
}

func TestBreaker_HalfOpenAdmitsSingleTrial(t *testing.T) {
	b := NewBreaker(BreakerConfig{FailureThreshold: 1, RecoveryTimeout: 20 * time.Millisecond})

	b.RecordFailure()
	time.Sleep(30 * time.Millisecond)

	// The first caller takes the trial slot.
	require.NoError(t, b.Allow())
	assert.Equal(t, StateHalfOpen, b.GetState())

	// Until it reports back, nobody else probes the dependency.
	assert.ErrorIs(t, b.Allow(), ErrCircuitOpen)
	assert.ErrorIs(t, b.Allow(), ErrCircuitOpen)

	b.RecordSuccess()
	assert.Equal(t, StateClosed, b.GetState())
	require.NoError(t, b.Allow())
}

func TestBreaker_HalfOpenSlotFreedAfterTrialFailure(t *testing.T) {
	b := NewBreaker(BreakerConfig{FailureThreshold: 1, RecoveryTimeout: 20 * time.Millisecond})

	b.RecordFailure()
	time.Sleep(30 * time.Millisecond)
	require.NoError(t, b.Allow())

	b.RecordFailure()
	assert.Equal(t, StateOpen, b.GetState())

	// The next recovery window admits a fresh trial.
	time.Sleep(30 * time.Millisecond)
	require.NoError(t, b.Allow())
}

func TestBreaker_ExecuteAppliesCallTimeout(t *testing.T) {
	b := NewBreaker(BreakerConfig{FailureThreshold: 3, CallTimeout: 10 * time.Millisecond})

	err := b.Execute(context.Background(), func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
			return nil
		}
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
