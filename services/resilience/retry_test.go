package resilience

import (
	"context"
	"fmt"
	"testing"
	"time"

	db "github.com/BrickVest/BrickVest-Backend/db/sqlc"
	"github.com/BrickVest/BrickVest-Backend/services/monitoring/logging"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeErrorLogger struct {
	entries []db.CreateErrorLogParams
}

func (f *fakeErrorLogger) CreateErrorLog(ctx context.Context, arg db.CreateErrorLogParams) (db.ErrorLog, error) {
	f.entries = append(f.entries, arg)
	return db.ErrorLog{ID: int64(len(f.entries)), Service: arg.Service, Operation: arg.Operation}, nil
}

func testLogger() *logging.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return &logging.Logger{Logger: l}
}

func TestWithRetry_SucceedsFirstAttempt(t *testing.T) {
	sink := &fakeErrorLogger{}
	r := NewRetrier(sink, testLogger(), 3, time.Millisecond)

	calls := 0
	err := r.WithRetry(context.Background(), "ledger", "process", func(ctx context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, sink.entries)
}

func TestWithRetry_RecoversAfterTransientFailure(t *testing.T) {
	sink := &fakeErrorLogger{}
	r := NewRetrier(sink, testLogger(), 3, time.Millisecond)

	calls := 0
	err := r.WithRetry(context.Background(), "chain", "submit", func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return fmt.Errorf("rpc timeout")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Empty(t, sink.entries)
}

func TestWithRetry_ExhaustionRecordsErrorLog(t *testing.T) {
	sink := &fakeErrorLogger{}
	r := NewRetrier(sink, testLogger(), 3, time.Millisecond)

	boom := fmt.Errorf("connection refused")
	calls := 0
	err := r.WithRetry(context.Background(), "chain", "submit", func(ctx context.Context) error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)

	require.Len(t, sink.entries, 1)
	assert.Equal(t, "chain", sink.entries[0].Service)
	assert.Equal(t, "submit", sink.entries[0].Operation)
	assert.Equal(t, "connection refused", sink.entries[0].ErrorMessage)
	assert.Equal(t, db.ErrorLogStatusFailed, sink.entries[0].Status)
}

func TestWithRetry_StopsImmediatelyOnOpenCircuit(t *testing.T) {
	sink := &fakeErrorLogger{}
	r := NewRetrier(sink, testLogger(), 5, time.Millisecond)

	calls := 0
	err := r.WithRetry(context.Background(), "chain", "submit", func(ctx context.Context) error {
		calls++
		return ErrCircuitOpen
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, 1, calls, "open circuit must not be hammered with retries")
	require.Len(t, sink.entries, 1)
}
