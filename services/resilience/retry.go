package resilience

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	db "github.com/BrickVest/BrickVest-Backend/db/sqlc"
	"github.com/BrickVest/BrickVest-Backend/services/monitoring/logging"
	"github.com/sqlc-dev/pqtype"
)

// ErrorLogger persists failed operations for operator review.
type ErrorLogger interface {
	CreateErrorLog(ctx context.Context, arg db.CreateErrorLogParams) (db.ErrorLog, error)
}

// Retrier runs failable operations with exponential backoff and records
// a durable error_logs entry when all attempts are exhausted.
type Retrier struct {
	store       ErrorLogger
	logger      *logging.Logger
	maxAttempts int
	baseDelay   time.Duration
}

func NewRetrier(store ErrorLogger, logger *logging.Logger, maxAttempts int, baseDelay time.Duration) *Retrier {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	if baseDelay <= 0 {
		baseDelay = 200 * time.Millisecond
	}
	return &Retrier{
		store:       store,
		logger:      logger,
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
	}
}

// WithRetry retries op up to maxAttempts times, sleeping
// 2^(attempt-1) * baseDelay between attempts. The final error is
// written to error_logs and returned.
func (r *Retrier) WithRetry(ctx context.Context, service, operation string, op func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}

		// The breaker already decided the dependency is down; more
		// attempts cannot succeed inside the recovery window.
		if lastErr == ErrCircuitOpen {
			break
		}

		r.logger.Warn(fmt.Sprintf("%s.%s attempt %d/%d failed: %v", service, operation, attempt, r.maxAttempts, lastErr))

		if attempt == r.maxAttempts {
			break
		}

		delay := r.baseDelay * (1 << (attempt - 1))
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			r.recordFailure(ctx, service, operation, ctx.Err())
			return ctx.Err()
		}
	}

	r.recordFailure(ctx, service, operation, lastErr)
	return lastErr
}

func (r *Retrier) recordFailure(ctx context.Context, service, operation string, opErr error) {
	logCtx, _ := json.Marshal(map[string]string{
		"service":   service,
		"operation": operation,
	})

	_, err := r.store.CreateErrorLog(ctx, db.CreateErrorLogParams{
		Service:      service,
		Operation:    operation,
		ErrorMessage: opErr.Error(),
		Context:      pqtype.NullRawMessage{RawMessage: logCtx, Valid: true},
		RetryCount:   int32(r.maxAttempts),
		MaxRetries:   int32(r.maxAttempts),
		Status:       db.ErrorLogStatusFailed,
	})
	if err != nil {
		// Never mask the original failure with a bookkeeping one.
		r.logger.Error(fmt.Sprintf("failed to record error log for %s.%s: %v", service, operation, err))
	}
}
