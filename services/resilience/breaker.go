package resilience

import (
	"context"
	"fmt"
	"sync"
	"time"
)

var ErrCircuitOpen = fmt.Errorf("circuit breaker is open")

// State represents the circuit breaker state.
type State int

const (
	StateClosed   State = iota // Normal operation
	StateOpen                  // Failing, rejecting requests
	StateHalfOpen              // Testing if the dependency recovered
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// BreakerConfig configures a circuit breaker.
type BreakerConfig struct {
	Name             string
	FailureThreshold int           // failures before opening (default: 5)
	RecoveryTimeout  time.Duration // how long to stay open before half-open (default: 30s)
	CallTimeout      time.Duration // per-call deadline applied by Execute (default: 30s)
	OnStateChange    func(from, to State)
}

// Breaker guards one external dependency. Once FailureThreshold
// consecutive failures are seen it rejects calls with ErrCircuitOpen
// until RecoveryTimeout elapses, then admits one trial call: success
// closes the breaker, failure re-opens it.
type Breaker struct {
	mu            sync.Mutex
	name          string
	state         State
	failureCount  int
	threshold     int
	recovery      time.Duration
	callTimeout   time.Duration
	lastFailureAt time.Time
	trialInFlight bool
	onStateChange func(from, to State)
}

func NewBreaker(cfg BreakerConfig) *Breaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.RecoveryTimeout <= 0 {
		cfg.RecoveryTimeout = 30 * time.Second
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 30 * time.Second
	}
	return &Breaker{
		name:          cfg.Name,
		state:         StateClosed,
		threshold:     cfg.FailureThreshold,
		recovery:      cfg.RecoveryTimeout,
		callTimeout:   cfg.CallTimeout,
		onStateChange: cfg.OnStateChange,
	}
}

// Allow checks if a call should be admitted.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch b.state {
	case StateClosed:
		return nil
	case StateOpen:
		if time.Since(b.lastFailureAt) > b.recovery {
			b.setState(StateHalfOpen)
			b.trialInFlight = true
			return nil
		}
		return ErrCircuitOpen
	case StateHalfOpen:
		// Exactly one trial call probes the dependency at a time.
		if b.trialInFlight {
			return ErrCircuitOpen
		}
		b.trialInFlight = true
		return nil
	}
	return nil
}

// RecordSuccess records a successful call.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failureCount = 0
	b.trialInFlight = false
	if b.state == StateHalfOpen {
		b.setState(StateClosed)
	}
}

// RecordFailure records a failed call.
func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failureCount++
	b.trialInFlight = false
	b.lastFailureAt = time.Now()
	if b.state == StateHalfOpen {
		b.setState(StateOpen)
	} else if b.state == StateClosed && b.failureCount >= b.threshold {
		b.setState(StateOpen)
	}
}

// Execute runs op under the breaker with the configured call timeout.
// The dependency is never invoked while the breaker is open.
func (b *Breaker) Execute(ctx context.Context, op func(ctx context.Context) error) error {
	if err := b.Allow(); err != nil {
		return err
	}

	opCtx, cancel := context.WithTimeout(ctx, b.callTimeout)
	defer cancel()

	if err := op(opCtx); err != nil {
		b.RecordFailure()
		return err
	}
	b.RecordSuccess()
	return nil
}

// GetState returns the current state, honouring the recovery window.
func (b *Breaker) GetState() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateOpen && time.Since(b.lastFailureAt) > b.recovery {
		b.setState(StateHalfOpen)
	}
	return b.state
}

func (b *Breaker) setState(to State) {
	from := b.state
	if from == to {
		return
	}
	b.state = to
	if to == StateClosed {
		b.failureCount = 0
	}
	if b.onStateChange != nil {
		b.onStateChange(from, to)
	}
}
