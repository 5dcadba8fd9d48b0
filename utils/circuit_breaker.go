package utils

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	ErrOpenState       = errors.New("circuit breaker is open")
	ErrTooManyRequests = errors.New("too many requests when circuit breaker is half open")
)

// BreakerSettings tune when a CircuitBreaker trips and recovers.
type BreakerSettings struct {
	// MinRequests is the number of requests in a window before the
	// failure ratio is considered.
	MinRequests uint32

	FailureRatio float64

	// Interval resets the closed-state counts. Zero never resets.
	Interval time.Duration

	// Timeout is how long the breaker stays open before a trial request.
	Timeout time.Duration

	// HalfOpenMax trial requests are let through while half-open, and
	// that many consecutive successes close the breaker again.
	HalfOpenMax uint32
}

func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MinRequests:  3,
		FailureRatio: 0.6,
		Interval:     5 * time.Minute,
		Timeout:      60 * time.Second,
		HalfOpenMax:  1,
	}
}

type CircuitBreaker struct {
	name     string
	settings BreakerSettings
	now      func() time.Time

	mutex      sync.Mutex
	state      State
	generation uint64
	counts     Counts
	expiry     time.Time
}

type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

type Counts struct {
	Requests             uint32
	TotalSuccesses       uint32
	TotalFailures        uint32
	ConsecutiveSuccesses uint32
	ConsecutiveFailures  uint32
}

func NewCircuitBreaker(name string, settings BreakerSettings) *CircuitBreaker {
	if settings.HalfOpenMax == 0 {
		settings.HalfOpenMax = 1
	}
	cb := &CircuitBreaker{
		name:     name,
		settings: settings,
		now:      time.Now,
	}
	cb.toNewGeneration(cb.now())
	return cb
}

func (cb *CircuitBreaker) Name() string { return cb.name }

func (cb *CircuitBreaker) State() State {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	state, _ := cb.currentState(cb.now())
	return state
}

// Execute runs req unless the breaker is open. A cancelled context is
// returned as is and not counted as a failure.
func (cb *CircuitBreaker) Execute(ctx context.Context, req func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	generation, err := cb.beforeRequest()
	if err != nil {
		return err
	}

	defer func() {
		if e := recover(); e != nil {
			cb.afterRequest(generation, false)
			panic(e)
		}
	}()

	err = req(ctx)
	if err != nil && ctx.Err() != nil {
		cb.releaseRequest(generation)
		return err
	}
	cb.afterRequest(generation, err == nil)
	return err
}

func (cb *CircuitBreaker) beforeRequest() (uint64, error) {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	state, generation := cb.currentState(cb.now())

	if state == StateOpen {
		return generation, ErrOpenState
	} else if state == StateHalfOpen && cb.counts.Requests >= cb.settings.HalfOpenMax {
		return generation, ErrTooManyRequests
	}

	cb.counts.Requests++
	return generation, nil
}

func (cb *CircuitBreaker) afterRequest(before uint64, success bool) {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	now := cb.now()
	state, generation := cb.currentState(now)
	if generation != before {
		return
	}

	if success {
		cb.onSuccess(state, now)
	} else {
		cb.onFailure(state, now)
	}
}

// releaseRequest forgets a request that ended by cancellation.
func (cb *CircuitBreaker) releaseRequest(before uint64) {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	_, generation := cb.currentState(cb.now())
	if generation == before && cb.counts.Requests > 0 {
		cb.counts.Requests--
	}
}

func (cb *CircuitBreaker) onSuccess(state State, now time.Time) {
	cb.counts.TotalSuccesses++
	cb.counts.ConsecutiveSuccesses++
	cb.counts.ConsecutiveFailures = 0

	if state == StateHalfOpen && cb.counts.ConsecutiveSuccesses >= cb.settings.HalfOpenMax {
		cb.setState(StateClosed, now)
	}
}

func (cb *CircuitBreaker) onFailure(state State, now time.Time) {
	cb.counts.TotalFailures++
	cb.counts.ConsecutiveFailures++
	cb.counts.ConsecutiveSuccesses = 0

	switch state {
	case StateClosed:
		if cb.readyToTrip() {
			cb.setState(StateOpen, now)
		}
	case StateHalfOpen:
		cb.setState(StateOpen, now)
	}
}

func (cb *CircuitBreaker) readyToTrip() bool {
	return cb.counts.Requests >= cb.settings.MinRequests &&
		float64(cb.counts.TotalFailures)/float64(cb.counts.Requests) >= cb.settings.FailureRatio
}

func (cb *CircuitBreaker) currentState(now time.Time) (State, uint64) {
	switch cb.state {
	case StateClosed:
		if !cb.expiry.IsZero() && cb.expiry.Before(now) {
			cb.toNewGeneration(now)
		}
	case StateOpen:
		if cb.expiry.Before(now) {
			cb.setState(StateHalfOpen, now)
		}
	}
	return cb.state, cb.generation
}

func (cb *CircuitBreaker) setState(state State, now time.Time) {
	if cb.state == state {
		return
	}
	cb.state = state
	cb.toNewGeneration(now)
}

func (cb *CircuitBreaker) toNewGeneration(now time.Time) {
	cb.generation++
	cb.counts = Counts{}

	var zero time.Time
	switch cb.state {
	case StateClosed:
		if cb.settings.Interval == 0 {
			cb.expiry = zero
		} else {
			cb.expiry = now.Add(cb.settings.Interval)
		}
	case StateOpen:
		cb.expiry = now.Add(cb.settings.Timeout)
	default:
		cb.expiry = zero
	}
}
