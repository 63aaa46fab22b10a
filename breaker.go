package breaker

import (
	"context"
	"sync"
	"time"
)

// Func is the function signature for protected operations.
type Func func(ctx context.Context) error

// Condition determines whether an error should count as a failure.
type Condition func(error) bool

// OnStateChangeFunc is called when the circuit changes state.
type OnStateChangeFunc func(name string, from, to State)

// OnCallFunc is called after each call attempt.
type OnCallFunc func(name string, state State, err error)

// OnRejectFunc is called when a call is rejected due to open circuit.
type OnRejectFunc func(name string)

// Default values.
const (
	DefaultFailureThreshold = 5
	DefaultSuccessThreshold = 2
	DefaultOpenTimeout      = 30 * time.Second
)

// Circuit is a circuit breaker. Safe for concurrent use.
//
// Each Circuit owns its state and counters privately. Create one per
// protected dependency and hold it where the calls are made; do not share a
// single Circuit across unrelated dependencies.
type Circuit struct {
	name string
	cfg  config

	mu          sync.Mutex
	state       State
	failures    int
	successes   int
	lastFailure time.Time
	lastSuccess time.Time
	openedAt    time.Time
	listeners   []subscription
	nextID      int
}

// subscription pairs a listener with a handle so it can be removed.
type subscription struct {
	id int
	fn OnStateChangeFunc
}

// New creates a Circuit with the given options.
func New(name string, opts ...Option) *Circuit {
	cfg := config{
		failureThreshold: DefaultFailureThreshold,
		successThreshold: DefaultSuccessThreshold,
		openTimeout:      DefaultOpenTimeout,
		condition:        defaultCondition,
		clock:            realClock{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	c := &Circuit{
		name:  name,
		cfg:   cfg,
		state: Closed,
	}
	for _, fn := range cfg.listeners {
		c.Subscribe(fn)
	}

	return c
}

// Do executes fn with circuit breaker protection.
//
// When the circuit is open, Do returns an *OpenError without invoking fn.
// Otherwise fn's error is returned unchanged; the breaker never wraps or
// masks the protected operation's own failure. The outcome is recorded via
// RecordSuccess or RecordFailure according to the configured condition.
func (c *Circuit) Do(ctx context.Context, fn Func) error {
	status, ok := c.permit()
	if !ok {
		if c.cfg.onReject != nil {
			c.cfg.onReject(c.name)
		}
		return &OpenError{Name: c.name, Status: status}
	}

	fnErr := fn(ctx)

	if c.cfg.condition(fnErr) {
		c.RecordFailure()
	} else {
		c.RecordSuccess()
	}

	if c.cfg.onCall != nil {
		c.cfg.onCall(c.name, status.State, fnErr)
	}

	return fnErr
}

// Allow reports whether a call is permitted right now. A circuit that has
// been open for at least the configured open timeout moves to half-open as a
// side effect of this check; recovery probing is entirely pull-based and no
// background timers exist.
func (c *Circuit) Allow() bool {
	_, ok := c.permit()
	return ok
}

// RecordSuccess records a successful outcome: the consecutive success count
// grows, the consecutive failure count drops to zero, and the success
// timestamp is stamped. In half-open, reaching the success threshold closes
// the circuit. In closed, successes are counted for observability only.
func (c *Circuit) RecordSuccess() {
	c.mu.Lock()
	c.successes++
	c.failures = 0
	c.lastSuccess = c.cfg.clock.Now()

	var n *notification
	if c.state == HalfOpen && c.successes >= c.cfg.successThreshold {
		n = c.transition(Closed)
	}
	c.mu.Unlock()

	c.notify(n)
}

// RecordFailure records a failed outcome: the consecutive failure count
// grows, the consecutive success count drops to zero, and the failure
// timestamp is stamped. A single failure while half-open reopens the circuit
// regardless of the failure threshold; in closed, reaching the threshold
// opens it.
func (c *Circuit) RecordFailure() {
	c.mu.Lock()
	c.failures++
	c.successes = 0
	c.lastFailure = c.cfg.clock.Now()

	var n *notification
	switch c.state {
	case HalfOpen:
		n = c.transition(Open)
	case Closed:
		if c.failures >= c.cfg.failureThreshold {
			n = c.transition(Open)
		}
	}
	c.mu.Unlock()

	c.notify(n)
}

// Reset returns the circuit to closed with both counters at zero, from any
// state. Listeners are notified only if the circuit was not already closed.
// The last failure and success timestamps are retained as history.
func (c *Circuit) Reset() {
	c.mu.Lock()
	c.failures = 0
	c.successes = 0
	n := c.transition(Closed)
	c.mu.Unlock()

	c.notify(n)
}

// Subscribe registers fn to be invoked synchronously after every state
// transition, in registration order. The returned function removes exactly
// this registration.
func (c *Circuit) Subscribe(fn OnStateChangeFunc) func() {
	if fn == nil {
		return func() {}
	}

	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.listeners = append(c.listeners, subscription{id: id, fn: fn})
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, sub := range c.listeners {
			if sub.id == id {
				c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
				break
			}
		}
	}
}

// Status returns a snapshot of the circuit. It is a pure read: unlike Allow,
// it never triggers the open to half-open transition.
func (c *Circuit) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status()
}

// State returns the current state without side effects.
func (c *Circuit) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Name returns the circuit name.
func (c *Circuit) Name() string {
	return c.name
}

// Counts returns the current consecutive failure and success counts.
func (c *Circuit) Counts() (failures, successes int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failures, c.successes
}

// permit runs the permission check and returns a status snapshot taken under
// the same lock, so a rejection carries the state that caused it.
func (c *Circuit) permit() (Status, bool) {
	c.mu.Lock()
	var n *notification
	if c.state == Open && c.cfg.clock.Now().Sub(c.openedAt) >= c.cfg.openTimeout {
		n = c.transition(HalfOpen)
	}
	status := c.status()
	ok := c.state != Open
	c.mu.Unlock()

	c.notify(n)

	return status, ok
}

// status must be called with mu held.
func (c *Circuit) status() Status {
	return Status{
		State:                c.state,
		ConsecutiveFailures:  c.failures,
		ConsecutiveSuccesses: c.successes,
		LastFailure:          c.lastFailure,
		LastSuccess:          c.lastSuccess,
		Healthy:              c.state == Closed,
	}
}

// notification carries a state change out of the critical section so
// listeners run without holding the circuit's lock.
type notification struct {
	from, to  State
	listeners []OnStateChangeFunc
}

// transition must be called with mu held. Returns nil when no transition
// occurred. Counters are untouched; only Reset zeroes them.
func (c *Circuit) transition(to State) *notification {
	if c.state == to {
		return nil
	}
	from := c.state
	c.state = to

	if to == Open {
		c.openedAt = c.cfg.clock.Now()
	}

	fns := make([]OnStateChangeFunc, len(c.listeners))
	for i, sub := range c.listeners {
		fns[i] = sub.fn
	}

	return &notification{from: from, to: to, listeners: fns}
}

// notify delivers a state change to a snapshot of the listeners in
// registration order. A panicking listener is recovered and discarded so the
// remaining listeners still run and nothing propagates back into the call
// that caused the transition.
func (c *Circuit) notify(n *notification) {
	if n == nil {
		return
	}
	for _, fn := range n.listeners {
		c.invoke(fn, n.from, n.to)
	}
}

func (c *Circuit) invoke(fn OnStateChangeFunc, from, to State) {
	defer func() {
		_ = recover()
	}()
	fn(c.name, from, to)
}

func defaultCondition(err error) bool {
	return err != nil
}
