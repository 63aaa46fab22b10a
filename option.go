package breaker

import "time"

type config struct {
	failureThreshold int
	successThreshold int
	openTimeout      time.Duration
	condition        Condition
	clock            Clock

	listeners []OnStateChangeFunc
	onCall    OnCallFunc
	onReject  OnRejectFunc
}

// Option configures a Circuit.
type Option func(*config)

// WithFailureThreshold sets consecutive failures before opening the circuit.
// Must be positive. Default is 5.
func WithFailureThreshold(n int) Option {
	return func(c *config) {
		c.failureThreshold = n
	}
}

// WithSuccessThreshold sets consecutive successes in half-open state
// required before closing the circuit. Must be positive. Default is 2.
func WithSuccessThreshold(n int) Option {
	return func(c *config) {
		c.successThreshold = n
	}
}

// WithOpenTimeout sets the minimum time the circuit stays open before a
// recovery probe moves it to half-open. Must be positive. Default is 30
// seconds.
func WithOpenTimeout(d time.Duration) Option {
	return func(c *config) {
		c.openTimeout = d
	}
}

// If sets the condition that determines whether an error counts as a failure.
// By default, any non-nil error is a failure. The condition only affects how
// Do classifies the outcome; the error itself is always returned unchanged.
func If(cond Condition) Option {
	return func(c *config) {
		c.condition = cond
	}
}

// IfNot sets a condition where matching errors are NOT counted as failures.
// This is equivalent to If(Not(cond)).
func IfNot(cond Condition) Option {
	return If(Not(cond))
}

// Not inverts a condition.
func Not(cond Condition) Condition {
	return func(err error) bool {
		return !cond(err)
	}
}

// WithClock sets the clock for time operations. Useful for testing.
func WithClock(clock Clock) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// OnStateChange registers a state change listener at construction time. It
// behaves exactly like Subscribe and may be given more than once.
func OnStateChange(fn OnStateChangeFunc) Option {
	return func(c *config) {
		c.listeners = append(c.listeners, fn)
	}
}

// OnCall sets a hook called after each call attempt.
func OnCall(fn OnCallFunc) Option {
	return func(c *config) {
		c.onCall = fn
	}
}

// OnReject sets a hook called when a call is rejected due to open circuit.
func OnReject(fn OnRejectFunc) Option {
	return func(c *config) {
		c.onReject = fn
	}
}
