package breaker

import "time"

// State represents the circuit breaker state.
type State int

const (
	// Closed is the normal operating state. Requests flow through.
	Closed State = iota

	// Open is the tripped state. Requests are rejected immediately.
	Open

	// HalfOpen is the recovery testing state. Probe requests are allowed.
	HalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Status is an immutable snapshot of a circuit. It is a frozen copy taken
// under the circuit's lock and never aliases live breaker state.
//
// LastFailure and LastSuccess are the zero time.Time until the corresponding
// outcome has been recorded at least once; check with IsZero.
type Status struct {
	State                State
	ConsecutiveFailures  int
	ConsecutiveSuccesses int
	LastFailure          time.Time
	LastSuccess          time.Time

	// Healthy is true exactly when State is Closed. Open and half-open
	// circuits both indicate a dependency that has not yet proven itself.
	Healthy bool
}
