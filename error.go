package breaker

import (
	"errors"
	"fmt"
)

// ErrOpen is returned when the circuit is open and rejecting requests.
// Rejections surface as *OpenError, which unwraps to ErrOpen so both
// errors.Is and errors.As work.
var ErrOpen = errors.New("circuit open")

// OpenError is the rejection Do returns when the circuit is not accepting
// calls. It carries the status snapshot captured at rejection time so the
// caller can decide what to do next without querying the circuit again.
type OpenError struct {
	Name   string
	Status Status
}

// Error implements the error interface.
func (e *OpenError) Error() string {
	return fmt.Sprintf("circuit %q open after %d consecutive failures", e.Name, e.Status.ConsecutiveFailures)
}

// Unwrap reports the sentinel so errors.Is(err, ErrOpen) matches.
func (e *OpenError) Unwrap() error {
	return ErrOpen
}

// IsOpen reports whether err is because the circuit is open.
func IsOpen(err error) bool {
	return errors.Is(err, ErrOpen)
}
