// Package breaker implements the circuit breaker pattern for guarding calls
// to unreliable remote dependencies.
//
// breaker stops a failing dependency from being hammered with futile calls by:
//
//   - Tracking Failures: Consecutive errors trip the circuit open
//   - Fast Rejection: Open circuits reject calls immediately with a status snapshot
//   - Gradual Recovery: Half-open state tests whether the dependency recovered
//   - Safe Fan-out: Any number of listeners observe transitions, each isolated
//
// # Quick Start
//
// Create a circuit per dependency and protect calls:
//
//	circuit := breaker.New("credential-vault")
//
//	err := circuit.Do(ctx, func(ctx context.Context) error {
//	    return vault.Fetch(ctx, key)
//	})
//	if breaker.IsOpen(err) {
//	    return handleFallback()
//	}
//
// For functions that return values, use the generic Run helper:
//
//	creds, err := breaker.Run(ctx, circuit, func(ctx context.Context) (*Creds, error) {
//	    return vault.Fetch(ctx, key)
//	})
//
// # Circuit States
//
// The circuit breaker has three states:
//
//	Closed (normal):
//	    - Requests flow through to the protected function
//	    - Consecutive failures are counted; at the threshold the circuit opens
//
//	Open (tripped):
//	    - Requests are rejected immediately with *OpenError
//	    - After the open timeout, the next permission check moves to half-open
//
//	HalfOpen (probing):
//	    - Requests are allowed through
//	    - Consecutive successes at the threshold close the circuit
//	    - A single failure reopens it
//
// The open to half-open transition is lazy: it happens inside Allow (or Do)
// by comparing the clock against the moment the circuit opened. There are no
// timers or background goroutines; a circuit that is never queried stays
// where it is.
//
// # Configuration
//
// Configure thresholds and timing with options:
//
//	circuit := breaker.New("session-api",
//	    breaker.WithFailureThreshold(5),          // open after 5 consecutive failures
//	    breaker.WithSuccessThreshold(2),          // close after 2 consecutive successes
//	    breaker.WithOpenTimeout(30*time.Second),  // dwell open for 30s before probing
//	)
//
// All thresholds and the timeout must be positive; that is a precondition on
// the caller, not a checked contract.
//
// # Status Snapshots
//
// Status returns a frozen copy of the circuit's state, counters, and last
// outcome timestamps. It never mutates the circuit, and the snapshot never
// changes after it is taken:
//
//	st := circuit.Status()
//	if !st.Healthy {
//	    renderDegradedBanner(st.State, st.LastFailure)
//	}
//
// A rejected call carries the same snapshot on its error:
//
//	var openErr *breaker.OpenError
//	if errors.As(err, &openErr) {
//	    log.Printf("rejected while %s", openErr.Status.State)
//	}
//
// # Manual Bookkeeping
//
// Do handles recording for you, but the outcome methods are public for code
// that runs the call itself:
//
//	if circuit.Allow() {
//	    if err := call(); err != nil {
//	        circuit.RecordFailure()
//	    } else {
//	        circuit.RecordSuccess()
//	    }
//	}
//
// # State Change Listeners
//
// Subscribe registers a listener and returns its unsubscribe function:
//
//	cancel := circuit.Subscribe(func(name string, from, to breaker.State) {
//	    ui.SetDegraded(name, to != breaker.Closed)
//	})
//	defer cancel()
//
// Listeners run synchronously after each transition, in registration order,
// over a snapshot of the listener list. A panicking listener is recovered and
// skipped; it never blocks the other listeners or the call that triggered the
// transition.
//
// # Failure Conditions
//
// By default, any non-nil error counts as a failure. Customize this with If:
//
//	circuit := breaker.New("session-api",
//	    breaker.IfNot(func(err error) bool {
//	        return errors.Is(err, ErrNotFound)  // 404s are not outages
//	    }),
//	)
//
// The condition only changes how the outcome is recorded; the original error
// is always returned to the caller unchanged.
//
// # Observability Adapters
//
// The breakerzap and breakerotel subpackages wire circuits to zap logging and
// OpenTelemetry metrics through the hook options:
//
//	circuit := breaker.New("session-api", breakerzap.Options(logger)...)
//
// The registry subpackage tracks one circuit per named dependency and can
// probe unhealthy dependencies in the background.
//
// # Testing
//
// Inject a fake clock to control the open timeout in tests:
//
//	clock := &fakeClock{now: time.Now()}
//	circuit := breaker.New("test",
//	    breaker.WithFailureThreshold(1),
//	    breaker.WithClock(clock),
//	)
package breaker
