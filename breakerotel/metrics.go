// Package breakerotel records circuit breaker activity as OpenTelemetry
// metrics.
//
// Instruments are created once per meter and fed through the hook options of
// the breaker package:
//
//	metrics, err := breakerotel.New(meter)
//	if err != nil { ... }
//	circuit := breaker.New("session-api", metrics.Options()...)
package breakerotel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/tripswitch/breaker"
)

// Instrument names registered on the meter.
const (
	MetricCalls       = "circuit_breaker.calls"
	MetricRejections  = "circuit_breaker.rejections"
	MetricTransitions = "circuit_breaker.transitions"
	MetricState       = "circuit_breaker.state"
)

// Attribute keys attached to the data points.
const (
	AttrCircuit = "circuit"
	AttrOutcome = "outcome"
	AttrFrom    = "from"
	AttrTo      = "to"
)

// Metrics holds the instruments shared by every circuit wired through it.
type Metrics struct {
	calls       metric.Int64Counter
	rejections  metric.Int64Counter
	transitions metric.Int64Counter
	state       metric.Int64Gauge
}

// New creates the circuit breaker instruments on meter.
func New(meter metric.Meter) (*Metrics, error) {
	calls, err := meter.Int64Counter(MetricCalls,
		metric.WithDescription("Calls executed through a circuit breaker, by outcome"))
	if err != nil {
		return nil, err
	}

	rejections, err := meter.Int64Counter(MetricRejections,
		metric.WithDescription("Calls rejected because the circuit was open"))
	if err != nil {
		return nil, err
	}

	transitions, err := meter.Int64Counter(MetricTransitions,
		metric.WithDescription("Circuit state transitions"))
	if err != nil {
		return nil, err
	}

	state, err := meter.Int64Gauge(MetricState,
		metric.WithDescription("Current circuit state (0 closed, 1 open, 2 half-open)"))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		calls:       calls,
		rejections:  rejections,
		transitions: transitions,
		state:       state,
	}, nil
}

// Options returns breaker options that record call outcomes, rejections, and
// state transitions on the instruments.
func (m *Metrics) Options() []breaker.Option {
	return []breaker.Option{
		breaker.OnStateChange(m.stateChange),
		breaker.OnCall(m.call),
		breaker.OnReject(m.reject),
	}
}

func (m *Metrics) stateChange(name string, from, to breaker.State) {
	ctx := context.Background()

	m.transitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrCircuit, name),
		attribute.String(AttrFrom, from.String()),
		attribute.String(AttrTo, to.String()),
	))

	m.state.Record(ctx, int64(to), metric.WithAttributes(
		attribute.String(AttrCircuit, name),
	))
}

func (m *Metrics) call(name string, _ breaker.State, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}

	m.calls.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String(AttrCircuit, name),
		attribute.String(AttrOutcome, outcome),
	))
}

func (m *Metrics) reject(name string) {
	m.rejections.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String(AttrCircuit, name),
	))
}
