// Package breakerzap logs circuit breaker lifecycle events to a zap logger.
//
// It is an adapter over the hook options of the breaker package, so the core
// circuit stays free of any logging dependency:
//
//	circuit := breaker.New("session-api", breakerzap.Options(logger)...)
package breakerzap

import (
	"go.uber.org/zap"

	"github.com/tripswitch/breaker"
)

// Options returns breaker options that log state changes and rejected calls.
func Options(logger *zap.Logger) []breaker.Option {
	return []breaker.Option{
		breaker.OnStateChange(StateChange(logger)),
		breaker.OnReject(Reject(logger)),
	}
}

// StateChange returns a hook that logs every transition. Severity follows the
// state being entered: an opening circuit logs at error level, half-open and
// closed at info.
func StateChange(logger *zap.Logger) breaker.OnStateChangeFunc {
	return func(name string, from, to breaker.State) {
		fields := []zap.Field{
			zap.String("circuit", name),
			zap.Stringer("from", from),
			zap.Stringer("to", to),
		}

		switch to {
		case breaker.Open:
			logger.Error("circuit opened, calls will fast-fail", fields...)
		case breaker.HalfOpen:
			logger.Info("circuit half-open, probing recovery", fields...)
		case breaker.Closed:
			logger.Info("circuit closed, dependency healthy", fields...)
		}
	}
}

// Reject returns a hook that logs rejected calls at warn level.
func Reject(logger *zap.Logger) breaker.OnRejectFunc {
	return func(name string) {
		logger.Warn("circuit open, call rejected", zap.String("circuit", name))
	}
}

// Failures returns a hook that logs failed call outcomes at warn level.
// Successful calls are not logged.
func Failures(logger *zap.Logger) breaker.OnCallFunc {
	return func(name string, state breaker.State, err error) {
		if err == nil {
			return
		}
		logger.Warn("protected call failed",
			zap.String("circuit", name),
			zap.Stringer("state", state),
			zap.Error(err),
		)
	}
}
