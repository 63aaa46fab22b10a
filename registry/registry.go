// Package registry tracks one circuit breaker per named dependency and can
// probe unhealthy dependencies in the background.
//
// A Registry hands out exactly one Circuit per name, so every part of an
// application guarding the same dependency shares the same breaker without a
// package-level singleton. The optional HealthChecker restores circuits whose
// dependency answers again; the circuits themselves stay timer-free.
package registry

import (
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/tripswitch/breaker"
)

// Registry hands out one Circuit per dependency name. Safe for concurrent use.
type Registry struct {
	logger   *zap.Logger
	defaults []breaker.Option

	mu       sync.RWMutex
	circuits map[string]*breaker.Circuit
}

// New creates an empty registry. The defaults are applied to every circuit
// the registry creates, before any per-circuit options.
func New(logger *zap.Logger, defaults ...breaker.Option) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Registry{
		logger:   logger,
		defaults: defaults,
		circuits: make(map[string]*breaker.Circuit),
	}
}

// GetOrCreate returns the circuit for name, creating it on first use with the
// registry defaults followed by opts.
func (r *Registry) GetOrCreate(name string, opts ...breaker.Option) *breaker.Circuit {
	r.mu.RLock()
	c, ok := r.circuits[name]
	r.mu.RUnlock()

	if ok {
		return c
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring the write lock.
	if c, ok = r.circuits[name]; ok {
		return c
	}

	all := make([]breaker.Option, 0, len(r.defaults)+len(opts))
	all = append(all, r.defaults...)
	all = append(all, opts...)

	c = breaker.New(name, all...)
	r.circuits[name] = c

	r.logger.Info("created circuit breaker", zap.String("circuit", name))

	return c
}

// Get returns the circuit for name, if one has been created.
func (r *Registry) Get(name string) (*breaker.Circuit, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.circuits[name]

	return c, ok
}

// Names returns the registered circuit names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.circuits))
	for name := range r.circuits {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}

// Status returns a snapshot of every registered circuit, keyed by name. Each
// value is independent per-circuit status; the registry never folds them into
// a single verdict.
func (r *Registry) Status() map[string]breaker.Status {
	r.mu.RLock()
	circuits := make(map[string]*breaker.Circuit, len(r.circuits))
	for name, c := range r.circuits {
		circuits[name] = c
	}
	r.mu.RUnlock()

	statuses := make(map[string]breaker.Status, len(circuits))
	for name, c := range circuits {
		statuses[name] = c.Status()
	}

	return statuses
}

// Reset returns the named circuit to closed. Reports whether the circuit
// exists.
func (r *Registry) Reset(name string) bool {
	c, ok := r.Get(name)
	if !ok {
		return false
	}

	r.logger.Info("resetting circuit breaker", zap.String("circuit", name))
	c.Reset()

	return true
}
