package registry

import (
	"context"
	"errors"
	"maps"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrInvalidInterval indicates that the probe interval must be positive.
	ErrInvalidInterval = errors.New("registry: probe interval must be positive")
	// ErrInvalidTimeout indicates that the probe timeout must be positive.
	ErrInvalidTimeout = errors.New("registry: probe timeout must be positive")
)

// Probe checks whether a dependency is reachable. A nil return means healthy.
type Probe func(ctx context.Context) error

// HealthChecker periodically probes the dependencies behind unhealthy
// circuits and resets a circuit once its dependency answers again. Healthy
// circuits are never probed.
type HealthChecker struct {
	registry *Registry
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger

	mu     sync.RWMutex
	probes map[string]Probe

	stop chan struct{}
	wg   sync.WaitGroup
}

// NewHealthChecker creates a health checker over r. interval is how often the
// probe sweep runs; timeout bounds each individual probe.
func NewHealthChecker(r *Registry, interval, timeout time.Duration, logger *zap.Logger) (*HealthChecker, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	if timeout <= 0 {
		return nil, ErrInvalidTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &HealthChecker{
		registry: r,
		interval: interval,
		timeout:  timeout,
		logger:   logger,
		probes:   make(map[string]Probe),
		stop:     make(chan struct{}),
	}, nil
}

// Register adds a probe for the named circuit. Registering the same name
// again replaces the probe.
func (hc *HealthChecker) Register(name string, probe Probe) {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	hc.probes[name] = probe
	hc.logger.Info("registered health probe", zap.String("circuit", name))
}

// Start begins the probe loop in a separate goroutine.
func (hc *HealthChecker) Start() {
	hc.wg.Add(1)

	go hc.loop()

	hc.logger.Info("health checker started", zap.Duration("interval", hc.interval))
}

// Stop ends the probe loop and waits for it to finish. Stop must be called at
// most once.
func (hc *HealthChecker) Stop() {
	close(hc.stop)
	hc.wg.Wait()
	hc.logger.Info("health checker stopped")
}

// CheckNow probes the named dependency immediately, outside the sweep
// schedule. It is a no-op when no probe is registered for name.
func (hc *HealthChecker) CheckNow(name string) {
	hc.mu.RLock()
	probe, ok := hc.probes[name]
	hc.mu.RUnlock()

	if ok {
		hc.check(name, probe)
	}
}

func (hc *HealthChecker) loop() {
	defer hc.wg.Done()

	ticker := time.NewTicker(hc.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			hc.sweep()
		case <-hc.stop:
			return
		}
	}
}

// sweep probes every registered dependency whose circuit is not closed. The
// probe map is snapshotted so registrations during a sweep never race.
func (hc *HealthChecker) sweep() {
	hc.mu.RLock()
	probes := make(map[string]Probe, len(hc.probes))
	maps.Copy(probes, hc.probes)
	hc.mu.RUnlock()

	for name, probe := range probes {
		hc.check(name, probe)
	}
}

func (hc *HealthChecker) check(name string, probe Probe) {
	c, ok := hc.registry.Get(name)
	if !ok || c.Status().Healthy {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), hc.timeout)
	defer cancel()

	if err := probe(ctx); err != nil {
		hc.logger.Debug("dependency still unhealthy",
			zap.String("circuit", name),
			zap.Error(err),
		)

		return
	}

	hc.logger.Info("dependency recovered, resetting circuit", zap.String("circuit", name))
	c.Reset()
}
