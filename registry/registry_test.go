package registry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tripswitch/breaker"
	"github.com/tripswitch/breaker/registry"
)

var errBoom = errors.New("boom")

func TestGetOrCreate_ReturnsSameInstanceForSameName(t *testing.T) {
	r := registry.New(zap.NewNop())

	first := r.GetOrCreate("session-api")
	second := r.GetOrCreate("session-api")

	assert.Same(t, first, second)

	other := r.GetOrCreate("credential-vault")
	assert.NotSame(t, first, other)
}

func TestGetOrCreate_AppliesRegistryDefaults(t *testing.T) {
	r := registry.New(zap.NewNop(), breaker.WithFailureThreshold(1))

	c := r.GetOrCreate("session-api")
	c.RecordFailure()

	assert.Equal(t, breaker.Open, c.State(), "expected registry default threshold of 1")
}

func TestGetOrCreate_PerCircuitOptionsOverrideDefaults(t *testing.T) {
	r := registry.New(zap.NewNop(), breaker.WithFailureThreshold(1))

	c := r.GetOrCreate("tolerant", breaker.WithFailureThreshold(3))

	c.RecordFailure()
	c.RecordFailure()
	assert.Equal(t, breaker.Closed, c.State())

	c.RecordFailure()
	assert.Equal(t, breaker.Open, c.State())
}

func TestGet_ReportsExistence(t *testing.T) {
	r := registry.New(zap.NewNop())

	_, ok := r.Get("missing")
	assert.False(t, ok)

	created := r.GetOrCreate("session-api")

	got, ok := r.Get("session-api")
	require.True(t, ok)
	assert.Same(t, created, got)
}

func TestNames_ReturnsSortedNames(t *testing.T) {
	r := registry.New(zap.NewNop())

	r.GetOrCreate("session-api")
	r.GetOrCreate("credential-vault")
	r.GetOrCreate("audit-log")

	assert.Equal(t, []string{"audit-log", "credential-vault", "session-api"}, r.Names())
}

func TestStatus_ReportsEachCircuitIndependently(t *testing.T) {
	r := registry.New(zap.NewNop(), breaker.WithFailureThreshold(1))

	healthy := r.GetOrCreate("session-api")
	broken := r.GetOrCreate("credential-vault")

	require.NoError(t, healthy.Do(context.Background(), func(ctx context.Context) error {
		return nil
	}))
	broken.RecordFailure()

	statuses := r.Status()
	require.Len(t, statuses, 2)

	assert.True(t, statuses["session-api"].Healthy)
	assert.Equal(t, breaker.Open, statuses["credential-vault"].State)
	assert.False(t, statuses["credential-vault"].Healthy)
}

func TestReset_ReportsUnknownNames(t *testing.T) {
	r := registry.New(zap.NewNop(), breaker.WithFailureThreshold(1))

	assert.False(t, r.Reset("missing"))

	c := r.GetOrCreate("session-api")
	c.RecordFailure()
	require.Equal(t, breaker.Open, c.State())

	assert.True(t, r.Reset("session-api"))
	assert.Equal(t, breaker.Closed, c.State())
}

func TestRegistry_DoFlowsThroughNamedCircuit(t *testing.T) {
	r := registry.New(zap.NewNop(), breaker.WithFailureThreshold(1))

	c := r.GetOrCreate("session-api")

	require.ErrorIs(t, c.Do(context.Background(), func(ctx context.Context) error {
		return errBoom
	}), errBoom)

	err := c.Do(context.Background(), func(ctx context.Context) error {
		return nil
	})
	assert.True(t, breaker.IsOpen(err))
}
