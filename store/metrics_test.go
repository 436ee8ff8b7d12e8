package store_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCollector(t *testing.T) {
	s := newTestStore(t)
	registry := prometheus.NewRegistry()
	require.NoError(t, registry.Register(s.Metrics()))

	assert.Equal(t, 0.0, gatherCounter(t, registry, "vela_store_blocks_applied"))

	applyBlock(t, s, nil, nil, nil)
	assert.Equal(t, 1.0, gatherCounter(t, registry, "vela_store_blocks_applied"))

	_, err := s.SyncState(0, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, gatherCounter(t, registry, "vela_store_sync_requests"))
}

func TestMetricsArePerStore(t *testing.T) {
	busy := newTestStore(t)
	idle := newTestStore(t)
	applyBlock(t, busy, nil, nil, nil)

	registry := prometheus.NewRegistry()
	require.NoError(t, registry.Register(idle.Metrics()))
	assert.Equal(t, 0.0, gatherCounter(t, registry, "vela_store_blocks_applied"))
}

func gatherCounter(t *testing.T, registry *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := registry.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() == name {
			require.Len(t, family.GetMetric(), 1)
			return family.GetMetric()[0].GetCounter().GetValue()
		}
	}
	t.Fatalf("metric %s not gathered", name)
	return 0
}
