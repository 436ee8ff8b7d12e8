package store

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// metrics counts a single store's write and sync activity. The counters live on
// the Store instance so independent stores never cross-count.
type metrics struct {
	blocksApplied atomic.Uint64
	applyFailures atomic.Uint64
	rowsWritten   atomic.Uint64
	applyTime     atomic.Int64
	syncRequests  atomic.Uint64
}

func (m *metrics) recordApply(rows int, d time.Duration) {
	m.blocksApplied.Add(1)
	m.rowsWritten.Add(uint64(rows))
	m.applyTime.Add(d.Nanoseconds())
}

func (m *metrics) recordApplyFailure() {
	m.applyFailures.Add(1)
}

func (m *metrics) recordSync() {
	m.syncRequests.Add(1)
}

var (
	blocksAppliedDesc = prometheus.NewDesc("vela_store_blocks_applied", "Blocks committed to the store", nil, nil)
	applyFailuresDesc = prometheus.NewDesc("vela_store_apply_failures", "Block applications rolled back", nil, nil)
	rowsWrittenDesc   = prometheus.NewDesc("vela_store_rows_written", "Rows written by block applications", nil, nil)
	applyTimeDesc     = prometheus.NewDesc("vela_store_apply_time_ns", "Total time spent applying blocks (ns)", nil, nil)
	syncRequestsDesc  = prometheus.NewDesc("vela_store_sync_requests", "State sync requests served", nil, nil)
)

// MetricsCollector exposes one store's apply/sync counters to a prometheus
// registry.
type MetricsCollector struct {
	store *Store
}

// Metrics returns a collector over this store's counters.
func (s *Store) Metrics() *MetricsCollector {
	return &MetricsCollector{store: s}
}

func (c *MetricsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- blocksAppliedDesc
	ch <- applyFailuresDesc
	ch <- rowsWrittenDesc
	ch <- applyTimeDesc
	ch <- syncRequestsDesc
}

func (c *MetricsCollector) Collect(ch chan<- prometheus.Metric) {
	m := &c.store.metrics
	ch <- prometheus.MustNewConstMetric(blocksAppliedDesc, prometheus.CounterValue, float64(m.blocksApplied.Load()))
	ch <- prometheus.MustNewConstMetric(applyFailuresDesc, prometheus.CounterValue, float64(m.applyFailures.Load()))
	ch <- prometheus.MustNewConstMetric(rowsWrittenDesc, prometheus.CounterValue, float64(m.rowsWritten.Load()))
	ch <- prometheus.MustNewConstMetric(applyTimeDesc, prometheus.CounterValue, float64(m.applyTime.Load()))
	ch <- prometheus.MustNewConstMetric(syncRequestsDesc, prometheus.CounterValue, float64(m.syncRequests.Load()))
}
