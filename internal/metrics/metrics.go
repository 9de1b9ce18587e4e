// Package metrics exposes Prometheus collectors for the ledger, the pending
// dues worker and the RPC layer.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Aggregation engine
	RecomputeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duesbook_recompute_total",
			Help: "Total number of period total recomputations",
		},
		[]string{"result"}, // "ok", "error"
	)

	RecomputeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "duesbook_recompute_duration_seconds",
			Help:    "Duration of period total recomputations in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// TxRetries counts transactions replayed after losing an optimistic version check.
	TxRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "duesbook_tx_retries_total",
			Help: "Total number of ledger transactions retried after a version conflict",
		},
	)

	// Pending dues worker
	PendingQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "duesbook_pending_queue_depth",
			Help: "Number of players waiting for a pending dues refresh",
		},
	)

	PendingRefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duesbook_pending_refresh_total",
			Help: "Total number of pending dues refreshes per player",
		},
		[]string{"result"}, // "ok", "retry", "error"
	)

	// RPC layer
	RPCRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duesbook_rpc_requests_total",
			Help: "Total number of RPC requests",
		},
		[]string{"procedure", "code"},
	)

	RPCDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duesbook_rpc_duration_seconds",
			Help:    "RPC latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"procedure"},
	)
)

// RecordRecompute records one RecomputeTotals run.
func RecordRecompute(duration time.Duration, err error) {
	RecomputeDuration.Observe(duration.Seconds())
	RecomputeTotal.WithLabelValues(result(err)).Inc()
}

// RecordRPC records one finished RPC. code is the Connect code string, "ok" on success.
func RecordRPC(procedure, code string, duration time.Duration) {
	RPCRequestsTotal.WithLabelValues(procedure, code).Inc()
	RPCDuration.WithLabelValues(procedure).Observe(duration.Seconds())
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
