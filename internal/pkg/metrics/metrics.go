// Package metrics defines and registers all custom Prometheus metrics for the
// payment gateway. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "paygate"

// ── Authentication ────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts credential checks.
// Label:
//   - result: "ok", "not_found", "disabled", "invalid_credentials", "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication attempts, by result.",
	},
	[]string{"result"},
)

// AuthorizationDeniedTotal counts requests rejected by the role gate.
var AuthorizationDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_denied_total",
		Help:      "Total number of operations denied by the role gate.",
	},
	[]string{"operation"},
)

// ── Operations ────────────────────────────────────────────────────────────────

// OperationsTotal counts orchestrated operations.
// Labels:
//   - operation: e.g. "deposit", "get_account"
//   - result: "ok", "denied", "downstream_error", "outcome_unknown",
//     "not_found", "invalid"
var OperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operations_total",
		Help:      "Total number of gateway operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// DownstreamDuration measures account service call latency.
// Labels:
//   - operation: the gateway operation
//   - outcome: "ok" or the downstream failure kind
var DownstreamDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "downstream_duration_seconds",
		Help:      "Duration of account service calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation", "outcome"},
)

// ── Alerts ────────────────────────────────────────────────────────────────────

// AlertsSkippedTotal counts monetary operations that produced no alert.
// Label:
//   - reason: "user_not_found" or "lookup_failed"
var AlertsSkippedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alerts_skipped_total",
		Help:      "Total number of monetary operations for which no alert was built.",
	},
	[]string{"reason"},
)

// AlertsEnqueuedTotal counts alerts accepted by the dispatcher.
var AlertsEnqueuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alerts_enqueued_total",
		Help:      "Total number of alerts accepted for delivery.",
	},
)

// AlertsDroppedTotal counts alerts rejected because a worker queue was full
// or the dispatcher was stopped.
var AlertsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alerts_dropped_total",
		Help:      "Total number of alerts dropped before delivery was attempted.",
	},
)

// AlertsPublishedTotal counts delivery attempts.
// Label:
//   - result: "ok" or "error"
var AlertsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alerts_published_total",
		Help:      "Total number of alert delivery attempts, by result.",
	},
	[]string{"result"},
)

// AlertQueueDepth tracks pending alerts per dispatcher worker.
var AlertQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "alert_queue_depth",
		Help:      "Current number of alerts pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Cache ─────────────────────────────────────────────────────────────────────

// UserCacheTotal counts user cache lookups.
// Label:
//   - result: "hit", "miss" or "error"
var UserCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "user_cache_total",
		Help:      "Total number of user cache lookups, labelled by result.",
	},
	[]string{"result"},
)
