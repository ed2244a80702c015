// Package metrics defines and registers all custom Prometheus metrics for the
// CollabSphere API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry via promauto
// at package load time and exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "collabsphere"

// ── Chat metrics ──────────────────────────────────────────────────────────────

// MessagesSentTotal counts messages accepted through sendMessage.
// Label:
//   - origin: "rest" or "realtime", the entry point that carried the message
var MessagesSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_sent_total",
		Help:      "Total number of chat messages persisted and broadcast.",
	},
	[]string{"origin"},
)

// BroadcastsTotal counts hub fan-outs (one per stored message).
var BroadcastsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "broadcasts_total",
		Help:      "Total number of messages fanned out to connected clients.",
	},
)

// BroadcastDropsTotal counts clients dropped because their send buffer was
// full at broadcast time.
var BroadcastDropsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "broadcast_drops_total",
		Help:      "Total number of slow clients dropped during broadcast.",
	},
)

// ConnectionsActive tracks the number of live websocket connections.
var ConnectionsActive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ws_connections_active",
		Help:      "Current number of open websocket connections.",
	},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthFailuresTotal counts rejected tokens.
// Label:
//   - surface: "rest" (middleware) or "realtime" (socket events)
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of requests or events rejected for a missing or invalid token.",
	},
	[]string{"surface"},
)
