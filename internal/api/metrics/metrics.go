// Package metrics defines and registers all custom Prometheus metrics for the
// storefront. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry at package
// initialisation via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// ── Broadcast metrics ─────────────────────────────────────────────────────────

// PushDeliveriesTotal counts delivery attempts by outcome.
// Label:
//   - outcome: "delivered", "permanently_invalid" or "transient_failure"
var PushDeliveriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "push_deliveries_total",
		Help:      "Total number of push delivery attempts, by outcome.",
	},
	[]string{"outcome"},
)

// PushSubscriptionsPrunedTotal counts registry entries removed after the push
// service reported them gone.
var PushSubscriptionsPrunedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "push_subscriptions_pruned_total",
		Help:      "Total number of dead push subscriptions removed from the registry.",
	},
)

// BroadcastQueueDepth tracks the number of intents waiting for a worker.
var BroadcastQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "broadcast_queue_depth",
		Help:      "Current number of broadcast intents pending in the queue.",
	},
)

// BroadcastsDroppedTotal counts intents refused because the queue was full or closed.
var BroadcastsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "broadcasts_dropped_total",
		Help:      "Total number of broadcast intents dropped before fan-out.",
	},
)

// BroadcastDuration measures a whole fan-out, from snapshot to last attempt.
var BroadcastDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "broadcast_duration_seconds",
		Help:      "Duration of a broadcast fan-out across all subscribers.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
	},
)

// ── Catalog metrics ───────────────────────────────────────────────────────────

// CatalogItemsPublishedTotal counts published items.
// Label:
//   - mode: "single" or "batch"
var CatalogItemsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_items_published_total",
		Help:      "Total number of catalog items published, by publish mode.",
	},
	[]string{"mode"},
)
