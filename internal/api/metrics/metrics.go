// Package metrics defines and registers all custom Prometheus metrics for
// the carrier gateway. It is the single source of truth for metric names,
// labels, and help strings. Metrics register with the default registry at
// package init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "carrier_gateway"

// ── Carrier call metrics ─────────────────────────────────────────────────────

// CarrierCallsTotal counts outbound carrier calls.
// Labels:
//   - carrier: adapter name (e.g. "UPS", "PeriShip")
//   - action:  gateway operation ("rates", "tracking", "book", "void", "validate")
//   - outcome: "ok", "rejected" (carrier business failure) or "error"
var CarrierCallsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "carrier_calls_total",
		Help:      "Total number of carrier operations, by carrier, action and outcome.",
	},
	[]string{"carrier", "action", "outcome"},
)

// CarrierCallDuration measures the end-to-end duration of one gateway
// operation, including every underlying carrier round trip (a PeriShip rate
// call covers N per-package requests).
var CarrierCallDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "carrier_call_duration_seconds",
		Help:      "Duration of carrier operations from request build to parse completion.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"carrier", "action"},
)

// ── Booking metrics ──────────────────────────────────────────────────────────

// BookingsTotal counts completed confirm+accept bookings.
// Label:
//   - carrier: adapter name
var BookingsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_total",
		Help:      "Total number of shipments booked through the gateway.",
	},
	[]string{"carrier"},
)

// ── Feed poller metrics ──────────────────────────────────────────────────────

// FeedEntriesTotal counts shipped-feed entries returned by feed polls.
// Label:
//   - carrier: adapter name
var FeedEntriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feed_entries_total",
		Help:      "Total number of shipped-feed entries returned by carrier feed polls.",
	},
	[]string{"carrier"},
)

// FeedPollErrorsTotal counts feed polls that failed or were rejected.
// Label:
//   - carrier: adapter name
var FeedPollErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feed_poll_errors_total",
		Help:      "Total number of feed polls that ended in a transport error or carrier rejection.",
	},
	[]string{"carrier"},
)

// FeedDedupTotal counts deduplication decisions on feed entries.
// Label:
//   - result: "hit" (already dispatched, skipped) or "miss" (new entry)
var FeedDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feed_dedup_total",
		Help:      "Total number of feed deduplication checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)
