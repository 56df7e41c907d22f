// Package metrics defines and registers the custom Prometheus metrics of the
// seismic monitoring API. It is the single source of truth for metric names,
// labels, and help strings.
//
// All metrics register with the default registry through promauto when the
// package is imported; HTTP request metrics come from echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "seismic"

// ── Catalog metrics ───────────────────────────────────────────────────────────

// CatalogFetchesTotal counts live fetches against the external catalog.
// Label:
//   - result: "ok" or "error"
var CatalogFetchesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_fetches_total",
		Help:      "Total number of live catalog fetches, by result.",
	},
	[]string{"result"},
)

// CatalogFetchDuration measures the round trip to the external catalog.
var CatalogFetchDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "catalog_fetch_duration_seconds",
		Help:      "Duration of live catalog fetches, parsing included.",
		Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
	},
)

// CatalogFeaturesSkippedTotal counts catalog features dropped for missing magnitude or coordinates.
var CatalogFeaturesSkippedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_features_skipped_total",
		Help:      "Total number of catalog features skipped as incomplete.",
	},
)

// ── Earthquake metrics ────────────────────────────────────────────────────────

// EarthquakesSavedTotal counts earthquakes persisted through the save endpoint.
var EarthquakesSavedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "earthquakes_saved_total",
		Help:      "Total number of earthquakes persisted.",
	},
)

// EarthquakeDedupTotal counts deduplication decisions on save.
// Label:
//   - result: "cache_hit", "store_hit", "constraint" or "miss"
var EarthquakeDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "earthquake_dedup_total",
		Help:      "Total number of save deduplication checks, labelled by where the duplicate was caught.",
	},
	[]string{"result"},
)

// ── Account metrics ───────────────────────────────────────────────────────────

// UsersRegisteredTotal counts successful registrations.
var UsersRegisteredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of registered users.",
	},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok" or "invalid_credentials"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)
