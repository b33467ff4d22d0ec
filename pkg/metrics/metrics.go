// Package metrics holds the Prometheus collectors of the engagement core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "videohub_view_cache_lookups_total",
			Help: "View cache lookups by namespace and result (hit, miss, error, stale_fill)",
		},
		[]string{"namespace", "result"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "videohub_view_cache_evicted_keys_total",
			Help: "Keys removed from the view cache by namespace",
		},
		[]string{"namespace"},
	)

	Toggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "videohub_toggles_total",
			Help: "Relation toggles by kind and resulting state",
		},
		[]string{"kind", "state"},
	)

	ToggleRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "videohub_toggle_retries_total",
			Help: "Toggle attempts repeated after losing a race",
		},
		[]string{"kind"},
	)

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "videohub_events_published_total",
			Help: "Engagement events handed to the broker by type and outcome",
		},
		[]string{"type", "outcome"},
	)
)

func RecordCacheLookup(namespace, result string) {
	CacheLookups.WithLabelValues(namespace, result).Inc()
}

func RecordEviction(namespace string, n int64) {
	if n > 0 {
		CacheEvictions.WithLabelValues(namespace).Add(float64(n))
	}
}

func RecordToggle(kind, state string) {
	Toggles.WithLabelValues(kind, state).Inc()
}

var EventsConsumed = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "videohub_events_consumed_total",
		Help: "Engagement events taken off the queue by type and outcome",
	},
	[]string{"type", "outcome"},
)

func RecordConsumed(eventType, outcome string) {
	EventsConsumed.WithLabelValues(eventType, outcome).Inc()
}
