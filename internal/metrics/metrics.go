// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Feed Metrics
	FeedBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "upnext_feed_build_duration_seconds",
			Help:    "Time spent computing a user's continue-watching items on a cache miss",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
	)

	FeedItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upnext_feed_items_total",
			Help: "Total number of feed items served, by category",
		},
		[]string{"category"},
	)

	FeedCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upnext_feed_cache_total",
			Help: "Feed cache lookups by result",
		},
		[]string{"result"}, // "hit", "miss"
	)

	FeedItemErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "upnext_feed_item_degraded_total",
			Help: "Total number of feed items computed with degraded inputs",
		},
	)

	// Metadata Metrics
	MetadataRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upnext_metadata_requests_total",
			Help: "Outbound metadata provider requests by result",
		},
		[]string{"result"}, // "success", "not_found", "rate_limited", "error"
	)

	MetadataCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upnext_metadata_cache_total",
			Help: "Metadata cache lookups by layer and result",
		},
		[]string{"layer", "result"}, // layer: "memory", "badger"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "upnext_circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upnext_circuit_breaker_requests_total",
			Help: "Requests through a circuit breaker by result",
		},
		[]string{"name", "result"}, // "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "upnext_circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upnext_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upnext_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "path", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upnext_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "upnext_api_active_requests",
			Help: "Number of API requests currently being processed",
		},
	)

	// Event Metrics
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upnext_events_published_total",
			Help: "Change events published, by topic",
		},
		[]string{"topic"},
	)

	EventsProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upnext_events_processed_total",
			Help: "Change events handled by subscribers, by topic and result",
		},
		[]string{"topic", "result"},
	)
)

// RecordFeedBuild records the duration of a feed computation
func RecordFeedBuild(duration time.Duration) {
	FeedBuildDuration.Observe(duration.Seconds())
}

// RecordFeedItems counts served items per category
func RecordFeedItems(byCategory map[string]int) {
	for category, n := range byCategory {
		if n > 0 {
			FeedItemsTotal.WithLabelValues(category).Add(float64(n))
		}
	}
}

// RecordFeedCache records a feed cache lookup
func RecordFeedCache(hit bool) {
	FeedCacheTotal.WithLabelValues(hitLabel(hit)).Inc()
}

// RecordMetadataRequest records the outcome of an outbound metadata request
func RecordMetadataRequest(result string) {
	MetadataRequestsTotal.WithLabelValues(result).Inc()
}

// RecordMetadataCache records a metadata cache lookup on the given layer
func RecordMetadataCache(layer string, hit bool) {
	MetadataCacheTotal.WithLabelValues(layer, hitLabel(hit)).Inc()
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, path, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordEventPublished counts a published change event
func RecordEventPublished(topic string) {
	EventsPublishedTotal.WithLabelValues(topic).Inc()
}

// RecordEventProcessed counts a handled change event
func RecordEventProcessed(topic string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	EventsProcessedTotal.WithLabelValues(topic, result).Inc()
}

func hitLabel(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
