// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:3858/metrics

# Available Metrics

Feed:
  - upnext_feed_build_duration_seconds: feed computation time on cache miss (histogram)
  - upnext_feed_items_total: items served (counter), label: category
  - upnext_feed_cache_total: feed cache lookups (counter), label: result
  - upnext_feed_item_degraded_total: items computed without metadata or override (counter)

Metadata:
  - upnext_metadata_requests_total: outbound provider calls (counter), label: result
  - upnext_metadata_cache_total: cache lookups (counter), labels: layer, result

Circuit breaker:
  - upnext_circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge), label: name
  - upnext_circuit_breaker_requests_total: labels: name, result
  - upnext_circuit_breaker_consecutive_failures: label: name
  - upnext_circuit_breaker_transitions_total: labels: name, from, to

API:
  - upnext_api_requests_total: labels: method, path, status
  - upnext_api_request_duration_seconds: labels: method, path
  - upnext_api_active_requests: in-flight requests (gauge)

Events:
  - upnext_events_published_total: label: topic
  - upnext_events_processed_total: labels: topic, result

The path label is the chi route pattern, not the raw URL, so user and show IDs
never become label values.
*/
package metrics
